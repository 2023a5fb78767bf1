package scene

const (
	// Returned by intersection queries when the ray misses the primitive.
	NoHit float32 = -1

	// Intersections closer than this distance are ignored by the scene
	// query so that rays spawned on a surface do not hit it again.
	HitEpsilon float32 = 1e-4

	// Bounce rays start this far from the surface along the oriented normal.
	RayOffset float32 = 1e-3

	// Rays whose direction is closer than this to the triangle plane are
	// treated as parallel.
	parallelEpsilon float32 = 1e-6

	// Relative padding applied by the bbox slab test.
	bboxPadding float32 = 1e-5
)
