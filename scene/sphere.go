package scene

import (
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

type Sphere struct {
	Center types.Vec3
	Radius float32
}

// Create a new sphere.
func NewSphere(center types.Vec3, radius float32) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// Get the distance to the first intersection of the ray with the sphere
// surface. If the ray starts inside the sphere the exit distance is returned.
// Returns NoHit if the ray misses the sphere or the sphere lies entirely
// behind the ray origin.
func (s Sphere) FirstIntersection(r Ray) float32 {
	// Project the center onto the ray line
	h := r.Start.Add(r.Dir.Mul(r.Dir.Dot(s.Center.Sub(r.Start))))
	sqrD := h.Sub(s.Center).SqLen()
	sqrR := s.Radius * s.Radius
	if sqrD > sqrR {
		return NoHit
	}

	// Half chord length and signed distance from the origin to h
	l := math32.Sqrt(sqrR - sqrD)
	oh := r.Dir.Dot(h.Sub(r.Start))

	if oh+l < 0 {
		return NoHit
	}
	if oh-l > 0 {
		return oh - l
	}
	return oh + l
}

// Get the surface normal at p.
func (s Sphere) Normal(p types.Vec3) types.Vec3 {
	return p.Sub(s.Center).Normalize()
}

// Get the sphere bounding box.
func (s Sphere) BBox() BBox {
	diag := types.Splat(s.Radius)
	return BBox{
		Min: s.Center.Sub(diag),
		Max: s.Center.Add(diag),
	}
}
