package scene

import "github.com/NogikuchiKBYS/CUDAPathTracer/types"

// A ray with an origin and a unit-length direction.
type Ray struct {
	Start types.Vec3
	Dir   types.Vec3
}

// Create a ray starting at from and pointing towards to.
func RayFromTo(from, to types.Vec3) Ray {
	return Ray{
		Start: from,
		Dir:   to.Sub(from).Normalize(),
	}
}

// Get the point at distance d along the ray.
func (r Ray) AtDistance(d float32) types.Vec3 {
	return r.Start.Add(r.Dir.Mul(d))
}
