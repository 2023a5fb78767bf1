package scene

import (
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

// A flat-shaded triangle. The face normal is computed once by NewTriangle
// and never changes.
type Triangle struct {
	a, b, c types.Vec3
	normal  types.Vec3
}

// Create a new triangle. The normal is normalize((a-b) x (a-c)); collinear
// vertices produce a zero normal and a triangle that is never hit.
func NewTriangle(a, b, c types.Vec3) Triangle {
	return Triangle{
		a:      a,
		b:      b,
		c:      c,
		normal: a.Sub(b).Cross(a.Sub(c)).Normalize(),
	}
}

// Get the triangle vertices.
func (t Triangle) Vertices() [3]types.Vec3 {
	return [3]types.Vec3{t.a, t.b, t.c}
}

// Returns true if the triangle vertices are collinear.
func (t Triangle) IsDegenerate() bool {
	return t.normal.IsZero()
}

// Get the distance along the ray to the triangle plane. Returns NoHit if the
// ray is parallel to the plane or if it meets the plane in front of its
// origin but outside the triangle. Non-positive distances are returned as-is
// and must be discarded by the caller.
func (t Triangle) FirstIntersection(r Ray) float32 {
	distH := t.normal.Dot(t.a.Sub(r.Start))
	rate := t.normal.Dot(r.Dir)
	if math32.Abs(rate) < parallelEpsilon {
		return NoHit
	}

	dist := distH / rate
	if dist <= 0 {
		return dist
	}

	hit := r.AtDistance(dist)
	c1 := t.b.Sub(t.a).Cross(hit.Sub(t.a))
	c2 := t.c.Sub(t.b).Cross(hit.Sub(t.b))
	c3 := t.a.Sub(t.c).Cross(hit.Sub(t.c))
	if c1.Dot(c2) > 0 && c2.Dot(c3) > 0 {
		return dist
	}
	return NoHit
}

// Get the face normal. The query point is ignored.
func (t Triangle) Normal(_ types.Vec3) types.Vec3 {
	return t.normal
}

// Get the triangle bounding box.
func (t Triangle) BBox() BBox {
	return BBox{
		Min: types.MinVec3(t.a, types.MinVec3(t.b, t.c)),
		Max: types.MaxVec3(t.a, types.MaxVec3(t.b, t.c)),
	}
}
