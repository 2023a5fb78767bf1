package scene

import (
	"fmt"

	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

// An axis-aligned bounding box.
type BBox struct {
	Min types.Vec3
	Max types.Vec3
}

// Create an empty bbox that acts as the identity element for Union.
func EmptyBBox() BBox {
	return BBox{
		Min: types.Splat(math32.Inf(1)),
		Max: types.Splat(math32.Inf(-1)),
	}
}

// Returns true if the box does not enclose any point.
func (b BBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the smallest box enclosing both boxes.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		Min: types.MinVec3(b.Min, other.Min),
		Max: types.MaxVec3(b.Max, other.Max),
	}
}

// Grow the box so that it encloses point p.
func (b BBox) Extend(p types.Vec3) BBox {
	return BBox{
		Min: types.MinVec3(b.Min, p),
		Max: types.MaxVec3(b.Max, p),
	}
}

// Returns true if p lies inside or on the box.
func (b BBox) Contains(p types.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Slab test. Returns true if the ray meets the box somewhere in [0, tMax].
// The test is conservative: the slabs are padded so that surfaces lying on
// the box faces are never culled.
func (b BBox) Hit(r Ray, tMax float32) bool {
	if b.IsEmpty() {
		return false
	}

	tNear, tFar := float32(0), tMax
	for i := 0; i < 3; i++ {
		pad := bboxPadding * (1 + math32.Abs(b.Min[i]) + math32.Abs(b.Max[i]))
		lo, hi := b.Min[i]-pad, b.Max[i]+pad

		if r.Dir[i] == 0 {
			if r.Start[i] < lo || r.Start[i] > hi {
				return false
			}
			continue
		}

		invD := 1.0 / r.Dir[i]
		t0 := (lo - r.Start[i]) * invD
		t1 := (hi - r.Start[i]) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return false
		}
	}
	return true
}

func (b BBox) String() string {
	return fmt.Sprintf("[(%3.3f, %3.3f, %3.3f) - (%3.3f, %3.3f, %3.3f)]",
		b.Min[0], b.Min[1], b.Min[2],
		b.Max[0], b.Max[1], b.Max[2],
	)
}
