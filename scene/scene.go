package scene

import (
	"bytes"
	"fmt"

	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

// The result of a scene intersection query.
type Hit struct {
	// Distance along the ray.
	Distance float32

	// Index of the hit object in the scene object list and a pointer to it.
	ObjectIndex int
	Object      *Object

	// World-space hit point.
	Point types.Vec3

	// Geometric normal oriented against the incoming ray direction.
	Normal types.Vec3
}

// A read-only view over an ordered object list. The scene borrows the object
// slice; callers must not modify it while the scene is in use.
type Scene struct {
	Objects []Object

	// Per-object bounds, used to skip objects that cannot beat the
	// current closest hit.
	bounds []BBox
}

// Create a scene over the given object list.
func New(objects []Object) *Scene {
	sc := &Scene{
		Objects: objects,
		bounds:  make([]BBox, len(objects)),
	}
	for i := range objects {
		sc.bounds[i] = objects[i].Shape.BBox()
	}
	return sc
}

// Find the closest object hit by the ray. Distances that are not greater
// than HitEpsilon are ignored. On ties the object appearing first in the
// object list wins.
func (sc *Scene) Intersect(r Ray) (Hit, bool) {
	best := float32(math32.MaxFloat32)
	bestIndex := -1
	for i := range sc.Objects {
		if !sc.bounds[i].Hit(r, best) {
			continue
		}
		d := sc.Objects[i].Shape.FirstIntersection(r)
		if d > HitEpsilon && d < best {
			best = d
			bestIndex = i
		}
	}

	if bestIndex < 0 {
		return Hit{}, false
	}

	obj := &sc.Objects[bestIndex]
	point := r.AtDistance(best)
	normal := obj.Shape.Normal(point)
	if normal.Dot(r.Dir) > 0 {
		normal = normal.Mul(-1)
	}

	return Hit{
		Distance:    best,
		ObjectIndex: bestIndex,
		Object:      obj,
		Point:       point,
		Normal:      normal,
	}, true
}

// Get the bounding box of all scene objects.
func (sc *Scene) Bounds() BBox {
	box := EmptyBBox()
	for _, b := range sc.bounds {
		box = box.Union(b)
	}
	return box
}

// Scene statistics.
type Stats struct {
	Objects   int
	Spheres   int
	Triangles int
	Emitters  int
	Bounds    BBox
}

// Collect scene statistics.
func (sc *Scene) Stats() Stats {
	st := Stats{
		Objects: len(sc.Objects),
		Bounds:  sc.Bounds(),
	}
	for _, obj := range sc.Objects {
		switch obj.Shape.Type() {
		case SphereType:
			st.Spheres++
		case TriangleType:
			st.Triangles++
		}
		if obj.Optical.IsEmissive() {
			st.Emitters++
		}
	}
	return st
}

func (st Stats) String() string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Objects:   %d\n", st.Objects))
	buf.WriteString(fmt.Sprintf("Spheres:   %d\n", st.Spheres))
	buf.WriteString(fmt.Sprintf("Triangles: %d\n", st.Triangles))
	buf.WriteString(fmt.Sprintf("Emitters:  %d\n", st.Emitters))
	if st.Objects > 0 {
		buf.WriteString(fmt.Sprintf("Bounds:    %s\n", st.Bounds))
	}
	return buf.String()
}
