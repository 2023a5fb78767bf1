package scene

import (
	"fmt"

	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
)

type ShapeType uint8

// The supported shape variants. The zero value is NoneType.
const (
	NoneType ShapeType = iota
	SphereType
	TriangleType
)

func (st ShapeType) String() string {
	switch st {
	case NoneType:
		return "none"
	case SphereType:
		return "sphere"
	case TriangleType:
		return "triangle"
	}
	return fmt.Sprintf("ShapeType(%d)", uint8(st))
}

// Shape is a closed tagged variant over the supported primitives. The active
// payload is selected by the shape type; the zero Shape has NoneType and
// never intersects anything.
type Shape struct {
	kind     ShapeType
	sphere   Sphere
	triangle Triangle
}

// Wrap a sphere in a shape.
func SphereShape(s Sphere) Shape {
	return Shape{kind: SphereType, sphere: s}
}

// Wrap a triangle in a shape.
func TriangleShape(t Triangle) Shape {
	return Shape{kind: TriangleType, triangle: t}
}

// Get the active variant.
func (s Shape) Type() ShapeType {
	return s.kind
}

// Get the sphere payload. The second value is false for other variants.
func (s Shape) Sphere() (Sphere, bool) {
	return s.sphere, s.kind == SphereType
}

// Get the triangle payload. The second value is false for other variants.
func (s Shape) Triangle() (Triangle, bool) {
	return s.triangle, s.kind == TriangleType
}

// Get the distance to the first intersection with the active variant.
func (s Shape) FirstIntersection(r Ray) float32 {
	switch s.kind {
	case SphereType:
		return s.sphere.FirstIntersection(r)
	case TriangleType:
		return s.triangle.FirstIntersection(r)
	default:
		return NoHit
	}
}

// Get the surface normal of the active variant at p.
func (s Shape) Normal(p types.Vec3) types.Vec3 {
	switch s.kind {
	case SphereType:
		return s.sphere.Normal(p)
	case TriangleType:
		return s.triangle.Normal(p)
	default:
		return types.XYZ(1, 0, 0)
	}
}

// Get the bounding box of the active variant. The NoneType variant returns
// an empty box.
func (s Shape) BBox() BBox {
	switch s.kind {
	case SphereType:
		return s.sphere.BBox()
	case TriangleType:
		return s.triangle.BBox()
	default:
		return EmptyBBox()
	}
}
