//go:build opencl

package opencl

import (
	"fmt"
	"math"

	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
)

// Object type tags stored in packedObject.Properties[0]. They must match the
// defines in CL/pathtrace.cl.
const (
	packedNone     float32 = 0
	packedSphere   float32 = 1
	packedTriangle float32 = 2
)

// Packed scene object (112 bytes). This is a dual-use structure where the
// vertex fields serve as c-like unions whose contents depend on the object
// type.
type packedObject struct {
	// Object properties
	// x: object type
	// y: sphere radius
	// z: 1.0 if the object emits light
	Properties types.Vec4

	// If sphere, V0 is its center. If triangle, V0-V2 are its vertices.
	V0 types.Vec4
	V1 types.Vec4
	V2 types.Vec4

	// Precalculated triangle face normal.
	Normal types.Vec4

	// Diffuse reflectance and emitted radiance.
	Reflection types.Vec4
	Emission   types.Vec4
}

// Pack scene objects in object-list order so that device-side tie-breaking
// matches the host scene query.
func packScene(sc *scene.Scene) ([]packedObject, error) {
	if len(sc.Objects) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d objects", ErrSceneTooLarge, len(sc.Objects))
	}

	objList := make([]packedObject, len(sc.Objects))
	for idx, obj := range sc.Objects {
		packed := packedObject{
			Reflection: obj.Optical.Reflection.Vec4(0),
			Emission:   obj.Optical.Emission.Vec4(0),
		}
		if obj.Optical.IsEmissive() {
			packed.Properties[2] = 1
		}

		switch obj.Shape.Type() {
		case scene.SphereType:
			sphere, _ := obj.Shape.Sphere()
			packed.Properties[0] = packedSphere
			packed.Properties[1] = sphere.Radius
			packed.V0 = sphere.Center.Vec4(1)
		case scene.TriangleType:
			tri, _ := obj.Shape.Triangle()
			verts := tri.Vertices()
			packed.Properties[0] = packedTriangle
			packed.V0 = verts[0].Vec4(1)
			packed.V1 = verts[1].Vec4(1)
			packed.V2 = verts[2].Vec4(1)
			packed.Normal = tri.Normal(verts[0]).Vec4(0)
		default:
			packed.Properties[0] = packedNone
		}

		objList[idx] = packed
	}

	return objList, nil
}
