//go:build opencl

package opencl

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
)

func TestPackedObjectSize(t *testing.T) {
	// 7 float4 fields; must match sizeof(Object) in CL/pathtrace.cl
	expSize := uintptr(112)
	if got := unsafe.Sizeof(packedObject{}); got != expSize {
		t.Fatalf("expected packed object size to be %d; got %d", expSize, got)
	}
}

func TestPackScene(t *testing.T) {
	tri := scene.NewTriangle(types.XYZ(0, 0, 0), types.XYZ(0, 1, 0), types.XYZ(1, 0, 0))
	objects := []scene.Object{
		scene.NewObject(scene.SphereShape(scene.NewSphere(types.XYZ(1, 2, 3), 4)), scene.Emission(1, 2, 3)),
		scene.NewObject(scene.TriangleShape(tri), scene.Reflection(0.5, 0.25, 0.125)),
		{},
	}

	packed, err := packScene(scene.New(objects))
	if err != nil {
		t.Fatal(err)
	}
	if len(packed) != len(objects) {
		t.Fatalf("expected %d packed objects; got %d", len(objects), len(packed))
	}

	sphere := packed[0]
	if sphere.Properties != types.XYZW(packedSphere, 4, 1, 0) {
		t.Fatalf("expected sphere properties (1, 4, 1, 0); got %v", sphere.Properties)
	}
	if sphere.V0 != types.XYZW(1, 2, 3, 1) {
		t.Fatalf("expected sphere center (1, 2, 3, 1); got %v", sphere.V0)
	}
	if sphere.Emission != types.XYZW(1, 2, 3, 0) {
		t.Fatalf("expected sphere emission (1, 2, 3, 0); got %v", sphere.Emission)
	}

	triangle := packed[1]
	if triangle.Properties != types.XYZW(packedTriangle, 0, 0, 0) {
		t.Fatalf("expected triangle properties (2, 0, 0, 0); got %v", triangle.Properties)
	}
	verts := tri.Vertices()
	for i, v := range []types.Vec4{triangle.V0, triangle.V1, triangle.V2} {
		if v != verts[i].Vec4(1) {
			t.Fatalf("expected vertex %d to be %v; got %v", i, verts[i].Vec4(1), v)
		}
	}
	if triangle.Normal != types.XYZW(0, 0, 1, 0) {
		t.Fatalf("expected triangle normal (0, 0, 1, 0); got %v", triangle.Normal)
	}
	if triangle.Reflection != types.XYZW(0.5, 0.25, 0.125, 0) {
		t.Fatalf("expected triangle reflection (0.5, 0.25, 0.125, 0); got %v", triangle.Reflection)
	}

	if packed[2].Properties[0] != packedNone {
		t.Fatalf("expected empty shape to be packed with type %v; got %v", packedNone, packed[2].Properties[0])
	}
}

func TestEmissiveFlag(t *testing.T) {
	objects := []scene.Object{
		scene.NewObject(scene.SphereShape(scene.NewSphere(types.XYZ(0, 0, 0), 1)), scene.Optical{Emission: types.XYZ(0, 0, 0.5), Reflection: types.Splat(0.5)}),
		scene.NewObject(scene.SphereShape(scene.NewSphere(types.XYZ(0, 0, 0), 1)), scene.Reflection(0.5, 0.5, 0.5)),
	}

	packed, err := packScene(scene.New(objects))
	if err != nil {
		t.Fatal(err)
	}
	if packed[0].Properties[2] != 1 {
		t.Fatalf("expected emissive flag to be set for an emitting object; got %v", packed[0].Properties[2])
	}
	if packed[1].Properties[2] != 0 {
		t.Fatalf("expected emissive flag to be clear for a non-emitting object; got %v", packed[1].Properties[2])
	}

	// The kernel only accumulates emission for flagged objects.
	if !strings.Contains(pathTraceSource, "if (obj->properties.z != 0.0f)") {
		t.Fatal("expected the trace kernel to test the emissive flag before accumulating emission")
	}
}

func TestPackEmptyScene(t *testing.T) {
	packed, err := packScene(scene.New(nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(packed) != 0 {
		t.Fatalf("expected no packed objects; got %d", len(packed))
	}
}

func TestTraceKernelArgs(t *testing.T) {
	rs := scene.DemoSettings()
	rs.Width, rs.Height = 4, 2
	cam, err := scene.NewCamera(rs)
	if err != nil {
		t.Fatal(err)
	}

	tr := &clTracer{numObjects: 3}
	args := traceKernelArgs(tr, cam, integratorOpts(false), 1, 8, 0x0000000200000001)
	if len(args) != 19 {
		t.Fatalf("expected 19 kernel args; got %d", len(args))
	}

	type spec struct {
		index int
		exp   interface{}
	}
	specs := []spec{
		{1, uint32(3)},
		{3, cam.Eye.Vec4(1)},
		{9, uint32(4)},
		{10, uint32(2)},
		{11, uint32(1)},
		{12, uint32(8)},
		{13, uint32(1)},
		{14, uint32(2)},
		{18, uint32(0)},
	}
	for _, s := range specs {
		if args[s.index] != s.exp {
			t.Fatalf("[arg %d] expected %v; got %v", s.index, s.exp, args[s.index])
		}
	}
}
