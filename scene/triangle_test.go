package scene

import (
	"math/rand/v2"
	"testing"

	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

func TestTriangleNormal(t *testing.T) {
	tri := NewTriangle(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0))
	// (a-b) x (a-c) = (-1,0,0) x (0,-1,0) = (0,0,1)
	exp := types.XYZ(0, 0, 1)

	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 100; i++ {
		if n := tri.Normal(randomVec(rng, 100)); n != exp {
			t.Fatalf("expected constant normal %v; got %v", exp, n)
		}
	}
}

func TestTriangleIntersection(t *testing.T) {
	tri := NewTriangle(types.XYZ(-1, -1, 0), types.XYZ(1, -1, 0), types.XYZ(0, 1, 0))

	type spec struct {
		name string
		ray  Ray
		exp  float32
	}
	specs := []spec{
		{"front hit", Ray{types.XYZ(0, 0, 5), types.XYZ(0, 0, -1)}, 5},
		{"back hit", Ray{types.XYZ(0, 0, -2), types.XYZ(0, 0, 1)}, 2},
		{"outside", Ray{types.XYZ(5, 5, 5), types.XYZ(0, 0, -1)}, NoHit},
		{"parallel", Ray{types.XYZ(0, 0, 5), types.XYZ(1, 0, 0)}, NoHit},
		{"behind the ray", Ray{types.XYZ(0, 0, 5), types.XYZ(0, 0, 1)}, -5},
	}

	for _, s := range specs {
		if d := tri.FirstIntersection(s.ray); math32.Abs(d-s.exp) > 1e-5 {
			t.Fatalf("[%s] expected distance %f; got %f", s.name, s.exp, d)
		}
	}
}

func TestDegenerateTriangle(t *testing.T) {
	tri := NewTriangle(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1), types.XYZ(2, 2, 2))
	if !tri.IsDegenerate() {
		t.Fatal("expected collinear triangle to be degenerate")
	}

	ray := RayFromTo(types.XYZ(1, 1, 5), types.XYZ(1, 1, 1))
	if d := tri.FirstIntersection(ray); d > 0 {
		t.Fatalf("expected degenerate triangle to never be hit; got distance %f", d)
	}
}

func TestTriangleBBox(t *testing.T) {
	tri := NewTriangle(types.XYZ(-1, 2, 0), types.XYZ(3, -1, 1), types.XYZ(0, 0, -2))
	box := tri.BBox()
	if box.Min != types.XYZ(-1, -1, -2) || box.Max != types.XYZ(3, 2, 1) {
		t.Fatalf("unexpected triangle bbox %s", box)
	}
}
