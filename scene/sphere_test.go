package scene

import (
	"math/rand/v2"
	"testing"

	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

func TestSphereIntersectionTowardsCenter(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		center := randomVec(rng, 50)
		radius := 0.5 + 10*rng.Float32()
		dir := randomUnitVec(rng)
		origin := center.Add(dir.Mul(radius * (1.5 + 10*rng.Float32())))

		s := NewSphere(center, radius)
		ray := RayFromTo(origin, center)

		exp := origin.Sub(center).Len() - radius
		got := s.FirstIntersection(ray)
		if math32.Abs(got-exp) > 1e-3*(1+exp) {
			t.Fatalf("[case %d] expected intersection distance %f; got %f", i, exp, got)
		}
	}
}

func TestSphereIntersectionEdgeCases(t *testing.T) {
	s := NewSphere(types.XYZ(0, 0, 0), 1)

	type spec struct {
		name string
		ray  Ray
		exp  float32
	}
	specs := []spec{
		{"miss", Ray{types.XYZ(0, 5, 5), types.XYZ(0, 0, -1)}, NoHit},
		{"behind", Ray{types.XYZ(0, 0, 5), types.XYZ(0, 0, 1)}, NoHit},
		{"inside", Ray{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)}, 1},
		{"inside off-center", Ray{types.XYZ(0, 0, 0.5), types.XYZ(0, 0, -1)}, 1.5},
		{"front", Ray{types.XYZ(0, 0, 3), types.XYZ(0, 0, -1)}, 2},
	}

	for _, sp := range specs {
		if d := s.FirstIntersection(sp.ray); math32.Abs(d-sp.exp) > 1e-5 {
			t.Fatalf("[%s] expected distance %f; got %f", sp.name, sp.exp, d)
		}
	}
}

func TestSphereNormalIsUnit(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		s := NewSphere(randomVec(rng, 100), 0.1+20*rng.Float32())
		p := s.Center.Add(randomUnitVec(rng).Mul(s.Radius))

		n := s.Normal(p)
		if math32.Abs(n.Len()-1) > 1e-5 {
			t.Fatalf("[case %d] expected unit normal; got length %f", i, n.Len())
		}
	}
}

func TestSphereBBox(t *testing.T) {
	box := NewSphere(types.XYZ(1, 2, 3), 2).BBox()
	if box.Min != types.XYZ(-1, 0, 1) || box.Max != types.XYZ(3, 4, 5) {
		t.Fatalf("unexpected sphere bbox %s", box)
	}
}

func randomVec(rng *rand.Rand, scale float32) types.Vec3 {
	return types.XYZ(
		(2*rng.Float32()-1)*scale,
		(2*rng.Float32()-1)*scale,
		(2*rng.Float32()-1)*scale,
	)
}

func randomUnitVec(rng *rand.Rand) types.Vec3 {
	for {
		v := randomVec(rng, 1)
		if l := v.Len(); l > 0.1 && l <= 1 {
			return v.Normalize()
		}
	}
}
