package integrator

import (
	"math/rand/v2"
	"testing"

	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

func insideCamera(t testing.TB, w, h, spp uint32) scene.Camera {
	cam, err := scene.NewCamera(scene.RenderSettings{
		ViewFrom:    types.XYZ(0, 0, 0),
		ViewAt:      types.XYZ(0, 0, -1),
		UpVec:       types.XYZ(0, 1, 0),
		ScreenWidth: 1,
		Width:       w,
		Height:      h,
		Samples:     spp,
	})
	if err != nil {
		t.Fatal(err)
	}
	return cam
}

func TestFurnace(t *testing.T) {
	emission := types.XYZ(0.25, 0.5, 2)
	sc := scene.New(scene.FurnaceScene(emission, 10))
	cam := insideCamera(t, 8, 8, 4)

	opts := DefaultOptions()
	row := make([]types.Vec3, cam.FrameW)
	for r := uint32(0); r < cam.FrameH; r++ {
		RenderRow(sc, cam, r, 4, 42, opts, row)
		for c, px := range row {
			if px != emission {
				t.Fatalf("[pixel %d, %d] expected radiance %v; got %v", c, r, emission, px)
			}
		}
	}
}

func TestEmptySceneIsBlack(t *testing.T) {
	sc := scene.New(nil)
	cam := insideCamera(t, 4, 4, 2)

	row := make([]types.Vec3, cam.FrameW)
	RenderRow(sc, cam, 0, 2, 1, DefaultOptions(), row)
	for c, px := range row {
		if !px.IsZero() {
			t.Fatalf("[pixel %d] expected black pixel; got %v", c, px)
		}
	}
}

func TestZeroBounces(t *testing.T) {
	sc := scene.New(scene.FurnaceScene(types.Splat(1), 10))
	opts := DefaultOptions()
	opts.NumBounces = 0

	ray := scene.Ray{Start: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, 1)}
	if got := Trace(sc, ray, rand.New(rand.NewPCG(1, 1)), opts); !got.IsZero() {
		t.Fatalf("expected zero radiance with no bounces; got %v", got)
	}
}

func TestEmissionIsModulatedByThroughput(t *testing.T) {
	// Two bounces inside an emissive enclosure collect E + r*E.
	sc := scene.New([]scene.Object{
		scene.NewObject(
			scene.SphereShape(scene.NewSphere(types.XYZ(0, 0, 0), 10)),
			scene.Optical{Reflection: types.Splat(0.5), Emission: types.XYZ(1, 0, 0)},
		),
	})
	opts := DefaultOptions()
	opts.NumBounces = 2
	opts.MinBouncesForRR = opts.NumBounces + 1

	ray := scene.Ray{Start: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, 1)}
	got := Trace(sc, ray, rand.New(rand.NewPCG(1, 1)), opts)
	exp := types.XYZ(1.5, 0, 0)
	if !types.ApproxEqual(got, exp, 1e-6) {
		t.Fatalf("expected radiance %v; got %v", exp, got)
	}
}

func TestRussianRouletteIsUnbiased(t *testing.T) {
	const (
		reflectance = 0.5
		numBounces  = 16
	)
	emission := types.Splat(1)
	sc := scene.New([]scene.Object{
		scene.NewObject(
			scene.SphereShape(scene.NewSphere(types.XYZ(0, 0, 0), 10)),
			scene.Optical{Reflection: types.Splat(reflectance), Emission: emission},
		),
	})
	cam := insideCamera(t, 8, 8, 64)

	// Every path stays inside the enclosure so the fixed-depth estimate
	// equals E * (1 - r^N) / (1 - r) for every sample.
	expected := (1 - math32.Pow(reflectance, numBounces)) / (1 - reflectance)

	fixed := DefaultOptions()
	fixed.NumBounces = numBounces
	fixed.MinBouncesForRR = numBounces + 1

	withRR := fixed
	withRR.MinBouncesForRR = 3

	type spec struct {
		name string
		opts Options
		tol  float32
	}
	specs := []spec{
		{"fixed depth", fixed, 1e-4},
		{"russian roulette", withRR, 0.05 * expected},
	}

	for _, s := range specs {
		mean := frameMean(sc, cam, 64, 7, s.opts)
		for ch := 0; ch < 3; ch++ {
			if math32.Abs(mean[ch]-expected) > s.tol {
				t.Fatalf("[%s] expected mean radiance %f (+/- %f) in channel %d; got %f", s.name, expected, s.tol, ch, mean[ch])
			}
		}
	}
}

func TestRenderRowIsDeterministic(t *testing.T) {
	sc := scene.New(scene.DemoScene(3))
	cam, err := scene.NewCamera(scene.RenderSettings{
		ViewFrom:    types.XYZ(0, 0, 100),
		ViewAt:      types.XYZ(0, 0, 0),
		UpVec:       types.XYZ(0, 1, 0),
		ScreenWidth: 1,
		Width:       16,
		Height:      16,
		Samples:     2,
	})
	if err != nil {
		t.Fatal(err)
	}

	row1 := make([]types.Vec3, cam.FrameW)
	row2 := make([]types.Vec3, cam.FrameW)
	RenderRow(sc, cam, 5, 2, 99, DefaultOptions(), row1)
	RenderRow(sc, cam, 5, 2, 99, DefaultOptions(), row2)
	for c := range row1 {
		if row1[c] != row2[c] {
			t.Fatalf("[pixel %d] expected identical output for identical seeds; got %v and %v", c, row1[c], row2[c])
		}
	}
}

func TestCosineSampleHemisphere(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	normals := []types.Vec3{
		types.XYZ(0, 0, 1),
		types.XYZ(1, 0, 0),
		types.XYZ(1, 1, 1).Normalize(),
		types.XYZ(0, -1, 0),
	}

	const numSamples = 20000
	for _, n := range normals {
		var cosSum float32
		for i := 0; i < numSamples; i++ {
			dir := CosineSampleHemisphere(n, rng.Float32(), rng.Float32())
			if math32.Abs(dir.Len()-1) > 1e-4 {
				t.Fatalf("expected unit length sample; got length %f", dir.Len())
			}
			cos := dir.Dot(n)
			if cos < -1e-6 {
				t.Fatalf("expected sample %v to lie in the hemisphere around %v", dir, n)
			}
			cosSum += cos
		}

		// E[cos] = 2/3 for a cosine-weighted distribution
		if mean := cosSum / numSamples; math32.Abs(mean-2.0/3.0) > 0.01 {
			t.Fatalf("expected mean cosine 0.667 around %v; got %f", n, mean)
		}
	}
}

func frameMean(sc *scene.Scene, cam scene.Camera, spp uint32, seed uint64, opts Options) types.Vec3 {
	var sum types.Vec3
	row := make([]types.Vec3, cam.FrameW)
	for r := uint32(0); r < cam.FrameH; r++ {
		RenderRow(sc, cam, r, spp, seed, opts, row)
		for _, px := range row {
			sum = sum.Add(px)
		}
	}
	return sum.Div(float32(cam.FrameW * cam.FrameH))
}

func BenchmarkSamplePixelDemoScene(b *testing.B) {
	sc := scene.New(scene.DemoScene(1))
	rs := scene.DemoSettings()
	rs.Width, rs.Height = 64, 64
	cam, err := scene.NewCamera(rs)
	if err != nil {
		b.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(1, 2))
	opts := DefaultOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SamplePixel(sc, cam, uint32(i)%64, 32, 4, rng, opts)
	}
}
