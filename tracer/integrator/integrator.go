package integrator

import (
	"math/rand/v2"

	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

// Trace a single light path starting with ray and return its radiance
// estimate. Paths that leave the scene carry no environment contribution.
//
// Trace has no side effects besides advancing rng.
func Trace(sc *scene.Scene, ray scene.Ray, rng *rand.Rand, opts Options) types.Vec3 {
	throughput := types.Splat(1)
	var radiance types.Vec3

	for bounce := uint32(0); bounce < opts.NumBounces; bounce++ {
		hit, ok := sc.Intersect(ray)
		if !ok {
			break
		}

		optical := hit.Object.Optical
		radiance = radiance.Add(throughput.MulVec(optical.Emission))

		throughput = throughput.MulVec(optical.Reflection)
		if throughput.IsZero() {
			break
		}

		if maxTp := throughput.MaxComponent(); opts.rouletteEnabled(bounce) && maxTp < opts.RRThreshold {
			survival := math32.Min(1, math32.Max(0, maxTp))
			if rng.Float32() >= survival {
				break
			}
			throughput = throughput.Div(survival)
		}

		ray = scene.Ray{
			Start: hit.Point.Add(hit.Normal.Mul(scene.RayOffset)),
			Dir:   CosineSampleHemisphere(hit.Normal, rng.Float32(), rng.Float32()),
		}
	}

	return radiance
}

// Estimate the radiance through pixel (col, row) by averaging spp paths.
func SamplePixel(sc *scene.Scene, cam scene.Camera, col, row, spp uint32, rng *rand.Rand, opts Options) types.Vec3 {
	var sum types.Vec3
	var jx, jy float32
	for s := uint32(0); s < spp; s++ {
		if opts.Jitter {
			jx, jy = rng.Float32()-0.5, rng.Float32()-0.5
		}
		sum = sum.Add(Trace(sc, cam.Ray(col, row, jx, jy), rng, opts))
	}
	return sum.Div(float32(spp))
}

// Create the random stream used by a frame row. Each row gets its own PCG
// stream so that the output does not depend on how rows are distributed
// across workers.
func RowRNG(seed uint64, row uint32) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(row)))
}

// Render a full frame row into dst, which must hold cam.FrameW entries.
func RenderRow(sc *scene.Scene, cam scene.Camera, row, spp uint32, seed uint64, opts Options, dst []types.Vec3) {
	rng := RowRNG(seed, row)
	for col := uint32(0); col < cam.FrameW; col++ {
		dst[col] = SamplePixel(sc, cam, col, row, spp, rng, opts)
	}
}
