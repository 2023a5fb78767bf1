package scene

import (
	"math/rand/v2"

	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
)

const (
	demoSphereCount = 50
	demoEnclosureR  = 1e6
)

// Get the render settings used by the demo scene.
func DemoSettings() RenderSettings {
	return RenderSettings{
		ViewFrom:    types.XYZ(0, 0, 100),
		ViewAt:      types.XYZ(0, 0, 0),
		UpVec:       types.XYZ(0, 1, 0),
		ScreenWidth: 1,
		Width:       1000,
		Height:      1000,
		Samples:     1000,
	}
}

// Generate the demo scene: a huge dimly emitting enclosure filled with
// randomly placed spheres, a quarter of which are light sources.
func DemoScene(seed uint64) []Object {
	rng := rand.New(rand.NewPCG(seed, 0))

	objs := make([]Object, 0, demoSphereCount+1)
	objs = append(objs, NewObject(
		SphereShape(NewSphere(types.XYZ(0, 0, 0), demoEnclosureR)),
		Emission(0.01, 0.01, 0.01),
	))

	return append(objs, RandomSpheres(rng, demoSphereCount)...)
}

// Generate count random spheres inside the [-30, 30]x[-30, 30]x[-10, 10]
// region with radii in [5, 10). Each sphere is an emitter with probability
// 0.25 and a diffuse reflector otherwise.
func RandomSpheres(rng *rand.Rand, count int) []Object {
	objs := make([]Object, 0, count)
	for i := 0; i < count; i++ {
		center := types.XYZ(
			-30+60*rng.Float32(),
			-30+60*rng.Float32(),
			-10+20*rng.Float32(),
		)
		radius := 5 + 5*rng.Float32()
		r, g, b := rng.Float32(), rng.Float32(), rng.Float32()

		var optical Optical
		if rng.Float32() < 0.25 {
			optical = Emission(r*2, g*2, b*2)
		} else {
			optical = Reflection(r, g, b)
		}
		objs = append(objs, NewObject(SphereShape(NewSphere(center, radius)), optical))
	}
	return objs
}

// Generate a furnace test scene: a single non-reflective enclosure with
// uniform emission. Every camera placed inside it sees exactly the emitted
// radiance.
func FurnaceScene(emission types.Vec3, radius float32) []Object {
	return []Object{
		NewObject(
			SphereShape(NewSphere(types.XYZ(0, 0, 0), radius)),
			Optical{Emission: emission},
		),
	}
}
