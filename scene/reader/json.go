package reader

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/NogikuchiKBYS/CUDAPathTracer/asset"
	"github.com/NogikuchiKBYS/CUDAPathTracer/log"
	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
)

type jsonCamera struct {
	ViewFrom    types.Vec3 `json:"viewFrom"`
	ViewAt      types.Vec3 `json:"viewAt"`
	Up          types.Vec3 `json:"up"`
	ScreenWidth float32    `json:"screenWidth"`
}

type jsonSphere struct {
	Center types.Vec3 `json:"center"`
	Radius float32    `json:"radius"`
}

type jsonObject struct {
	Sphere     *jsonSphere    `json:"sphere"`
	Triangle   *[3]types.Vec3 `json:"triangle"`
	Emission   types.Vec3     `json:"emission"`
	Reflection types.Vec3     `json:"reflection"`
}

type jsonRandomSpheres struct {
	Count int    `json:"count"`
	Seed  uint64 `json:"seed"`
}

type jsonScene struct {
	Camera        *jsonCamera        `json:"camera"`
	Width         uint32             `json:"width"`
	Height        uint32             `json:"height"`
	Samples       uint32             `json:"samples"`
	Objects       []jsonObject       `json:"objects"`
	RandomSpheres *jsonRandomSpheres `json:"randomSpheres"`
}

type jsonSceneReader struct {
	logger log.Logger
}

func newJSONReader() *jsonSceneReader {
	return &jsonSceneReader{
		logger: log.New("json scene reader"),
	}
}

// Read scene definition.
func (r *jsonSceneReader) Read(res *asset.Resource) (*Description, error) {
	r.logger.Noticef(`parsing scene from "%s"`, res.Path())
	start := time.Now()

	var in jsonScene
	dec := json.NewDecoder(res)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, &ParseError{File: res.Path(), Msg: err.Error()}
	}

	desc := &Description{
		Settings: in.settings(),
		Objects:  make([]scene.Object, 0, len(in.Objects)),
	}

	for index, obj := range in.Objects {
		shape, err := obj.shape()
		if err != nil {
			return nil, fmt.Errorf("%w: object %d: %s", ErrInvalidObject, index, err)
		}
		desc.Objects = append(desc.Objects, scene.NewObject(shape, scene.Optical{
			Reflection: obj.Reflection,
			Emission:   obj.Emission,
		}))
	}

	if gen := in.RandomSpheres; gen != nil {
		if gen.Count < 0 {
			return nil, fmt.Errorf("%w: randomSpheres: count must be >= 0; got %d", ErrInvalidObject, gen.Count)
		}
		rng := rand.New(rand.NewPCG(gen.Seed, 0))
		desc.Objects = append(desc.Objects, scene.RandomSpheres(rng, gen.Count)...)
	}

	r.logger.Noticef("parsed %d objects in %d ms", len(desc.Objects), time.Since(start).Milliseconds())
	return desc, nil
}

// Build render settings from the camera and frame fields. Unset fields use
// the demo defaults. Returns nil if none of the fields is present.
func (in *jsonScene) settings() *scene.RenderSettings {
	if in.Camera == nil && in.Width == 0 && in.Height == 0 && in.Samples == 0 {
		return nil
	}

	rs := scene.DemoSettings()
	if cam := in.Camera; cam != nil {
		rs.ViewFrom = cam.ViewFrom
		rs.ViewAt = cam.ViewAt
		if !cam.Up.IsZero() {
			rs.UpVec = cam.Up
		}
		if cam.ScreenWidth != 0 {
			rs.ScreenWidth = cam.ScreenWidth
		}
	}
	if in.Width != 0 {
		rs.Width = in.Width
	}
	if in.Height != 0 {
		rs.Height = in.Height
	}
	if in.Samples != 0 {
		rs.Samples = in.Samples
	}
	return &rs
}

func (obj *jsonObject) shape() (scene.Shape, error) {
	switch {
	case obj.Sphere != nil && obj.Triangle != nil:
		return scene.Shape{}, fmt.Errorf("expected exactly one of sphere or triangle")
	case obj.Sphere != nil:
		if !(obj.Sphere.Radius > 0) {
			return scene.Shape{}, fmt.Errorf("sphere radius must be > 0; got %f", obj.Sphere.Radius)
		}
		return scene.SphereShape(scene.NewSphere(obj.Sphere.Center, obj.Sphere.Radius)), nil
	case obj.Triangle != nil:
		v := *obj.Triangle
		return scene.TriangleShape(scene.NewTriangle(v[0], v[1], v[2])), nil
	}
	return scene.Shape{}, fmt.Errorf("expected one of sphere or triangle")
}
