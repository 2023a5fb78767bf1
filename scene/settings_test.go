package scene

import (
	"errors"
	"testing"

	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

func validSettings() RenderSettings {
	return RenderSettings{
		ViewFrom:    types.XYZ(0, 0, 10),
		ViewAt:      types.XYZ(0, 0, 0),
		UpVec:       types.XYZ(0, 1, 0),
		ScreenWidth: 2,
		Width:       64,
		Height:      32,
		Samples:     4,
	}
}

func TestSettingsValidation(t *testing.T) {
	type spec struct {
		name   string
		mutate func(*RenderSettings)
		expErr error
	}
	specs := []spec{
		{"valid", func(*RenderSettings) {}, nil},
		{"zero width", func(rs *RenderSettings) { rs.Width = 0 }, ErrInvalidResolution},
		{"zero height", func(rs *RenderSettings) { rs.Height = 0 }, ErrInvalidResolution},
		{"zero samples", func(rs *RenderSettings) { rs.Samples = 0 }, ErrInvalidSampleCount},
		{"negative screen width", func(rs *RenderSettings) { rs.ScreenWidth = -1 }, ErrInvalidScreenWidth},
		{"NaN screen width", func(rs *RenderSettings) { rs.ScreenWidth = math32.NaN() }, ErrInvalidScreenWidth},
		{"eye at target", func(rs *RenderSettings) { rs.ViewAt = rs.ViewFrom }, ErrDegenerateCamera},
		{"parallel up vector", func(rs *RenderSettings) { rs.UpVec = types.XYZ(0, 0, 3) }, ErrDegenerateCamera},
		{"zero up vector", func(rs *RenderSettings) { rs.UpVec = types.Vec3{} }, ErrDegenerateCamera},
	}

	for _, s := range specs {
		rs := validSettings()
		s.mutate(&rs)
		err := rs.Validate()

		if s.expErr == nil {
			if err != nil {
				t.Fatalf("[%s] expected no error; got %v", s.name, err)
			}
			continue
		}
		if !errors.Is(err, s.expErr) {
			t.Fatalf("[%s] expected error %v; got %v", s.name, s.expErr, err)
		}
		if !errors.Is(err, ErrInvalidSettings) {
			t.Fatalf("[%s] expected error to wrap %v; got %v", s.name, ErrInvalidSettings, err)
		}
	}
}

func TestScreenHeight(t *testing.T) {
	rs := validSettings()
	if got := rs.ScreenHeight(); got != 1 {
		t.Fatalf("expected screen height 1; got %f", got)
	}
}

func TestCameraBasis(t *testing.T) {
	cam, err := NewCamera(validSettings())
	if err != nil {
		t.Fatal(err)
	}

	type spec struct {
		name string
		got  types.Vec3
		exp  types.Vec3
	}
	specs := []spec{
		{"forward", cam.Forward, types.XYZ(0, 0, -1)},
		{"right", cam.Right, types.XYZ(1, 0, 0)},
		{"up", cam.Up, types.XYZ(0, 1, 0)},
	}
	for _, s := range specs {
		if !types.ApproxEqual(s.got, s.exp, 1e-6) {
			t.Fatalf("expected camera %s vector %v; got %v", s.name, s.exp, s.got)
		}
	}

	// A non-orthogonal up vector still produces an orthonormal basis
	rs := validSettings()
	rs.UpVec = types.XYZ(0, 1, 1)
	cam, err = NewCamera(rs)
	if err != nil {
		t.Fatal(err)
	}
	if d := cam.Up.Dot(cam.Forward); math32.Abs(d) > 1e-6 {
		t.Fatalf("expected up to be orthogonal to forward; got dot product %f", d)
	}
	if !types.ApproxEqual(cam.Up, types.XYZ(0, 1, 0), 1e-6) {
		t.Fatalf("expected up vector to be re-orthogonalized to (0, 1, 0); got %v", cam.Up)
	}
}

func TestCameraRays(t *testing.T) {
	rs := validSettings()
	rs.Width, rs.Height = 2, 2
	rs.ScreenWidth = 2
	cam, err := NewCamera(rs)
	if err != nil {
		t.Fatal(err)
	}

	// Pixel centers map to (+-0.5, +-0.5) on the screen plane at z = 9
	type spec struct {
		col, row uint32
		exp      types.Vec3
	}
	specs := []spec{
		{0, 0, types.XYZ(-0.5, 0.5, -1)},
		{1, 0, types.XYZ(0.5, 0.5, -1)},
		{0, 1, types.XYZ(-0.5, -0.5, -1)},
		{1, 1, types.XYZ(0.5, -0.5, -1)},
	}
	for _, s := range specs {
		ray := cam.Ray(s.col, s.row, 0, 0)
		if ray.Start != rs.ViewFrom {
			t.Fatalf("expected ray to start at the eye %v; got %v", rs.ViewFrom, ray.Start)
		}
		if exp := s.exp.Normalize(); !types.ApproxEqual(ray.Dir, exp, 1e-6) {
			t.Fatalf("[%d, %d] expected ray direction %v; got %v", s.col, s.row, exp, ray.Dir)
		}
	}

	if _, err := NewCamera(RenderSettings{}); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected error %v; got %v", ErrInvalidSettings, err)
	}
}
