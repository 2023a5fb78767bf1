// Package pathtracer is the rendering kernel entry point. It validates the
// render settings, selects the host or device backend and renders a frame.
package pathtracer

import (
	"context"
	"errors"

	"github.com/NogikuchiKBYS/CUDAPathTracer/log"
	"github.com/NogikuchiKBYS/CUDAPathTracer/renderer"
	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/cpu"
)

var logger = log.New("pathtracer")

// Render the objects as seen by the camera described by settings and return
// a frame holding settings.Width*settings.Height radiance values.
//
// If useParallelBackend is false the frame is traced by host goroutines.
// Otherwise rows are split across the selected opencl devices; if no device
// can be used the returned error wraps renderer.ErrDeviceUnavailable unless
// opts.FallbackToHost is set.
//
// A cancelled ctx yields the partial frame together with an error wrapping
// renderer.ErrInterrupted.
func Render(ctx context.Context, settings scene.RenderSettings, objects []scene.Object, useParallelBackend bool, opts renderer.Options) (*renderer.Frame, error) {
	r, err := NewRenderer(settings, objects, useParallelBackend, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return r.Render(ctx, settings.Samples)
}

// Create a renderer for the given settings and objects with tracers already
// attached. The caller must Close it.
func NewRenderer(settings scene.RenderSettings, objects []scene.Object, useParallelBackend bool, opts renderer.Options) (renderer.Renderer, error) {
	cam, err := scene.NewCamera(settings)
	if err != nil {
		return nil, err
	}
	sc := scene.New(objects)

	if !useParallelBackend {
		return hostRenderer(sc, cam, opts)
	}

	r, err := deviceRenderer(sc, cam, opts)
	if err != nil && opts.FallbackToHost && errors.Is(err, renderer.ErrDeviceUnavailable) {
		logger.Warningf("falling back to host rendering: %v", err)
		return hostRenderer(sc, cam, opts)
	}
	return r, err
}

func hostRenderer(sc *scene.Scene, cam scene.Camera, opts renderer.Options) (renderer.Renderer, error) {
	tracers := []tracer.Tracer{cpu.NewTracer("host", opts.Workers)}
	return renderer.NewDefault(sc, cam, tracers, tracer.NaiveScheduler(), opts)
}
