//go:build opencl

package pathtracer

import (
	"errors"
	"fmt"

	"github.com/NogikuchiKBYS/CUDAPathTracer/renderer"
	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/opencl"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/opencl/device"
)

func deviceRenderer(sc *scene.Scene, cam scene.Camera, opts renderer.Options) (renderer.Renderer, error) {
	devices, err := SelectDevices(opts)
	if err != nil {
		return nil, err
	}

	tracers, err := opencl.NewTracers(devices, opts.RowsPerLaunch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", renderer.ErrDeviceUnavailable, err)
	}

	r, err := renderer.NewDefault(sc, cam, tracers, tracer.PerfectScheduler(), opts)
	if errors.Is(err, renderer.ErrNoTracers) {
		return nil, fmt.Errorf("%w: %w", renderer.ErrDeviceUnavailable, err)
	}
	return r, err
}

// Select the opencl devices matching the device options. An error wrapping
// renderer.ErrDeviceUnavailable is returned if none match.
func SelectDevices(opts renderer.Options) ([]*device.Device, error) {
	typeMask, err := device.ParseDeviceType(opts.DeviceType)
	if err != nil {
		return nil, err
	}

	devices, err := device.SelectDevices(typeMask, opts.DeviceName, opts.BlackListedDevices)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", renderer.ErrDeviceUnavailable, err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: %w (type %s)", renderer.ErrDeviceUnavailable, device.ErrNoDevices, typeMask)
	}

	for _, dev := range devices {
		logger.Infof("selected opencl device %q (%s, ~%d GFlops)", dev.Name, dev.Type, dev.Speed)
	}
	return devices, nil
}
