//go:build !opencl

package pathtracer

import (
	"errors"
	"fmt"

	"github.com/NogikuchiKBYS/CUDAPathTracer/renderer"
	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
)

// Returned (wrapped in renderer.ErrDeviceUnavailable) by binaries built
// without the opencl tag.
var ErrNoDeviceSupport = errors.New("pathtracer: built without opencl support (rebuild with -tags opencl)")

func deviceRenderer(_ *scene.Scene, _ scene.Camera, _ renderer.Options) (renderer.Renderer, error) {
	return nil, fmt.Errorf("%w: %w", renderer.ErrDeviceUnavailable, ErrNoDeviceSupport)
}
