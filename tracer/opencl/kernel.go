//go:build opencl

package opencl

import (
	_ "embed"

	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/integrator"
)

const (
	traceKernelName    = "tracePixels"
	kernelBuildOptions = "-cl-std=CL1.2"

	// Default number of frame rows traced by a single kernel launch.
	DefaultRowsPerLaunch uint32 = 16
)

//go:embed CL/pathtrace.cl
var pathTraceSource string

// Assemble the tracePixels argument list for a launch over rows starting at
// blockY. The order must match the kernel signature.
func traceKernelArgs(tr *clTracer, cam scene.Camera, opts integrator.Options, blockY, spp uint32, seed uint64) []interface{} {
	var jitter uint32
	if opts.Jitter {
		jitter = 1
	}

	return []interface{}{
		tr.objectBuf,
		tr.numObjects,
		tr.outputBuf,
		cam.Eye.Vec4(1),
		cam.Forward.Vec4(0),
		cam.Right.Vec4(0),
		cam.Up.Vec4(0),
		cam.ScreenW,
		cam.ScreenH,
		cam.FrameW,
		cam.FrameH,
		blockY,
		spp,
		uint32(seed),
		uint32(seed >> 32),
		opts.NumBounces,
		opts.MinBouncesForRR,
		opts.RRThreshold,
		jitter,
	}
}
