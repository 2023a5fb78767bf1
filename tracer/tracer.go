package tracer

import (
	"context"
	"time"

	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/integrator"
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Cancels the request. Tracers check it between rows (or row chunks)
	// and reply on ErrChan with an error wrapping ctx.Err().
	Context context.Context

	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The number of paths traced per pixel.
	SamplesPerPixel uint32

	// The run seed. Tracers derive their per-row or per-pixel random
	// streams from it.
	Seed uint64

	// The frame buffer (row-major, frameW*frameH entries). Tracers only
	// write the rows of their block.
	Target []types.Vec3

	// Per-row completion flags for the whole frame. A tracer sets the flag
	// of each block row after writing the row in full.
	RowDone []bool

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracer's computation speed estimate compared to a
	// baseline (cpu) implementation.
	SpeedEstimate() float32

	// Attach the tracer to a scene and camera and start processing block
	// requests. The scene is read-only while the tracer is attached.
	Setup(sc *scene.Scene, camera scene.Camera, opts integrator.Options) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats
}
