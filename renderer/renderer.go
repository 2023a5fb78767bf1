package renderer

import "context"

type Renderer interface {
	// Render a frame tracing spp paths per pixel. If ctx is cancelled the
	// partially rendered frame is returned with an error wrapping
	// ErrInterrupted.
	Render(ctx context.Context, spp uint32) (*Frame, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics for the last frame.
	Stats() FrameStats
}
