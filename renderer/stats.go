package renderer

import "time"

// Per-tracer statistics for a rendered frame.
type TracerStat struct {
	Id string

	// True for the tracer that receives rows left over by the scheduler.
	IsPrimary bool

	// The assigned block and the percentage of frame rows it represents.
	BlockY       uint32
	BlockH       uint32
	FramePercent float32

	// Render time for the assigned block; zero if the tracer failed or
	// was interrupted.
	RenderTime time.Duration
}

type FrameStats struct {
	Tracers []TracerStat

	// Samples per pixel and seed of the frame.
	SamplesPerPixel uint32
	Seed            uint64

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Estimated traced paths per second over the whole frame.
func (fs FrameStats) PathsPerSecond(frameW, frameH uint32) float64 {
	if fs.RenderTime <= 0 {
		return 0
	}
	paths := float64(frameW) * float64(frameH) * float64(fs.SamplesPerPixel)
	return paths / fs.RenderTime.Seconds()
}
