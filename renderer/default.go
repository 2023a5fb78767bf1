package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/NogikuchiKBYS/CUDAPathTracer/log"
	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer"
)

// A renderer that splits each frame into blocks of rows, one per attached
// tracer, and waits for all of them to complete.
type defaultRenderer struct {
	logger log.Logger

	scene     *scene.Scene
	camera    scene.Camera
	scheduler tracer.BlockScheduler
	options   Options

	// Tracers that were successfully attached to the scene.
	tracers []tracer.Tracer

	// Block heights assigned to each tracer for the last frame.
	blockAssignments []uint32

	stats FrameStats
}

// Create a renderer that attaches the given tracers to the scene. Tracers
// that fail to attach are closed and skipped; if no tracer can be attached
// an error wrapping ErrNoTracers and the last setup error is returned.
func NewDefault(sc *scene.Scene, camera scene.Camera, tracers []tracer.Tracer, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}
	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		scene:     sc,
		camera:    camera,
		scheduler: scheduler,
		options:   opts,
		tracers:   make([]tracer.Tracer, 0, len(tracers)),
	}

	intOpts := opts.IntegratorOptions()
	var lastErr error
	for _, tr := range tracers {
		start := time.Now()
		err := tr.Setup(sc, camera, intOpts)
		if err != nil {
			r.logger.Warningf("skipping tracer %s due to setup error: %v", tr.Id(), err)
			tr.Close()
			lastErr = err
			continue
		}
		r.logger.Infof("attached tracer %s in %s", tr.Id(), time.Since(start))
		r.tracers = append(r.tracers, tr)
	}

	if len(r.tracers) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoTracers, lastErr)
	}

	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics for the last frame.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Render a frame tracing spp paths per pixel.
func (r *defaultRenderer) Render(ctx context.Context, spp uint32) (*Frame, error) {
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}
	if spp == 0 {
		return nil, fmt.Errorf("%w: %w", scene.ErrInvalidSettings, scene.ErrInvalidSampleCount)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	frameW, frameH := r.camera.FrameW, r.camera.FrameH
	frame := NewFrame(frameW, frameH)
	frame.Seed = r.options.RunSeed()
	rowDone := make([]bool, frameH)

	r.blockAssignments = r.scheduler.Schedule(r.tracers, frameH)

	// Buffered so that tracers never block on reply even if we bail out early.
	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var blockY uint32
	blockStarts := make([]uint32, len(r.tracers))
	pending := 0
	for idx, tr := range r.tracers {
		blockStarts[idx] = blockY
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			Context:         ctx,
			BlockY:          blockY,
			BlockH:          blockH,
			SamplesPerPixel: spp,
			Seed:            frame.Seed,
			Target:          frame.Pixels,
			RowDone:         rowDone,
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
		blockY += blockH
		pending++
	}

	// Wait for all tracers to reply
	var firstErr error
	for ; pending > 0; pending-- {
		select {
		case <-doneChan:
		case err := <-errChan:
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	for _, done := range rowDone {
		if done {
			frame.CompletedRows++
		}
	}
	frame.Complete = frame.CompletedRows == frameH

	r.collectStats(blockStarts, spp, frame.Seed, time.Since(start), firstErr != nil)

	if firstErr != nil {
		if ctx.Err() != nil {
			r.logger.Noticef("render interrupted with %d of %d rows complete", frame.CompletedRows, frameH)
			return frame, fmt.Errorf("%w after %d of %d rows: %w", ErrInterrupted, frame.CompletedRows, frameH, ctx.Err())
		}
		return nil, firstErr
	}

	r.logger.Infof("rendered %dx%d frame at %d spp in %s", frameW, frameH, spp, r.stats.RenderTime)
	return frame, nil
}

func (r *defaultRenderer) collectStats(blockStarts []uint32, spp uint32, seed uint64, renderTime time.Duration, failed bool) {
	r.stats = FrameStats{
		Tracers:         make([]TracerStat, len(r.tracers)),
		SamplesPerPixel: spp,
		Seed:            seed,
		RenderTime:      renderTime,
	}

	frameH := float32(r.camera.FrameH)
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		stat := TracerStat{
			Id:           tr.Id(),
			IsPrimary:    idx == 0,
			BlockY:       blockStarts[idx],
			BlockH:       blockH,
			FramePercent: 100 * float32(blockH) / frameH,
		}
		if blockH > 0 && !failed {
			stat.RenderTime = tr.Stats().RenderTime
		}
		r.stats.Tracers[idx] = stat
	}
}
