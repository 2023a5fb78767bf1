package cpu

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/NogikuchiKBYS/CUDAPathTracer/log"
	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/integrator"
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Number of goroutines tracing rows in parallel.
	workers int

	// The attached scene, camera and tracing options.
	scene  *scene.Scene
	camera scene.Camera
	opts   integrator.Options

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats
}

// Create a new host tracer that renders rows using the given number of
// goroutines. If workers is <= 0, runtime.NumCPU() goroutines are used.
func NewTracer(id string, workers int) tracer.Tracer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		workers:      workers,
		blockReqChan: make(chan tracer.BlockRequest, 1),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Host tracers are the speed baseline; each worker counts as one unit.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return float32(tr.workers)
}

// Attach tracer to a scene and start processing incoming block requests.
func (tr *cpuTracer) Setup(sc *scene.Scene, camera scene.Camera, opts integrator.Options) error {
	tr.Lock()
	defer tr.Unlock()

	if sc == nil {
		return tracer.ErrNotAttached
	}

	tr.scene = sc
	tr.camera = camera
	tr.opts = opts

	if tr.closeChan == nil {
		tr.startWorker()
	}

	tr.logger.Infof("attached to scene with %d objects using %d workers", len(sc.Objects), tr.workers)
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.scene = nil
	tr.Unlock()

	if closeChan != nil {
		closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-closeChan
		close(closeChan)
		tr.wg.Wait()
	}
}

// Enqueue block request. If the tracer is not attached or already has a
// pending request the request is rejected through its ErrChan.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	tr.Lock()
	running := tr.closeChan != nil
	tr.Unlock()

	if !running {
		blockReq.ErrChan <- tracer.ErrNotAttached
		return
	}

	select {
	case tr.blockReqChan <- blockReq:
	default:
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- tracer.ErrBusy
	}
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Spawn a go-routine to process block render requests. This method is meant
// to be called while holding tr.Lock().
func (tr *cpuTracer) startWorker() {
	tr.closeChan = make(chan struct{})

	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func(closeChan chan struct{}) {
		defer tr.wg.Done()
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				startTime := time.Now()
				err := tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)
				tr.logger.Debugf("rendered rows [%d, %d) in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.stats.RenderTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				// Ack close
				closeChan <- struct{}{}
				return
			}
		}
	}(tr.closeChan)

	// Wait for go-routine to start
	<-readyChan
}

// Render block rows in parallel. Each row is traced by exactly one goroutine
// which is also the sole writer of the row's pixels.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	tr.Lock()
	sc, cam, opts := tr.scene, tr.camera, tr.opts
	tr.Unlock()

	if sc == nil {
		return tracer.ErrNotAttached
	}
	if err := blockReq.Validate(cam.FrameW, cam.FrameH); err != nil {
		return err
	}

	workers := tr.workers
	if uint32(workers) > blockReq.BlockH {
		workers = int(blockReq.BlockH)
	}

	rowChan := make(chan uint32)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range rowChan {
				offset := row * cam.FrameW
				integrator.RenderRow(sc, cam, row, blockReq.SamplesPerPixel, blockReq.Seed, opts, blockReq.Target[offset:offset+cam.FrameW])
				blockReq.MarkRowDone(row)
			}
		}()
	}

	ctx := blockReq.Ctx()
	var err error
	lastRow := blockReq.BlockY + blockReq.BlockH
feed:
	for row := blockReq.BlockY; row < lastRow; row++ {
		if ctx.Err() != nil {
			err = fmt.Errorf("cpu tracer (%s): interrupted before row %d: %w", tr.id, row, ctx.Err())
			break
		}
		select {
		case <-ctx.Done():
			err = fmt.Errorf("cpu tracer (%s): interrupted before row %d: %w", tr.id, row, ctx.Err())
			break feed
		case rowChan <- row:
		}
	}
	close(rowChan)
	wg.Wait()

	return err
}
