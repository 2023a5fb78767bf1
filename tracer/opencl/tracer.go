//go:build opencl

package opencl

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/NogikuchiKBYS/CUDAPathTracer/log"
	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/integrator"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/opencl/device"
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/achilleasa/gopencl/v1.2/cl"
)

type clTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The device associated with this tracer instance.
	device *device.Device

	// The tracer id.
	id string

	// Number of frame rows traced by each kernel launch.
	rowsPerLaunch uint32

	// Allocated device resources; valid while the tracer is attached.
	kernel     *device.Kernel
	objectBuf  *device.Buffer
	outputBuf  *device.Buffer
	numObjects uint32

	// Host copy of the launch output buffer.
	hostOutput []types.Vec4

	// The attached camera and tracing options.
	camera scene.Camera
	opts   integrator.Options

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats

	// Device speed in Gflops.
	speed uint32
}

// Create a new opencl tracer for the given device. If rowsPerLaunch is 0,
// DefaultRowsPerLaunch is used.
func NewTracer(id string, dev *device.Device, rowsPerLaunch uint32) (tracer.Tracer, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	if rowsPerLaunch == 0 {
		rowsPerLaunch = DefaultRowsPerLaunch
	}

	return &clTracer{
		logger:        log.New(fmt.Sprintf("opencl tracer (%s)", dev.Name)),
		device:        dev,
		id:            id,
		rowsPerLaunch: rowsPerLaunch,
		blockReqChan:  make(chan tracer.BlockRequest, 1),
		stats:         &tracer.Stats{},
		speed:         dev.Speed,
	}, nil
}

// Create one tracer per device. Tracer ids are derived from the device index
// and name. On error, any tracers created so far are closed.
func NewTracers(devices []*device.Device, rowsPerLaunch uint32) ([]tracer.Tracer, error) {
	list := make([]tracer.Tracer, 0, len(devices))
	for idx, dev := range devices {
		tr, err := NewTracer(fmt.Sprintf("cl-%d (%s)", idx, dev.Name), dev, rowsPerLaunch)
		if err != nil {
			for _, created := range list {
				created.Close()
			}
			return nil, err
		}
		list = append(list, tr)
	}
	return list, nil
}

// Get tracer id.
func (tr *clTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate (in GFlops).
func (tr *clTracer) SpeedEstimate() float32 {
	return float32(tr.speed)
}

// Initialize the device, upload the packed scene and start processing
// incoming block requests. Calling Setup on an attached tracer replaces the
// uploaded scene.
func (tr *clTracer) Setup(sc *scene.Scene, camera scene.Camera, opts integrator.Options) error {
	tr.Lock()
	defer tr.Unlock()

	if sc == nil {
		return tracer.ErrNotAttached
	}
	if tr.device == nil {
		return ErrNoDevice
	}
	if uint64(camera.FrameW)*uint64(camera.FrameH) > math.MaxUint32 {
		return fmt.Errorf("%w: %dx%d", ErrFrameTooLarge, camera.FrameW, camera.FrameH)
	}

	packed, err := packScene(sc)
	if err != nil {
		return err
	}

	err = tr.device.Init(pathTraceSource, kernelBuildOptions)
	if err != nil {
		return err
	}

	tr.releaseResources()
	err = tr.allocateResources(packed, camera)
	if err != nil {
		tr.releaseResources()
		return err
	}

	tr.camera = camera
	tr.opts = opts

	if tr.closeChan == nil {
		tr.startWorker()
	}

	tr.logger.Infof("attached to scene with %d objects; launching %d rows per kernel call", len(sc.Objects), tr.rowsPerLaunch)
	return nil
}

// Allocate the kernel and device buffers. This method is meant to be called
// while holding tr.Lock().
func (tr *clTracer) allocateResources(packed []packedObject, camera scene.Camera) error {
	var err error

	tr.kernel, err = tr.device.Kernel(traceKernelName)
	if err != nil {
		return err
	}

	// Empty scenes still need a non-empty buffer to bind.
	tr.numObjects = uint32(len(packed))
	if len(packed) == 0 {
		packed = make([]packedObject, 1)
	}
	tr.objectBuf = tr.device.Buffer("objects")
	err = tr.objectBuf.AllocateAndWriteData(packed, cl.MEM_READ_ONLY)
	if err != nil {
		return err
	}

	tr.hostOutput = make([]types.Vec4, camera.FrameW*tr.rowsPerLaunch)
	tr.outputBuf = tr.device.Buffer("output")
	return tr.outputBuf.AllocateToFitData(tr.hostOutput, cl.MEM_WRITE_ONLY)
}

// Release kernel and buffers. This method is meant to be called while
// holding tr.Lock().
func (tr *clTracer) releaseResources() {
	if tr.kernel != nil {
		tr.kernel.Release()
		tr.kernel = nil
	}
	if tr.objectBuf != nil {
		tr.objectBuf.Release()
		tr.objectBuf = nil
	}
	if tr.outputBuf != nil {
		tr.outputBuf.Release()
		tr.outputBuf = nil
	}
	tr.hostOutput = nil
	tr.numObjects = 0
}

// Shutdown and cleanup tracer.
func (tr *clTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.Unlock()

	// If the worker is running shut it down
	if closeChan != nil {
		closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-closeChan
		close(closeChan)
		tr.wg.Wait()
	}

	tr.Lock()
	defer tr.Unlock()

	tr.releaseResources()
	if tr.device != nil {
		tr.device.Close()
	}
}

// Enqueue block request. If the tracer is not attached or already has a
// pending request the request is rejected through its ErrChan.
func (tr *clTracer) Enqueue(blockReq tracer.BlockRequest) {
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
func (tr *clTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Spawn a go-routine to process block render requests. This method is meant
// to be called while holding tr.Lock().
func (tr *clTracer) startWorker() {
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

// Render block by launching the trace kernel over consecutive row chunks
// and copying each chunk into the frame buffer. The request context is
// checked before every launch.
func (tr *clTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	tr.Lock()
	defer tr.Unlock()

	if tr.kernel == nil {
		return tracer.ErrNotAttached
	}

	cam := tr.camera
	if err := blockReq.Validate(cam.FrameW, cam.FrameH); err != nil {
		return err
	}

	ctx := blockReq.Ctx()
	lastRow := blockReq.BlockY + blockReq.BlockH
	for chunkY := blockReq.BlockY; chunkY < lastRow; chunkY += tr.rowsPerLaunch {
		if ctx.Err() != nil {
			return fmt.Errorf("opencl tracer (%s): interrupted before row %d: %w", tr.id, chunkY, ctx.Err())
		}

		chunkH := tr.rowsPerLaunch
		if chunkY+chunkH > lastRow {
			chunkH = lastRow - chunkY
		}

		err := tr.kernel.SetArgs(traceKernelArgs(tr, cam, tr.opts, chunkY, blockReq.SamplesPerPixel, blockReq.Seed)...)
		if err != nil {
			return err
		}

		_, err = tr.kernel.Exec2D(0, int(chunkY), int(cam.FrameW), int(chunkH), 0, 0)
		if err != nil {
			return err
		}

		pixels := int(cam.FrameW * chunkH)
		err = tr.outputBuf.ReadData(0, 0, pixels*16, tr.hostOutput)
		if err != nil {
			return err
		}

		offset := chunkY * cam.FrameW
		for i := 0; i < pixels; i++ {
			blockReq.Target[int(offset)+i] = tr.hostOutput[i].Vec3()
		}
		for row := chunkY; row < chunkY+chunkH; row++ {
			blockReq.MarkRowDone(row)
		}
	}

	return nil
}
