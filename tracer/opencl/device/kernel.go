//go:build opencl

package device

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/achilleasa/gopencl/v1.2/cl"
)

// A wrapper around opencl kernel handles.
type Kernel struct {
	device       *Device
	kernelHandle cl.Kernel
	name         string

	// Work sizes and offsets for the last enqueued launch.
	offsets         [2]uint64
	globalWorkSizes [2]uint64
	localWorkSizes  [2]uint64
}

// Name of the kernel function.
func (k *Kernel) Name() string {
	return k.name
}

// Free any allocated resources used by this kernel.
func (k *Kernel) Release() {
	if k.kernelHandle != nil {
		cl.ReleaseKernel(k.kernelHandle)
		k.kernelHandle = nil
	}
}

// Bind arguments to the kernel in declaration order. Supported argument types
// are *Buffer, int32, uint32, float32 and types.Vec4 (bound as float4).
// types.Vec3 is rejected since opencl float3 occupies 16 bytes.
func (k *Kernel) SetArgs(args ...interface{}) error {
	var errCode cl.ErrorCode
	for argIndex, arg := range args {
		switch v := arg.(type) {
		case *Buffer:
			bufHandle := v.Handle()
			errCode = cl.SetKernelArg(k.kernelHandle, uint32(argIndex), 8, unsafe.Pointer(&bufHandle))
		case int32:
			errCode = cl.SetKernelArg(k.kernelHandle, uint32(argIndex), 4, unsafe.Pointer(&v))
		case uint32:
			errCode = cl.SetKernelArg(k.kernelHandle, uint32(argIndex), 4, unsafe.Pointer(&v))
		case float32:
			errCode = cl.SetKernelArg(k.kernelHandle, uint32(argIndex), 4, unsafe.Pointer(&v))
		case types.Vec4:
			errCode = cl.SetKernelArg(k.kernelHandle, uint32(argIndex), 16, unsafe.Pointer(&v[0]))
		default:
			return fmt.Errorf(
				"opencl device (%s): could not set arg %d for kernel %s; unsupported arg type: %T",
				k.device.Name,
				argIndex,
				k.name,
				arg,
			)
		}

		if errCode != cl.SUCCESS {
			return statusError(k.device, fmt.Sprintf("could not set arg %d for kernel %s", argIndex, k.name), errCode)
		}
	}

	return nil
}

// Execute 1D kernel. If localWorkSize is equal to 0 then the opencl implementation
// will pick the optimal worksize split for the underlying hardware.
func (k *Kernel) Exec1D(offset, globalWorkSize, localWorkSize int) (time.Duration, error) {
	var offsetPtr *uint64 = nil
	var localSizePtr *uint64 = nil

	if offset > 0 {
		k.offsets[0] = uint64(offset)
		offsetPtr = &k.offsets[0]
	}
	k.globalWorkSizes[0] = uint64(globalWorkSize)
	if localWorkSize != 0 {
		k.localWorkSizes[0] = uint64(localWorkSize)
		localSizePtr = &k.localWorkSizes[0]
	}

	if k.kernelHandle == nil {
		return 0, k.releasedError()
	}

	tick := time.Now()
	errCode := cl.EnqueueNDRangeKernel(
		k.device.cmdQueue,
		k.kernelHandle,
		1,
		offsetPtr,
		&k.globalWorkSizes[0],
		localSizePtr,
		0,
		nil,
		nil,
	)
	return k.finish(tick, errCode)
}

// Execute 2D kernel. If both localWorkSizeX and localWorkSizeY are 0 then the opencl implementation
// will pick the optimal local worksize split for the underlying hardware.
func (k *Kernel) Exec2D(offsetX, offsetY, globalWorkSizeX, globalWorkSizeY, localWorkSizeX, localWorkSizeY int) (time.Duration, error) {
	var offsetPtr *uint64 = nil
	var localSizePtr *uint64 = nil

	if offsetX > 0 || offsetY > 0 {
		k.offsets[0], k.offsets[1] = uint64(offsetX), uint64(offsetY)
		offsetPtr = &k.offsets[0]
	}
	k.globalWorkSizes[0], k.globalWorkSizes[1] = uint64(globalWorkSizeX), uint64(globalWorkSizeY)
	if localWorkSizeX != 0 && localWorkSizeY != 0 {
		k.localWorkSizes[0], k.localWorkSizes[1] = uint64(localWorkSizeX), uint64(localWorkSizeY)
		localSizePtr = &k.localWorkSizes[0]
	}

	if k.kernelHandle == nil {
		return 0, k.releasedError()
	}

	tick := time.Now()
	errCode := cl.EnqueueNDRangeKernel(
		k.device.cmdQueue,
		k.kernelHandle,
		2,
		offsetPtr,
		&k.globalWorkSizes[0],
		localSizePtr,
		0,
		nil,
		nil,
	)
	return k.finish(tick, errCode)
}

func (k *Kernel) releasedError() error {
	return fmt.Errorf("opencl device (%s): kernel %s has been released", k.device.Name, k.name)
}

// Block until the command queue drains and report the elapsed time since tick.
func (k *Kernel) finish(tick time.Time, errCode cl.ErrorCode) (time.Duration, error) {
	if errCode != cl.SUCCESS {
		return 0, statusError(k.device, "unable to execute kernel "+k.name, errCode)
	}

	errCode = cl.Finish(k.device.cmdQueue)
	if errCode != cl.SUCCESS {
		return 0, statusError(k.device, "kernel "+k.name+" did not complete successfully", errCode)
	}

	return time.Since(tick), nil
}
