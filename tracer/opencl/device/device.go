//go:build opencl

package device

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

type DeviceType uint8

// Supported device types.
const (
	CpuDevice   DeviceType = 1 << iota
	GpuDevice              = 1 << iota
	OtherDevice            = 1 << iota
	AllDevices             = 0xFF
)

func (dt DeviceType) String() string {
	switch dt {
	case CpuDevice:
		return "CPU"
	case GpuDevice:
		return "GPU"
	case OtherDevice:
		return "Other"
	case AllDevices:
		return "All"
	}
	return fmt.Sprintf("DeviceType(%d)", uint8(dt))
}

// Parse a device type mask from its command-line name (cpu, gpu or all).
func ParseDeviceType(name string) (DeviceType, error) {
	switch strings.ToLower(name) {
	case "cpu":
		return CpuDevice, nil
	case "gpu":
		return GpuDevice, nil
	case "all", "":
		return AllDevices, nil
	}
	return 0, fmt.Errorf("opencl: unknown device type %q", name)
}

// Wrapper around opencl-supported devices.
type Device struct {
	Name     string
	Platform string
	Id       cl.DeviceId
	Type     DeviceType

	compUnits  uint32
	clockSpeed uint32

	// Speed estimate in GFlops.
	Speed uint32

	// Opencl handles; allocated when device is initialized.
	ctx      *cl.Context
	cmdQueue cl.CommandQueue
	program  cl.Program
}

// Implements Stringer.
func (d Device) String() string {
	return fmt.Sprintf(
		"Name: %s\nType: %s\nSpecs: %d computation units, %d Mhz clock, %d GFlops approximate speed",
		d.Name,
		d.Type.String(),
		d.compUnits,
		d.clockSpeed,
		d.Speed,
	)
}

// Computation units reported by the device.
func (d *Device) ComputeUnits() uint32 {
	return d.compUnits
}

// Clock speed reported by the device in Mhz.
func (d *Device) ClockSpeed() uint32 {
	return d.clockSpeed
}

// Returns true if Init has completed successfully and Close has not been called.
func (d *Device) Initialized() bool {
	return d.program != nil
}

// Create an opencl context and command queue for the device and build the
// supplied program source with the given build options.
func (d *Device) Init(programSource, buildOptions string) error {
	var errCode cl.ErrorCode

	// Already initialized
	if d.ctx != nil {
		return nil
	}

	d.ctx = cl.CreateContext(nil, 1, &d.Id, nil, nil, (*int32)(&errCode))
	if errCode != cl.SUCCESS {
		defer d.Close()
		return statusError(d, "could not create opencl context", errCode)
	}

	d.cmdQueue = cl.CreateCommandQueue(*d.ctx, d.Id, 0, (*int32)(&errCode))
	if errCode != cl.SUCCESS {
		defer d.Close()
		return statusError(d, "could not create command queue", errCode)
	}

	progSrc := cl.Str(programSource + "\x00")
	d.program = cl.CreateProgramWithSource(
		*d.ctx,
		1,
		&progSrc,
		nil,
		(*int32)(&errCode),
	)
	if errCode != cl.SUCCESS {
		defer d.Close()
		return statusError(d, "could not create program", errCode)
	}

	errCode = cl.BuildProgram(
		d.program,
		1,
		&d.Id,
		cl.Str(buildOptions+"\x00"),
		nil,
		nil,
	)
	if errCode != cl.SUCCESS {
		buildLog := d.buildLog()
		defer d.Close()
		return fmt.Errorf("%w:\n%s", statusError(d, "could not build program", errCode), buildLog)
	}

	return nil
}

func (d *Device) buildLog() string {
	var dataLen uint64
	data := make([]byte, 120000)

	cl.GetProgramBuildInfo(d.program, d.Id, cl.PROGRAM_BUILD_LOG, uint64(len(data)), unsafe.Pointer(&data[0]), &dataLen)
	if dataLen == 0 {
		return ""
	}
	return string(data[0 : dataLen-1])
}

// Shut down the device.
func (d *Device) Close() {
	if d.program != nil {
		cl.ReleaseProgram(d.program)
		d.program = nil
	}

	if d.cmdQueue != nil {
		cl.ReleaseCommandQueue(d.cmdQueue)
		d.cmdQueue = nil
	}

	if d.ctx != nil {
		cl.ReleaseContext(d.ctx)
		d.ctx = nil
	}
}

// Load kernel by name.
func (d *Device) Kernel(name string) (*Kernel, error) {
	if !d.Initialized() {
		return nil, ErrNotInitialized
	}

	var errCode cl.ErrorCode
	kernelHandle := cl.CreateKernel(
		d.program,
		cl.Str(name+"\x00"),
		(*int32)(&errCode),
	)
	if errCode != cl.SUCCESS {
		return nil, statusError(d, "could not load kernel "+name, errCode)
	}

	return &Kernel{
		device:       d,
		kernelHandle: kernelHandle,
		name:         name,
	}, nil
}

// Create an empty buffer.
func (d *Device) Buffer(name string) *Buffer {
	return &Buffer{
		device: d,
		name:   name,
	}
}

// Detect device speed.
func (d *Device) detectSpeed() error {
	// Theoretical device speed: compute units * clock speed
	errCode := cl.GetDeviceInfo(d.Id, cl.DEVICE_MAX_COMPUTE_UNITS, 4, unsafe.Pointer(&d.compUnits), nil)
	if errCode != cl.SUCCESS {
		return statusError(d, "could not query MAX_COMPUTE_UNITS", errCode)
	}
	errCode = cl.GetDeviceInfo(d.Id, cl.DEVICE_MAX_CLOCK_FREQUENCY, 4, unsafe.Pointer(&d.clockSpeed), nil)
	if errCode != cl.SUCCESS {
		return statusError(d, "could not query MAX_CLOCK_FREQUENCY", errCode)
	}
	d.Speed = d.compUnits * d.clockSpeed / 1000
	if d.Speed == 0 {
		d.Speed = 1
	}

	return nil
}
