//go:build opencl

package pathtracer

import (
	"testing"

	"github.com/NogikuchiKBYS/CUDAPathTracer/renderer"
)

func TestUnknownDeviceType(t *testing.T) {
	opts := renderer.DefaultOptions()
	opts.DeviceType = "fpga"
	if _, err := SelectDevices(opts); err == nil {
		t.Fatal("expected an error for an unknown device type")
	}
}
