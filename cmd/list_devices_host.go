//go:build !opencl

package cmd

import (
	"github.com/NogikuchiKBYS/CUDAPathTracer/pathtracer"
	"github.com/urfave/cli"
)

// List available opencl devices. Binaries built without the opencl tag have
// no device support.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx)
	return pathtracer.ErrNoDeviceSupport
}
