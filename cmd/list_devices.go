//go:build opencl

package cmd

import (
	"bytes"
	"fmt"

	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/opencl/device"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List available opencl devices.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx)

	platforms, err := device.GetPlatformInfo()
	if err != nil {
		return err
	}

	logger.Noticef("system provides %d opencl platform(s)\n%s", len(platforms), deviceTable(platforms))
	return nil
}

func deviceTable(platforms []device.PlatformInfo) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Platform", "Version", "Device", "Type", "Compute units", "Clock (Mhz)", "Speed (GFlops)"})
	for _, pl := range platforms {
		if len(pl.Devices) == 0 {
			table.Append([]string{pl.Name, pl.Version, "-", "-", "-", "-", "-"})
			continue
		}
		for _, dev := range pl.Devices {
			table.Append([]string{
				pl.Name,
				pl.Version,
				dev.Name,
				dev.Type.String(),
				fmt.Sprintf("%d", dev.ComputeUnits()),
				fmt.Sprintf("%d", dev.ClockSpeed()),
				fmt.Sprintf("%d", dev.Speed),
			})
		}
	}

	table.Render()
	return buf.String()
}
