package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/NogikuchiKBYS/CUDAPathTracer/output"
	"github.com/NogikuchiKBYS/CUDAPathTracer/pathtracer"
	"github.com/NogikuchiKBYS/CUDAPathTracer/renderer"
	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	if err := loadEnv(ctx.String("env-file")); err != nil {
		return err
	}

	desc, err := loadScene(ctx)
	if err != nil {
		return err
	}
	settings := frameSettings(ctx, *desc.Settings)

	opts := renderOptions(ctx)
	if opts.MinBouncesForRR > opts.NumBounces {
		logger.Notice("disabling RR for path elimination")
	}

	useDevice, err := useDeviceBackend(ctx.String("backend"))
	if err != nil {
		return err
	}

	r, err := pathtracer.NewRenderer(settings, desc.Objects, useDevice, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %dx%d frame with %d spp", settings.Width, settings.Height, settings.Samples)
	frame, err := r.Render(runCtx, settings.Samples)
	if err != nil {
		if frame != nil && errors.Is(err, renderer.ErrInterrupted) {
			logger.Warningf("discarding partial frame (%d of %d rows)", frame.CompletedRows, frame.Height)
		}
		return err
	}

	displayFrameStats(r.Stats(), settings)

	outFile := ctx.String("out")
	if err = output.WriteFile(outFile, frame); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", outFile)

	if width := ctx.Uint("thumbnail"); width != 0 {
		thumbFile := thumbnailPath(outFile)
		if err = output.WriteThumbnail(thumbFile, frame, width); err != nil {
			return err
		}
		logger.Noticef("wrote %d px wide thumbnail to %s", width, thumbFile)
	}

	if key := ctx.String("upload"); key != "" {
		uploader, err := output.NewS3Uploader(output.S3ConfigFromEnv())
		if err != nil {
			return err
		}
		if err = uploader.UploadFrame(context.Background(), key, frame); err != nil {
			return err
		}
		logger.Noticef("uploaded frame as %s", key)
	}

	return nil
}

// Apply the frame flags that were explicitly set on top of the scene settings.
func frameSettings(ctx *cli.Context, rs scene.RenderSettings) scene.RenderSettings {
	if ctx.IsSet("width") {
		rs.Width = uint32(ctx.Uint("width"))
	}
	if ctx.IsSet("height") {
		rs.Height = uint32(ctx.Uint("height"))
	}
	if ctx.IsSet("spp") {
		rs.Samples = uint32(ctx.Uint("spp"))
	}
	if ctx.IsSet("screen-width") {
		rs.ScreenWidth = float32(ctx.Float64("screen-width"))
	}
	return rs
}

// Build the render options from the default options and the tracing flags
// that were explicitly set.
func renderOptions(ctx *cli.Context) renderer.Options {
	opts := renderer.DefaultOptions()
	if ctx.IsSet("num-bounces") {
		opts.NumBounces = uint32(ctx.Uint("num-bounces"))
	}
	if ctx.IsSet("rr-bounces") {
		opts.MinBouncesForRR = uint32(ctx.Uint("rr-bounces"))
	}
	if ctx.IsSet("rr-threshold") {
		opts.RRThreshold = float32(ctx.Float64("rr-threshold"))
	}
	if ctx.IsSet("rows-per-launch") {
		opts.RowsPerLaunch = uint32(ctx.Uint("rows-per-launch"))
	}
	if ctx.IsSet("device-type") {
		opts.DeviceType = ctx.String("device-type")
	}

	opts.Jitter = !ctx.Bool("no-jitter")
	opts.Seed = ctx.Uint64("seed")
	opts.Workers = ctx.Int("workers")
	opts.DeviceName = ctx.String("device")
	opts.BlackListedDevices = ctx.StringSlice("blacklist")
	opts.FallbackToHost = ctx.Bool("fallback")
	return opts
}

func useDeviceBackend(backend string) (bool, error) {
	switch strings.ToLower(backend) {
	case "", "host":
		return false, nil
	case "opencl":
		return true, nil
	}
	return false, fmt.Errorf("unknown backend %q (expected host or opencl)", backend)
}

// Get the thumbnail file name for an output file: frame.ppm -> frame.thumb.png.
func thumbnailPath(outFile string) string {
	if idx := strings.LastIndex(outFile, "."); idx > strings.LastIndex(outFile, "/") {
		outFile = outFile[:idx]
	}
	return outFile + ".thumb.png"
}

func displayFrameStats(stats renderer.FrameStats, rs scene.RenderSettings) {
	logger.Noticef("frame statistics\n%s", frameStatsTable(stats, rs))
}

func frameStatsTable(stats renderer.FrameStats, rs scene.RenderSettings) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Device", "Primary", "Rows", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		rows := "-"
		if stat.BlockH != 0 {
			rows = fmt.Sprintf("%d-%d", stat.BlockY, stat.BlockY+stat.BlockH-1)
		}
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%t", stat.IsPrimary),
			rows,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "TOTAL", stats.RenderTime.String()})
	table.SetCaption(true, fmt.Sprintf(
		"%d spp, seed %d, %.0f paths/s",
		stats.SamplesPerPixel,
		stats.Seed,
		stats.PathsPerSecond(rs.Width, rs.Height),
	))

	table.Render()
	return buf.String()
}
