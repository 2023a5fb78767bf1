package main

import (
	"os"

	"github.com/NogikuchiKBYS/CUDAPathTracer/cmd"
	"github.com/NogikuchiKBYS/CUDAPathTracer/log"
	"github.com/urfave/cli"
)

var logger = log.New("pathtrace")

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "preset",
			Usage: "render a built-in scene (demo or furnace) instead of a scene file",
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "run seed; also seeds the random spheres of the demo preset (0 selects a time-derived seed)",
		},
	}

	app := cli.NewApp()
	app.Name = "pathtrace"
	app.Usage = "render scenes of spheres and triangles using path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "list-devices",
			Usage:  "list available opencl devices",
			Action: cmd.ListDevices,
		},
		{
			Name:      "scene-info",
			Usage:     "display scene statistics",
			ArgsUsage: "[scene_file.json|scene_file.obj]",
			Flags:     sceneFlags,
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "render",
			Usage: "render single frame",
			Description: `
Render a single frame of a scene file (.json or .obj, local path or http(s)
URL) or a built-in preset. Frame flags override the settings defined by the
scene file.

Press ctrl+c to interrupt the render.`,
			ArgsUsage: "[scene_file.json|scene_file.obj]",
			Flags: append([]cli.Flag{
				cli.UintFlag{
					Name:  "width",
					Usage: "frame width",
				},
				cli.UintFlag{
					Name:  "height",
					Usage: "frame height",
				},
				cli.UintFlag{
					Name:  "spp",
					Usage: "samples per pixel",
				},
				cli.Float64Flag{
					Name:  "screen-width",
					Usage: "width of the screen plane at unit distance from the camera",
				},
				cli.UintFlag{
					Name:  "num-bounces",
					Usage: "number of indirect ray bounces",
				},
				cli.UintFlag{
					Name:  "rr-bounces",
					Usage: "min number of bounces before applying russian roulette; values above num-bounces disable it",
				},
				cli.Float64Flag{
					Name:  "rr-threshold",
					Usage: "apply russian roulette while the path throughput is below this value",
				},
				cli.BoolFlag{
					Name:  "no-jitter",
					Usage: "trace primary rays through the pixel corner",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of host render goroutines (0 uses all cpus)",
				},
				cli.StringFlag{
					Name:  "backend",
					Value: "host",
					Usage: "render backend (host or opencl)",
				},
				cli.StringFlag{
					Name:  "device, d",
					Usage: "only use opencl devices whose names contain this value",
				},
				cli.StringFlag{
					Name:  "device-type",
					Value: "all",
					Usage: "opencl device type (cpu, gpu or all)",
				},
				cli.StringSliceFlag{
					Name:  "blacklist, b",
					Value: &cli.StringSlice{},
					Usage: "blacklist opencl device whose names contain this value",
				},
				cli.BoolFlag{
					Name:  "fallback",
					Usage: "render on the host if no opencl device can be used",
				},
				cli.UintFlag{
					Name:  "rows-per-launch",
					Usage: "number of frame rows traced by each opencl kernel launch",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.ppm",
					Usage: "image filename for the rendered frame (.ppm or .png)",
				},
				cli.UintFlag{
					Name:  "thumbnail",
					Usage: "also write a png thumbnail with this width",
				},
				cli.StringFlag{
					Name:  "upload",
					Usage: "upload the frame to S3 under this key (configured by S3_* environment variables)",
				},
				cli.StringFlag{
					Name:  "env-file",
					Value: ".env",
					Usage: "load environment variables from this file",
				},
			}, sceneFlags...),
			Action: cmd.RenderFrame,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
