package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/scene/reader"
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

const (
	furnaceRadius    float32 = 10
	defaultSceneSeed uint64  = 1
)

var (
	errMissingScene   = errors.New("missing scene file argument or --preset")
	errAmbiguousScene = errors.New("a scene file and --preset are mutually exclusive")
)

// Load the scene named by the command arguments or the --preset flag.
// Scene files that do not define a camera inherit the demo settings.
func loadScene(ctx *cli.Context) (*reader.Description, error) {
	preset := ctx.String("preset")
	switch {
	case ctx.NArg() == 0 && preset == "":
		return nil, errMissingScene
	case ctx.NArg() != 0 && preset != "":
		return nil, errAmbiguousScene
	case preset != "":
		seed := defaultSceneSeed
		if ctx.IsSet("seed") {
			seed = ctx.Uint64("seed")
		}
		return presetScene(preset, seed)
	}

	sceneFile := ctx.Args().First()
	logger.Noticef("reading scene: %s", sceneFile)
	desc, err := reader.ReadScene(sceneFile)
	if err != nil {
		return nil, err
	}
	if desc.Settings == nil {
		logger.Notice("scene does not define a camera; using demo camera settings")
		settings := scene.DemoSettings()
		desc.Settings = &settings
	}
	return desc, nil
}

// Build one of the built-in scenes.
func presetScene(name string, seed uint64) (*reader.Description, error) {
	switch name {
	case "demo":
		settings := scene.DemoSettings()
		return &reader.Description{
			Settings: &settings,
			Objects:  scene.DemoScene(seed),
		}, nil
	case "furnace":
		settings := scene.DemoSettings()
		settings.ViewFrom = types.XYZ(0, 0, furnaceRadius/2)
		return &reader.Description{
			Settings: &settings,
			Objects:  scene.FurnaceScene(types.Splat(1), furnaceRadius),
		}, nil
	}
	return nil, fmt.Errorf("unknown scene preset %q (expected demo or furnace)", name)
}

// Display scene statistics.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	desc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("scene information\n%s", sceneInfoTable(desc))
	return nil
}

func sceneInfoTable(desc *reader.Description) string {
	st := scene.New(desc.Objects).Stats()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Objects", fmt.Sprintf("%d", st.Objects)})
	table.Append([]string{"Spheres", fmt.Sprintf("%d", st.Spheres)})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", st.Triangles)})
	table.Append([]string{"Emitters", fmt.Sprintf("%d", st.Emitters)})
	if st.Objects != 0 {
		table.Append([]string{"Bounds", st.Bounds.String()})
	}
	if rs := desc.Settings; rs != nil {
		table.Append([]string{"Camera", fmt.Sprintf("%v -> %v (up %v)", rs.ViewFrom, rs.ViewAt, rs.UpVec)})
		table.Append([]string{"Screen width", fmt.Sprintf("%g", rs.ScreenWidth)})
		table.Append([]string{"Frame", fmt.Sprintf("%dx%d @ %d spp", rs.Width, rs.Height, rs.Samples)})
	}

	table.Render()
	return buf.String()
}
