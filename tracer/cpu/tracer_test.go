package cpu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer"
	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/integrator"
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
)

func testCamera(t *testing.T, w, h uint32) scene.Camera {
	rs := scene.DemoSettings()
	rs.Width, rs.Height, rs.Samples = w, h, 2
	cam, err := scene.NewCamera(rs)
	if err != nil {
		t.Fatal(err)
	}
	return cam
}

type blockResult struct {
	rows uint32
	err  error
}

func renderBlock(t *testing.T, tr tracer.Tracer, req tracer.BlockRequest) blockResult {
	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	req.DoneChan = doneChan
	req.ErrChan = errChan

	tr.Enqueue(req)
	select {
	case rows := <-doneChan:
		return blockResult{rows: rows}
	case err := <-errChan:
		return blockResult{err: err}
	case <-time.After(30 * time.Second):
		t.Fatal("timeout waiting for block to render")
	}
	return blockResult{}
}

func TestRenderFullFrame(t *testing.T) {
	cam := testCamera(t, 16, 12)
	sc := scene.New(scene.DemoScene(1))

	tr := NewTracer("cpu-0", 3)
	defer tr.Close()
	if err := tr.Setup(sc, cam, integrator.DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	target := make([]types.Vec3, 16*12)
	rowDone := make([]bool, 12)
	res := renderBlock(t, tr, tracer.BlockRequest{
		BlockY:          0,
		BlockH:          12,
		SamplesPerPixel: 2,
		Seed:            5,
		Target:          target,
		RowDone:         rowDone,
	})
	if res.err != nil {
		t.Fatal(res.err)
	}
	if res.rows != 12 {
		t.Fatalf("expected 12 completed rows; got %d", res.rows)
	}
	for row, done := range rowDone {
		if !done {
			t.Fatalf("expected row %d to be flagged as complete", row)
		}
	}

	if stats := tr.Stats(); stats.BlockH != 12 || stats.RenderTime <= 0 {
		t.Fatalf("unexpected tracer stats %+v", *stats)
	}

	// Compare against the integrator output for a single row
	exp := make([]types.Vec3, 16)
	integrator.RenderRow(sc, cam, 7, 2, 5, integrator.DefaultOptions(), exp)
	for col := range exp {
		if target[7*16+col] != exp[col] {
			t.Fatalf("[pixel %d, 7] expected %v; got %v", col, exp[col], target[7*16+col])
		}
	}
}

func TestOutputIndependentOfWorkerCount(t *testing.T) {
	cam := testCamera(t, 8, 8)
	sc := scene.New(scene.DemoScene(2))

	render := func(workers int) []types.Vec3 {
		tr := NewTracer("cpu", workers)
		defer tr.Close()
		if err := tr.Setup(sc, cam, integrator.DefaultOptions()); err != nil {
			t.Fatal(err)
		}

		target := make([]types.Vec3, 64)
		res := renderBlock(t, tr, tracer.BlockRequest{BlockH: 8, SamplesPerPixel: 2, Seed: 77, Target: target})
		if res.err != nil {
			t.Fatal(res.err)
		}
		return target
	}

	single := render(1)
	many := render(5)
	for i := range single {
		if single[i] != many[i] {
			t.Fatalf("[pixel %d] expected identical output; got %v and %v", i, single[i], many[i])
		}
	}
}

func TestPartialBlock(t *testing.T) {
	cam := testCamera(t, 4, 10)
	tr := NewTracer("cpu", 2)
	defer tr.Close()
	if err := tr.Setup(scene.New(scene.FurnaceScene(types.Splat(1), 1e3)), cam, integrator.DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	target := make([]types.Vec3, 40)
	rowDone := make([]bool, 10)
	res := renderBlock(t, tr, tracer.BlockRequest{BlockY: 3, BlockH: 4, SamplesPerPixel: 1, Target: target, RowDone: rowDone})
	if res.err != nil {
		t.Fatal(res.err)
	}

	for row := 0; row < 10; row++ {
		inBlock := row >= 3 && row < 7
		if rowDone[row] != inBlock {
			t.Fatalf("expected row %d completion flag to be %t", row, inBlock)
		}
		for col := 0; col < 4; col++ {
			if px := target[row*4+col]; px.IsZero() == inBlock {
				t.Fatalf("[pixel %d, %d] unexpected value %v", col, row, px)
			}
		}
	}
}

func TestCancelledBlock(t *testing.T) {
	cam := testCamera(t, 4, 32)
	tr := NewTracer("cpu", 2)
	defer tr.Close()
	if err := tr.Setup(scene.New(scene.DemoScene(1)), cam, integrator.DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rowDone := make([]bool, 32)
	res := renderBlock(t, tr, tracer.BlockRequest{
		Context:         ctx,
		BlockH:          32,
		SamplesPerPixel: 1,
		Target:          make([]types.Vec3, 4*32),
		RowDone:         rowDone,
	})
	if !errors.Is(res.err, context.Canceled) {
		t.Fatalf("expected error wrapping %v; got %v", context.Canceled, res.err)
	}
	for row, done := range rowDone {
		if done {
			t.Fatalf("expected row %d to not be rendered", row)
		}
	}
}

func TestRequestErrors(t *testing.T) {
	cam := testCamera(t, 4, 4)

	tr := NewTracer("cpu", 1)
	defer tr.Close()

	res := renderBlock(t, tr, tracer.BlockRequest{BlockH: 4, SamplesPerPixel: 1, Target: make([]types.Vec3, 16)})
	if !errors.Is(res.err, tracer.ErrNotAttached) {
		t.Fatalf("expected error %v; got %v", tracer.ErrNotAttached, res.err)
	}

	if err := tr.Setup(scene.New(nil), cam, integrator.DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	type spec struct {
		name string
		req  tracer.BlockRequest
	}
	specs := []spec{
		{"empty block", tracer.BlockRequest{SamplesPerPixel: 1, Target: make([]types.Vec3, 16)}},
		{"out of frame", tracer.BlockRequest{BlockY: 2, BlockH: 3, SamplesPerPixel: 1, Target: make([]types.Vec3, 16)}},
		{"small target", tracer.BlockRequest{BlockH: 4, SamplesPerPixel: 1, Target: make([]types.Vec3, 8)}},
		{"no samples", tracer.BlockRequest{BlockH: 4, Target: make([]types.Vec3, 16)}},
	}
	for _, s := range specs {
		res := renderBlock(t, tr, s.req)
		if !errors.Is(res.err, tracer.ErrInvalidBlock) {
			t.Fatalf("[%s] expected error %v; got %v", s.name, tracer.ErrInvalidBlock, res.err)
		}
	}
}
