package renderer

import "github.com/NogikuchiKBYS/CUDAPathTracer/types"

// A rendered frame. Pixels holds Width*Height radiance values in row-major
// order with row 0 at the top of the image.
type Frame struct {
	Width  uint32
	Height uint32
	Pixels []types.Vec3

	// False if rendering was interrupted. Incomplete rows contain zeros or
	// partially written values.
	Complete      bool
	CompletedRows uint32

	// The seed used for rendering the frame.
	Seed uint64
}

// Allocate an empty frame.
func NewFrame(width, height uint32) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]types.Vec3, int(width)*int(height)),
	}
}

// Get the radiance of pixel (col, row).
func (f *Frame) At(col, row uint32) types.Vec3 {
	return f.Pixels[row*f.Width+col]
}

// Get the radiance values of a frame row.
func (f *Frame) Row(row uint32) []types.Vec3 {
	return f.Pixels[row*f.Width : (row+1)*f.Width]
}
