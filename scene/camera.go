package scene

import (
	"fmt"

	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
)

// A pinhole camera with an orthonormal basis derived from the render
// settings. The screen plane sits at unit distance along Forward.
type Camera struct {
	Eye     types.Vec3
	Forward types.Vec3
	Right   types.Vec3
	Up      types.Vec3

	// Screen plane dimensions in world units.
	ScreenW float32
	ScreenH float32

	// Frame dimensions in pixels.
	FrameW uint32
	FrameH uint32
}

// Build a camera from the given settings. An error is returned if the
// settings fail validation.
func NewCamera(rs RenderSettings) (Camera, error) {
	if err := rs.Validate(); err != nil {
		return Camera{}, err
	}

	forward := rs.ViewAt.Sub(rs.ViewFrom).Normalize()
	right := forward.Cross(rs.UpVec).Normalize()
	up := right.Cross(forward)

	return Camera{
		Eye:     rs.ViewFrom,
		Forward: forward,
		Right:   right,
		Up:      up,
		ScreenW: rs.ScreenWidth,
		ScreenH: rs.ScreenHeight(),
		FrameW:  rs.Width,
		FrameH:  rs.Height,
	}, nil
}

// Generate a primary ray through pixel (col, row). The jitter offsets are
// expressed in pixels and should lie in [-0.5, 0.5); passing zero for both
// aims the ray at the pixel center. Row 0 is the top of the frame.
func (c Camera) Ray(col, row uint32, jitterX, jitterY float32) Ray {
	u := ((float32(col)+0.5+jitterX)/float32(c.FrameW) - 0.5) * c.ScreenW
	v := (0.5 - (float32(row)+0.5+jitterY)/float32(c.FrameH)) * c.ScreenH

	dir := c.Forward.Add(c.Right.Mul(u)).Add(c.Up.Mul(v)).Normalize()
	return Ray{Start: c.Eye, Dir: dir}
}

func (c Camera) String() string {
	return fmt.Sprintf(
		"Camera:\nEye     : (%3.3f, %3.3f, %3.3f)\nForward : (%3.3f, %3.3f, %3.3f)\nRight   : (%3.3f, %3.3f, %3.3f)\nUp      : (%3.3f, %3.3f, %3.3f)\nScreen  : %3.3f x %3.3f",
		c.Eye[0], c.Eye[1], c.Eye[2],
		c.Forward[0], c.Forward[1], c.Forward[2],
		c.Right[0], c.Right[1], c.Right[2],
		c.Up[0], c.Up[1], c.Up[2],
		c.ScreenW, c.ScreenH,
	)
}
