package scene

import (
	"fmt"

	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

// Minimum length of forward x up before the camera basis is considered
// degenerate.
const minBasisLen float32 = 1e-6

// Camera placement and output resolution for a single render.
type RenderSettings struct {
	// Camera eye position, look-at target and up vector.
	ViewFrom types.Vec3
	ViewAt   types.Vec3
	UpVec    types.Vec3

	// Width of the screen plane placed at unit distance from the eye, in
	// world units.
	ScreenWidth float32

	// Output frame dimensions.
	Width  uint32
	Height uint32

	// Number of paths traced per pixel.
	Samples uint32
}

// Check the settings for configuration errors. All returned errors wrap
// ErrInvalidSettings.
func (rs RenderSettings) Validate() error {
	if rs.Width == 0 || rs.Height == 0 {
		return fmt.Errorf("%w: %w (got %dx%d)", ErrInvalidSettings, ErrInvalidResolution, rs.Width, rs.Height)
	}
	if rs.Samples == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, ErrInvalidSampleCount)
	}
	if !(rs.ScreenWidth > 0) || math32.IsInf(rs.ScreenWidth, 0) {
		return fmt.Errorf("%w: %w (got %f)", ErrInvalidSettings, ErrInvalidScreenWidth, rs.ScreenWidth)
	}

	view := rs.ViewAt.Sub(rs.ViewFrom)
	if view.Len() < minBasisLen {
		return fmt.Errorf("%w: %w: eye and look-at positions coincide", ErrInvalidSettings, ErrDegenerateCamera)
	}
	if view.Normalize().Cross(rs.UpVec.Normalize()).Len() < minBasisLen {
		return fmt.Errorf("%w: %w: up vector %v is parallel to the view direction", ErrInvalidSettings, ErrDegenerateCamera, rs.UpVec)
	}
	return nil
}

// Get the screen plane height implied by the screen width and frame aspect.
func (rs RenderSettings) ScreenHeight() float32 {
	return rs.ScreenWidth * float32(rs.Height) / float32(rs.Width)
}
