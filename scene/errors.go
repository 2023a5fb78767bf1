package scene

import "errors"

var (
	// All render settings validation errors wrap this error.
	ErrInvalidSettings = errors.New("scene: invalid render settings")

	ErrInvalidResolution  = errors.New("frame width and height must be > 0")
	ErrInvalidSampleCount = errors.New("samples per pixel must be > 0")
	ErrInvalidScreenWidth = errors.New("screen width must be a positive finite value")
	ErrDegenerateCamera   = errors.New("degenerate camera basis")
)
