package renderer

import "errors"

var (
	ErrNoTracers         = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined   = errors.New("renderer: no scene defined")
	ErrDeviceUnavailable = errors.New("renderer: no usable parallel device available")
	ErrInterrupted       = errors.New("renderer: interrupted while rendering")
)
