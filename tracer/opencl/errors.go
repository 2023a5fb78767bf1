//go:build opencl

package opencl

import "errors"

var (
	ErrNoDevice      = errors.New("opencl tracer: no device assigned to tracer")
	ErrSceneTooLarge = errors.New("opencl tracer: scene exceeds the device object limit")
	ErrFrameTooLarge = errors.New("opencl tracer: frame exceeds the device pixel limit")
)
