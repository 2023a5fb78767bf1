package tracer

import "errors"

var (
	ErrNotAttached  = errors.New("tracer: tracer is not attached to a scene")
	ErrBusy         = errors.New("tracer: tracer is busy processing another block")
	ErrInvalidBlock = errors.New("tracer: invalid block request")
)
