package tracer

import (
	"context"
	"fmt"
)

// Check that the request describes a block inside a frameW x frameH frame
// and that its buffers can hold the frame.
func (req *BlockRequest) Validate(frameW, frameH uint32) error {
	switch {
	case req.BlockH == 0:
		return fmt.Errorf("%w: empty block", ErrInvalidBlock)
	case uint64(req.BlockY)+uint64(req.BlockH) > uint64(frameH):
		return fmt.Errorf("%w: rows [%d, %d) exceed frame height %d", ErrInvalidBlock, req.BlockY, req.BlockY+req.BlockH, frameH)
	case uint64(len(req.Target)) < uint64(frameW)*uint64(frameH):
		return fmt.Errorf("%w: target buffer holds %d pixels; need %d", ErrInvalidBlock, len(req.Target), frameW*frameH)
	case req.RowDone != nil && uint32(len(req.RowDone)) < frameH:
		return fmt.Errorf("%w: row flags hold %d rows; need %d", ErrInvalidBlock, len(req.RowDone), frameH)
	case req.SamplesPerPixel == 0:
		return fmt.Errorf("%w: samples per pixel must be > 0", ErrInvalidBlock)
	}
	return nil
}

// Get the request context or context.Background if none is set.
func (req *BlockRequest) Ctx() context.Context {
	if req.Context == nil {
		return context.Background()
	}
	return req.Context
}

// Flag a block row as complete.
func (req *BlockRequest) MarkRowDone(row uint32) {
	if req.RowDone != nil {
		req.RowDone[row] = true
	}
}
