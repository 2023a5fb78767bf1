package output

import "errors"

var (
	ErrIncompleteFrame   = errors.New("output: refusing to write an incomplete frame")
	ErrUnsupportedFormat = errors.New("output: unsupported image format")
	ErrMissingS3Config   = errors.New("output: incomplete S3 configuration")
)
