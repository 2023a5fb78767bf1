package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/NogikuchiKBYS/CUDAPathTracer/renderer"
	"github.com/chewxy/math32"
)

// Quantize a radiance channel to 8 bits as min(255, int(255*v)). Negative
// and NaN values map to 0.
func toByte(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	scaled := 255 * v
	if scaled >= 255 || math32.IsInf(scaled, 1) {
		return 255
	}
	return uint8(scaled)
}

// Write the frame as a plain (P3) PPM image: a "P3" line, the frame
// dimensions, the max value 255 and one "r g b" line per pixel in row-major
// order.
func WritePPM(w io.Writer, frame *renderer.Frame) error {
	if err := checkFrame(frame); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return err
	}
	for _, px := range frame.Pixels {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", toByte(px[0]), toByte(px[1]), toByte(px[2])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func checkFrame(frame *renderer.Frame) error {
	if frame == nil || !frame.Complete {
		return ErrIncompleteFrame
	}
	if len(frame.Pixels) != int(frame.Width)*int(frame.Height) {
		return fmt.Errorf("%w: frame holds %d pixels; expected %dx%d", ErrIncompleteFrame, len(frame.Pixels), frame.Width, frame.Height)
	}
	return nil
}
