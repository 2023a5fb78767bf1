package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/NogikuchiKBYS/CUDAPathTracer/renderer"
	"github.com/nfnt/resize"
)

// Convert the frame to an 8-bit RGBA image using the same quantization as
// WritePPM.
func ToRGBA(frame *renderer.Frame) (*image.RGBA, error) {
	if err := checkFrame(frame); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, int(frame.Width), int(frame.Height)))
	for row := uint32(0); row < frame.Height; row++ {
		for col := uint32(0); col < frame.Width; col++ {
			px := frame.At(col, row)
			img.SetRGBA(int(col), int(row), color.RGBA{toByte(px[0]), toByte(px[1]), toByte(px[2]), 255})
		}
	}
	return img, nil
}

// Write the frame as a PNG image.
func WritePNG(w io.Writer, frame *renderer.Frame) error {
	img, err := ToRGBA(frame)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Downscale the frame to the given width preserving its aspect ratio.
func Thumbnail(frame *renderer.Frame, width uint) (image.Image, error) {
	img, err := ToRGBA(frame)
	if err != nil {
		return nil, err
	}
	if width == 0 || width >= uint(frame.Width) {
		return img, nil
	}
	return resize.Resize(width, 0, img, resize.Lanczos3), nil
}

// Get the content type of the image format selected by the file extension.
func ContentType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return "image/x-portable-pixmap", nil
	case ".png":
		return "image/png", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Encode the frame in the format selected by the path extension.
func Encode(w io.Writer, path string, frame *renderer.Frame) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return WritePPM(w, frame)
	case ".png":
		return WritePNG(w, frame)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Write the frame to a file in the format selected by its extension.
func WriteFile(path string, frame *renderer.Frame) error {
	if _, err := ContentType(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = Encode(f, path, frame)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Write a PNG thumbnail of the frame to path.
func WriteThumbnail(path string, frame *renderer.Frame, width uint) error {
	img, err := Thumbnail(frame, width)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = png.Encode(f, img)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}
