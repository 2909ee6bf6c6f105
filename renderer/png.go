package renderer

import (
	"image"
	"image/png"
	"os"
)

// WritePNG encodes frame as a png image and writes it to imgFile.
func WritePNG(frame image.Image, imgFile string) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}

	err = png.Encode(f, frame)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}
