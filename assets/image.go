// Package assets loads the static picture shown by the image variant.
package assets

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes the picture at path. PNG, JPEG, GIF, BMP, TIFF and
// WebP are recognised by content, not extension. The returned string is
// the decoder's format name.
func LoadImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", path, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, "", fmt.Errorf("decoding %s: image has no pixels", path)
	}
	return img, format, nil
}

// Checkerboard returns a two-tone test pattern with square cells and a
// transparent diagonal band, so background blending is visible.
func Checkerboard(width, height, cell int) *image.NRGBA {
	if cell < 1 {
		cell = 1
	}
	light := color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	dark := color.NRGBA{R: 0x30, G: 0x60, B: 0x90, A: 0xff}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := light
			if (x/cell+y/cell)%2 == 1 {
				c = dark
			}
			if d := x - y; d >= 0 && d < cell/2 {
				c.A = 0
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
