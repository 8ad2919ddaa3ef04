package render

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/nfnt/resize"
)

const (
	// IconMaxHeight bounds the icon drawn in each card's lower-left corner.
	IconMaxHeight = 15.0
	// iconPixels caps the embedded image; the icon never prints larger
	// than a few dozen points.
	iconPixels = 256
)

// Icon is a card icon decoded and normalized to PNG
type Icon struct {
	Name   string
	Data   []byte
	Width  int
	Height int
}

// LoadIcon decodes a png, jpeg or gif file, downscales it and re-encodes it
// as PNG.
func LoadIcon(path string) (*Icon, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return DecodeIcon(file, path)
}

// DecodeIcon reads an icon image from r. The name identifies the image
// within a document.
func DecodeIcon(r io.Reader, name string) (*Icon, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode icon: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > iconPixels || bounds.Dy() > iconPixels {
		img = resize.Thumbnail(iconPixels, iconPixels, img, resize.Lanczos3)
		bounds = img.Bounds()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}

	return &Icon{
		Name:   fmt.Sprintf("icon-%x", md5.Sum([]byte(name))),
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Fit scales the icon to fit inside maxW x maxH, keeping its aspect ratio.
func (i *Icon) Fit(maxW, maxH float64) (float64, float64) {
	if i.Width <= 0 || i.Height <= 0 {
		return 0, 0
	}
	w, h := float64(i.Width), float64(i.Height)
	scale := min(maxW/w, maxH/h)
	return w * scale, h * scale
}
