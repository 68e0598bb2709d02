// Package signature normalizes a captured tenant signature into the PNG data
// URL stored on a work order.
package signature

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	stddraw "image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/pipemene/bluehome-os/internal/core/media"
)

// ErrEmpty is returned when the image holds no ink.
var ErrEmpty = errors.New("signature is empty")

const (
	// MaxWidth bounds the stored signature; wider captures are scaled down.
	MaxWidth = 880

	// A pixel counts as ink when it is mostly opaque and darker than near-white.
	minAlpha  = 0x2000
	maxBright = 0xF000
)

// Capture trims raw to the bounding box of its ink and returns it as a PNG
// data URL.
func Capture(raw []byte) (string, error) {
	img, err := decode(raw)
	if err != nil {
		return "", err
	}

	ink, ok := InkBounds(img)
	if !ok {
		return "", ErrEmpty
	}

	trimmed := image.NewNRGBA(image.Rect(0, 0, ink.Dx(), ink.Dy()))
	stddraw.Draw(trimmed, trimmed.Bounds(), img, ink.Min, stddraw.Src)

	var out image.Image = trimmed
	if ink.Dx() > MaxWidth {
		h := ink.Dy() * MaxWidth / ink.Dx()
		if h < 1 {
			h = 1
		}
		scaled := image.NewNRGBA(image.Rect(0, 0, MaxWidth, h))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), trimmed, trimmed.Bounds(), xdraw.Over, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return "", fmt.Errorf("failed to encode signature: %w", err)
	}
	return media.EncodeDataURL("image/png", buf.Bytes()), nil
}

// InkBounds returns the smallest rectangle holding every ink pixel.
func InkBounds(img image.Image) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !isInk(img.At(x, y).RGBA()) {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func isInk(r, g, b, a uint32) bool {
	if a < minAlpha {
		return false
	}
	// Colors are alpha-premultiplied; compare against the straight value.
	r, g, b = r*0xFFFF/a, g*0xFFFF/a, b*0xFFFF/a
	return r < maxBright || g < maxBright || b < maxBright
}

func decode(raw []byte) (image.Image, error) {
	if len(raw) == 0 {
		return nil, ErrEmpty
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err == nil {
		return img, nil
	}
	if decoded, webpErr := webp.Decode(bytes.NewReader(raw)); webpErr == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("unable to decode signature image: %w", err)
}
