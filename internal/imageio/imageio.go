// Package imageio loads, saves and resizes raster images.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"screen-translator/pkg/geometry"
)

// Preview bounds for the thumbnail shown in the main window.
const (
	PreviewMaxWidth  = 400
	PreviewMaxHeight = 80
)

// ImageExtensions lists the file types accepted from pickers and the clipboard.
var ImageExtensions = []string{"png", "jpg", "jpeg", "bmp", "tiff", "gif"}

// IsImageFile reports whether filename has an accepted image extension.
func IsImageFile(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Open decodes an image file, applying EXIF orientation.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Decode decodes image bytes in any registered format.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}
	return img, nil
}

// SavePNG writes img to path as PNG.
func SavePNG(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Thumbnail scales img down to fit within maxW x maxH, preserving aspect
// ratio. Images already inside the bounds are returned unchanged.
func Thumbnail(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}

// WritePreview writes the main-window preview thumbnail for src to dst and
// returns its size.
func WritePreview(src, dst string) (image.Point, error) {
	img, err := Open(src)
	if err != nil {
		return image.Point{}, err
	}
	thumb := Thumbnail(img, PreviewMaxWidth, PreviewMaxHeight)
	if err := SavePNG(thumb, dst); err != nil {
		return image.Point{}, err
	}
	return thumb.Bounds().Size(), nil
}

// Crop returns the part of img inside r, clipped to the image bounds.
func Crop(img image.Image, r geometry.RectInt) (image.Image, error) {
	rect := r.Image().Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, img.Bounds())
	}
	return imaging.Crop(img, rect), nil
}
