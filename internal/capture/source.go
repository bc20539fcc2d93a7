package capture

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperr "screen-translator/internal/errors"
	"screen-translator/internal/imageio"
	"screen-translator/internal/tempfiles"
	"screen-translator/pkg/geometry"
)

// MinRegionSize is the smallest accepted selection in either dimension.
const MinRegionSize = 10

// ErrNoClipboardImage is returned when the clipboard holds no usable image.
var ErrNoClipboardImage = apperr.New(apperr.KindCapture, "clipboard has no image")

// Fullscreen captures the whole primary display into the workspace.
func Fullscreen(s Screen, ws *tempfiles.Workspace) (string, error) {
	bounds, err := s.Bounds()
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindCapture, "cannot determine screen size")
	}
	return grab(s, bounds, ws.Path(tempfiles.Fullscreen))
}

// Region captures r, given in screen coordinates, into the workspace.
// Selections smaller than MinRegionSize in either dimension are rejected.
func Region(s Screen, r geometry.RectInt, ws *tempfiles.Workspace) (string, error) {
	if r.Width <= MinRegionSize || r.Height <= MinRegionSize {
		return "", apperr.Newf(apperr.KindCapture, "selection %dx%d is too small", r.Width, r.Height)
	}
	return grab(s, r, ws.Path(tempfiles.AreaScreenshot))
}

// RegionOf saves the part of shot inside r. shot covers bounds on screen
// and r is in screen coordinates.
func RegionOf(shot image.Image, bounds, r geometry.RectInt, ws *tempfiles.Workspace) (string, error) {
	if r.Width <= MinRegionSize || r.Height <= MinRegionSize {
		return "", apperr.Newf(apperr.KindCapture, "selection %dx%d is too small", r.Width, r.Height)
	}
	local := r.Offset(-bounds.X, -bounds.Y).Offset(shot.Bounds().Min.X, shot.Bounds().Min.Y)
	img, err := imageio.Crop(shot, local)
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindCapture, "selection is outside the screen")
	}
	dst := ws.Path(tempfiles.AreaScreenshot)
	if err := imageio.SavePNG(img, dst); err != nil {
		return "", apperr.Wrap(err, apperr.KindCapture, "cannot save screenshot")
	}
	return dst, nil
}

func grab(s Screen, r geometry.RectInt, dst string) (string, error) {
	slog.Debug("capturing screen", "region", describe(r), "dst", dst)
	img, err := s.Capture(r)
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindCapture, "screenshot failed")
	}
	if err := imageio.SavePNG(img, dst); err != nil {
		return "", apperr.Wrap(err, apperr.KindCapture, "cannot save screenshot")
	}
	return dst, nil
}

// FromClipboard saves a clipboard image into the workspace. When the
// clipboard holds text naming an existing image file instead, that path
// is returned unchanged.
func FromClipboard(cb Clipboard, ws *tempfiles.Workspace) (string, error) {
	data, err := cb.ReadImage()
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindCapture, "cannot read clipboard")
	}
	if len(data) > 0 {
		img, err := imageio.Decode(data)
		if err != nil {
			return "", apperr.Wrap(err, apperr.KindDecode, "unsupported clipboard image")
		}
		dst := ws.Path(tempfiles.Clipboard)
		if err := imageio.SavePNG(img, dst); err != nil {
			return "", apperr.Wrap(err, apperr.KindCapture, "cannot save clipboard image")
		}
		return dst, nil
	}

	text, err := cb.ReadText()
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindCapture, "cannot read clipboard")
	}
	path := firstLine(text)
	if path == "" {
		return "", ErrNoClipboardImage
	}
	path = strings.TrimPrefix(path, "file://")
	if _, err := os.Stat(path); err != nil {
		return "", ErrNoClipboardImage
	}
	if !imageio.IsImageFile(path) {
		return "", apperr.Newf(apperr.KindCapture, "clipboard file %s is not an image", filepath.Base(path))
	}
	return path, nil
}

// File validates a user-picked image path.
func File(path string) (string, error) {
	if path == "" {
		return "", apperr.New(apperr.KindCapture, "no file chosen")
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindCapture, "cannot open file")
	}
	if info.IsDir() {
		return "", apperr.Newf(apperr.KindCapture, "%s is a directory", filepath.Base(path))
	}
	if !imageio.IsImageFile(path) {
		return "", apperr.Newf(apperr.KindCapture, "%s is not a supported image (%s)",
			filepath.Base(path), strings.Join(imageio.ImageExtensions, ", "))
	}
	return path, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// describe is used in log messages.
func describe(r geometry.RectInt) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
