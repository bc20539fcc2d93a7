package ocr

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "screen-translator/internal/errors"
	"screen-translator/internal/imageio"
)

// textLikeImage draws dark bars on a light background.
func textLikeImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{220, 220, 210, 255}
			if y > h/3 && y < 2*h/3 && (x/6)%2 == 0 {
				c = color.RGBA{30, 30, 40, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPreprocessUpscalesAndBinarizes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.png")
	dst := filepath.Join(dir, "out.png")
	require.NoError(t, imageio.SavePNG(textLikeImage(200, 50), src))

	require.NoError(t, Preprocess(src, dst))

	out, err := imageio.Open(dst)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(MinPreprocessWidth, 200), out.Bounds().Size())

	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 7 {
		for x := b.Min.X; x < b.Max.X; x += 13 {
			g := color.GrayModel.Convert(out.At(x, y)).(color.Gray).Y
			if g != 0 && g != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want binary", x, y, g)
			}
		}
	}
}

func TestPreprocessKeepsWideImages(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	dst := filepath.Join(dir, "out.png")
	require.NoError(t, imageio.SavePNG(textLikeImage(1000, 100), src))

	require.NoError(t, Preprocess(src, dst))

	out, err := imageio.Open(dst)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1000, 100), out.Bounds().Size())
}

func TestPreprocessUndecodableImage(t *testing.T) {
	dir := t.TempDir()
	err := Preprocess(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindDecode))
}
