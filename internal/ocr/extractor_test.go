package ocr

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "screen-translator/internal/errors"
	"screen-translator/internal/tempfiles"
)

// scriptedDetector returns results keyed by call order.
type scriptedDetector struct {
	results []DetectionSet
	errs    []error
	paths   []string
}

func (d *scriptedDetector) Detect(_ context.Context, path string) (DetectionSet, error) {
	i := len(d.paths)
	d.paths = append(d.paths, path)
	var err error
	if i < len(d.errs) {
		err = d.errs[i]
	}
	if i < len(d.results) {
		return d.results[i], err
	}
	return nil, err
}

type singleSource struct{ det Detector }

func (s singleSource) For(string) Detector { return s.det }

func newTestExtractor(t *testing.T, det Detector) (*Extractor, *[]string) {
	t.Helper()
	ws, err := tempfiles.New(t.TempDir())
	require.NoError(t, err)

	var preprocessed []string
	x := NewExtractor(singleSource{det}, ws)
	x.Preprocess = func(src, dst string) error {
		preprocessed = append(preprocessed, dst)
		return os.WriteFile(dst, []byte("png"), 0o644)
	}
	return x, &preprocessed
}

func TestExtractHighConfidencePathSkipsPreprocessing(t *testing.T) {
	d := &scriptedDetector{results: []DetectionSet{{
		det(0, 0, "Hello", 0.61),
		det(60, 0, "world", 0.3),
	}}}
	x, pre := newTestExtractor(t, d)

	out, err := x.Extract(context.Background(), "shot.png", "auto")

	require.NoError(t, err)
	assert.Equal(t, "Hello world", out.Text)
	assert.Equal(t, PassRaw, out.Pass)
	assert.Equal(t, 2, out.Detections)
	assert.Equal(t, 2, out.Kept)
	assert.InDelta(t, 0.455, out.MeanConfidence, 1e-9)
	assert.Empty(t, *pre)
	assert.Equal(t, []string{"shot.png"}, d.paths)
}

func TestExtractUsesPreprocessedPass(t *testing.T) {
	d := &scriptedDetector{results: []DetectionSet{
		{det(0, 0, "HeIl0", 0.5)},
		{det(0, 0, "Hello", 0.31)},
	}}
	x, pre := newTestExtractor(t, d)

	out, err := x.Extract(context.Background(), "shot.png", "en")

	require.NoError(t, err)
	assert.Equal(t, "Hello", out.Text)
	assert.Equal(t, PassPreprocessed, out.Pass)
	require.Len(t, *pre, 1)
	assert.Equal(t, (*pre)[0], d.paths[1])
	assert.NoFileExists(t, (*pre)[0], "preprocessed file must be removed")
}

func TestExtractFallsBackToRawWhenReprocessWeak(t *testing.T) {
	d := &scriptedDetector{results: []DetectionSet{
		{det(0, 0, "faint", 0.25)},
		{det(0, 0, "noise", 0.3)},
	}}
	x, pre := newTestExtractor(t, d)

	out, err := x.Extract(context.Background(), "shot.png", "auto")

	require.NoError(t, err)
	assert.Equal(t, PassRawFallback, out.Pass)
	assert.Equal(t, "faint", out.Text)
	assert.NoFileExists(t, (*pre)[0])
}

func TestExtractFallbackCanBeDisabled(t *testing.T) {
	d := &scriptedDetector{results: []DetectionSet{
		{det(0, 0, "faint", 0.25)},
		{det(0, 0, "noise", 0.3)},
	}}
	x, _ := newTestExtractor(t, d)
	x.Thresholds.FallbackToRaw = false

	out, err := x.Extract(context.Background(), "shot.png", "auto")

	require.NoError(t, err)
	assert.Equal(t, PassPreprocessed, out.Pass)
	assert.Equal(t, "noise", out.Text)
}

func TestExtractNoDetectionsIsEmptyNotError(t *testing.T) {
	d := &scriptedDetector{}
	x, _ := newTestExtractor(t, d)

	out, err := x.Extract(context.Background(), "blank.png", "auto")

	require.NoError(t, err)
	assert.True(t, out.Empty())
	assert.Equal(t, PassRawFallback, out.Pass)
	assert.Zero(t, out.MeanConfidence)
}

func TestExtractPreprocessFailureIsDecodeError(t *testing.T) {
	d := &scriptedDetector{results: []DetectionSet{{det(0, 0, "x", 0.1)}}}
	x, _ := newTestExtractor(t, d)
	var scratch string
	x.Preprocess = func(src, dst string) error {
		scratch = dst
		return errors.New("corrupt")
	}

	_, err := x.Extract(context.Background(), "bad.png", "auto")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindDecode))
	assert.NoFileExists(t, scratch)
}

func TestExtractDetectorErrorIsExtractError(t *testing.T) {
	d := &scriptedDetector{errs: []error{errors.New("tesseract crashed")}}
	x, _ := newTestExtractor(t, d)

	_, err := x.Extract(context.Background(), "shot.png", "auto")

	assert.True(t, apperr.Is(err, apperr.KindExtract))
}

func TestExtractWithoutDetector(t *testing.T) {
	x, _ := newTestExtractor(t, nil)
	x.Detectors = (*Registry)(nil)

	_, err := x.Extract(context.Background(), "shot.png", "auto")

	assert.True(t, apperr.Is(err, apperr.KindPrecondition))
}

func TestPassString(t *testing.T) {
	assert.Equal(t, "raw", PassRaw.String())
	assert.Equal(t, "preprocessed", PassPreprocessed.String())
	assert.Equal(t, "raw-fallback", PassRawFallback.String())
}
