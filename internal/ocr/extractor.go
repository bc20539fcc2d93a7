package ocr

import (
	"context"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	apperr "screen-translator/internal/errors"
	"screen-translator/internal/tempfiles"
)

// Pass identifies which OCR pass supplied the accepted detections.
type Pass int

const (
	// PassRaw is the high-confidence path: the unprocessed image was good enough.
	PassRaw Pass = iota
	// PassPreprocessed means the preprocessed image was used.
	PassPreprocessed
	// PassRawFallback means preprocessing found nothing usable and the raw
	// pass was used regardless of its confidence.
	PassRawFallback
)

func (p Pass) String() string {
	switch p {
	case PassRaw:
		return "raw"
	case PassPreprocessed:
		return "preprocessed"
	case PassRawFallback:
		return "raw-fallback"
	default:
		return "unknown"
	}
}

// Extraction is the outcome of one text extraction.
type Extraction struct {
	Text           string
	Pass           Pass
	Detections     int     // detections in the accepted pass
	Kept           int     // detections that survived filtering
	MeanConfidence float64 // over the accepted pass
}

// Empty reports whether no usable text was found.
func (e Extraction) Empty() bool {
	return e.Text == ""
}

// DetectorSource selects a detector for a source language.
type DetectorSource interface {
	For(lang string) Detector
}

// Extractor runs the two-pass OCR and consolidates the result.
type Extractor struct {
	Detectors  DetectorSource
	Preprocess Preprocessor
	Workspace  *tempfiles.Workspace
	Thresholds Thresholds
}

// NewExtractor returns an extractor using the gocv preprocessor and
// default thresholds.
func NewExtractor(detectors DetectorSource, ws *tempfiles.Workspace) *Extractor {
	return &Extractor{
		Detectors:  detectors,
		Preprocess: Preprocess,
		Workspace:  ws,
		Thresholds: DefaultThresholds(),
	}
}

// Extract recognizes the text in imagePath using the engine for lang.
// An empty Text with a nil error means no text was found.
func (x *Extractor) Extract(ctx context.Context, imagePath, lang string) (Extraction, error) {
	det := x.Detectors.For(lang)
	if det == nil {
		return Extraction{}, apperr.New(apperr.KindPrecondition, "OCR is not initialized")
	}

	raw, err := det.Detect(ctx, imagePath)
	if err != nil {
		return Extraction{}, apperr.Wrap(err, apperr.KindExtract, "text recognition failed")
	}

	accepted, pass := raw, PassRaw
	if !raw.AnyAbove(x.Thresholds.HighConfidence) {
		accepted, pass, err = x.reprocess(ctx, det, imagePath, raw)
		if err != nil {
			return Extraction{}, err
		}
	}

	out := Extraction{
		Text:       Consolidate(accepted, x.Thresholds),
		Pass:       pass,
		Detections: len(accepted),
	}
	for _, d := range accepted {
		if x.Thresholds.Keep(d) {
			out.Kept++
		}
	}
	if len(accepted) > 0 {
		out.MeanConfidence = stat.Mean(accepted.Confidences(), nil)
	}

	slog.Debug("text extracted",
		"pass", pass.String(),
		"detections", out.Detections,
		"kept", out.Kept,
		"mean_confidence", out.MeanConfidence)
	return out, nil
}

// reprocess runs OCR on a preprocessed copy. The copy is removed before
// returning on every path.
func (x *Extractor) reprocess(ctx context.Context, det Detector, imagePath string, raw DetectionSet) (DetectionSet, Pass, error) {
	processed, err := x.Workspace.Scratch(tempfiles.Processed)
	if err != nil {
		return nil, PassRaw, apperr.Wrap(err, apperr.KindExtract, "cannot reserve preprocessing file")
	}
	defer func() {
		if err := x.Workspace.Remove(processed); err != nil {
			slog.Warn("failed to remove preprocessed image", "path", processed, "error", err)
		}
	}()

	if err := x.Preprocess(imagePath, processed); err != nil {
		if apperr.KindOf(err) == apperr.KindUnknown {
			err = apperr.Wrap(err, apperr.KindDecode, "image preprocessing failed")
		}
		return nil, PassRaw, err
	}

	second, err := det.Detect(ctx, processed)
	if err != nil {
		return nil, PassRaw, apperr.Wrap(err, apperr.KindExtract, "text recognition failed on preprocessed image")
	}

	if x.Thresholds.FallbackToRaw && !second.AnyAbove(x.Thresholds.ReprocessFloor) {
		return raw, PassRawFallback, nil
	}
	return second, PassPreprocessed, nil
}
