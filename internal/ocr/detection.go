package ocr

import (
	"context"

	"screen-translator/pkg/geometry"
)

// Detection is one OCR-recognized text fragment.
type Detection struct {
	Box        geometry.Quad
	Text       string
	Confidence float64 // normalized to [0,1]
}

// DetectionSet holds the detections for one image in engine order.
type DetectionSet []Detection

// AnyAbove reports whether at least one detection's confidence exceeds min.
func (s DetectionSet) AnyAbove(min float64) bool {
	for _, d := range s {
		if d.Confidence > min {
			return true
		}
	}
	return false
}

// Confidences returns the confidence of each detection in order.
func (s DetectionSet) Confidences() []float64 {
	out := make([]float64, len(s))
	for i, d := range s {
		out[i] = d.Confidence
	}
	return out
}

// Detector runs OCR over an image file.
type Detector interface {
	Detect(ctx context.Context, imagePath string) (DetectionSet, error)
}
