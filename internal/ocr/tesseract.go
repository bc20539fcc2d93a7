// Package ocr provides text detection with Tesseract, consolidation of the
// per-box results, and the preprocessing fallback for low-confidence images.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"screen-translator/pkg/geometry"
)

// EngineOptions configures a Tesseract engine.
type EngineOptions struct {
	// Languages are Tesseract language codes, e.g. "eng", "rus".
	Languages []string
	// TessdataPrefix overrides the traineddata directory when set.
	TessdataPrefix string
	// PageSegMode defaults to automatic page segmentation. PSM_OSD_ONLY
	// produces no text, so its zero value is taken to mean the default.
	PageSegMode gosseract.PageSegMode
	// Level is the granularity of reported boxes: "block", "para", "line",
	// "word" or "symbol". Empty means "line".
	Level string
}

// ParseLevel maps a box granularity name to a gosseract iterator level.
func ParseLevel(name string) (gosseract.PageIteratorLevel, error) {
	switch strings.ToLower(name) {
	case "block":
		return gosseract.RIL_BLOCK, nil
	case "para", "paragraph":
		return gosseract.RIL_PARA, nil
	case "", "line", "textline":
		return gosseract.RIL_TEXTLINE, nil
	case "word":
		return gosseract.RIL_WORD, nil
	case "symbol":
		return gosseract.RIL_SYMBOL, nil
	default:
		return 0, fmt.Errorf("unknown OCR box level %q", name)
	}
}

// Engine provides OCR functionality using Tesseract.
// A gosseract client is not safe for concurrent use, so calls are serialized.
type Engine struct {
	mu        sync.Mutex
	client    *gosseract.Client
	languages []string
	level     gosseract.PageIteratorLevel
}

// NewEngine creates a new OCR engine and verifies that its language data loads.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if len(opts.Languages) == 0 {
		return nil, fmt.Errorf("no OCR languages given")
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()

	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}

	if err := client.SetLanguage(opts.Languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	psm := opts.PageSegMode
	if psm == 0 {
		psm = gosseract.PSM_AUTO
	}
	if err := client.SetPageSegMode(psm); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}

	e := &Engine{
		client:    client,
		languages: append([]string(nil), opts.Languages...),
		level:     level,
	}

	// Tesseract loads traineddata lazily; force it now so a missing
	// language fails here rather than on the first capture.
	if err := e.probe(); err != nil {
		client.Close()
		return nil, fmt.Errorf("OCR languages %s unavailable: %w", strings.Join(opts.Languages, "+"), err)
	}

	return e, nil
}

// Languages returns the Tesseract language codes this engine was built with.
func (e *Engine) Languages() []string {
	return append([]string(nil), e.languages...)
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// Detect runs OCR on the image at imagePath and returns one detection per box.
func (e *Engine) Detect(ctx context.Context, imagePath string) (DetectionSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil, fmt.Errorf("OCR engine closed")
	}

	if err := e.client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(e.level)
	if err != nil {
		return nil, fmt.Errorf("failed to get boxes: %w", err)
	}

	return detectionsFromBoxes(boxes), nil
}

// detectionsFromBoxes converts gosseract boxes, whose confidence is a
// percentage, into detections.
func detectionsFromBoxes(boxes []gosseract.BoundingBox) DetectionSet {
	set := make(DetectionSet, 0, len(boxes))
	for _, box := range boxes {
		set = append(set, Detection{
			Box:        geometry.QuadFromRect(box.Box),
			Text:       box.Word,
			Confidence: clamp01(box.Confidence / 100),
		})
	}
	return set
}

func (e *Engine) probe() error {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = uint8(color.White.Y >> 8)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return err
	}
	_, err := e.client.Text()
	return err
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
