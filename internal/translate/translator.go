// Package translate machine-translates recognized text in sentence-aligned
// chunks, retrying each chunk against an unreliable remote backend.
package translate

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperr "screen-translator/internal/errors"
	"screen-translator/internal/resilience"
)

// Fixed user-facing strings.
const (
	NothingToTranslate = "Nothing to translate"
	DefaultErrorMarker = "[Translation error]"
)

// ErrEmptyResult marks a backend response without translated text.
var ErrEmptyResult = errors.New("empty translation result")

// Result is a backend response.
type Result struct {
	Text string
	// Source is the language the service detected or was given.
	Source string
}

// Backend translates one unit of text. An empty src asks the service to
// detect the source language.
type Backend interface {
	Translate(ctx context.Context, text, src, dst string) (*Result, error)
}

// Options configures a Translator.
type Options struct {
	ChunkSize   int
	Policy      resilience.Policy
	ErrorMarker string
}

// DefaultOptions returns 500-character chunks, three attempts one second
// apart and the stock error marker.
func DefaultOptions() Options {
	return Options{
		ChunkSize:   DefaultChunkSize,
		Policy:      resilience.DefaultPolicy(),
		ErrorMarker: DefaultErrorMarker,
	}
}

// Outcome describes one Translate call.
type Outcome struct {
	Text   string
	Chunks int
	Failed int // chunks replaced by the error fallback
}

// Translator splits, translates and recombines text.
type Translator struct {
	backend Backend
	opts    Options
}

// New creates a Translator over backend.
func New(backend Backend, opts Options) *Translator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.ErrorMarker == "" {
		opts.ErrorMarker = DefaultErrorMarker
	}
	return &Translator{backend: backend, opts: opts}
}

// Translate returns the translation of text from src to dst. It never
// fails: a chunk that cannot be translated is replaced by the error marker
// followed by the original chunk.
func (t *Translator) Translate(ctx context.Context, text, src, dst string) string {
	return t.TranslateDetailed(ctx, text, src, dst).Text
}

// TranslateDetailed is Translate with chunk statistics.
func (t *Translator) TranslateDetailed(ctx context.Context, text, src, dst string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Text: NothingToTranslate}
	}
	if IsAuto(src) {
		src = ""
	}

	chunks := Split(text, t.opts.ChunkSize)
	parts := make([]string, 0, len(chunks))
	out := Outcome{Chunks: len(chunks)}

	for i, chunk := range chunks {
		translated, err := t.translateChunk(ctx, chunk, src, dst)
		if err != nil {
			slog.Warn("chunk translation failed", "chunk", i, "chunks", len(chunks), "error", err)
			translated = t.Fallback(chunk)
			out.Failed++
		}
		parts = append(parts, translated)
	}

	out.Text = strings.Join(parts, " ")
	return out
}

// Fallback returns the error-marked text shown in place of a translation.
func (t *Translator) Fallback(chunk string) string {
	return t.opts.ErrorMarker + " " + chunk
}

func (t *Translator) translateChunk(ctx context.Context, chunk, src, dst string) (string, error) {
	var text string
	err := t.opts.Policy.Do(ctx, func(attempt int) error {
		res, err := t.backend.Translate(ctx, chunk, src, dst)
		if err != nil {
			return err
		}
		if res == nil || strings.TrimSpace(res.Text) == "" {
			return ErrEmptyResult
		}
		text = res.Text
		return nil
	})
	return text, err
}

// Probe checks that the backend answers at all.
func (t *Translator) Probe(ctx context.Context, dst string) error {
	res, err := t.backend.Translate(ctx, "test", "", dst)
	if err == nil && (res == nil || res.Text == "") {
		err = ErrEmptyResult
	}
	if err != nil {
		return apperr.Wrapf(err, apperr.KindTranslate, "translator probe to %s failed", dst)
	}
	return nil
}
