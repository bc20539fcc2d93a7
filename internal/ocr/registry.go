package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// EngineFactory builds a detector for a set of Tesseract language codes.
type EngineFactory func(languages []string) (Detector, error)

// TesseractFactory returns an EngineFactory producing gosseract engines
// that share the given base options.
func TesseractFactory(base EngineOptions) EngineFactory {
	return func(languages []string) (Detector, error) {
		opts := base
		opts.Languages = languages
		return NewEngine(opts)
	}
}

// RegistryOptions lists which engines to load.
type RegistryOptions struct {
	// Primary language sets are tried in order; the first that loads
	// serves every source language without a dedicated engine.
	Primary [][]string
	// Extras maps a source language code to the Tesseract languages of
	// its dedicated engine. Extras that fail to load are skipped.
	Extras map[string][]string
}

// DefaultRegistryOptions returns the stock language groups.
func DefaultRegistryOptions() RegistryOptions {
	return RegistryOptions{
		Primary: [][]string{
			{"eng", "rus"},
			{"eng"},
		},
		Extras: map[string][]string{
			"ja": {"jpn", "eng"},
			"ko": {"kor", "eng"},
			"uk": {"ukr", "rus", "eng"},
		},
	}
}

// Registry holds one detector per supported language group.
type Registry struct {
	primary          Detector
	primaryLanguages []string
	extras           map[string]Detector
}

// LoadRegistry builds the primary engine and every extra engine that loads.
// It fails only when no primary language set loads.
func LoadRegistry(ctx context.Context, factory EngineFactory, opts RegistryOptions) (*Registry, error) {
	r := &Registry{extras: make(map[string]Detector)}

	var errs []error
	for _, langs := range opts.Primary {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		det, err := factory(langs)
		if err != nil {
			slog.Warn("OCR language set unavailable", "languages", strings.Join(langs, "+"), "error", err)
			errs = append(errs, err)
			continue
		}
		r.primary = det
		r.primaryLanguages = langs
		slog.Info("OCR initialized", "languages", strings.Join(langs, "+"))
		break
	}
	if r.primary == nil {
		return nil, fmt.Errorf("failed to initialize OCR: %w", errors.Join(errs...))
	}

	keys := make([]string, 0, len(opts.Extras))
	for k := range opts.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, lang := range keys {
		if err := ctx.Err(); err != nil {
			r.Close()
			return nil, err
		}
		det, err := factory(opts.Extras[lang])
		if err != nil {
			slog.Warn("skipping OCR language", "language", lang, "error", err)
			continue
		}
		r.extras[lang] = det
	}

	return r, nil
}

// NewStaticRegistry wraps already-built detectors.
func NewStaticRegistry(primary Detector, extras map[string]Detector) *Registry {
	r := &Registry{primary: primary, extras: make(map[string]Detector, len(extras))}
	for k, v := range extras {
		r.extras[k] = v
	}
	return r
}

// For returns the detector serving the given source language, falling
// back to the primary engine.
func (r *Registry) For(lang string) Detector {
	if r == nil {
		return nil
	}
	if det, ok := r.extras[lang]; ok {
		return det
	}
	return r.primary
}

// PrimaryLanguages returns the Tesseract languages of the primary engine.
func (r *Registry) PrimaryLanguages() []string {
	return r.primaryLanguages
}

// Extras returns the source languages with a dedicated engine, sorted.
func (r *Registry) Extras() []string {
	out := make([]string, 0, len(r.extras))
	for k := range r.extras {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LanguageCount is the number of source languages OCR can serve: the two
// primary ones plus every dedicated extra.
func (r *Registry) LanguageCount() int {
	return len(r.extras) + 2
}

// Close releases every engine that holds resources.
func (r *Registry) Close() error {
	var errs []error
	closeDet := func(d Detector) {
		if c, ok := d.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	if r.primary != nil {
		closeDet(r.primary)
	}
	for _, d := range r.extras {
		closeDet(d)
	}
	return errors.Join(errs...)
}
