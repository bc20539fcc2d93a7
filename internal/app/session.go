package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"screen-translator/internal/capture"
	"screen-translator/internal/config"
	apperr "screen-translator/internal/errors"
	"screen-translator/internal/imageio"
	"screen-translator/internal/ocr"
	"screen-translator/internal/task"
	"screen-translator/internal/tempfiles"
	"screen-translator/internal/translate"
	"screen-translator/pkg/geometry"
)

// NoTextHint replaces the recognized text when nothing was found.
const NoTextHint = "No text detected in the image\n\n" +
	"Tips:\n" +
	"• Make sure the text is sharp and large enough\n" +
	"• Pick a specific source language instead of Auto\n" +
	"• Check the image quality"

// LimitedModeWarning is shown before translating while the translator probe
// has failed; chunks may come back marked as errors.
const LimitedModeWarning = "Translator running in limited mode, translation may be incomplete"

const probeTimeout = 10 * time.Second

// Dependencies are the platform services a Session talks to. Nil fields
// get the production implementation.
type Dependencies struct {
	Screen     capture.Screen
	Clipboard  capture.Clipboard
	Backend    translate.Backend
	Engines    ocr.EngineFactory
	Preprocess ocr.Preprocessor
}

// Result is the outcome of Process.
type Result struct {
	Original   string
	Translated string
	Extraction ocr.Extraction
	Chunks     int
	Failed     int
	NoText     bool
}

// Session owns the capture/OCR/translation pipeline and the mutable state
// shared between UI actions. Every long operation runs on the worker pool
// and returns a future; started tasks are never cancelled and no ordering
// is guaranteed between them.
type Session struct {
	cfg        *config.Config
	deps       Dependencies
	ws         *tempfiles.Workspace
	pool       *task.Pool
	translator *translate.Translator

	mu        sync.RWMutex
	imagePath string
	src, dst  string
	registry  *ocr.Registry
	extractor *ocr.Extractor
	limited   bool

	lmu       sync.RWMutex
	listeners map[EventType][]EventListener
}

// NewSession creates a session. OCR engines are not loaded until Init.
func NewSession(cfg *config.Config, deps Dependencies) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	ws, err := tempfiles.New(cfg.Workspace)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindConfig, "cannot prepare workspace")
	}

	if deps.Screen == nil {
		deps.Screen = capture.Display{}
	}
	if deps.Clipboard == nil {
		deps.Clipboard = &capture.SystemClipboard{}
	}
	if deps.Backend == nil {
		deps.Backend = translate.NewGoogleBackend(cfg.Translate.Endpoint, time.Duration(cfg.Translate.Timeout))
	}
	if deps.Engines == nil {
		deps.Engines = ocr.TesseractFactory(cfg.EngineOptions())
	}
	if deps.Preprocess == nil {
		deps.Preprocess = ocr.Preprocess
	}

	return &Session{
		cfg:        cfg,
		deps:       deps,
		ws:         ws,
		pool:       task.NewPool(cfg.Pool.Workers),
		translator: translate.New(deps.Backend, cfg.TranslateOptions()),
		src:        cfg.UI.SourceLanguage,
		dst:        cfg.UI.TargetLanguage,
		listeners:  make(map[EventType][]EventListener),
	}, nil
}

// Workspace returns the session's scratch directory.
func (s *Session) Workspace() *tempfiles.Workspace {
	return s.ws
}

// Init loads the OCR engines and probes the translator in the background.
// The future yields the number of OCR source languages.
func (s *Session) Init() *task.Future[int] {
	return task.Submit(s.pool, "init", func(ctx context.Context) (int, error) {
		s.status(LevelBusy, "Initializing OCR...")
		reg, err := ocr.LoadRegistry(ctx, s.deps.Engines, s.cfg.RegistryOptions())
		if err != nil {
			s.status(LevelError, "Initialization failed: "+err.Error())
			return 0, apperr.Wrap(err, apperr.KindExtract, "OCR initialization failed")
		}
		s.status(LevelInfo, "OCR initialized with languages: "+strings.Join(reg.PrimaryLanguages(), ", "))

		s.status(LevelBusy, "Initializing translator...")
		_, dst := s.Languages()
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		perr := s.translator.Probe(pctx, dst)
		cancel()
		limited := perr != nil
		if limited {
			slog.Warn("translator probe failed", "error", perr)
			s.status(LevelWarning, "Translator running in limited mode")
		} else {
			s.status(LevelInfo, "Translator initialized")
		}

		ext := ocr.NewExtractor(reg, s.ws)
		ext.Preprocess = s.deps.Preprocess
		ext.Thresholds = s.cfg.Thresholds()

		s.mu.Lock()
		old := s.registry
		s.registry = reg
		s.extractor = ext
		s.limited = limited
		s.mu.Unlock()
		if old != nil {
			if err := old.Close(); err != nil {
				slog.Warn("failed to close previous OCR engines", "error", err)
			}
		}

		n := reg.LanguageCount()
		s.status(LevelSuccess, fmt.Sprintf("Ready (%d OCR languages)", n))
		s.Emit(EventReady, Ready{OCRLanguages: n, LimitedMode: limited})
		return n, nil
	})
}

// Ready reports whether OCR engines are loaded.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.extractor != nil
}

// SetLanguages sets the source and target languages. The source may be
// "auto"; the target may not.
func (s *Session) SetLanguages(src, dst string) error {
	src, err := translate.ParseLanguage(src)
	if err != nil {
		return apperr.Wrap(err, apperr.KindConfig, "invalid source language")
	}
	dst, err = translate.ParseLanguage(dst)
	if err != nil {
		return apperr.Wrap(err, apperr.KindConfig, "invalid target language")
	}
	if translate.IsAuto(dst) {
		return apperr.New(apperr.KindConfig, "target language cannot be auto")
	}
	s.mu.Lock()
	s.src, s.dst = src, dst
	s.mu.Unlock()
	return nil
}

// Languages returns the current source and target languages.
func (s *Session) Languages() (src, dst string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.src, s.dst
}

// CurrentImage returns the image Process will read, or "".
func (s *Session) CurrentImage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imagePath
}

// Snapshot grabs the whole screen synchronously, for the region selector
// backdrop. It returns the image and the display bounds.
func (s *Session) Snapshot() (image.Image, geometry.RectInt, error) {
	bounds, err := s.deps.Screen.Bounds()
	if err != nil {
		return nil, geometry.RectInt{}, apperr.Wrap(err, apperr.KindCapture, "cannot determine screen size")
	}
	img, err := s.deps.Screen.Capture(bounds)
	if err != nil {
		return nil, geometry.RectInt{}, apperr.Wrap(err, apperr.KindCapture, "screenshot failed")
	}
	return img, bounds, nil
}

// CaptureFullscreen screenshots the primary display.
func (s *Session) CaptureFullscreen() *task.Future[string] {
	return s.load("fullscreen", "Taking screenshot...", "Screenshot taken", func() (string, error) {
		return capture.Fullscreen(s.deps.Screen, s.ws)
	})
}

// CaptureRegion screenshots r, given in screen coordinates.
func (s *Session) CaptureRegion(r geometry.RectInt) *task.Future[string] {
	return s.load("region", "Capturing area...", "Screen area captured", func() (string, error) {
		return capture.Region(s.deps.Screen, r, s.ws)
	})
}

// CropSnapshot uses the part of a Snapshot inside r, given in screen
// coordinates, as the current image.
func (s *Session) CropSnapshot(shot image.Image, bounds, r geometry.RectInt) *task.Future[string] {
	return s.load("region", "Capturing area...", "Screen area captured", func() (string, error) {
		return capture.RegionOf(shot, bounds, r, s.ws)
	})
}

// PasteClipboard takes the image, or image file, from the clipboard.
func (s *Session) PasteClipboard() *task.Future[string] {
	return s.load("clipboard", "Reading clipboard...", "Image received from clipboard", func() (string, error) {
		return capture.FromClipboard(s.deps.Clipboard, s.ws)
	})
}

// UseFile selects an image file from disk.
func (s *Session) UseFile(path string) *task.Future[string] {
	return s.load("file", "Loading image...", "Selected file: "+filepath.Base(path), func() (string, error) {
		return capture.File(path)
	})
}

// load runs an image source on the pool, makes its result the current
// image and writes the preview thumbnail.
func (s *Session) load(name, busy, done string, source func() (string, error)) *task.Future[string] {
	return task.Submit(s.pool, name, func(ctx context.Context) (string, error) {
		s.status(LevelBusy, busy)
		path, err := source()
		if err != nil {
			s.fail(err)
			return "", err
		}

		preview := s.ws.Path(tempfiles.Preview)
		size, err := imageio.WritePreview(path, preview)
		if err != nil {
			err = apperr.Wrap(err, apperr.KindDecode, "cannot load image")
			s.fail(err)
			return "", err
		}

		s.mu.Lock()
		s.imagePath = path
		s.mu.Unlock()

		slog.Info("image loaded", "source", name, "path", path)
		s.Emit(EventImageLoaded, ImageLoaded{Path: path, Preview: preview, Size: size})
		s.status(LevelSuccess, done)
		return path, nil
	})
}

// Process extracts text from the current image and translates it.
// Preconditions are checked before anything is queued.
func (s *Session) Process() *task.Future[Result] {
	s.mu.RLock()
	path, src, dst, ext, limited := s.imagePath, s.src, s.dst, s.extractor, s.limited
	s.mu.RUnlock()

	if path == "" {
		err := apperr.New(apperr.KindPrecondition, "Capture or choose an image first")
		s.fail(err)
		return task.Resolved(Result{}, error(err))
	}
	if ext == nil {
		err := apperr.New(apperr.KindPrecondition, "OCR is not initialized yet")
		s.fail(err)
		return task.Resolved(Result{}, error(err))
	}

	return task.Submit(s.pool, "process", func(ctx context.Context) (Result, error) {
		s.status(LevelBusy, "Recognizing text...")
		extraction, err := ext.Extract(ctx, path, src)
		if err != nil {
			s.fail(err)
			return Result{}, err
		}

		if extraction.Empty() {
			s.Emit(EventTextExtracted, TextExtracted{Text: NoTextHint, Hint: true})
			s.Emit(EventTranslated, "")
			s.status(LevelError, "No text found in the image")
			return Result{Extraction: extraction, NoText: true}, nil
		}
		s.Emit(EventTextExtracted, TextExtracted{Text: extraction.Text})

		if limited {
			s.status(LevelWarning, LimitedModeWarning)
		}
		s.status(LevelBusy, "Translating...")
		out := s.translator.TranslateDetailed(ctx, extraction.Text, src, dst)
		s.Emit(EventTranslated, out.Text)

		if out.Failed > 0 {
			s.status(LevelWarning, fmt.Sprintf("Done, %d of %d parts could not be translated", out.Failed, out.Chunks))
		} else {
			s.status(LevelSuccess, "Done! Text recognized and translated")
		}
		return Result{
			Original:   extraction.Text,
			Translated: out.Text,
			Extraction: extraction,
			Chunks:     out.Chunks,
			Failed:     out.Failed,
		}, nil
	})
}

func (s *Session) fail(err error) {
	slog.Error("operation failed", "kind", apperr.KindOf(err).String(), "error", err)
	s.status(LevelError, "Error: "+err.Error())
}

// Close waits for queued work, releases the OCR engines and removes the
// workspace files.
func (s *Session) Close() error {
	s.pool.Close()

	s.mu.Lock()
	reg := s.registry
	s.registry, s.extractor = nil, nil
	s.mu.Unlock()

	var errs []error
	if reg != nil {
		if err := reg.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.ws.Cleanup(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
