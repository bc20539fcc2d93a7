// Package tempfiles manages the well-known scratch files the application
// writes while capturing and processing images.
package tempfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Well-known file names inside the workspace.
const (
	AreaScreenshot = "temp_area_screenshot.png"
	Fullscreen     = "temp_fullscreen.png"
	Clipboard      = "temp_clipboard.png"
	Preview        = "temp_preview.png"
	Processed      = "temp_processed_simple.png"
)

// KnownNames lists every well-known file name.
var KnownNames = []string{AreaScreenshot, Fullscreen, Clipboard, Preview, Processed}

// Workspace is a directory holding scratch files for one process.
type Workspace struct {
	dir   string
	owned bool

	mu      sync.Mutex
	scratch map[string]struct{}
}

// New returns a workspace rooted at dir. With an empty dir a private
// temporary directory is created and removed again by Cleanup.
func New(dir string) (*Workspace, error) {
	w := &Workspace{dir: dir, scratch: make(map[string]struct{})}
	if dir == "" {
		tmp, err := os.MkdirTemp("", "screen-translator-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create workspace: %w", err)
		}
		w.dir = tmp
		w.owned = true
		return w, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", dir, err)
	}
	return w, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns the absolute path of a well-known name.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Scratch reserves a unique file derived from a well-known name, so that
// concurrent stages never share a file. The caller removes it with Remove.
func (w *Workspace) Scratch(name string) (string, error) {
	ext := filepath.Ext(name)
	base := name[:len(name)-len(ext)]
	f, err := os.CreateTemp(w.dir, base+"_*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to reserve scratch file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}
	w.mu.Lock()
	w.scratch[path] = struct{}{}
	w.mu.Unlock()
	return path, nil
}

// Remove deletes a file, ignoring a missing one.
func (w *Workspace) Remove(path string) error {
	w.mu.Lock()
	delete(w.scratch, path)
	w.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Cleanup removes every well-known and outstanding scratch file, and the
// directory itself when the workspace created it. Errors are logged and
// the first one returned.
func (w *Workspace) Cleanup() error {
	var first error
	note := func(err error) {
		if err != nil {
			slog.Warn("temp file cleanup failed", "error", err)
			if first == nil {
				first = err
			}
		}
	}

	for _, name := range KnownNames {
		note(w.Remove(w.Path(name)))
	}

	w.mu.Lock()
	pending := make([]string, 0, len(w.scratch))
	for p := range w.scratch {
		pending = append(pending, p)
	}
	w.mu.Unlock()
	for _, p := range pending {
		note(w.Remove(p))
	}

	if w.owned {
		note(os.RemoveAll(w.dir))
	}
	return first
}
