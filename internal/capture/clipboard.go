package capture

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// Clipboard reads the system clipboard.
type Clipboard interface {
	// ReadImage returns PNG bytes, or nil when no image is present.
	ReadImage() ([]byte, error)
	// ReadText returns the clipboard text, or "" when there is none.
	ReadText() (string, error)
}

// SystemClipboard is the OS clipboard.
type SystemClipboard struct {
	once    sync.Once
	initErr error
}

func (c *SystemClipboard) init() error {
	c.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			c.initErr = fmt.Errorf("clipboard unavailable: %w", err)
		}
	})
	return c.initErr
}

// ReadImage implements Clipboard.
func (c *SystemClipboard) ReadImage() ([]byte, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return clipboard.Read(clipboard.FmtImage), nil
}

// ReadText implements Clipboard.
func (c *SystemClipboard) ReadText() (string, error) {
	if err := c.init(); err != nil {
		return "", err
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}
