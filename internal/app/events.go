// Package app wires capture, OCR and translation into one session and
// reports progress through events.
package app

import "image"

// EventType identifies different application events.
type EventType int

const (
	EventStatus EventType = iota
	EventImageLoaded
	EventTextExtracted
	EventTranslated
	EventReady
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Level classifies a status message.
type Level int

const (
	LevelInfo Level = iota
	LevelBusy
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelBusy:
		return "busy"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Status is the payload of EventStatus.
type Status struct {
	Level   Level
	Message string
}

// ImageLoaded is the payload of EventImageLoaded.
type ImageLoaded struct {
	Path    string
	Preview string
	Size    image.Point // preview size
}

// TextExtracted is the payload of EventTextExtracted. Hint is set when no
// text was found and Text holds advice for the user instead.
type TextExtracted struct {
	Text string
	Hint bool
}

// Ready is the payload of EventReady.
type Ready struct {
	OCRLanguages int
	LimitedMode  bool
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type. Listeners run
// on the emitting goroutine, which is usually a pool worker.
func (s *Session) Emit(event EventType, data interface{}) {
	s.lmu.RLock()
	listeners := s.listeners[event]
	s.lmu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

func (s *Session) status(level Level, msg string) {
	s.Emit(EventStatus, Status{Level: level, Message: msg})
}
