// Package errors classifies failures by the pipeline stage that produced them.
// Every kind ends up as a status message in the UI; none is fatal.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies the pipeline stage an error came from.
type Kind int

const (
	KindUnknown Kind = iota
	KindCapture
	KindDecode
	KindExtract
	KindTranslate
	KindConfig
	KindPrecondition
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindCapture:      "capture",
	KindDecode:       "decode",
	KindExtract:      "extract",
	KindTranslate:    "translate",
	KindConfig:       "config",
	KindPrecondition: "precondition",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// AppError is the base error type carrying a stage kind and optional cause.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Cause }

// New creates a new AppError with the given kind and message.
func New(kind Kind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

// Newf creates a new AppError with formatted message.
func Newf(kind Kind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError.
func Wrap(err error, kind Kind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with formatted message.
func Wrapf(err error, kind Kind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

// KindOf returns the kind of the outermost AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries an AppError of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
