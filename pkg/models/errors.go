package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies scan failures
type ErrorKind string

const (
	KindIO               ErrorKind = "io"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindNotFound         ErrorKind = "not_found"
	KindInvalidInput     ErrorKind = "invalid_input"
	KindFileProcessing   ErrorKind = "file_processing"
	KindFileSize         ErrorKind = "file_size"
	KindTimeout          ErrorKind = "timeout"
	KindEncoding         ErrorKind = "encoding"
)

// Sentinels for errors.Is checks against a ScanError kind
var (
	ErrIO               = kindError(KindIO)
	ErrPermissionDenied = kindError(KindPermissionDenied)
	ErrNotFound         = kindError(KindNotFound)
	ErrInvalidInput     = kindError(KindInvalidInput)
	ErrFileProcessing   = kindError(KindFileProcessing)
	ErrFileSize         = kindError(KindFileSize)
	ErrTimeout          = kindError(KindTimeout)
	ErrEncoding         = kindError(KindEncoding)
)

// ErrNoFilesProcessed is returned when every candidate file failed
var ErrNoFilesProcessed = errors.New("could not process any files")

type kindError ErrorKind

func (k kindError) Error() string {
	return ErrorKind(k).String()
}

// String returns a human-readable label for the kind
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "IO error"
	case KindPermissionDenied:
		return "Permission denied"
	case KindNotFound:
		return "Not found"
	case KindInvalidInput:
		return "Invalid input"
	case KindFileProcessing:
		return "File processing error"
	case KindFileSize:
		return "File size error"
	case KindTimeout:
		return "Operation timed out"
	case KindEncoding:
		return "Encoding error"
	default:
		return string(k)
	}
}

// ScanError is a failure attributable to a path
type ScanError struct {
	Kind    ErrorKind
	Path    string
	Message string
	Err     error
}

// NewError creates a ScanError
func NewError(kind ErrorKind, path, message string, err error) *ScanError {
	return &ScanError{
		Kind:    kind,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

func (e *ScanError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, msg)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels (ErrTimeout, ErrFileSize, ...)
func (e *ScanError) Is(target error) bool {
	k, ok := target.(kindError)
	return ok && ErrorKind(k) == e.Kind
}

// KindOf returns the kind of err, or KindIO for foreign errors
func KindOf(err error) ErrorKind {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindIO
}
