package server

import (
	"errors"
	"net/http"
)

// Sentinel errors for request handling.
var (
	ErrNoMarkdown    = errors.New("no markdown file uploaded")
	ErrFileTooLarge  = errors.New("file too large")
	ErrInvalidForm   = errors.New("invalid multipart form")
	ErrUploadSave    = errors.New("failed to save upload")
	ErrScopeCreate   = errors.New("failed to create upload directory")
	ErrScopeReleased = errors.New("upload scope already released")
)

// Client-facing error labels.
const (
	errorNoMarkdown       = "No markdown file uploaded"
	errorFileTooLarge     = "File too large"
	errorInvalidForm      = "Invalid upload"
	errorConversionFailed = "Conversion failed"
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoMarkdown),
		errors.Is(err, ErrInvalidForm):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
