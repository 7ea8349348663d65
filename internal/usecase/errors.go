package usecase

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrConfiguration        = errors.New("content repository is not configured")
	ErrUnsupportedOperation = errors.New("operation not supported")
	ErrConflict             = errors.New("document version conflict")
	ErrTransientNetwork     = errors.New("transient network failure")
	ErrParse                = errors.New("document parse failure")
	ErrDocumentUnavailable  = errors.New("tournament document unavailable")
)
