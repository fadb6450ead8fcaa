package clone

import (
	"fmt"
)

// ValidationError rejects a malformed or non-HTTP(S) target URL before any
// network or file I/O happens. Callers map it to a client error.
type ValidationError struct {
	URL    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid clone target %q: %s", e.URL, e.Reason)
}

// RenderError means neither the static fetch nor the headless fallback
// produced a usable document. Fatal for the clone run.
type RenderError struct {
	URL string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s: %v", e.URL, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// AssetFetchError means a single asset could not be retrieved. It is logged
// and the asset skipped; it never fails the clone run.
type AssetFetchError struct {
	URL string
	Err error
}

func (e *AssetFetchError) Error() string {
	return fmt.Sprintf("failed to fetch asset %s: %v", e.URL, e.Err)
}

func (e *AssetFetchError) Unwrap() error {
	return e.Err
}

// PersistenceError is a filesystem failure while writing the document, an
// asset, or the archive. Fatal for the clone run; a partial folder may
// remain on disk.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
