package sheet

import (
	"errors"
	"fmt"
)

// ErrEmptyURL indicates that no sheet URL is configured.
var ErrEmptyURL = errors.New("sheet URL is empty")

// ErrUnsupportedFormat indicates a format other than csv/xlsx/auto.
var ErrUnsupportedFormat = errors.New("unsupported sheet format")

// ErrNotModifiedWithoutBody is returned for a 304 when nothing was remembered.
var ErrNotModifiedWithoutBody = errors.New("received 304 Not Modified but no cached body available")

// FetchError describes a failed download. URL is already redacted.
type FetchError struct {
	URL    string
	Status int // 0 for transport errors
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError wraps a decoding failure for a given format.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
