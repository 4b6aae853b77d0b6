package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoPhotos is returned when the photo batch is empty
	ErrNoPhotos = errors.New("photo batch contains no files")

	// ErrUnsupportedSource is returned when the price source file format is not recognized
	ErrUnsupportedSource = errors.New("unsupported price source format")

	// ErrEmptySource is returned when the price source contains no rows or lines at all
	ErrEmptySource = errors.New("price source contains no data")

	// ErrCacheMiss is returned when a catalogue is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// SchemaError reports that a required field could not be identified among the
// price source headers. It is fatal for the whole run and carries the available
// headers so the operator can remap the source.
type SchemaError struct {
	Missing []string // required fields that could not be found ("code", "description", "price")
	Headers []string // headers actually present in the source
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("price source schema: missing %s field(s); available headers: %s",
		strings.Join(e.Missing, ", "), strings.Join(e.Headers, ", "))
}
