package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for the three terminal failure categories. Use errors.Is to test.
var (
	ErrSourceNotFound   = errors.New("source not found")
	ErrSourceUnreadable = errors.New("source unreadable")
	ErrSchemaMismatch   = errors.New("schema mismatch")
)

// SourceError describes a failure to open or parse the input source.
type SourceError struct {
	Path string
	// Kind is ErrSourceNotFound or ErrSourceUnreadable.
	Kind error
	Err  error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is matches the error category sentinel.
func (e *SourceError) Is(target error) bool { return target == e.Kind }

func notFound(path string, err error) error {
	return &SourceError{Path: path, Kind: ErrSourceNotFound, Err: err}
}

func unreadable(path string, err error) error {
	return &SourceError{Path: path, Kind: ErrSourceUnreadable, Err: err}
}

// SchemaError lists required columns absent from the input header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch: missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchemaMismatch }
