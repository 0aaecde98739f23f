package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnNotFound is matched by every ColumnNotFoundError via errors.Is.
var ErrColumnNotFound = errors.New("column not found")

// ColumnNotFoundError is returned when a table has no column with the requested name.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// Is reports whether target is ErrColumnNotFound.
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// ArtifactLoadError is returned when the vocabulary or dataset artifact is missing,
// unreadable, or malformed.
type ArtifactLoadError struct {
	Artifact string // "vocabulary" or "dataset"
	Path     string
	Err      error
}

func (e *ArtifactLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load %s: %v", e.Artifact, e.Err)
	}
	return fmt.Sprintf("failed to load %s %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}
