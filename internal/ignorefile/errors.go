package ignorefile

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPath      = errors.New("empty path")
	ErrOutsideRoot    = errors.New("path is outside the repository root")
	ErrRepositoryRoot = errors.New("path is the repository root")
)

type (
	// StateError is returned when a file is neither unknown to the
	// repository nor already listed in the ignore file.
	StateError struct {
		Path string
	}

	PathError struct {
		Path string
		Err  error
	}
)

func (e *StateError) Error() string {
	return fmt.Sprintf("file %s is not in state UNKNOWN", e.Path)
}

func (e *PathError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *PathError) Unwrap() error { return e.Err }
