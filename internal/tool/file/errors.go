package file

import (
	"errors"
	"fmt"
)

var (
	ErrIsDirectory = errors.New("path is a directory")
)

// TooLargeError is returned when a file exceeds the configured size limit.
type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file too large: %s (size %d, limit %d)", e.Path, e.Size, e.Limit)
}
