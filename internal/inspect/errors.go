// Package inspect previews delimited data files and lists directories.
// Both operations read the file system once per call and hold no state.
package inspect

import "errors"

var (
	// ErrFileNotFound is returned when a preview target is not a readable file.
	ErrFileNotFound = errors.New("file not found")

	// ErrPathNotFound is returned when a listing target is not a directory.
	ErrPathNotFound = errors.New("path not found")

	// ErrFormat is returned when a file cannot be split into a consistent
	// column structure.
	ErrFormat = errors.New("format error")
)
