package images

import "errors"

// Error kinds reported by this package. Callers match them with errors.Is;
// the wrapped message carries the offending path or geometry.
var (
	// ErrNotFound indicates the source path does not reference an existing file.
	ErrNotFound = errors.New("source image not found")
	// ErrUnsupportedExtension indicates the source extension is not on the
	// decode allow-list.
	ErrUnsupportedExtension = errors.New("unsupported image extension")
	// ErrShapeMismatch indicates padding or buffer geometry that cannot
	// produce a consistent interior region.
	ErrShapeMismatch = errors.New("shape mismatch")
)
