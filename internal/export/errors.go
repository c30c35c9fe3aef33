package export

import "errors"

var (
	// ErrUnsupportedFormat is returned for a format name Export does not know.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrRenderFailed is returned when a document cannot be produced.
	ErrRenderFailed = errors.New("export render failed")
)
