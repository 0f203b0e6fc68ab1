// Package export turns a rendered visual tree into a single-page PDF.
//
// The pipeline measures the résumé root, captures it as a raster image at
// twice its layout size and places that image on one page whose size in
// points equals the unscaled bounding box. Content taller than a sheet of
// paper yields one tall page; there is no pagination.
package export

import (
	"errors"
	"fmt"
)

// ErrExportInProgress is returned when the concurrent export limit is reached.
var ErrExportInProgress = errors.New("export already in progress")

// Kind classifies an export failure.
type Kind string

// Failure kinds.
const (
	KindCapture Kind = "capture"
	KindEncode  Kind = "encode"
)

// ExportError reports a failed export step. The document is never affected.
type ExportError struct {
	Kind  Kind
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s failed: %v", e.Kind, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// IsCapture reports whether err is a capture failure.
func IsCapture(err error) bool {
	var exportErr *ExportError
	return errors.As(err, &exportErr) && exportErr.Kind == KindCapture
}

// IsEncode reports whether err is an encoding failure.
func IsEncode(err error) bool {
	var exportErr *ExportError
	return errors.As(err, &exportErr) && exportErr.Kind == KindEncode
}
