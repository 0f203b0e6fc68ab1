package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/rendering"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var templateErr *rendering.TemplateError

	switch {
	case errors.As(err, &validation), errors.As(err, &templateErr),
		errors.Is(err, form.ErrUnknownField), errors.Is(err, form.ErrUnsupportedOp):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrExportInProgress):
		return http.StatusConflict
	case export.IsCapture(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
