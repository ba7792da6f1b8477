package api

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/docval/pkg/document"
	"github.com/dmitrymomot/docval/pkg/ruleset"
	"github.com/dmitrymomot/docval/pkg/validator"
)

// HTTPError is an error with a status code and a stable machine-readable
// code. Message, when set, replaces the text of the wrapped cause.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// WithMessage returns a copy of e carrying msg.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

var (
	ErrBadRequest        = HTTPError{Status: http.StatusBadRequest, Code: "bad_request"}
	ErrInvalidDocument   = HTTPError{Status: http.StatusBadRequest, Code: "invalid_document"}
	ErrUnsupportedFormat = HTTPError{Status: http.StatusBadRequest, Code: "unsupported_format"}
	ErrInvalidName       = HTTPError{Status: http.StatusBadRequest, Code: "invalid_name"}
	ErrNameMismatch      = HTTPError{Status: http.StatusBadRequest, Code: "name_mismatch"}
	ErrNotFound          = HTTPError{Status: http.StatusNotFound, Code: "not_found"}
	ErrBodyTooLarge      = HTTPError{Status: http.StatusRequestEntityTooLarge, Code: "body_too_large"}
	ErrInvalidRuleset    = HTTPError{Status: http.StatusUnprocessableEntity, Code: "invalid_ruleset"}
	ErrInternal          = HTTPError{Status: http.StatusInternalServerError, Code: "internal_error"}
)

// classifyError maps an error returned by a handler to the response it
// should produce. Server errors never expose the cause.
func classifyError(err error) HTTPError {
	var (
		httpErr  HTTPError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return ErrBodyTooLarge.WithMessage("request body exceeds the size limit")
	case errors.As(err, &httpErr):
		if httpErr.Status >= http.StatusInternalServerError {
			return httpErr.WithMessage(http.StatusText(httpErr.Status))
		}
		if httpErr.Message == "" {
			httpErr.Message = http.StatusText(httpErr.Status)
		}
		return httpErr
	case errors.Is(err, ruleset.ErrNotFound):
		return ErrNotFound.WithMessage(err.Error())
	case errors.Is(err, ruleset.ErrInvalidName):
		return ErrInvalidName.WithMessage(err.Error())
	case errors.Is(err, ruleset.ErrInvalidRuleset), validator.IsConfigError(err):
		return ErrInvalidRuleset.WithMessage(err.Error())
	case errors.Is(err, document.ErrUnsupportedFormat):
		return ErrUnsupportedFormat.WithMessage(err.Error())
	case errors.Is(err, document.ErrInvalidDocument):
		return ErrInvalidDocument.WithMessage(err.Error())
	default:
		return ErrInternal.WithMessage(http.StatusText(http.StatusInternalServerError))
	}
}
