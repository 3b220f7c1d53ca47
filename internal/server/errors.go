package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/atsbuddy/ats-buddy/internal/analysis"
	"github.com/atsbuddy/ats-buddy/internal/enhance"
	"github.com/atsbuddy/ats-buddy/internal/extract"
	"github.com/atsbuddy/ats-buddy/internal/pipeline"
	"github.com/atsbuddy/ats-buddy/internal/redact"
)

// statusForError maps pipeline failures to HTTP status codes. Client
// mistakes (bad uploads, short job descriptions) are 4xx; upstream service
// outages are 503 so callers know to retry.
func statusForError(err error) int {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest
	}

	var stageErr *pipeline.StageError
	if !errors.As(err, &stageErr) {
		return http.StatusInternalServerError
	}

	var extractErr *extract.Error
	if errors.As(err, &extractErr) {
		if extractErr.Reason == extract.ReasonServiceUnavailable {
			return http.StatusServiceUnavailable
		}
		if stageErr.Stage == pipeline.StageValidate {
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	}

	var redactErr *redact.Error
	if errors.As(err, &redactErr) {
		// Redaction errors only surface under strict mode
		return http.StatusServiceUnavailable
	}

	var analysisErr *analysis.Error
	if errors.As(err, &analysisErr) {
		switch analysisErr.Reason {
		case analysis.ReasonQuotaExceeded:
			return http.StatusTooManyRequests
		case analysis.ReasonServiceUnavailable:
			return http.StatusServiceUnavailable
		default:
			return http.StatusUnprocessableEntity
		}
	}

	var enhanceErr *enhance.Error
	if errors.As(err, &enhanceErr) {
		switch enhanceErr.Reason {
		case enhance.ReasonQuotaExceeded:
			return http.StatusTooManyRequests
		case enhance.ReasonServiceUnavailable:
			return http.StatusServiceUnavailable
		default:
			return http.StatusUnprocessableEntity
		}
	}

	if stageErr.Stage == pipeline.StageFingerprint {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorMessage produces the client-facing message for a failure. Typed
// adapter errors carry safe messages; anything else gets a generic one.
func errorMessage(err error) string {
	var extractErr *extract.Error
	if errors.As(err, &extractErr) {
		return extractErr.Message
	}
	var redactErr *redact.Error
	if errors.As(err, &redactErr) {
		return "PII redaction is currently unavailable"
	}
	var analysisErr *analysis.Error
	if errors.As(err, &analysisErr) {
		return analysisErr.Message
	}
	var enhanceErr *enhance.Error
	if errors.As(err, &enhanceErr) {
		return enhanceErr.Message
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return err.Error()
	}
	return "internal server error"
}
