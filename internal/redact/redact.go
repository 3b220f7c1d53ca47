// Package redact wraps the external sensitive-data-detection capability:
// raw text in, masked text plus redaction categories out.
package redact

import (
	"context"
	"errors"
	"fmt"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// Reason classifies a redaction failure.
type Reason string

// Redaction failure reasons
const (
	// ReasonServiceUnavailable means the detection service failed transiently
	ReasonServiceUnavailable Reason = "service_unavailable"
	// ReasonTextTooLong means the text exceeds the detection service limit
	ReasonTextTooLong Reason = "text_too_long"
)

// Error is a redaction failure. The pipeline treats these as non-fatal by
// default and falls back to unredacted text.
type Error struct {
	Reason  Reason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("redaction failed (%s): %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("redaction failed (%s)", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is a transient redaction failure.
func IsRetryable(err error) bool {
	var redactErr *Error
	return errors.As(err, &redactErr) && redactErr.Reason == ReasonServiceUnavailable
}

// Redactor is the PII redaction capability.
type Redactor interface {
	Redact(ctx context.Context, rawText string) (*types.RedactionResult, error)
}
