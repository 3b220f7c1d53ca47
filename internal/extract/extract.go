// Package extract wraps the external document-extraction capability:
// document bytes in, raw text out.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// Reason classifies an extraction failure.
type Reason string

// Extraction failure reasons
const (
	// ReasonUnsupportedFormat means the document is not a format the
	// extraction service accepts
	ReasonUnsupportedFormat Reason = "unsupported_format"
	// ReasonCorrupted means the document bytes are unreadable
	ReasonCorrupted Reason = "corrupted"
	// ReasonPasswordProtected means the document is encrypted
	ReasonPasswordProtected Reason = "password_protected"
	// ReasonServiceUnavailable means the extraction service failed transiently
	ReasonServiceUnavailable Reason = "service_unavailable"
	// ReasonEmptyContent means extraction produced no text
	ReasonEmptyContent Reason = "empty_content"
)

// Error is an extraction failure. All reasons except service_unavailable are
// terminal: retrying a malformed document never succeeds.
type Error struct {
	Reason  Reason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("extraction failed (%s): %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("extraction failed (%s)", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is a transient extraction failure.
func IsRetryable(err error) bool {
	var extractErr *Error
	return errors.As(err, &extractErr) && extractErr.Reason == ReasonServiceUnavailable
}

// Extractor is the document extraction capability.
type Extractor interface {
	Extract(ctx context.Context, document []byte) (*types.ExtractionResult, error)
}
