package redact

import (
	"context"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// PassthroughRedactor returns text unchanged. Used for local one-shot runs
// where no detection service is configured; the text never leaves the machine
// except for the model call the user explicitly asked for.
type PassthroughRedactor struct{}

// NewPassthroughRedactor creates a redactor that performs no redaction.
func NewPassthroughRedactor() *PassthroughRedactor {
	return &PassthroughRedactor{}
}

// Redact implements Redactor.
func (r *PassthroughRedactor) Redact(_ context.Context, rawText string) (*types.RedactionResult, error) {
	return &types.RedactionResult{RedactedText: rawText}, nil
}
