// Package analysis produces structured resume/job-description compatibility
// analyses through a generative model.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// Reason classifies an analysis failure.
type Reason string

// Analysis failure reasons
const (
	// ReasonServiceUnavailable means the model provider failed transiently
	ReasonServiceUnavailable Reason = "service_unavailable"
	// ReasonInvalidModelOutput means the model response could not be parsed
	// into a conforming analysis even after repair
	ReasonInvalidModelOutput Reason = "invalid_model_output"
	// ReasonQuotaExceeded means the provider rejected the request for quota
	ReasonQuotaExceeded Reason = "quota_exceeded"
)

// Error is an analysis failure.
type Error struct {
	Reason  Reason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("analysis failed (%s): %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("analysis failed (%s)", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is a transient analysis failure. Quota
// rejections count: provider rate windows are short and a single backed-off
// retry often lands inside the next one. Invalid model output is not
// retryable here: the analyzer already re-prompts for it internally, so a
// surviving invalid_model_output error is final.
func IsRetryable(err error) bool {
	var analysisErr *Error
	if !errors.As(err, &analysisErr) {
		return false
	}
	return analysisErr.Reason == ReasonServiceUnavailable || analysisErr.Reason == ReasonQuotaExceeded
}

// Analyzer produces a compatibility analysis of a resume against a job description.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (*types.AnalysisResult, error)
}
