// Package enhance generates an improved resume variant targeted at a
// specific job description, guided by a prior compatibility analysis.
package enhance

import (
	"context"
	"errors"
	"fmt"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// Reason classifies an enhancement failure.
type Reason string

// Enhancement failure reasons
const (
	// ReasonServiceUnavailable means the model provider failed transiently
	ReasonServiceUnavailable Reason = "service_unavailable"
	// ReasonQuotaExceeded means the provider rejected the request for quota
	ReasonQuotaExceeded Reason = "quota_exceeded"
	// ReasonIncompleteOutput means the model produced output too short to be
	// a usable resume. Retry-eligible alongside the transient reasons: the
	// model is nondeterministic and a second attempt frequently completes.
	ReasonIncompleteOutput Reason = "incomplete_output"
)

// Error is an enhancement failure.
type Error struct {
	Reason  Reason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("enhancement failed (%s): %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("enhancement failed (%s)", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is worth one more attempt. Quota
// rejections and incomplete output are included alongside provider outages;
// a surviving error after the retry is final.
func IsRetryable(err error) bool {
	var enhanceErr *Error
	if !errors.As(err, &enhanceErr) {
		return false
	}
	switch enhanceErr.Reason {
	case ReasonServiceUnavailable, ReasonQuotaExceeded, ReasonIncompleteOutput:
		return true
	}
	return false
}

// Enhancer produces an enhanced resume from the original text, the target
// job, and a prior analysis of the gaps between them.
type Enhancer interface {
	Enhance(ctx context.Context, resumeText, jobDescription, jobTitle string, analysis *types.AnalysisResult) (*types.EnhancementResult, error)
}
