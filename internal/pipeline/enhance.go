package pipeline

import (
	"context"
	"log"

	"github.com/atsbuddy/ats-buddy/internal/enhance"
	"github.com/atsbuddy/ats-buddy/internal/retry"
	"github.com/atsbuddy/ats-buddy/internal/types"
)

// EnhanceInput is one enhancement request. Enhancement operates on the text
// and analysis produced by a prior analysis request; it never re-runs
// extraction or analysis.
type EnhanceInput struct {
	ResumeText     string
	JobDescription string
	JobTitle       string
	Analysis       *types.AnalysisResult
}

// EnhanceResult is the outcome of an enhancement request.
type EnhanceResult struct {
	Enhancement *types.EnhancementResult `json:"enhancement"`
	Warnings    []string                 `json:"warnings,omitempty"`
}

// Enhance rewrites a previously analyzed resume toward the job description.
func (p *Pipeline) Enhance(ctx context.Context, input EnhanceInput) (*EnhanceResult, error) {
	log.Printf("enhancement request: %d chars of resume text", len(input.ResumeText))

	var enhancement *types.EnhancementResult
	err := retry.Do(ctx, retry.Policy{Retryable: enhance.IsRetryable, Label: "enhancement", Backoff: p.opts.RetryBackoff}, func(ctx context.Context) error {
		stageCtx, cancel := p.stageContext(ctx)
		defer cancel()

		var err error
		enhancement, err = p.enhancer.Enhance(stageCtx, input.ResumeText, input.JobDescription, input.JobTitle, input.Analysis)
		return err
	})
	if err != nil {
		return nil, &StageError{Stage: StageEnhance, Err: err}
	}

	result := &EnhanceResult{Enhancement: enhancement}
	if enhancement.Truncated {
		result.Warnings = append(result.Warnings, "enhanced resume may be truncated, review before use")
	}

	log.Printf("enhancement complete: %d -> %d characters", enhancement.OriginalLength, enhancement.EnhancedLength)
	return result, nil
}
