package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/api/googleapi"

	"github.com/atsbuddy/ats-buddy/internal/llm"
	"github.com/atsbuddy/ats-buddy/internal/prompts"
	"github.com/atsbuddy/ats-buddy/internal/types"
)

// maxOutputTokens bounds the analysis response size. A full analysis payload
// fits comfortably; the cap exists so a runaway response fails fast.
const maxOutputTokens = 4096

// ModelAnalyzer implements Analyzer on top of a generative model client.
type ModelAnalyzer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewModelAnalyzer creates an analyzer using the standard model tier.
func NewModelAnalyzer(client llm.Client) *ModelAnalyzer {
	return &ModelAnalyzer{client: client, tier: llm.TierStandard}
}

// Analyze compares a resume against a job description. If the model returns
// output that cannot be repaired into a conforming analysis, it re-prompts
// once with a stricter instruction before giving up.
func (a *ModelAnalyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (*types.AnalysisResult, error) {
	result, err := a.attempt(ctx, "analyze-compatibility", resumeText, jobDescription)
	if err == nil {
		return result, nil
	}

	var analysisErr *Error
	if errors.As(err, &analysisErr) && analysisErr.Reason == ReasonInvalidModelOutput {
		log.Printf("Warning: model returned unusable analysis output, re-prompting with strict instructions: %v", err)
		return a.attempt(ctx, "analyze-compatibility-strict", resumeText, jobDescription)
	}

	return nil, err
}

func (a *ModelAnalyzer) attempt(ctx context.Context, promptKey, resumeText, jobDescription string) (*types.AnalysisResult, error) {
	tmpl, err := prompts.Get("analysis.json", promptKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis prompt: %w", err)
	}

	prompt := prompts.Format(tmpl, map[string]string{
		"ResumeText":     resumeText,
		"JobDescription": jobDescription,
	})

	out, err := a.client.GenerateJSON(ctx, prompt, llm.GenerateOptions{
		Tier:            a.tier,
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return nil, classifyModelError(err)
	}

	return ParseResponse(out.Text)
}

// classifyModelError maps provider errors onto the analysis failure taxonomy.
func classifyModelError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return &Error{Reason: ReasonQuotaExceeded, Message: "model provider quota exceeded", Cause: err}
	}

	return &Error{Reason: ReasonServiceUnavailable, Message: "model provider request failed", Cause: err}
}
