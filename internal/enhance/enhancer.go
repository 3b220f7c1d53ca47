package enhance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/atsbuddy/ats-buddy/internal/llm"
	"github.com/atsbuddy/ats-buddy/internal/prompts"
	"github.com/atsbuddy/ats-buddy/internal/types"
)

const (
	// maxOutputTokens bounds the enhanced resume size. Resumes are long
	// relative to analyses, so the cap is generous.
	maxOutputTokens = 8192

	// minEnhancedLength is the shortest output accepted as a complete
	// resume. Anything shorter is a refusal or a stub.
	minEnhancedLength = 300

	// maxKeywordsReported caps the keywords_added list in the result.
	maxKeywordsReported = 10
)

// ModelEnhancer implements Enhancer on top of a generative model client.
// Enhancement is a full rewrite, so it uses the advanced model tier.
type ModelEnhancer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewModelEnhancer creates an enhancer using the advanced model tier.
func NewModelEnhancer(client llm.Client) *ModelEnhancer {
	return &ModelEnhancer{client: client, tier: llm.TierAdvanced}
}

// Enhance rewrites the resume toward the job description and reports what
// changed. The analysis steers the rewrite toward the identified gaps.
func (e *ModelEnhancer) Enhance(ctx context.Context, resumeText, jobDescription, jobTitle string, analysis *types.AnalysisResult) (*types.EnhancementResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &Error{Reason: ReasonIncompleteOutput, Message: "resume text is empty"}
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &Error{Reason: ReasonIncompleteOutput, Message: "job description is empty"}
	}

	tmpl, err := prompts.Get("enhancement.json", "enhance-resume")
	if err != nil {
		return nil, fmt.Errorf("failed to load enhancement prompt: %w", err)
	}

	prompt := prompts.Format(tmpl, map[string]string{
		"ResumeText":      resumeText,
		"JobDescription":  jobDescription,
		"JobTitle":        jobTitle,
		"AnalysisSummary": summarizeAnalysis(analysis),
	})

	out, err := e.client.GenerateText(ctx, prompt, llm.GenerateOptions{
		Tier:            e.tier,
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return nil, classifyModelError(err)
	}

	enhanced := CleanResponse(out.Text)
	if len(enhanced) < minEnhancedLength {
		return nil, &Error{Reason: ReasonIncompleteOutput, Message: "enhanced resume is too short to be complete"}
	}

	result := &types.EnhancementResult{
		EnhancedText:   enhanced,
		Truncated:      out.LengthCapped || DetectCutoff(enhanced),
		OriginalLength: len(resumeText),
		EnhancedLength: len(enhanced),
	}
	if analysis != nil {
		result.KeywordsAdded = reportedKeywords(analysis.MissingKeywords, enhanced)
		result.ImprovementsMade = improvementSummary(analysis, enhanced)
	}

	return result, nil
}

// summarizeAnalysis flattens the analysis into prompt-friendly text.
func summarizeAnalysis(analysis *types.AnalysisResult) string {
	if analysis == nil {
		return "No prior analysis available."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Compatibility score: %d/100\n", analysis.CompatibilityScore)
	if len(analysis.MissingKeywords) > 0 {
		fmt.Fprintf(&sb, "Missing keywords: %s\n", strings.Join(analysis.MissingKeywords, ", "))
	}
	if len(analysis.MissingSkills.Technical) > 0 {
		fmt.Fprintf(&sb, "Missing technical skills: %s\n", strings.Join(analysis.MissingSkills.Technical, ", "))
	}
	if len(analysis.MissingSkills.Soft) > 0 {
		fmt.Fprintf(&sb, "Missing soft skills: %s\n", strings.Join(analysis.MissingSkills.Soft, ", "))
	}
	for _, suggestion := range analysis.Suggestions {
		fmt.Fprintf(&sb, "- %s\n", suggestion)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// reportedKeywords lists which of the analysis's missing keywords actually
// made it into the enhanced text, capped for the response payload.
func reportedKeywords(missing []string, enhanced string) []string {
	lower := strings.ToLower(enhanced)
	added := []string{}
	for _, keyword := range missing {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			added = append(added, keyword)
		}
		if len(added) == maxKeywordsReported {
			break
		}
	}
	return added
}

// IsIncomplete reports whether err means the model output was unusably short.
func IsIncomplete(err error) bool {
	var enhanceErr *Error
	return errors.As(err, &enhanceErr) && enhanceErr.Reason == ReasonIncompleteOutput
}

// classifyModelError maps provider errors onto the enhancement failure taxonomy.
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
