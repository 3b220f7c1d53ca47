// Package types provides type definitions for structured data used throughout the ATS Buddy system.
package types

// MissingSkills groups skills absent from the resume by category.
type MissingSkills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// AnalysisResult is the structured outcome of comparing a resume against a
// job description. Produced per request and never persisted beyond the
// response lifecycle: the score depends on the resume/job-description pair,
// whose combinations are unbounded.
type AnalysisResult struct {
	CompatibilityScore  int           `json:"compatibility_score"`
	MissingKeywords     []string      `json:"missing_keywords"`
	MissingSkills       MissingSkills `json:"missing_skills"`
	Suggestions         []string      `json:"suggestions"`
	Strengths           []string      `json:"strengths"`
	AreasForImprovement []string      `json:"areas_for_improvement"`
}

// ScoreBand returns the interpretation band for a compatibility score.
func (a *AnalysisResult) ScoreBand() string {
	switch {
	case a.CompatibilityScore >= 80:
		return "excellent"
	case a.CompatibilityScore >= 60:
		return "good"
	default:
		return "needs_improvement"
	}
}
