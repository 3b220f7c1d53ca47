// Package report renders analysis results into downloadable report
// documents and manages their storage.
package report

import (
	"fmt"
	"time"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// List caps keep reports readable when the model is verbose.
const (
	maxKeywords         = 10
	maxTechnicalSkills  = 8
	maxSoftSkills       = 6
	maxStrengths        = 5
	maxImprovementAreas = 5
)

// Meta carries the request context shown in report headers.
type Meta struct {
	ResumeFilename string
	JobTitle       string
	GeneratedAt    time.Time
}

// scoreMessage interprets the compatibility score for the reader.
func scoreMessage(score int) string {
	switch {
	case score >= 80:
		return "Excellent match! Your resume aligns very well with the job requirements."
	case score >= 60:
		return "Good match with room for improvement. Consider the suggestions below."
	default:
		return "Needs improvement to better match the job requirements."
	}
}

// scoreColor maps the score band to the HTML report accent color.
func scoreColor(score int) string {
	switch {
	case score >= 80:
		return "#22c55e"
	case score >= 60:
		return "#eab308"
	default:
		return "#ef4444"
	}
}

// StorageError is a report storage or URL-generation failure. Report
// persistence is best-effort: the analysis itself is still returned when
// storage fails.
type StorageError struct {
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("report storage failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("report storage failed: %s", e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func capped(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

// timestampLayout is the human-readable generation time in report headers.
const timestampLayout = "January 2, 2006 at 3:04 PM MST"

// view is the precomputed data both renderers consume.
type view struct {
	Generated        string
	ResumeFilename   string
	JobTitle         string
	Score            int
	ScoreMessage     string
	ScoreColor       string
	MissingKeywords  []string
	TechnicalSkills  []string
	SoftSkills       []string
	Suggestions      []string
	Strengths        []string
	ImprovementAreas []string
}

func buildView(analysis *types.AnalysisResult, meta Meta) view {
	return view{
		Generated:        meta.GeneratedAt.UTC().Format(timestampLayout),
		ResumeFilename:   meta.ResumeFilename,
		JobTitle:         meta.JobTitle,
		Score:            analysis.CompatibilityScore,
		ScoreMessage:     scoreMessage(analysis.CompatibilityScore),
		ScoreColor:       scoreColor(analysis.CompatibilityScore),
		MissingKeywords:  capped(analysis.MissingKeywords, maxKeywords),
		TechnicalSkills:  capped(analysis.MissingSkills.Technical, maxTechnicalSkills),
		SoftSkills:       capped(analysis.MissingSkills.Soft, maxSoftSkills),
		Suggestions:      analysis.Suggestions,
		Strengths:        capped(analysis.Strengths, maxStrengths),
		ImprovementAreas: capped(analysis.AreasForImprovement, maxImprovementAreas),
	}
}
