package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBand(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		expected string
	}{
		{name: "excellent at threshold", score: 80, expected: "excellent"},
		{name: "excellent at top", score: 100, expected: "excellent"},
		{name: "good at threshold", score: 60, expected: "good"},
		{name: "good below excellent", score: 79, expected: "good"},
		{name: "needs improvement below threshold", score: 59, expected: "needs_improvement"},
		{name: "needs improvement at zero", score: 0, expected: "needs_improvement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalysisResult{CompatibilityScore: tt.score}
			assert.Equal(t, tt.expected, result.ScoreBand())
		})
	}
}

func TestAnalyzeRequestValidate(t *testing.T) {
	valid := AnalyzeRequest{
		Document:       []byte("%PDF-1.4 fake content"),
		Filename:       "resume.pdf",
		JobDescription: "We are looking for a senior software engineer with Go experience and strong distributed systems background.",
	}
	require.NoError(t, valid.Validate())

	missingDoc := valid
	missingDoc.Document = nil
	assert.Error(t, missingDoc.Validate())

	shortJD := valid
	shortJD.JobDescription = "too short"
	assert.Error(t, shortJD.Validate())

	noFilename := valid
	noFilename.Filename = ""
	assert.Error(t, noFilename.Validate())
}

func TestEnhanceRequestValidate(t *testing.T) {
	valid := EnhanceRequest{
		OriginalResumeText: "John Doe, software engineer with ten years of experience.",
		JobDescription:     "We are looking for a senior software engineer with Go experience and cloud background.",
		AnalysisData: &AnalysisResult{
			CompatibilityScore: 70,
			Suggestions:        []string{"a", "b", "c"},
		},
	}
	require.NoError(t, valid.Validate())

	empty := EnhanceRequest{}
	assert.Error(t, empty.Validate())

	// Analysis data is optional; enhancement can run without it.
	noAnalysis := valid
	noAnalysis.AnalysisData = nil
	assert.NoError(t, noAnalysis.Validate())
}
