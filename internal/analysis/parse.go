package analysis

import (
	"encoding/json"
	"strings"

	"github.com/atsbuddy/ats-buddy/internal/schemas"
	"github.com/atsbuddy/ats-buddy/internal/types"
	rootschemas "github.com/atsbuddy/ats-buddy/schemas"
)

// defaultScore is used when the model produced a score that is not a number.
const defaultScore = 50

// defaultSuggestions backfill the response when the model provides fewer
// than the minimum three suggestions.
var defaultSuggestions = []string{
	"Review job description keywords and incorporate relevant ones into your resume",
	"Quantify your achievements with specific metrics and numbers",
	"Tailor your skills section to match the job requirements",
}

// requiredFields must be present in the model payload; their absence means
// the response is structurally wrong rather than merely mistyped.
var requiredFields = []string{
	"missing_keywords",
	"missing_skills",
	"suggestions",
	"compatibility_score",
}

// ParseResponse extracts a conforming AnalysisResult from raw model output.
// Models frequently wrap the JSON in prose or mistype individual fields, so
// parsing locates the JSON object, coerces recoverable fields, and only then
// validates the repaired payload against the analysis schema.
func ParseResponse(raw string) (*types.AnalysisResult, error) {
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &Error{Reason: ReasonInvalidModelOutput, Message: "no JSON object in model response"}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, &Error{Reason: ReasonInvalidModelOutput, Message: "model response is not valid JSON", Cause: err}
	}

	for _, field := range requiredFields {
		if _, ok := payload[field]; !ok {
			return nil, &Error{Reason: ReasonInvalidModelOutput, Message: "model response missing required field: " + field}
		}
	}

	result := &types.AnalysisResult{
		CompatibilityScore:  coerceScore(payload["compatibility_score"]),
		MissingKeywords:     coerceStringSlice(payload["missing_keywords"]),
		MissingSkills:       coerceMissingSkills(payload["missing_skills"]),
		Suggestions:         coerceStringSlice(payload["suggestions"]),
		Strengths:           coerceStringSlice(payload["strengths"]),
		AreasForImprovement: coerceStringSlice(payload["areas_for_improvement"]),
	}

	// Guarantee the minimum of three suggestions
	if len(result.Suggestions) < 3 {
		result.Suggestions = append(result.Suggestions, defaultSuggestions...)
		result.Suggestions = result.Suggestions[:3]
	}

	repaired, err := json.Marshal(result)
	if err != nil {
		return nil, &Error{Reason: ReasonInvalidModelOutput, Message: "failed to re-encode repaired analysis", Cause: err}
	}
	if err := schemas.Validate(rootschemas.AnalysisResult, string(repaired)); err != nil {
		return nil, &Error{Reason: ReasonInvalidModelOutput, Message: "repaired analysis does not conform to schema", Cause: err}
	}

	return result, nil
}

// coerceScore accepts any numeric score, clamps it into [0, 100], and falls
// back to a neutral default for non-numeric values.
func coerceScore(v interface{}) int {
	score, ok := v.(float64)
	if !ok {
		return defaultScore
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

// coerceStringSlice keeps string elements and drops everything else. A
// missing or mistyped field becomes an empty slice, never nil, so the field
// still serializes as a JSON array.
func coerceStringSlice(v interface{}) []string {
	out := []string{}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func coerceMissingSkills(v interface{}) types.MissingSkills {
	skills := types.MissingSkills{Technical: []string{}, Soft: []string{}}
	m, ok := v.(map[string]interface{})
	if !ok {
		return skills
	}
	skills.Technical = coerceStringSlice(m["technical"])
	skills.Soft = coerceStringSlice(m["soft"])
	return skills
}
