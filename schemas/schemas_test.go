package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisResultSchema_ValidJSON(t *testing.T) {
	require.NotEmpty(t, AnalysisResult)

	var v map[string]interface{}
	err := json.Unmarshal([]byte(AnalysisResult), &v)
	require.NoError(t, err, "embedded schema should be valid JSON")

	assert.Equal(t, "object", v["type"])
	assert.Contains(t, v, "required")
	assert.Contains(t, v, "properties")
}

func TestAnalysisResultSchema_RequiredFields(t *testing.T) {
	var v struct {
		Required   []string                   `json:"required"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(AnalysisResult), &v))

	expected := []string{
		"compatibility_score",
		"missing_keywords",
		"missing_skills",
		"suggestions",
		"strengths",
		"areas_for_improvement",
	}
	assert.ElementsMatch(t, expected, v.Required)

	for _, field := range expected {
		assert.Contains(t, v.Properties, field, "required field should be declared in properties")
	}
}
