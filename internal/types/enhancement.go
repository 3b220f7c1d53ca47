package types

// EnhancementResult is the outcome of generating an improved resume variant.
// Produced on demand from a prior AnalysisResult plus the original extracted
// text; not cached.
type EnhancementResult struct {
	EnhancedText     string   `json:"enhanced_text"`
	KeywordsAdded    []string `json:"keywords_added"`
	ImprovementsMade []string `json:"improvements_made"`
	Truncated        bool     `json:"truncated"`
	OriginalLength   int      `json:"original_length"`
	EnhancedLength   int      `json:"enhanced_length"`
}
