package enhance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// responsePrefixes are boilerplate lead-ins models prepend despite being told
// to return only the resume.
var responsePrefixes = []string{
	"Here's the enhanced resume:",
	"Here is the enhanced resume:",
	"Enhanced Resume:",
	"ENHANCED RESUME:",
	"**Enhanced Resume:**",
	"**ENHANCED RESUME:**",
	"```markdown",
	"```",
}

// trailerPhrases start post-resume commentary; everything from the first
// occurrence onward is dropped.
var trailerPhrases = []string{
	"This enhanced resume",
	"The enhanced resume",
	"I've enhanced",
	"The above resume",
	"This version",
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// CleanResponse strips model boilerplate from around the resume text.
func CleanResponse(response string) string {
	response = strings.TrimSpace(response)

	for _, prefix := range responsePrefixes {
		if strings.HasPrefix(response, prefix) {
			response = strings.TrimSpace(strings.TrimPrefix(response, prefix))
		}
	}

	for _, phrase := range trailerPhrases {
		if idx := strings.Index(response, phrase); idx != -1 {
			response = strings.TrimSpace(response[:idx])
		}
	}

	response = strings.TrimSpace(strings.TrimSuffix(response, "```"))
	response = excessNewlines.ReplaceAllString(response, "\n\n")

	return strings.TrimSpace(response)
}

// DetectCutoff heuristically checks whether the text ends mid-thought, which
// happens when generation stops at the output-token limit without the
// provider reporting it.
func DetectCutoff(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}

	if strings.HasSuffix(text, ":") || strings.HasSuffix(text, ",") || strings.HasSuffix(text, "...") {
		return true
	}
	if strings.Contains(strings.ToLower(text), "truncated") {
		return true
	}

	last := rune(text[len(text)-1])
	if last >= 'a' && last <= 'z' && !strings.HasSuffix(text, ".") {
		return true
	}

	// Complete markdown ends on a sentence, a parenthetical, or a fence
	for _, suffix := range []string{")", ".", "```"} {
		if strings.HasSuffix(text, suffix) {
			return false
		}
	}
	return true
}

// actionVerbs are the strong leading verbs counted toward the improvement
// summary.
var actionVerbs = []string{
	"Achieved", "Administered", "Analyzed", "Built", "Collaborated", "Created",
	"Delivered", "Developed", "Enhanced", "Executed", "Implemented", "Improved",
	"Increased", "Led", "Managed", "Optimized", "Organized", "Reduced",
	"Streamlined", "Supervised", "Transformed", "Spearheaded", "Orchestrated",
}

var quantifiablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`\$\d+`),
	regexp.MustCompile(`\d+\+`),
	regexp.MustCompile(`\d+x`),
	regexp.MustCompile(`\d+ years?`),
	regexp.MustCompile(`\d+ months?`),
}

// improvementSummary describes what the rewrite changed, for the response
// payload.
func improvementSummary(analysis *types.AnalysisResult, enhanced string) []string {
	improvements := []string{}
	lower := strings.ToLower(enhanced)

	if n := len(analysis.MissingKeywords); n > 0 {
		improvements = append(improvements, fmt.Sprintf("Integrated %d relevant keywords", n))
	}

	verbs := 0
	for _, verb := range actionVerbs {
		if strings.Contains(lower, strings.ToLower(verb)) {
			verbs++
		}
	}
	if verbs > 0 {
		improvements = append(improvements, fmt.Sprintf("Enhanced with %d strong action verbs", verbs))
	}

	quantified := 0
	for _, pattern := range quantifiablePatterns {
		quantified += len(pattern.FindAllString(enhanced, -1))
	}
	if quantified > 0 {
		improvements = append(improvements, fmt.Sprintf("Added %d quantifiable achievements", quantified))
	}

	improvements = append(improvements,
		"Optimized formatting for ATS compatibility",
		"Improved section organization and keyword alignment",
	)

	return improvements
}
