package report

import (
	_ "embed"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

//go:embed report.md.tmpl
var markdownTemplate string

//go:embed report.html.tmpl
var htmlTemplate string

var (
	markdownTmpl = texttemplate.Must(texttemplate.New("markdown").Funcs(texttemplate.FuncMap{
		"add": func(a, b int) int { return a + b },
	}).Parse(markdownTemplate))

	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlTemplate))
)

// RenderMarkdown renders the long-form markdown report.
func RenderMarkdown(analysis *types.AnalysisResult, meta Meta) (string, error) {
	var sb strings.Builder
	if err := markdownTmpl.Execute(&sb, buildView(analysis, meta)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderHTML renders the styled HTML report. Model-provided strings are
// escaped by the template engine on the way in.
func RenderHTML(analysis *types.AnalysisResult, meta Meta) (string, error) {
	var sb strings.Builder
	if err := htmlTmpl.Execute(&sb, buildView(analysis, meta)); err != nil {
		return "", err
	}
	return sb.String(), nil
}
