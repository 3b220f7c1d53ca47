package pipeline

import (
	"context"
	"log"
	"strings"

	"github.com/atsbuddy/ats-buddy/internal/analysis"
	"github.com/atsbuddy/ats-buddy/internal/extract"
	"github.com/atsbuddy/ats-buddy/internal/fingerprint"
	"github.com/atsbuddy/ats-buddy/internal/pdfcheck"
	"github.com/atsbuddy/ats-buddy/internal/redact"
	"github.com/atsbuddy/ats-buddy/internal/report"
	"github.com/atsbuddy/ats-buddy/internal/retry"
	"github.com/atsbuddy/ats-buddy/internal/types"
)

// AnalyzeInput is one analysis request.
type AnalyzeInput struct {
	Document       []byte
	Filename       string
	JobDescription string
	JobTitle       string
}

// Result is the outcome of an analysis request. ResumeText carries the
// extracted (redacted) text back to the caller so a follow-up enhancement
// request can reuse it without another extraction.
type Result struct {
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`
	Status      string                  `json:"status"`
	Analysis    *types.AnalysisResult   `json:"analysis"`
	ResumeText  string                  `json:"resumeText"`
	Reports     *types.ReportPackage    `json:"reports,omitempty"`
	Warnings    []string                `json:"warnings,omitempty"`
}

// resolvedText is the outcome of the text-resolution phase shared by the
// analyze and enhance flows.
type resolvedText struct {
	text      string
	fromCache bool
	warnings  []string
}

// Analyze runs the full analysis flow for one uploaded resume.
func (p *Pipeline) Analyze(ctx context.Context, input AnalyzeInput) (*Result, error) {
	fp, err := fingerprint.Compute(input.Document)
	if err != nil {
		return nil, &StageError{Stage: StageFingerprint, Err: err}
	}
	log.Printf("[%s] analysis request for %q", fp.Short(), input.Filename)

	resolved, shared, err := p.resolveText(ctx, fp, input.Document, input.Filename)
	if err != nil {
		return nil, err
	}

	status := StatusProcessed
	if resolved.fromCache || shared {
		status = StatusDeduplicated
		log.Printf("[%s] extraction skipped, identical document already processed", fp.Short())
	}

	analysisResult, err := p.analyze(ctx, fp, resolved.text, input.JobDescription)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Fingerprint: fp,
		Status:      status,
		Analysis:    analysisResult,
		ResumeText:  resolved.text,
		Warnings:    resolved.warnings,
	}

	// Report storage is best-effort: the analysis is still returned when the
	// report bucket is down.
	if p.reports != nil {
		pkg, err := p.reports.CreatePackage(ctx, analysisResult, report.Meta{
			ResumeFilename: input.Filename,
			JobTitle:       input.JobTitle,
		})
		if err != nil {
			log.Printf("Warning: [%s] failed to store reports: %v", fp.Short(), err)
			result.Warnings = append(result.Warnings, "report storage unavailable, download links omitted")
		} else {
			result.Reports = pkg
		}
	}

	log.Printf("[%s] analysis complete: score %d (%s)", fp.Short(), analysisResult.CompatibilityScore, status)
	return result, nil
}

// resolveText produces the redacted resume text for a document, consulting
// the cache first and collapsing concurrent work on identical content. The
// returned bool reports whether this caller shared another caller's flight.
func (p *Pipeline) resolveText(ctx context.Context, fp fingerprint.Fingerprint, document []byte, filename string) (*resolvedText, bool, error) {
	v, err, shared := p.flights.Do(string(fp), func() (interface{}, error) {
		return p.extractAndRedact(ctx, fp, document, filename)
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*resolvedText), shared, nil
}

func (p *Pipeline) extractAndRedact(ctx context.Context, fp fingerprint.Fingerprint, document []byte, filename string) (*resolvedText, error) {
	if entry := p.cache.Lookup(ctx, fp); entry != nil {
		return &resolvedText{text: entry.ExtractedText, fromCache: true}, nil
	}

	// Cheap local structure checks before paying for the extraction service
	info, err := pdfcheck.Validate(document)
	if err != nil {
		return nil, &StageError{Stage: StageValidate, Err: err}
	}
	for _, warning := range info.Warnings {
		log.Printf("Warning: [%s] %s", fp.Short(), warning)
	}

	extraction, err := p.extract(ctx, fp, document)
	if err != nil {
		return nil, err
	}

	resolved := &resolvedText{}
	redaction, err := p.redact(ctx, fp, extraction.RawText)
	switch {
	case err == nil:
		resolved.text = redaction.RedactedText
		if redaction.RedactionCount > 0 {
			log.Printf("[%s] redacted %d PII entities (%s)", fp.Short(), redaction.RedactionCount, strings.Join(redaction.RedactionTypes, ", "))
		}
	case p.opts.StrictRedaction:
		return nil, &StageError{Stage: StageRedact, Err: err}
	default:
		// Fail open: an unredacted analysis beats no analysis
		log.Printf("Warning: [%s] redaction unavailable, continuing with unredacted text: %v", fp.Short(), err)
		resolved.text = extraction.RawText
		resolved.warnings = append(resolved.warnings, "PII redaction was unavailable for this request")
	}

	if err := p.cache.Save(ctx, fp, resolved.text, filename); err != nil {
		log.Printf("Warning: [%s] failed to cache extraction: %v", fp.Short(), err)
	}

	return resolved, nil
}

func (p *Pipeline) extract(ctx context.Context, fp fingerprint.Fingerprint, document []byte) (*types.ExtractionResult, error) {
	var extraction *types.ExtractionResult

	err := retry.Do(ctx, retry.Policy{Retryable: extract.IsRetryable, Label: "extraction", Backoff: p.opts.RetryBackoff}, func(ctx context.Context) error {
		stageCtx, cancel := p.stageContext(ctx)
		defer cancel()

		var err error
		extraction, err = p.extractor.Extract(stageCtx, document)
		return err
	})
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}

	if strings.TrimSpace(extraction.RawText) == "" {
		return nil, &StageError{Stage: StageExtract, Err: &extract.Error{
			Reason:  extract.ReasonEmptyContent,
			Message: "document contains no extractable text",
		}}
	}

	log.Printf("[%s] extracted %d characters from %d page(s)", fp.Short(), len(extraction.RawText), extraction.PageCount)
	return extraction, nil
}

func (p *Pipeline) redact(ctx context.Context, fp fingerprint.Fingerprint, rawText string) (*types.RedactionResult, error) {
	var redaction *types.RedactionResult

	err := retry.Do(ctx, retry.Policy{Retryable: redact.IsRetryable, Label: "redaction", Backoff: p.opts.RetryBackoff}, func(ctx context.Context) error {
		stageCtx, cancel := p.stageContext(ctx)
		defer cancel()

		var err error
		redaction, err = p.redactor.Redact(stageCtx, rawText)
		return err
	})
	if err != nil {
		return nil, err
	}
	return redaction, nil
}

func (p *Pipeline) analyze(ctx context.Context, fp fingerprint.Fingerprint, resumeText, jobDescription string) (*types.AnalysisResult, error) {
	var result *types.AnalysisResult

	err := retry.Do(ctx, retry.Policy{Retryable: analysis.IsRetryable, Label: "analysis", Backoff: p.opts.RetryBackoff}, func(ctx context.Context) error {
		stageCtx, cancel := p.stageContext(ctx)
		defer cancel()

		var err error
		result, err = p.analyzer.Analyze(stageCtx, resumeText, jobDescription)
		return err
	})
	if err != nil {
		return nil, &StageError{Stage: StageAnalyze, Err: err}
	}
	return result, nil
}
