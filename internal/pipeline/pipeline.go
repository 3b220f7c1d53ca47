// Package pipeline provides the high-level orchestration for resume analysis:
// fingerprinting, cache-aware extraction, PII redaction, model analysis, and
// report assembly.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/atsbuddy/ats-buddy/internal/analysis"
	"github.com/atsbuddy/ats-buddy/internal/cache"
	"github.com/atsbuddy/ats-buddy/internal/enhance"
	"github.com/atsbuddy/ats-buddy/internal/extract"
	"github.com/atsbuddy/ats-buddy/internal/redact"
	"github.com/atsbuddy/ats-buddy/internal/report"
)

// Stage identifies the pipeline phase an error originated in.
type Stage string

// Pipeline stages, in execution order.
const (
	StageFingerprint Stage = "fingerprint"
	StageValidate    Stage = "validate"
	StageExtract     Stage = "extract"
	StageRedact      Stage = "redact"
	StageCache       Stage = "cache"
	StageAnalyze     Stage = "analyze"
	StageEnhance     Stage = "enhance"
	StageReport      Stage = "report"
)

// Request statuses reported to callers.
const (
	// StatusProcessed means the document went through full extraction
	StatusProcessed = "processed"
	// StatusDeduplicated means extraction was skipped because an identical
	// document had already been processed
	StatusDeduplicated = "deduplicated"
)

// StageError wraps a failure with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Options configures pipeline behavior.
type Options struct {
	// StageTimeout bounds each external-service call. Zero disables the
	// per-stage deadline.
	StageTimeout time.Duration
	// StrictRedaction makes redaction failures abort the request instead of
	// continuing with unredacted text.
	StrictRedaction bool
	// RetryBackoff overrides the pause before retry attempts. Zero uses the
	// retry package default.
	RetryBackoff time.Duration
}

// Pipeline wires the external-service adapters into the analysis flow.
// Construct with New; the zero value is not usable.
type Pipeline struct {
	extractor extract.Extractor
	redactor  redact.Redactor
	cache     *cache.Cache
	analyzer  analysis.Analyzer
	enhancer  enhance.Enhancer
	reports   *report.Generator
	opts      Options

	// flights collapses concurrent extraction of identical documents.
	flights singleflight.Group
}

// New creates a pipeline. reports may be nil to disable report storage;
// everything else is required.
func New(extractor extract.Extractor, redactor redact.Redactor, c *cache.Cache, analyzer analysis.Analyzer, enhancer enhance.Enhancer, reports *report.Generator, opts Options) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		redactor:  redactor,
		cache:     c,
		analyzer:  analyzer,
		enhancer:  enhancer,
		reports:   reports,
		opts:      opts,
	}
}

// stageContext applies the per-stage timeout when one is configured.
func (p *Pipeline) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.opts.StageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.opts.StageTimeout)
}
