package types

import "time"

// ReportFormat identifies a rendered report variant.
type ReportFormat string

// Report format constants
const (
	// FormatMarkdown is the structured, long-form report
	FormatMarkdown ReportFormat = "markdown"
	// FormatHTML is the human-readable report
	FormatHTML ReportFormat = "html"
)

// ReportArtifact is an access handle for a stored report. The underlying
// object's lifecycle belongs to the storage layer; the pipeline only ever
// generates the reference.
type ReportArtifact struct {
	Format      ReportFormat `json:"format"`
	Key         string       `json:"key"`
	DownloadURL string       `json:"download_url"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// ReportPackage bundles both rendered artifacts for one analysis.
type ReportPackage struct {
	ReportID    string         `json:"report_id"`
	Markdown    ReportArtifact `json:"markdown"`
	HTML        ReportArtifact `json:"html"`
	GeneratedAt time.Time      `json:"generated_at"`
}
