package types

// ExtractionResult holds the raw text produced by the document extraction
// service. Transient: only its redacted derivative is ever cached.
type ExtractionResult struct {
	RawText   string
	PageCount int
	Warnings  []string
}

// RedactionResult holds the output of the PII redaction service. The
// RedactedText field becomes the cached extracted text for the document.
type RedactionResult struct {
	RedactedText   string
	RedactionTypes []string
	RedactionCount int
}
