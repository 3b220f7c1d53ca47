package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// LocalExtractor reads PDF text in-process. Used by the CLI's one-shot mode
// so development runs need no OCR service.
type LocalExtractor struct{}

// NewLocalExtractor creates a local PDF extractor.
func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{}
}

// Extract pulls plain text out of each readable page.
func (l *LocalExtractor) Extract(_ context.Context, document []byte) (*types.ExtractionResult, error) {
	if len(document) == 0 {
		return nil, &Error{Reason: ReasonEmptyContent, Message: "document is empty"}
	}

	reader, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return nil, &Error{
			Reason:  ReasonCorrupted,
			Message: "failed to parse PDF structure",
			Cause:   err,
		}
	}

	var builder strings.Builder
	var warnings []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			warnings = append(warnings, "skipped unreadable page")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			warnings = append(warnings, "failed to read text from a page")
			continue
		}
		builder.WriteString(text)
	}

	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return nil, &Error{
			Reason:  ReasonEmptyContent,
			Message: "no text could be extracted from the PDF",
		}
	}

	return &types.ExtractionResult{
		RawText:   text,
		PageCount: numPages,
		Warnings:  warnings,
	}, nil
}
