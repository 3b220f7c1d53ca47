package extract

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/textract"
	txtypes "github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// TextractAPI is the subset of the Textract client used by the adapter.
type TextractAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// TextractExtractor is the production Extractor backed by the managed OCR
// service.
type TextractExtractor struct {
	client TextractAPI
}

// NewTextractExtractor creates an extractor over a Textract client.
func NewTextractExtractor(client TextractAPI) *TextractExtractor {
	return &TextractExtractor{client: client}
}

// Extract runs OCR over the document bytes and assembles line text in
// reading order.
func (t *TextractExtractor) Extract(ctx context.Context, document []byte) (*types.ExtractionResult, error) {
	if len(document) == 0 {
		return nil, &Error{Reason: ReasonEmptyContent, Message: "document is empty"}
	}

	out, err := t.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &txtypes.Document{Bytes: document},
	})
	if err != nil {
		return nil, classifyTextractError(err)
	}

	var lines []string
	pageCount := 0
	for _, block := range out.Blocks {
		switch block.BlockType {
		case txtypes.BlockTypePage:
			pageCount++
		case txtypes.BlockTypeLine:
			if block.Text != nil {
				lines = append(lines, *block.Text)
			}
		}
	}

	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, &Error{
			Reason:  ReasonEmptyContent,
			Message: "no text could be extracted; the document may be blank or image-only",
		}
	}

	log.Printf("Extracted %d characters across %d page(s)", len(text), pageCount)

	return &types.ExtractionResult{
		RawText:   text,
		PageCount: pageCount,
	}, nil
}

// classifyTextractError maps service errors onto the adapter's taxonomy.
func classifyTextractError(err error) error {
	var unsupported *txtypes.UnsupportedDocumentException
	if errors.As(err, &unsupported) {
		return &Error{
			Reason:  ReasonUnsupportedFormat,
			Message: "the OCR service cannot process this document format",
			Cause:   err,
		}
	}

	var bad *txtypes.BadDocumentException
	if errors.As(err, &bad) {
		return &Error{
			Reason:  ReasonCorrupted,
			Message: "the document is unreadable; it may be corrupted or password-protected",
			Cause:   err,
		}
	}

	var tooLarge *txtypes.DocumentTooLargeException
	if errors.As(err, &tooLarge) {
		return &Error{
			Reason:  ReasonUnsupportedFormat,
			Message: "the document exceeds the OCR service size limit",
			Cause:   err,
		}
	}

	var throttled *txtypes.ThrottlingException
	var overProvisioned *txtypes.ProvisionedThroughputExceededException
	var internal *txtypes.InternalServerError
	if errors.As(err, &throttled) || errors.As(err, &overProvisioned) || errors.As(err, &internal) {
		return &Error{Reason: ReasonServiceUnavailable, Message: "OCR service is busy", Cause: err}
	}

	return &Error{Reason: ReasonServiceUnavailable, Message: "OCR service call failed", Cause: err}
}
