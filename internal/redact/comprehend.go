package redact

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	cmptypes "github.com/aws/aws-sdk-go-v2/service/comprehend/types"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

const (
	// detectionWindow caps how much text is submitted for PII detection.
	// Resume PII (name, address, phone, email) concentrates at the top of
	// the document.
	detectionWindow = 5000
	// minConfidence is the detection score below which an entity is left
	// alone to avoid mangling legitimate content.
	minConfidence = 0.7
	// maskLimit caps the mask length so redaction does not leak the exact
	// size of long values.
	maskLimit = 8
	// maxTextBytes mirrors the detection service's document size limit.
	maxTextBytes = 100000
)

// ComprehendAPI is the subset of the Comprehend client used by the adapter.
type ComprehendAPI interface {
	DetectPiiEntities(ctx context.Context, params *comprehend.DetectPiiEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectPiiEntitiesOutput, error)
}

// ComprehendRedactor is the production Redactor backed by the managed
// PII-detection service.
type ComprehendRedactor struct {
	client ComprehendAPI
}

// NewComprehendRedactor creates a redactor over a Comprehend client.
func NewComprehendRedactor(client ComprehendAPI) *ComprehendRedactor {
	return &ComprehendRedactor{client: client}
}

// Redact detects PII in the leading window of the text and masks
// high-confidence entities in place.
func (c *ComprehendRedactor) Redact(ctx context.Context, rawText string) (*types.RedactionResult, error) {
	if len(rawText) > maxTextBytes {
		return nil, &Error{Reason: ReasonTextTooLong, Message: "text exceeds PII detection size limit"}
	}
	if len(strings.TrimSpace(rawText)) < 10 {
		// Nothing meaningful to redact.
		return &types.RedactionResult{RedactedText: rawText}, nil
	}

	window := rawText
	if len(window) > detectionWindow {
		window = window[:detectionWindow]
	}

	out, err := c.client.DetectPiiEntities(ctx, &comprehend.DetectPiiEntitiesInput{
		Text:         aws.String(window),
		LanguageCode: cmptypes.LanguageCodeEn,
	})
	if err != nil {
		return nil, classifyComprehendError(err)
	}

	result := applyEntities(rawText, out.Entities)
	if result.RedactionCount > 0 {
		log.Printf("Redacted %d PII entities (%s)", result.RedactionCount, strings.Join(result.RedactionTypes, ", "))
	}
	return result, nil
}

// applyEntities masks detected spans from the end of the text backwards so
// earlier offsets stay valid.
func applyEntities(text string, entities []cmptypes.PiiEntity) *types.RedactionResult {
	sorted := make([]cmptypes.PiiEntity, len(entities))
	copy(sorted, entities)
	sort.Slice(sorted, func(i, j int) bool {
		return aws.ToInt32(sorted[i].BeginOffset) > aws.ToInt32(sorted[j].BeginOffset)
	})

	redacted := []byte(text)
	count := 0
	typeSet := map[string]struct{}{}

	for _, entity := range sorted {
		if aws.ToFloat32(entity.Score) < minConfidence {
			continue
		}
		begin := int(aws.ToInt32(entity.BeginOffset))
		end := int(aws.ToInt32(entity.EndOffset))
		if begin < 0 || end > len(redacted) || begin >= end {
			continue
		}

		maskLen := end - begin
		if maskLen > maskLimit {
			maskLen = maskLimit
		}
		mask := strings.Repeat("*", maskLen)

		redacted = append(redacted[:begin], append([]byte(mask), redacted[end:]...)...)
		count++
		typeSet[string(entity.Type)] = struct{}{}
	}

	redactionTypes := make([]string, 0, len(typeSet))
	for name := range typeSet {
		redactionTypes = append(redactionTypes, name)
	}
	sort.Strings(redactionTypes)

	return &types.RedactionResult{
		RedactedText:   string(redacted),
		RedactionTypes: redactionTypes,
		RedactionCount: count,
	}
}

// classifyComprehendError maps service errors onto the adapter's taxonomy.
func classifyComprehendError(err error) error {
	var tooLong *cmptypes.TextSizeLimitExceededException
	if errors.As(err, &tooLong) {
		return &Error{Reason: ReasonTextTooLong, Message: "PII detection rejected the text size", Cause: err}
	}
	return &Error{Reason: ReasonServiceUnavailable, Message: "PII detection service call failed", Cause: err}
}
