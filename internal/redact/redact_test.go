package redact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	cmptypes "github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComprehend struct {
	entities []cmptypes.PiiEntity
	err      error
	lastText string
}

func (f *fakeComprehend) DetectPiiEntities(_ context.Context, input *comprehend.DetectPiiEntitiesInput, _ ...func(*comprehend.Options)) (*comprehend.DetectPiiEntitiesOutput, error) {
	f.lastText = aws.ToString(input.Text)
	if f.err != nil {
		return nil, f.err
	}
	return &comprehend.DetectPiiEntitiesOutput{Entities: f.entities}, nil
}

func entity(entityType cmptypes.PiiEntityType, begin, end int32, score float32) cmptypes.PiiEntity {
	return cmptypes.PiiEntity{
		Type:        entityType,
		BeginOffset: aws.Int32(begin),
		EndOffset:   aws.Int32(end),
		Score:       aws.Float32(score),
	}
}

func TestComprehendRedactor_MasksHighConfidenceEntities(t *testing.T) {
	//            0123456789...
	text := "Contact jane@example.com or 555-1234 for details."
	fake := &fakeComprehend{
		entities: []cmptypes.PiiEntity{
			entity(cmptypes.PiiEntityTypeEmail, 8, 24, 0.99),
			entity(cmptypes.PiiEntityTypePhone, 28, 36, 0.95),
		},
	}

	result, err := NewComprehendRedactor(fake).Redact(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RedactionCount)
	assert.Equal(t, []string{"EMAIL", "PHONE"}, result.RedactionTypes)
	assert.NotContains(t, result.RedactedText, "jane@example.com")
	assert.NotContains(t, result.RedactedText, "555-1234")
	assert.Contains(t, result.RedactedText, "for details.")
}

func TestComprehendRedactor_LowConfidenceLeftAlone(t *testing.T) {
	text := "Contact jane@example.com for details."
	fake := &fakeComprehend{
		entities: []cmptypes.PiiEntity{entity(cmptypes.PiiEntityTypeEmail, 8, 24, 0.5)},
	}

	result, err := NewComprehendRedactor(fake).Redact(context.Background(), text)
	require.NoError(t, err)
	assert.Zero(t, result.RedactionCount)
	assert.Equal(t, text, result.RedactedText)
}

func TestComprehendRedactor_MaskCapped(t *testing.T) {
	text := "Address: 1234 Very Long Street Name, Springfield. End."
	fake := &fakeComprehend{
		entities: []cmptypes.PiiEntity{entity(cmptypes.PiiEntityTypeAddress, 9, 49, 0.9)},
	}

	result, err := NewComprehendRedactor(fake).Redact(context.Background(), text)
	require.NoError(t, err)
	assert.Contains(t, result.RedactedText, strings.Repeat("*", 8))
	assert.NotContains(t, result.RedactedText, strings.Repeat("*", 9))
}

func TestComprehendRedactor_ShortTextSkipsDetection(t *testing.T) {
	fake := &fakeComprehend{}
	result, err := NewComprehendRedactor(fake).Redact(context.Background(), "  hi  ")
	require.NoError(t, err)
	assert.Equal(t, "  hi  ", result.RedactedText)
	assert.Empty(t, fake.lastText)
}

func TestComprehendRedactor_DetectionWindowApplied(t *testing.T) {
	long := strings.Repeat("resume text ", 1000)
	fake := &fakeComprehend{}

	_, err := NewComprehendRedactor(fake).Redact(context.Background(), long)
	require.NoError(t, err)
	assert.Len(t, fake.lastText, detectionWindow)
}

func TestComprehendRedactor_TextTooLong(t *testing.T) {
	long := strings.Repeat("x", maxTextBytes+1)
	_, err := NewComprehendRedactor(&fakeComprehend{}).Redact(context.Background(), long)

	var redactErr *Error
	require.ErrorAs(t, err, &redactErr)
	assert.Equal(t, ReasonTextTooLong, redactErr.Reason)
}

func TestClassifyComprehendError(t *testing.T) {
	fake := &fakeComprehend{err: &cmptypes.TextSizeLimitExceededException{}}
	_, err := NewComprehendRedactor(fake).Redact(context.Background(), "long enough resume text here")
	var redactErr *Error
	require.ErrorAs(t, err, &redactErr)
	assert.Equal(t, ReasonTextTooLong, redactErr.Reason)

	fake = &fakeComprehend{err: errors.New("dial tcp: timeout")}
	_, err = NewComprehendRedactor(fake).Redact(context.Background(), "long enough resume text here")
	require.ErrorAs(t, err, &redactErr)
	assert.Equal(t, ReasonServiceUnavailable, redactErr.Reason)
	assert.True(t, IsRetryable(err))
}
