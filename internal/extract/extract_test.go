package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	txtypes "github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTextract struct {
	output *textract.DetectDocumentTextOutput
	err    error
}

func (f *fakeTextract) DetectDocumentText(context.Context, *textract.DetectDocumentTextInput, ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error) {
	return f.output, f.err
}

func TestTextractExtractor_JoinsLines(t *testing.T) {
	fake := &fakeTextract{
		output: &textract.DetectDocumentTextOutput{
			Blocks: []txtypes.Block{
				{BlockType: txtypes.BlockTypePage},
				{BlockType: txtypes.BlockTypeLine, Text: aws.String("Jane Doe")},
				{BlockType: txtypes.BlockTypeLine, Text: aws.String("Software Engineer")},
				{BlockType: txtypes.BlockTypeWord, Text: aws.String("ignored")},
			},
		},
	}

	result, err := NewTextractExtractor(fake).Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSoftware Engineer", result.RawText)
	assert.Equal(t, 1, result.PageCount)
}

func TestTextractExtractor_EmptyDocument(t *testing.T) {
	result, err := NewTextractExtractor(&fakeTextract{}).Extract(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, result)

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, ReasonEmptyContent, extractErr.Reason)
}

func TestTextractExtractor_NoTextInDocument(t *testing.T) {
	fake := &fakeTextract{
		output: &textract.DetectDocumentTextOutput{
			Blocks: []txtypes.Block{{BlockType: txtypes.BlockTypePage}},
		},
	}

	_, err := NewTextractExtractor(fake).Extract(context.Background(), []byte("%PDF-1.4"))
	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, ReasonEmptyContent, extractErr.Reason)
}

func TestClassifyTextractError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Reason
	}{
		{name: "unsupported document", err: &txtypes.UnsupportedDocumentException{}, expected: ReasonUnsupportedFormat},
		{name: "bad document", err: &txtypes.BadDocumentException{}, expected: ReasonCorrupted},
		{name: "document too large", err: &txtypes.DocumentTooLargeException{}, expected: ReasonUnsupportedFormat},
		{name: "throttled", err: &txtypes.ThrottlingException{}, expected: ReasonServiceUnavailable},
		{name: "internal error", err: &txtypes.InternalServerError{}, expected: ReasonServiceUnavailable},
		{name: "unknown", err: errors.New("dial tcp: timeout"), expected: ReasonServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTextract{err: tt.err}
			_, err := NewTextractExtractor(fake).Extract(context.Background(), []byte("%PDF-1.4"))
			var extractErr *Error
			require.ErrorAs(t, err, &extractErr)
			assert.Equal(t, tt.expected, extractErr.Reason)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&Error{Reason: ReasonServiceUnavailable}))
	assert.False(t, IsRetryable(&Error{Reason: ReasonCorrupted}))
	assert.False(t, IsRetryable(&Error{Reason: ReasonUnsupportedFormat}))
	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestLocalExtractor_EmptyDocument(t *testing.T) {
	_, err := NewLocalExtractor().Extract(context.Background(), nil)
	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, ReasonEmptyContent, extractErr.Reason)
}

func TestLocalExtractor_NotAPDF(t *testing.T) {
	_, err := NewLocalExtractor().Extract(context.Background(), []byte("this is not a pdf document at all"))
	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, ReasonCorrupted, extractErr.Reason)
}
