package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// DownloadURLTTL is how long presigned report URLs stay valid.
const DownloadURLTTL = time.Hour

// ArtifactStore persists rendered reports and issues download references.
type ArtifactStore interface {
	Store(ctx context.Context, content string, format types.ReportFormat, key string) error
	PresignDownload(ctx context.Context, key string) (string, time.Time, error)
}

// ObjectKey builds the storage key for one report variant.
func ObjectKey(generatedAt time.Time, reportID string, format types.ReportFormat) string {
	ext := "md"
	if format == types.FormatHTML {
		ext = "html"
	}
	return fmt.Sprintf("reports/%s_%s.%s", generatedAt.UTC().Format("20060102_150405"), reportID, ext)
}

func contentType(format types.ReportFormat) string {
	if format == types.FormatHTML {
		return "text/html"
	}
	return "text/markdown"
}

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store persists reports in an S3 bucket and serves them through
// presigned URLs.
type S3Store struct {
	client    S3API
	presigner presignAPI
	bucket    string
	now       func() time.Time
}

// presignAPI matches s3.PresignClient's PresignGetObject signature without
// importing the v4 signer types into callers.
type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (presignedRequest, error)
}

type presignedRequest interface {
	URLString() string
}

// NewS3Store creates a store writing to the given bucket.
func NewS3Store(client *s3.Client, bucket string) *S3Store {
	return &S3Store{
		client:    client,
		presigner: presignClientAdapter{s3.NewPresignClient(client)},
		bucket:    bucket,
		now:       time.Now,
	}
}

// Store uploads one rendered report.
func (s *S3Store) Store(ctx context.Context, content string, format types.ReportFormat, key string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(content),
		ContentType: aws.String(contentType(format)),
		Metadata: map[string]string{
			"format":       string(format),
			"generated-at": s.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return &StorageError{Message: "failed to upload report object", Cause: err}
	}
	return nil
}

// PresignDownload issues a time-limited download URL for a stored report.
func (s *S3Store) PresignDownload(ctx context.Context, key string) (string, time.Time, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = DownloadURLTTL
	})
	if err != nil {
		return "", time.Time{}, &StorageError{Message: "failed to presign download URL", Cause: err}
	}
	return req.URLString(), s.now().Add(DownloadURLTTL), nil
}

type presignClientAdapter struct {
	client *s3.PresignClient
}

func (a presignClientAdapter) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (presignedRequest, error) {
	req, err := a.client.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return presignedURL(req.URL), nil
}

type presignedURL string

func (u presignedURL) URLString() string { return string(u) }
