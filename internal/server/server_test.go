package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atsbuddy/ats-buddy/internal/analysis"
	"github.com/atsbuddy/ats-buddy/internal/enhance"
	"github.com/atsbuddy/ats-buddy/internal/extract"
	"github.com/atsbuddy/ats-buddy/internal/pipeline"
	"github.com/atsbuddy/ats-buddy/internal/server/ratelimit"
	"github.com/atsbuddy/ats-buddy/internal/types"
)

const testJobDescription = "We are hiring a backend engineer with Go, AWS, and distributed systems experience."

// fakePipeline implements the Pipeline interface for handler tests.
type fakePipeline struct {
	analyzeResult *pipeline.Result
	analyzeErr    error
	enhanceResult *pipeline.EnhanceResult
	enhanceErr    error

	lastAnalyze pipeline.AnalyzeInput
	lastEnhance pipeline.EnhanceInput
}

func (f *fakePipeline) Analyze(_ context.Context, input pipeline.AnalyzeInput) (*pipeline.Result, error) {
	f.lastAnalyze = input
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.analyzeResult, nil
}

func (f *fakePipeline) Enhance(_ context.Context, input pipeline.EnhanceInput) (*pipeline.EnhanceResult, error) {
	f.lastEnhance = input
	if f.enhanceErr != nil {
		return nil, f.enhanceErr
	}
	return f.enhanceResult, nil
}

func newTestServer(p Pipeline) *Server {
	return &Server{
		pipeline:    p,
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	}
}

// multipartBody builds an /analyze request body with a resume file and form fields.
func multipartBody(t *testing.T, filename string, document []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = part.Write(document)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHandleAnalyze_Success(t *testing.T) {
	fake := &fakePipeline{
		analyzeResult: &pipeline.Result{
			Status:      pipeline.StatusProcessed,
			Fingerprint: "abc123",
			Analysis:    &types.AnalysisResult{CompatibilityScore: 85},
			ResumeText:  "extracted resume text",
		},
	}
	srv := newTestServer(fake)

	body, contentType := multipartBody(t, "resume.pdf", []byte("%PDF-1.4 fake"), map[string]string{
		"jobDescription": testJobDescription,
		"jobTitle":       "Backend Engineer",
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "processed", resp.Status)
	assert.Equal(t, 85, resp.Analysis.CompatibilityScore)
	assert.Equal(t, "extracted resume text", resp.OriginalResumeText)
	assert.True(t, resp.EnhancementAvailable)

	assert.Equal(t, "resume.pdf", fake.lastAnalyze.Filename)
	assert.Equal(t, "Backend Engineer", fake.lastAnalyze.JobTitle)
}

func TestHandleAnalyze_MissingFile(t *testing.T) {
	srv := newTestServer(&fakePipeline{})

	body, contentType := multipartBody(t, "", nil, map[string]string{
		"jobDescription": testJobDescription,
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "resume")
}

func TestHandleAnalyze_ShortJobDescription(t *testing.T) {
	srv := newTestServer(&fakePipeline{})

	body, contentType := multipartBody(t, "resume.pdf", []byte("%PDF-1.4"), map[string]string{
		"jobDescription": "too short",
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "JobDescription")
}

func TestHandleAnalyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name: "unreadable document",
			err: &pipeline.StageError{Stage: pipeline.StageExtract, Err: &extract.Error{
				Reason: extract.ReasonCorrupted, Message: "document appears to be corrupted",
			}},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid upload",
			err: &pipeline.StageError{Stage: pipeline.StageValidate, Err: &extract.Error{
				Reason: extract.ReasonUnsupportedFormat, Message: "only PDF documents are supported",
			}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "extraction outage",
			err: &pipeline.StageError{Stage: pipeline.StageExtract, Err: &extract.Error{
				Reason: extract.ReasonServiceUnavailable, Message: "text extraction is temporarily unavailable",
			}},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "model quota exhausted",
			err: &pipeline.StageError{Stage: pipeline.StageAnalyze, Err: &analysis.Error{
				Reason: analysis.ReasonQuotaExceeded, Message: "analysis quota exceeded",
			}},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name: "unusable model output",
			err: &pipeline.StageError{Stage: pipeline.StageAnalyze, Err: &analysis.Error{
				Reason: analysis.ReasonInvalidModelOutput, Message: "the model returned unusable output",
			}},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakePipeline{analyzeErr: tt.err})

			body, contentType := multipartBody(t, "resume.pdf", []byte("%PDF-1.4"), map[string]string{
				"jobDescription": testJobDescription,
			})
			req := httptest.NewRequest(http.MethodPost, "/analyze", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleEnhance_Success(t *testing.T) {
	fake := &fakePipeline{
		enhanceResult: &pipeline.EnhanceResult{
			Enhancement: &types.EnhancementResult{
				EnhancedText:     "enhanced resume",
				KeywordsAdded:    []string{"Go"},
				ImprovementsMade: []string{"Integrated 1 relevant keywords from the job description"},
				OriginalLength:   20,
				EnhancedLength:   15,
			},
		},
	}
	srv := newTestServer(fake)

	payload := map[string]any{
		"originalResumeText": "my original resume text",
		"jobDescription":     testJobDescription,
		"jobTitle":           "Backend Engineer",
		"analysisData":       &types.AnalysisResult{CompatibilityScore: 60},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/enhance", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp EnhanceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "enhanced resume", resp.EnhancedResume)
	assert.Equal(t, []string{"Go"}, resp.KeywordsAdded)
	assert.False(t, resp.TokenCutoffDetected)

	assert.Equal(t, "my original resume text", fake.lastEnhance.ResumeText)
	require.NotNil(t, fake.lastEnhance.Analysis)
	assert.Equal(t, 60, fake.lastEnhance.Analysis.CompatibilityScore)
}

func TestHandleEnhance_MissingResumeText(t *testing.T) {
	srv := newTestServer(&fakePipeline{})

	req := httptest.NewRequest(http.MethodPost, "/enhance",
		strings.NewReader(`{"jobDescription": "`+testJobDescription+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "OriginalResumeText")
}

func TestHandleEnhance_ServiceUnavailable(t *testing.T) {
	srv := newTestServer(&fakePipeline{
		enhanceErr: &pipeline.StageError{Stage: pipeline.StageEnhance, Err: &enhance.Error{
			Reason: enhance.ReasonServiceUnavailable, Message: "enhancement is temporarily unavailable",
		}},
	})

	req := httptest.NewRequest(http.MethodPost, "/enhance",
		strings.NewReader(`{"originalResumeText": "text", "jobDescription": "`+testJobDescription+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleEnhance_QuotaExceeded(t *testing.T) {
	srv := newTestServer(&fakePipeline{
		enhanceErr: &pipeline.StageError{Stage: pipeline.StageEnhance, Err: &enhance.Error{
			Reason: enhance.ReasonQuotaExceeded, Message: "model provider quota exceeded",
		}},
	})

	req := httptest.NewRequest(http.MethodPost, "/enhance",
		strings.NewReader(`{"originalResumeText": "text", "jobDescription": "`+testJobDescription+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakePipeline{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&fakePipeline{})

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitedAnalyze(t *testing.T) {
	srv := &Server{
		pipeline: &fakePipeline{analyzeResult: &pipeline.Result{
			Status:   pipeline.StatusProcessed,
			Analysis: &types.AnalysisResult{},
		}},
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{
			Enabled: true,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/analyze", Method: http.MethodPost, Limit: 2, Window: time.Hour, Burst: 2},
			},
		}),
	}
	handler := srv.Handler()

	do := func() *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, "resume.pdf", []byte("%PDF-1.4"), map[string]string{
			"jobDescription": testJobDescription,
		})
		req := httptest.NewRequest(http.MethodPost, "/analyze", body)
		req.Header.Set("Content-Type", contentType)
		req.RemoteAddr = "10.0.0.1:55555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	rec := do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
