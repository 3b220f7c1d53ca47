package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/atsbuddy/ats-buddy/internal/fingerprint"
	"github.com/atsbuddy/ats-buddy/internal/pipeline"
	"github.com/atsbuddy/ats-buddy/internal/types"
)

// AnalyzeResponse represents the response for /analyze. OriginalResumeText
// and EnhancementAvailable let the client issue a follow-up /enhance request
// without re-uploading the document.
type AnalyzeResponse struct {
	Status               string                  `json:"status"`
	Fingerprint          fingerprint.Fingerprint `json:"fingerprint"`
	Analysis             *types.AnalysisResult   `json:"analysis"`
	Reports              *types.ReportPackage    `json:"reports,omitempty"`
	OriginalResumeText   string                  `json:"originalResumeText"`
	EnhancementAvailable bool                    `json:"enhancementAvailable"`
	Warnings             []string                `json:"warnings,omitempty"`
}

// EnhanceResponse represents the response for /enhance
type EnhanceResponse struct {
	EnhancedResume      string   `json:"enhancedResume"`
	OriginalLength      int      `json:"originalLength"`
	EnhancedLength      int      `json:"enhancedLength"`
	KeywordsAdded       []string `json:"keywordsAdded"`
	ImprovementsMade    []string `json:"improvementsMade"`
	TokenCutoffDetected bool     `json:"tokenCutoffDetected"`
	Warnings            []string `json:"warnings,omitempty"`
}

// handleAnalyze accepts a multipart resume upload and runs the analysis flow
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(types.MaxDocumentBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "A 'resume' file upload is required")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Warning: Failed to close uploaded file: %v", err)
		}
	}()

	document, err := io.ReadAll(io.LimitReader(file, types.MaxDocumentBytes+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}
	if len(document) > types.MaxDocumentBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "Resume exceeds the 10 MB upload limit")
		return
	}

	req := types.AnalyzeRequest{
		Document:       document,
		Filename:       header.Filename,
		JobDescription: r.FormValue("jobDescription"),
		JobTitle:       r.FormValue("jobTitle"),
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	result, err := s.pipeline.Analyze(r.Context(), pipeline.AnalyzeInput{
		Document:       req.Document,
		Filename:       req.Filename,
		JobDescription: req.JobDescription,
		JobTitle:       req.JobTitle,
	})
	if err != nil {
		log.Printf("Analysis request failed: %v", err)
		s.errorResponse(w, statusForError(err), errorMessage(err))
		return
	}

	s.jsonResponse(w, http.StatusOK, AnalyzeResponse{
		Status:               result.Status,
		Fingerprint:          result.Fingerprint,
		Analysis:             result.Analysis,
		Reports:              result.Reports,
		OriginalResumeText:   result.ResumeText,
		EnhancementAvailable: true,
		Warnings:             result.Warnings,
	})
}

// handleEnhance generates an improved resume from a prior analysis
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	var req types.EnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	result, err := s.pipeline.Enhance(r.Context(), pipeline.EnhanceInput{
		ResumeText:     req.OriginalResumeText,
		JobDescription: req.JobDescription,
		JobTitle:       req.JobTitle,
		Analysis:       req.AnalysisData,
	})
	if err != nil {
		log.Printf("Enhancement request failed: %v", err)
		s.errorResponse(w, statusForError(err), errorMessage(err))
		return
	}

	enhancement := result.Enhancement
	s.jsonResponse(w, http.StatusOK, EnhanceResponse{
		EnhancedResume:      enhancement.EnhancedText,
		OriginalLength:      enhancement.OriginalLength,
		EnhancedLength:      enhancement.EnhancedLength,
		KeywordsAdded:       enhancement.KeywordsAdded,
		ImprovementsMade:    enhancement.ImprovementsMade,
		TokenCutoffDetected: enhancement.Truncated,
		Warnings:            result.Warnings,
	})
}

// validationMessage renders a field validation failure for the client.
func validationMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "Invalid request: " + err.Error()
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fe.Field())
	}
	return "Invalid request, check fields: " + strings.Join(fields, ", ")
}
