package types

import (
	"github.com/go-playground/validator/v10"
)

// MinJobDescriptionLength is the minimum accepted job description size.
// Anything shorter cannot produce a meaningful keyword comparison.
const MinJobDescriptionLength = 50

// MaxDocumentBytes bounds uploaded resume size. Documents above this are
// rejected before any external call.
const MaxDocumentBytes = 10 << 20

// AnalyzeRequest represents a resume analysis request after the transport
// layer has decoded the upload.
type AnalyzeRequest struct {
	Document       []byte `validate:"required,min=1,max=10485760"`
	Filename       string `validate:"required"`
	JobDescription string `validate:"required,min=50"`
	JobTitle       string
}

// EnhanceRequest represents an enhancement request. It carries a previously
// computed analysis; the pipeline never re-runs analysis for enhancement.
type EnhanceRequest struct {
	OriginalResumeText string          `json:"originalResumeText" validate:"required,min=1"`
	JobDescription     string          `json:"jobDescription" validate:"required,min=50"`
	JobTitle           string          `json:"jobTitle"`
	AnalysisData       *AnalysisResult `json:"analysisData"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the EnhanceRequest using the validator.
func (r *EnhanceRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
