package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atsbuddy/ats-buddy/internal/analysis"
	"github.com/atsbuddy/ats-buddy/internal/cache"
	"github.com/atsbuddy/ats-buddy/internal/enhance"
	"github.com/atsbuddy/ats-buddy/internal/extract"
	"github.com/atsbuddy/ats-buddy/internal/llm"
	"github.com/atsbuddy/ats-buddy/internal/observability"
	"github.com/atsbuddy/ats-buddy/internal/pipeline"
	"github.com/atsbuddy/ats-buddy/internal/redact"
	"github.com/atsbuddy/ats-buddy/internal/report"
	"github.com/atsbuddy/ats-buddy/internal/types"
)

var (
	analyzeJobFile    string
	analyzeJobTitle   string
	analyzeEnhance    bool
	analyzeOutputDir  string
	analyzeStrictMode bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume.pdf>",
	Short: "Analyze a resume against a job description locally",
	Long: `Run a one-shot analysis without the HTTP server or AWS services.
Text extraction happens locally; only the model call leaves the machine.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJobFile, "job", "", "Path to a file containing the job description (required)")
	analyzeCmd.Flags().StringVar(&analyzeJobTitle, "job-title", "", "Job title for the report header")
	analyzeCmd.Flags().BoolVar(&analyzeEnhance, "enhance", false, "Also generate an enhanced resume variant")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output", "", "Directory to write markdown and HTML reports")
	analyzeCmd.Flags().BoolVar(&analyzeStrictMode, "strict", false, "Fail instead of continuing when a stage degrades")
	_ = analyzeCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	resumePath := args[0]
	document, err := os.ReadFile(resumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	jobDescription, err := os.ReadFile(analyzeJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	req := types.AnalyzeRequest{
		Document:       document,
		Filename:       filepath.Base(resumePath),
		JobDescription: strings.TrimSpace(string(jobDescription)),
		JobTitle:       analyzeJobTitle,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	modelClient, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() {
		if err := modelClient.Close(); err != nil {
			log.Printf("Warning: Failed to close model client: %v", err)
		}
	}()

	reportStore := report.NewMemoryStore()
	p := pipeline.New(
		extract.NewLocalExtractor(),
		redact.NewPassthroughRedactor(),
		cache.New(cache.NewMemoryStore(), 0),
		analysis.NewModelAnalyzer(modelClient),
		enhance.NewModelEnhancer(modelClient),
		report.NewGenerator(reportStore),
		pipeline.Options{StrictRedaction: analyzeStrictMode},
	)

	result, err := p.Analyze(ctx, pipeline.AnalyzeInput{
		Document:       req.Document,
		Filename:       req.Filename,
		JobDescription: req.JobDescription,
		JobTitle:       req.JobTitle,
	})
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintAnalysis(result.Analysis)
	printer.PrintWarnings(result.Warnings)

	if analyzeOutputDir != "" && result.Reports != nil {
		if err := writeReports(reportStore, result.Reports, analyzeOutputDir); err != nil {
			return err
		}
	}

	if analyzeEnhance {
		enhanced, err := p.Enhance(ctx, pipeline.EnhanceInput{
			ResumeText:     result.ResumeText,
			JobDescription: req.JobDescription,
			JobTitle:       req.JobTitle,
			Analysis:       result.Analysis,
		})
		if err != nil {
			return err
		}

		printer.PrintEnhancement(enhanced.Enhancement)
		printer.PrintWarnings(enhanced.Warnings)

		if analyzeOutputDir != "" {
			path := filepath.Join(analyzeOutputDir, "enhanced_resume.txt")
			if err := os.WriteFile(path, []byte(enhanced.Enhancement.EnhancedText), 0o644); err != nil {
				return fmt.Errorf("failed to write enhanced resume: %w", err)
			}
			fmt.Printf("Enhanced resume written to %s\n", path)
		} else {
			fmt.Println(enhanced.Enhancement.EnhancedText)
		}
	}

	return nil
}

// writeReports copies the rendered reports out of the in-memory store into
// the output directory.
func writeReports(store *report.MemoryStore, pkg *types.ReportPackage, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	artifacts := []struct {
		artifact types.ReportArtifact
		filename string
	}{
		{pkg.Markdown, "report.md"},
		{pkg.HTML, "report.html"},
	}
	for _, a := range artifacts {
		content, ok := store.Get(a.artifact.Key)
		if !ok {
			return fmt.Errorf("report %s missing from store", a.artifact.Key)
		}
		path := filepath.Join(dir, a.filename)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.filename, err)
		}
		fmt.Printf("Report written to %s\n", path)
	}
	return nil
}
