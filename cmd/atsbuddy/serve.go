package main

import (
	"context"
	"fmt"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/spf13/cobra"

	"github.com/atsbuddy/ats-buddy/internal/analysis"
	"github.com/atsbuddy/ats-buddy/internal/cache"
	"github.com/atsbuddy/ats-buddy/internal/config"
	"github.com/atsbuddy/ats-buddy/internal/enhance"
	"github.com/atsbuddy/ats-buddy/internal/extract"
	"github.com/atsbuddy/ats-buddy/internal/llm"
	"github.com/atsbuddy/ats-buddy/internal/pipeline"
	"github.com/atsbuddy/ats-buddy/internal/redact"
	"github.com/atsbuddy/ats-buddy/internal/report"
	"github.com/atsbuddy/ats-buddy/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes /analyze and /enhance endpoints for resume analysis against job descriptions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var awsOpts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		awsOpts = append(awsOpts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	modelClient, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() {
		if err := modelClient.Close(); err != nil {
			log.Printf("Warning: Failed to close model client: %v", err)
		}
	}()

	// The persistent cache is optional; without a table the service still
	// deduplicates concurrent identical requests, just not across restarts.
	var cacheStore cache.Store = cache.NewMemoryStore()
	if cfg.CacheTable != "" {
		dynamoStore, err := cache.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.CacheTable)
		if err != nil {
			return fmt.Errorf("failed to initialize extraction cache: %w", err)
		}
		cacheStore = dynamoStore
	} else {
		log.Println("Warning: RESUME_CACHE_TABLE not set, falling back to in-memory extraction cache")
	}

	p := pipeline.New(
		extract.NewTextractExtractor(textract.NewFromConfig(awsCfg)),
		redact.NewComprehendRedactor(comprehend.NewFromConfig(awsCfg)),
		cache.New(cacheStore, cfg.CacheTTL),
		analysis.NewModelAnalyzer(modelClient),
		enhance.NewModelEnhancer(modelClient),
		report.NewGenerator(report.NewS3Store(s3.NewFromConfig(awsCfg), cfg.ReportsBucket)),
		pipeline.Options{
			StageTimeout:    cfg.StageTimeout,
			StrictRedaction: cfg.StrictRedaction,
		},
	)

	srv := server.New(server.Config{ListenAddr: cfg.ListenAddr}, p)
	return srv.Start()
}
