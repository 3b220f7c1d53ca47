package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// Generator renders both report formats for an analysis, stores them, and
// assembles the download package.
type Generator struct {
	store ArtifactStore
	now   func() time.Time
}

// NewGenerator creates a generator backed by the given store.
func NewGenerator(store ArtifactStore) *Generator {
	return &Generator{store: store, now: time.Now}
}

// CreatePackage renders, stores, and presigns both report variants. Both
// variants share one report ID and timestamp so they pair up in storage.
func (g *Generator) CreatePackage(ctx context.Context, analysis *types.AnalysisResult, meta Meta) (*types.ReportPackage, error) {
	generatedAt := meta.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = g.now().UTC()
		meta.GeneratedAt = generatedAt
	}
	reportID := uuid.New().String()

	markdown, err := RenderMarkdown(analysis, meta)
	if err != nil {
		return nil, &StorageError{Message: "failed to render markdown report", Cause: err}
	}
	html, err := RenderHTML(analysis, meta)
	if err != nil {
		return nil, &StorageError{Message: "failed to render HTML report", Cause: err}
	}

	pkg := &types.ReportPackage{
		ReportID:    reportID,
		GeneratedAt: generatedAt,
	}

	pkg.Markdown, err = g.storeArtifact(ctx, markdown, types.FormatMarkdown, reportID, generatedAt)
	if err != nil {
		return nil, err
	}
	pkg.HTML, err = g.storeArtifact(ctx, html, types.FormatHTML, reportID, generatedAt)
	if err != nil {
		return nil, err
	}

	return pkg, nil
}

func (g *Generator) storeArtifact(ctx context.Context, content string, format types.ReportFormat, reportID string, generatedAt time.Time) (types.ReportArtifact, error) {
	key := ObjectKey(generatedAt, reportID, format)

	if err := g.store.Store(ctx, content, format, key); err != nil {
		return types.ReportArtifact{}, err
	}

	url, expiresAt, err := g.store.PresignDownload(ctx, key)
	if err != nil {
		return types.ReportArtifact{}, err
	}

	return types.ReportArtifact{
		Format:      format,
		Key:         key,
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}
