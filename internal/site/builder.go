package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ezmode_site/internal/domain/status"
	"ezmode_site/internal/feed"
	"ezmode_site/internal/metrics"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
)

// Output file names, relative to the build directory
const (
	IndexFile    = "index.html"
	PoliciesFile = "policies/index.html"
	StatusFile   = "status.json"
)

// CatalogDocument is the JSON written to status.json and served from /api/games
type CatalogDocument struct {
	GeneratedAt time.Time            `json:"generatedAt"`
	Counts      status.TierCounts    `json:"counts"`
	Games       []status.DisplayGame `json:"games"`
}

// NewCatalogDocument wraps ordered games with their tier counts
func NewCatalogDocument(games []status.DisplayGame, generatedAt time.Time) CatalogDocument {
	return CatalogDocument{
		GeneratedAt: generatedAt.UTC(),
		Counts:      status.Summarize(games),
		Games:       games,
	}
}

// Builder renders the static site from the status feed
type Builder struct {
	fetcher feed.Fetcher
	content *Content
	baseURL string
	now     func() time.Time
}

// NewBuilder creates a builder for the given feed and copy
func NewBuilder(fetcher feed.Fetcher, content *Content, baseURL string) *Builder {
	return &Builder{
		fetcher: fetcher,
		content: content,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Build fetches the feed and writes every page under outDir.
// It returns the written files relative to outDir.
func (b *Builder) Build(ctx context.Context, outDir string) ([]string, error) {
	statusFeed, err := b.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status feed: %w", err)
	}

	games := status.BuildCatalog(statusFeed)
	counts := status.Summarize(games)

	log.Info().
		Int("games", len(games)).
		Int("live", counts[status.TierLive]).
		Int("alpha", counts[status.TierAlpha]).
		Int("coming_soon", counts[status.TierComingSoon]).
		Msg("Built game catalog")

	pages := []struct {
		file      string
		name      string
		component templ.Component
	}{
		{IndexFile, "home", HomePage(b.content, games, b.baseURL)},
		{PoliciesFile, "policies", PoliciesPage(b.content, b.baseURL)},
	}

	written := make([]string, 0, len(pages)+1)
	for _, page := range pages {
		var buf bytes.Buffer
		if err := page.component.Render(ctx, &buf); err != nil {
			return written, fmt.Errorf("failed to render %s: %w", page.file, err)
		}
		if err := writeFile(outDir, page.file, buf.Bytes()); err != nil {
			return written, err
		}
		metrics.PagesRendered.WithLabelValues(page.name).Inc()
		written = append(written, page.file)
	}

	doc, err := json.MarshalIndent(NewCatalogDocument(games, b.now()), "", "  ")
	if err != nil {
		return written, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := writeFile(outDir, StatusFile, doc); err != nil {
		return written, err
	}
	written = append(written, StatusFile)

	log.Info().
		Str("output_dir", outDir).
		Int("files", len(written)).
		Msg("Site build complete")

	return written, nil
}

// writeFile writes data to outDir/name, creating parent directories
func writeFile(outDir, name string, data []byte) error {
	path := filepath.Join(outDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	log.Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Msg("Wrote site file")

	return nil
}
