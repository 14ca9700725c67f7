// Package pipeline orchestrates the claim workflow end to end: fetching
// patent pages, extracting and persisting claim sets, running analysis,
// renumbering and rendering reports.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anicholas99/claimgraph/internal/analysis"
	"github.com/anicholas99/claimgraph/internal/cache"
	"github.com/anicholas99/claimgraph/internal/diagram"
	"github.com/anicholas99/claimgraph/internal/extract"
	"github.com/anicholas99/claimgraph/internal/llm"
	"github.com/anicholas99/claimgraph/internal/logging"
	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/renumber"
	"github.com/anicholas99/claimgraph/internal/store"
)

// reportAnalyzer is satisfied by both the plain and the cached analyzer.
type reportAnalyzer interface {
	Analyze(req analysis.Request) (*model.AnalysisReport, error)
}

// Pipeline wires every engine stage to the store and drives the complete
// workflows the CLI exposes.
type Pipeline struct {
	store     *store.Store
	fetcher   *Fetcher
	extractor *extract.HTMLExtractor
	analyzer  reportAnalyzer
	renderer  *analysis.Renderer
	diagrams  *diagram.Renderer
	engine    *renumber.Engine
	reviser   *llm.Reviser
	config    *model.Config
}

// NewPipeline creates a pipeline with the given configuration, opening the
// claim store.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var pageCache cache.Cache
	var analyzer reportAnalyzer = analysis.NewAnalyzer(cfg.Analysis)
	if cfg.Cache.Enabled {
		layered := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		pageCache = layered
		analyzer = analysis.NewCachedAnalyzer(analysis.NewAnalyzer(cfg.Analysis), layered, cfg.Cache.MemoryTTL)
	}

	reviser, err := llm.NewReviser(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		logging.Warn("failed to initialize LLM provider", "error", err)
		reviser, _ = llm.NewReviser(llm.Config{})
	}

	return &Pipeline{
		store:     st,
		fetcher:   NewFetcher(cfg.HTTP, pageCache, cfg.Cache.DiskTTL),
		extractor: extract.NewHTMLExtractor(),
		analyzer:  analyzer,
		renderer:  analysis.NewRenderer(cfg.Output.IncludeFooter),
		diagrams:  diagram.NewRenderer(),
		engine:    renumber.NewEngine(),
		reviser:   reviser,
		config:    cfg,
	}, nil
}

// Close releases the claim store.
func (p *Pipeline) Close() error {
	return p.store.Close()
}

// Store exposes the underlying claim store for listing and editing commands.
func (p *Pipeline) Store() *store.Store {
	return p.store
}

// ReviserEnabled reports whether an LLM provider is configured.
func (p *Pipeline) ReviserEnabled() bool {
	return p.reviser.IsEnabled()
}

// ImportResult describes one imported claim set.
type ImportResult struct {
	Invention *store.Invention
	Claims    []model.Claim
	Source    string          // URL or file path
	Meta      model.FetchMeta // set for URL imports
	FromCache bool
}

// ImportURL fetches a patent publication page, extracts its claims and
// stores them as a new invention.
func (p *Pipeline) ImportURL(ctx context.Context, rawURL string) (*ImportResult, error) {
	fetchResult, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	claims, err := p.extractor.Extract(fetchResult.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	if len(claims) == 0 {
		return nil, fmt.Errorf("no numbered claims found at %s", fetchResult.FinalURL)
	}

	title := p.extractor.Title(fetchResult.HTML)
	if title == "" {
		title = fetchResult.Subject
	}

	inv, stored, err := p.storeClaimSet(ctx, title, claims)
	if err != nil {
		return nil, err
	}

	logging.Info("imported claim set",
		"invention", inv.ID, "claims", len(stored), "source", fetchResult.FinalURL, "cached", fetchResult.FromCache)

	return &ImportResult{
		Invention: inv,
		Claims:    stored,
		Source:    fetchResult.FinalURL,
		Meta:      fetchResult.Meta,
		FromCache: fetchResult.FromCache,
	}, nil
}

// ImportFile reads a plain-text claim listing and stores it as a new
// invention named after the file.
func (p *Pipeline) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claim file: %w", err)
	}

	claims := extract.SplitNumberedClaims(string(data))
	if len(claims) == 0 {
		return nil, fmt.Errorf("no numbered claims found in %s", path)
	}

	inv, stored, err := p.storeClaimSet(ctx, baseName(path), claims)
	if err != nil {
		return nil, err
	}

	logging.Info("imported claim set", "invention", inv.ID, "claims", len(stored), "source", path)

	return &ImportResult{
		Invention: inv,
		Claims:    stored,
		Source:    path,
	}, nil
}

// storeClaimSet creates the invention, persists the claims and reloads the
// stored snapshot so callers see the assigned record IDs.
func (p *Pipeline) storeClaimSet(ctx context.Context, title string, claims []model.Claim) (*store.Invention, []model.Claim, error) {
	inv, err := p.store.CreateInvention(ctx, title)
	if err != nil {
		return nil, nil, fmt.Errorf("create invention: %w", err)
	}
	if err := p.store.ReplaceClaims(ctx, inv.ID, claims); err != nil {
		return nil, nil, fmt.Errorf("store claims: %w", err)
	}
	stored, err := p.store.ListClaims(ctx, inv.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("reload claims: %w", err)
	}
	return inv, stored, nil
}

// AnalyzeInvention runs the full analysis pass over one stored claim set.
func (p *Pipeline) AnalyzeInvention(ctx context.Context, inventionID string) (*model.AnalysisReport, error) {
	inv, err := p.store.GetInvention(ctx, inventionID)
	if err != nil {
		return nil, err
	}
	claims, err := p.store.ListClaims(ctx, inventionID)
	if err != nil {
		return nil, fmt.Errorf("load claims: %w", err)
	}
	return p.analyzer.Analyze(analysis.Request{
		Subject:  inv.Title,
		Claims:   claims,
		SpecText: inv.SpecText,
	})
}

// AnalyzeFile analyzes a plain-text claim listing without persisting it.
func (p *Pipeline) AnalyzeFile(path string) (*model.AnalysisReport, error) {
	return p.AnalyzeFileWithSpec(path, "")
}

// AnalyzeFileWithSpec analyzes a claim listing against a specification text
// so claim elements can be checked for support. specPath may be empty.
func (p *Pipeline) AnalyzeFileWithSpec(path, specPath string) (*model.AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claim file: %w", err)
	}

	var specText string
	if specPath != "" {
		spec, err := os.ReadFile(specPath)
		if err != nil {
			return nil, fmt.Errorf("read specification file: %w", err)
		}
		specText = string(spec)
	}

	claims := extract.SplitNumberedClaims(string(data))
	return p.analyzer.Analyze(analysis.Request{
		Subject:  baseName(path),
		Claims:   claims,
		SpecText: specText,
	})
}

// AnalyzeURL fetches a patent page and analyzes its claims without
// persisting them.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string) (*model.AnalysisReport, error) {
	fetchResult, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	claims, err := p.extractor.Extract(fetchResult.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	subject := p.extractor.Title(fetchResult.HTML)
	if subject == "" {
		subject = fetchResult.Subject
	}

	return p.analyzer.Analyze(analysis.Request{
		Subject: subject,
		Claims:  claims,
	})
}

// IsURL reports whether a claim source names a web page rather than a
// local file.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// AnalyzeSource analyzes a single claim source. URLs are fetched; anything
// else is treated as a local claim file.
func (p *Pipeline) AnalyzeSource(ctx context.Context, source string) (*model.AnalysisReport, error) {
	if IsURL(source) {
		return p.AnalyzeURL(ctx, source)
	}
	return p.AnalyzeFile(source)
}

// Renumber computes the sequential renumber plan for an invention. The
// plan is applied to the store only when apply is set; otherwise it is a
// preview of the changes.
func (p *Pipeline) Renumber(ctx context.Context, inventionID string, apply bool) (*model.RenumberPlan, error) {
	if _, err := p.store.GetInvention(ctx, inventionID); err != nil {
		return nil, err
	}
	if apply {
		return p.engine.Run(ctx, p.store, p.store, inventionID)
	}

	claims, err := p.store.ListClaims(ctx, inventionID)
	if err != nil {
		return nil, fmt.Errorf("loading claims: %w", err)
	}
	return p.engine.ComputePlan(claims)
}

// Revise analyzes an invention and asks the configured LLM provider for
// amendment suggestions. Notes are nil when no provider is configured.
func (p *Pipeline) Revise(ctx context.Context, inventionID string) (*model.AnalysisReport, *model.RevisionNotes, error) {
	report, err := p.AnalyzeInvention(ctx, inventionID)
	if err != nil {
		return nil, nil, err
	}
	notes, err := p.reviser.Suggest(ctx, *report)
	if err != nil {
		return report, nil, fmt.Errorf("generate suggestions: %w", err)
	}
	return report, notes, nil
}

// Diagram renders a report's dependency graph as standalone Mermaid text.
func (p *Pipeline) Diagram(report *model.AnalysisReport) string {
	return p.diagrams.Render(report.Claims, &report.Graph)
}

// RenderReport renders the report to the requested outputs and prints the
// terminal summary.
func (p *Pipeline) RenderReport(report *model.AnalysisReport, notes *model.RevisionNotes, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Suggestions go to a separate file, never into the report itself
	if notes != nil && notes.Enabled && mdPath != "" {
		notesPath := strings.TrimSuffix(mdPath, ".md") + ".suggestions.md"
		if err := p.renderer.RenderText(llm.RenderSeparateMarkdown(notes), notesPath); err != nil {
			logging.Warn("failed to write revision suggestions", "error", err)
		} else if verbose {
			fmt.Printf("✓ Wrote Suggestions: %s\n", notesPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}

// RenderFiles writes the report files without printing the terminal
// summary. Batch runs use it to keep stdout readable.
func (p *Pipeline) RenderFiles(report *model.AnalysisReport, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
	}
	return nil
}

// baseName strips the directory and extension from a path, leaving the
// subject name.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
