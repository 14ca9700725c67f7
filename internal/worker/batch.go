package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anicholas99/claimgraph/internal/model"
)

// Analyzer produces an analysis report for one claim source, either a
// local claim file or a patent publication URL.
type Analyzer interface {
	AnalyzeSource(ctx context.Context, source string) (*model.AnalysisReport, error)
}

// AnalyzeJob analyzes a single claim source.
type AnalyzeJob struct {
	Source   string
	Analyzer Analyzer
}

// Execute runs the analysis for the job's source.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeSource(ctx, j.Source)
	if err != nil {
		return &AnalyzeResult{
			Source: j.Source,
			Error:  err,
		}
	}
	return &AnalyzeResult{
		Source: j.Source,
		Report: report,
	}
}

// AnalyzeResult pairs a claim source with its report or failure.
type AnalyzeResult struct {
	Source string
	Report *model.AnalysisReport
	Error  error
}

// GetError returns the error from the analysis, if any.
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many claim sources concurrently. Network pacing
// is handled by the fetcher's per-host rate limiter, so the processor only
// bounds parallelism.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor with the given parallelism.
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessSources analyzes the given sources concurrently. Results arrive
// in completion order, one per source.
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*AnalyzeResult {
	if len(sources) == 0 {
		return []*AnalyzeResult{}
	}

	// Queue sized to the batch so every source can be submitted before
	// results are drained.
	pool := NewPoolWithQueue(b.concurrency, len(sources))
	pool.Start()

	for _, source := range sources {
		pool.Submit(&AnalyzeJob{
			Source:   source,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}

// ProcessFile reads claim sources from a list file and analyzes them
// concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads claim sources from a file, one per line. Blank
// lines and # comments are skipped and duplicates removed.
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
