// Package analysis composes the engine stages into one pass: parse every
// claim, derive and validate the dependency graph, compute depths, detect
// mirror families and optionally cross-check elements against a
// specification text. The result is a self-contained AnalysisReport.
package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/anicholas99/claimgraph/internal/graph"
	"github.com/anicholas99/claimgraph/internal/mirror"
	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/parse"
	"github.com/anicholas99/claimgraph/internal/score"
)

// ErrNoClaims means the request carried no claims at all.
var ErrNoClaims = errors.New("no claims to analyze")

// Request is one analysis invocation: a claim snapshot plus an optional
// specification text for the support cross-check.
type Request struct {
	Subject  string
	Claims   []model.Claim
	SpecText string
}

// Analyzer runs the full analysis pass. It holds no mutable state, so one
// analyzer is safe to share across concurrent invocations.
type Analyzer struct {
	parser  *parse.Parser
	builder *graph.Builder
	mirrors *mirror.Analyzer
	scorer  *score.Scorer
	cfg     model.AnalysisConfig
}

// NewAnalyzer creates an analyzer from the analysis tunables.
func NewAnalyzer(cfg model.AnalysisConfig) *Analyzer {
	return &Analyzer{
		parser:  parse.NewParser(),
		builder: graph.NewBuilder(),
		mirrors: mirror.NewAnalyzer(cfg.FuzzyThreshold),
		scorer:  score.NewScorer(),
		cfg:     cfg,
	}
}

// Analyze validates the request and runs every stage. Structural problems
// come back inside the report as issues; only a malformed request itself is
// an error.
func (a *Analyzer) Analyze(req Request) (*model.AnalysisReport, error) {
	if len(req.Claims) == 0 {
		return nil, ErrNoClaims
	}
	if err := checkClaims(req.Claims); err != nil {
		return nil, err
	}

	parsed := a.parser.ParseAll(req.Claims)
	sort.SliceStable(parsed, func(i, j int) bool { return parsed[i].Number < parsed[j].Number })

	g, issues := a.builder.Build(parsed)
	depths := graph.Depths(g)

	pairs := a.mirrors.Analyze(parsed)
	for _, pair := range pairs {
		issues = append(issues, pair.Issues...)
	}

	issues = append(issues, graph.CheckSupport(parsed, req.SpecText, a.cfg.SupportThreshold)...)

	errs, warns := model.CountSeverity(issues)
	report := &model.AnalysisReport{
		Subject:    req.Subject,
		AnalyzedAt: time.Now().UTC(),
		ClaimCount: len(parsed),
		Claims:     parsed,
		Graph:      *g,
		Depths:     depths,
		MaxDepth:   graph.MaxDepth(depths),
		Mirrors:    pairs,
		Issues:     issues,
		Stats: model.ReportStats{
			Independent: len(g.Independent),
			Dependent:   len(g.Dependent),
			Errors:      errs,
			Warnings:    warns,
		},
	}
	report.Score = a.scorer.Calculate(report)
	return report, nil
}

// checkClaims rejects malformed input before any stage runs: non-positive
// numbers and blank text are precondition failures, not findings.
func checkClaims(claims []model.Claim) error {
	for i, c := range claims {
		if c.Number <= 0 {
			return fmt.Errorf("claim at index %d has non-positive number %d", i, c.Number)
		}
		if strings.TrimSpace(c.Text) == "" {
			return fmt.Errorf("claim %d has empty text", c.Number)
		}
	}
	return nil
}
