package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anicholas99/claimgraph/internal/diagram"
	"github.com/anicholas99/claimgraph/internal/model"
)

// Renderer writes analysis reports as JSON, Markdown or a terminal
// summary.
type Renderer struct {
	includeFooter bool
	diagrams      *diagram.Renderer
}

// NewRenderer creates a report renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{
		includeFooter: includeFooter,
		diagrams:      diagram.NewRenderer(),
	}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.AnalysisReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the Markdown report to a file.
func (r *Renderer) RenderMarkdown(report *model.AnalysisReport, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Markdown renders the full report: overview, claim table, findings,
// mirror families and the Mermaid dependency diagram.
func (r *Renderer) Markdown(report *model.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Claim Analysis: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "Analyzed: %s\n\n", report.AnalyzedAt.Format("2006-01-02 15:04 UTC"))

	fmt.Fprintf(&b, "## Overview\n\n")
	fmt.Fprintf(&b, "- Claims: %d (%d independent, %d dependent)\n", report.ClaimCount, report.Stats.Independent, report.Stats.Dependent)
	fmt.Fprintf(&b, "- Maximum dependency depth: %d\n", report.MaxDepth)
	fmt.Fprintf(&b, "- Findings: %d errors, %d warnings\n", report.Stats.Errors, report.Stats.Warnings)
	fmt.Fprintf(&b, "- Consistency index: %d/100 (%s confidence)\n\n", report.Score.Index, report.Score.Confidence)

	fmt.Fprintf(&b, "## Claims\n\n")
	fmt.Fprintf(&b, "| # | Type | Depth | References | Elements |\n")
	fmt.Fprintf(&b, "|---|------|-------|------------|----------|\n")
	for _, c := range report.Claims {
		fmt.Fprintf(&b, "| %d | %s | %d | %s | %d |\n",
			c.Number, c.Type, report.Depths[c.Number], refList(c.References), len(c.Elements))
	}
	b.WriteString("\n")

	if len(report.Issues) > 0 {
		fmt.Fprintf(&b, "## Findings\n\n")
		for _, is := range report.Issues {
			fmt.Fprintf(&b, "- %s\n", is.String())
			if is.Suggestion != "" {
				fmt.Fprintf(&b, "  - suggestion: %s\n", is.Suggestion)
			}
		}
		b.WriteString("\n")
	}

	if len(report.Mirrors) > 0 {
		fmt.Fprintf(&b, "## Mirror Families\n\n")
		for _, m := range report.Mirrors {
			fmt.Fprintf(&b, "- %s claims %s mirror %s claims %s (representatives %d and %d)\n",
				m.TypeA, intRange(m.ClaimsA), m.TypeB, intRange(m.ClaimsB),
				m.RepresentativeA, m.RepresentativeB)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Dependency Diagram\n\n")
	fmt.Fprintf(&b, "```mermaid\n%s```\n", r.diagrams.Render(report.Claims, &report.Graph))

	if r.includeFooter {
		b.WriteString("\n---\n\nGenerated by claimgraph\n")
	}
	return b.String()
}

// RenderText writes prerendered markdown, such as revision suggestions, to
// a file.
func (r *Renderer) RenderText(text, path string) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Summary renders the short terminal form.
func (r *Renderer) Summary(report *model.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject:  %s\n", report.Subject)
	fmt.Fprintf(&b, "Claims:   %d (%d independent, %d dependent), max depth %d\n",
		report.ClaimCount, report.Stats.Independent, report.Stats.Dependent, report.MaxDepth)
	fmt.Fprintf(&b, "Findings: %d errors, %d warnings\n", report.Stats.Errors, report.Stats.Warnings)
	fmt.Fprintf(&b, "Index:    %d/100 (%s confidence)\n", report.Score.Index, report.Score.Confidence)

	for _, is := range report.Issues {
		fmt.Fprintf(&b, "  %s\n", is.String())
	}
	for _, m := range report.Mirrors {
		fmt.Fprintf(&b, "Mirror:   %s %s <-> %s %s\n",
			m.TypeA, intRange(m.ClaimsA), m.TypeB, intRange(m.ClaimsB))
	}

	if report.Clean() {
		b.WriteString("Status:   clean\n")
	} else {
		b.WriteString("Status:   needs attention\n")
	}
	return b.String()
}

// RenderSummary prints the terminal summary to stdout.
func (r *Renderer) RenderSummary(report *model.AnalysisReport) {
	fmt.Print(r.Summary(report))
}

func refList(refs []int) string {
	if len(refs) == 0 {
		return "-"
	}
	parts := make([]string, len(refs))
	for i, n := range refs {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}

// intRange formats a sorted number list compactly: "1-3" for runs, the
// plain list otherwise.
func intRange(ns []int) string {
	if len(ns) == 0 {
		return "-"
	}
	sequential := true
	for i := 1; i < len(ns); i++ {
		if ns[i] != ns[i-1]+1 {
			sequential = false
			break
		}
	}
	if sequential && len(ns) > 1 {
		return fmt.Sprintf("%d-%d", ns[0], ns[len(ns)-1])
	}
	return refList(ns)
}
