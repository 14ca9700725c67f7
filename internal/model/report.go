package model

import "time"

// AnalysisReport is the complete output of one analysis pass over a claim
// set. It is a pure computation result: nothing in it is persisted, and
// re-running the analysis on the same input yields the same report apart
// from AnalyzedAt.
type AnalysisReport struct {
	Subject    string    `json:"subject"`           // invention title or source file
	AnalyzedAt time.Time `json:"analyzed_at"`
	ClaimCount int       `json:"claim_count"`

	Claims []ParsedClaim `json:"claims"` // parser output per claim, ascending by number

	Graph    DependencyGraph `json:"graph"`
	Depths   map[int]int     `json:"depths"`    // claim number to dependency depth
	MaxDepth int             `json:"max_depth"` // diagram statistic: deepest chain

	Mirrors []MirrorPair       `json:"mirrors,omitempty"`
	Issues  []ConsistencyIssue `json:"issues"`

	Score Score       `json:"score"` // consistency index and scoring breakdown
	Stats ReportStats `json:"stats"`
}

// ReportStats summarizes the report for display and gating.
type ReportStats struct {
	Independent int `json:"independent"`
	Dependent   int `json:"dependent"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
}

// FetchMeta contains HTTP metadata from fetching a source document.
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// RevisionNotes holds optional LLM-drafted amendment suggestions. They are
// kept apart from the report body and never influence any finding.
type RevisionNotes struct {
	Enabled          bool     `json:"enabled"`
	Provider         string   `json:"provider,omitempty"`
	Model            string   `json:"model,omitempty"`
	StrictReferences bool     `json:"strict_references"`
	SuggestionsMD    string   `json:"suggestions_md,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

// Clean reports whether the claim set carries no error-severity findings.
// Callers gate operations such as filing or renumbering on this.
func (r *AnalysisReport) Clean() bool {
	return r.Stats.Errors == 0
}
