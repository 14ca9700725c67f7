// Package graph derives the dependency structure of a parsed claim set,
// reports structural findings as consistency issues, and computes depth
// statistics over the resulting reference map.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anicholas99/claimgraph/internal/model"
)

// Builder validates a parsed claim set and derives its dependency graph.
// All findings come back as ConsistencyIssues; nothing is thrown and nothing
// is silently corrected.
type Builder struct{}

// NewBuilder creates a graph builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build derives the reference map and independent/dependent partition, and
// reports duplicate numbers, missing references, forward references and
// reference cycles. Issues are ordered: duplicates first, then per-claim
// reference problems in claim-number order, then cycles.
func (b *Builder) Build(claims []model.ParsedClaim) (*model.DependencyGraph, []model.ConsistencyIssue) {
	g := &model.DependencyGraph{References: map[int][]int{}}
	var issues []model.ConsistencyIssue

	byNumber := map[int][]model.ParsedClaim{}
	for _, c := range claims {
		byNumber[c.Number] = append(byNumber[c.Number], c)
	}

	issues = append(issues, duplicateIssues(byNumber)...)

	ordered := make([]model.ParsedClaim, len(claims))
	copy(ordered, claims)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	missing := map[int]bool{}
	seen := map[int]bool{}
	for _, c := range ordered {
		if seen[c.Number] {
			continue
		}
		seen[c.Number] = true

		g.References[c.Number] = append([]int(nil), c.References...)
		if c.Independent() {
			g.Independent = append(g.Independent, c.Number)
		} else {
			g.Dependent = append(g.Dependent, c.Number)
		}

		for _, ref := range c.References {
			if len(byNumber[ref]) == 0 {
				missing[ref] = true
				issues = append(issues, model.ConsistencyIssue{
					Type:        model.IssueMissingReference,
					Severity:    model.SeverityError,
					ClaimNumber: c.Number,
					Message:     fmt.Sprintf("claim %d references claim %d, which does not exist", c.Number, ref),
					Suggestion:  fmt.Sprintf("add claim %d or correct the reference in claim %d", ref, c.Number),
				})
				continue
			}
			if ref >= c.Number {
				issues = append(issues, model.ConsistencyIssue{
					Type:        model.IssueForwardReference,
					Severity:    model.SeverityError,
					ClaimNumber: c.Number,
					Message:     fmt.Sprintf("claim %d references claim %d, but dependent claims may only reference lower-numbered claims", c.Number, ref),
					Suggestion:  "reorder the claims so every reference points backward",
				})
			}
		}
	}

	for n := range missing {
		g.Missing = append(g.Missing, n)
	}
	sort.Ints(g.Missing)

	issues = append(issues, cycleIssues(g)...)
	return g, issues
}

// duplicateIssues emits one error per duplicated number, naming every
// colliding claim id together.
func duplicateIssues(byNumber map[int][]model.ParsedClaim) []model.ConsistencyIssue {
	var dups []int
	for n, cs := range byNumber {
		if len(cs) > 1 {
			dups = append(dups, n)
		}
	}
	sort.Ints(dups)

	var issues []model.ConsistencyIssue
	for _, n := range dups {
		ids := make([]string, 0, len(byNumber[n]))
		for _, c := range byNumber[n] {
			ids = append(ids, c.ID)
		}
		issues = append(issues, model.ConsistencyIssue{
			Type:        model.IssueDuplicateNumber,
			Severity:    model.SeverityError,
			ClaimNumber: n,
			Message:     fmt.Sprintf("claim number %d is used by %d claims (%s)", n, len(ids), strings.Join(ids, ", ")),
			Suggestion:  "renumber the claim set so every claim has a unique number",
		})
	}
	return issues
}

// cycleIssues runs a depth-first search over the reference map and reports
// each reference cycle once. Backward-only reference sets cannot cycle, so
// any hit here accompanies a forward-reference error.
func cycleIssues(g *model.DependencyGraph) []model.ConsistencyIssue {
	var issues []model.ConsistencyIssue
	done := map[int]bool{}
	onPath := map[int]bool{}
	var path []int

	var visit func(n int)
	visit = func(n int) {
		if done[n] || onPath[n] {
			return
		}
		onPath[n] = true
		path = append(path, n)
		for _, ref := range g.References[n] {
			if _, exists := g.References[ref]; !exists {
				continue
			}
			if onPath[ref] {
				issues = append(issues, model.ConsistencyIssue{
					Type:        model.IssueCircularDependency,
					Severity:    model.SeverityError,
					ClaimNumber: ref,
					Message:     fmt.Sprintf("circular dependency: %s", formatCycle(path, ref)),
					Suggestion:  "break the cycle so dependencies flow strictly toward lower-numbered claims",
				})
				continue
			}
			visit(ref)
		}
		path = path[:len(path)-1]
		onPath[n] = false
		done[n] = true
	}

	for _, n := range g.Numbers() {
		visit(n)
	}
	return issues
}

// formatCycle renders the portion of the DFS path that forms the cycle,
// closing it back on the repeated claim.
func formatCycle(path []int, repeat int) string {
	start := 0
	for i, n := range path {
		if n == repeat {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(path)-start+1)
	for _, n := range path[start:] {
		parts = append(parts, fmt.Sprintf("claim %d", n))
	}
	parts = append(parts, fmt.Sprintf("claim %d", repeat))
	return strings.Join(parts, " -> ")
}
