// Package mirror detects parallel claim families: an independent claim and
// its dependents intentionally duplicated under another claim type, such as
// system claims 1-5 refiled as method claims 6-10. Detected pairs are
// checked element by element so incomplete mirrors surface as findings.
package mirror

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/parse"
)

// DefaultFuzzyThreshold is the fraction of one element's significant words
// that must appear in a candidate counterpart for a fuzzy match. Tunable;
// the default mirrors long-standing drafting practice more than any hard
// contract.
const DefaultFuzzyThreshold = 0.70

// canonicalPairs are the type combinations checked for mirroring. Order
// fixes the order of findings.
var canonicalPairs = [][2]model.ClaimType{
	{model.ClaimTypeSystem, model.ClaimTypeMethod},
	{model.ClaimTypeApparatus, model.ClaimTypeMethod},
	{model.ClaimTypeSystem, model.ClaimTypeProcess},
	{model.ClaimTypeApparatus, model.ClaimTypeProcess},
}

// Analyzer finds mirror families in a parsed claim set. It never mutates
// claims; all results are findings.
type Analyzer struct {
	fuzzyThreshold float64
}

// NewAnalyzer creates an analyzer. A non-positive threshold selects
// DefaultFuzzyThreshold.
func NewAnalyzer(fuzzyThreshold float64) *Analyzer {
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	return &Analyzer{fuzzyThreshold: fuzzyThreshold}
}

// Analyze groups claims by type and tests each canonical type pair for a
// mirrored layout. Pairs with ambiguous grouping are skipped silently;
// many valid claim sets are simply not mirrored.
func (a *Analyzer) Analyze(claims []model.ParsedClaim) []model.MirrorPair {
	groups := map[model.ClaimType][]model.ParsedClaim{}
	for _, c := range claims {
		if c.Type == model.ClaimTypeUnknown {
			continue
		}
		groups[c.Type] = append(groups[c.Type], c)
	}
	for t := range groups {
		sort.SliceStable(groups[t], func(i, j int) bool { return groups[t][i].Number < groups[t][j].Number })
	}

	var pairs []model.MirrorPair
	for _, cp := range canonicalPairs {
		ga, gb := groups[cp[0]], groups[cp[1]]
		if len(ga) == 0 || len(gb) == 0 {
			continue
		}
		if !sequential(ga) || !sequential(gb) || !disjoint(ga, gb) {
			continue
		}
		pairs = append(pairs, a.comparePair(cp[0], ga, cp[1], gb))
	}
	return pairs
}

// comparePair builds the MirrorPair finding for one detected type pair:
// the detection warning, both directions of element comparison between the
// representative independent claims, and the dependent-count check.
func (a *Analyzer) comparePair(ta model.ClaimType, ga []model.ParsedClaim, tb model.ClaimType, gb []model.ParsedClaim) model.MirrorPair {
	repA := representative(ga)
	repB := representative(gb)

	pair := model.MirrorPair{
		TypeA:           ta,
		ClaimsA:         numbers(ga),
		TypeB:           tb,
		ClaimsB:         numbers(gb),
		RepresentativeA: repA.Number,
		RepresentativeB: repB.Number,
	}

	pair.Issues = append(pair.Issues, model.ConsistencyIssue{
		Type:        model.IssueMirrorDetected,
		Severity:    model.SeverityWarning,
		ClaimNumber: pair.ClaimsA[0],
		Message: fmt.Sprintf("%s claims %s appear to mirror %s claims %s",
			ta, rangeLabel(pair.ClaimsA), tb, rangeLabel(pair.ClaimsB)),
		Suggestion: "verify the two families stay element-for-element aligned",
	})

	pair.Issues = append(pair.Issues, a.missingElements(repA, ta, repB, tb)...)
	pair.Issues = append(pair.Issues, a.missingElements(repB, tb, repA, ta)...)

	da, db := dependentCount(ga), dependentCount(gb)
	if diff := da - db; diff > 1 || diff < -1 {
		pair.Issues = append(pair.Issues, model.ConsistencyIssue{
			Type:        model.IssueMirrorCountMismatch,
			Severity:    model.SeverityWarning,
			ClaimNumber: pair.ClaimsA[0],
			Message: fmt.Sprintf("mirrored families differ in dependent claim count: %d %s vs %d %s",
				da, ta, db, tb),
			Suggestion: "check whether dependents were dropped from one family",
		})
	}
	return pair
}

// missingElements reports every element of src with no equivalent in dst,
// trying exact normalized match, the type-pair transform table, then fuzzy
// word overlap.
func (a *Analyzer) missingElements(src model.ParsedClaim, srcType model.ClaimType, dst model.ParsedClaim, dstType model.ClaimType) []model.ConsistencyIssue {
	dstNorm := make([]string, 0, len(dst.Elements))
	for _, e := range dst.Elements {
		dstNorm = append(dstNorm, parse.Normalize(e))
	}
	swaps := transformsFor(srcType, dstType)

	var issues []model.ConsistencyIssue
	for _, el := range src.Elements {
		if a.hasEquivalent(parse.Normalize(el), dstNorm, swaps) {
			continue
		}
		issues = append(issues, model.ConsistencyIssue{
			Type:        model.IssueMirrorMissingElement,
			Severity:    model.SeverityError,
			ClaimNumber: dst.Number,
			Message: fmt.Sprintf("element %q of claim %d (%s) has no counterpart in claim %d (%s)",
				clip(el, 60), src.Number, srcType, dst.Number, dstType),
			Suggestion: fmt.Sprintf("add a matching limitation to claim %d or align the wording", dst.Number),
		})
	}
	return issues
}

// hasEquivalent runs the three matching stages for one normalized element
// against the counterpart set.
func (a *Analyzer) hasEquivalent(norm string, candidates []string, swaps []wordSwap) bool {
	for _, c := range candidates {
		if norm == c {
			return true
		}
	}

	transformed := applyTransforms(norm, swaps)
	for _, c := range candidates {
		if transformed == c || contains(transformed, c) || contains(c, transformed) {
			return true
		}
	}

	words := parse.SignificantWords(transformed)
	if len(words) == 0 {
		return false
	}
	for _, c := range candidates {
		if wordOverlap(words, c) >= a.fuzzyThreshold {
			return true
		}
	}
	return false
}

// wordOverlap is the fraction of words found among the candidate's words.
func wordOverlap(words []string, candidate string) float64 {
	set := map[string]bool{}
	for _, w := range parse.SignificantWords(candidate) {
		set[w] = true
	}
	found := 0
	for _, w := range words {
		if set[w] {
			found++
		}
	}
	return float64(found) / float64(len(words))
}

// representative picks the group's first claim carrying no reference into
// its own group, falling back to the first claim when every member is
// internally dependent.
func representative(group []model.ParsedClaim) model.ParsedClaim {
	members := map[int]bool{}
	for _, c := range group {
		members[c.Number] = true
	}
	for _, c := range group {
		inGroup := false
		for _, ref := range c.References {
			if members[ref] {
				inGroup = true
				break
			}
		}
		if !inGroup {
			return c
		}
	}
	return group[0]
}

// dependentCount counts group members referencing another group member.
func dependentCount(group []model.ParsedClaim) int {
	members := map[int]bool{}
	for _, c := range group {
		members[c.Number] = true
	}
	n := 0
	for _, c := range group {
		for _, ref := range c.References {
			if members[ref] {
				n++
				break
			}
		}
	}
	return n
}

// sequential reports whether the group's numbers are consecutive integers.
func sequential(group []model.ParsedClaim) bool {
	for i := 1; i < len(group); i++ {
		if group[i].Number != group[i-1].Number+1 {
			return false
		}
	}
	return true
}

// disjoint reports whether one group's range lies entirely below the other.
func disjoint(ga, gb []model.ParsedClaim) bool {
	return ga[len(ga)-1].Number < gb[0].Number || gb[len(gb)-1].Number < ga[0].Number
}

func numbers(group []model.ParsedClaim) []int {
	ns := make([]int, len(group))
	for i, c := range group {
		ns[i] = c.Number
	}
	return ns
}

// rangeLabel formats a sequential number list as "3-7", or the single
// number for one-claim groups.
func rangeLabel(ns []int) string {
	if len(ns) == 1 {
		return fmt.Sprintf("%d", ns[0])
	}
	return fmt.Sprintf("%d-%d", ns[0], ns[len(ns)-1])
}

// contains reports whether outer contains inner as a substring, guarding
// against empty inner strings matching everything.
func contains(outer, inner string) bool {
	return inner != "" && strings.Contains(outer, inner)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
