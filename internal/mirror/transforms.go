package mirror

import (
	"strings"

	"github.com/anicholas99/claimgraph/internal/model"
)

// wordSwap is a one-directional lexical rewrite applied word by word to a
// normalized element.
type wordSwap struct {
	from string
	to   string
}

// structuralSwaps rewrite hardware-flavored terms into their method-claim
// equivalents. The inverse direction is derived, not listed.
var structuralSwaps = []wordSwap{
	{"processor", "processing"},
	{"memory", "storing"},
	{"controller", "controlling"},
	{"transmitter", "transmitting"},
	{"receiver", "receiving"},
	{"detector", "detecting"},
	{"analyzer", "analyzing"},
	{"generator", "generating"},
	{"encoder", "encoding"},
	{"decoder", "decoding"},
	{"module", "step"},
	{"unit", "step"},
	{"component", "step"},
	{"circuit", "step"},
	{"engine", "step"},
}

// actionTypes holds the claim types whose elements read as actions. Swaps
// into these types run forward; swaps out of them run inverted.
var actionTypes = map[model.ClaimType]bool{
	model.ClaimTypeMethod:  true,
	model.ClaimTypeProcess: true,
}

// typeNoun is the preamble noun for a claim type, swapped alongside the
// structural terms so "the system" can line up with "the method".
func typeNoun(t model.ClaimType) string {
	switch t {
	case model.ClaimTypeSystem:
		return "system"
	case model.ClaimTypeMethod:
		return "method"
	case model.ClaimTypeApparatus:
		return "apparatus"
	case model.ClaimTypeProcess:
		return "process"
	case model.ClaimTypeCRM:
		return "medium"
	default:
		return ""
	}
}

// transformsFor builds the swap list for one source-to-target type
// direction. Hardware-to-action pairs use the structural table as written;
// the opposite direction inverts it, keeping the first inverse when two
// source terms share a target.
func transformsFor(from, to model.ClaimType) []wordSwap {
	var swaps []wordSwap
	switch {
	case !actionTypes[from] && actionTypes[to]:
		swaps = append(swaps, structuralSwaps...)
	case actionTypes[from] && !actionTypes[to]:
		seen := map[string]bool{}
		for _, s := range structuralSwaps {
			if seen[s.to] {
				continue
			}
			seen[s.to] = true
			swaps = append(swaps, wordSwap{from: s.to, to: s.from})
		}
	}
	if fn, tn := typeNoun(from), typeNoun(to); fn != "" && tn != "" {
		swaps = append(swaps, wordSwap{from: fn, to: tn})
	}
	return swaps
}

// applyTransforms rewrites a normalized element word by word through the
// swap list.
func applyTransforms(normalized string, swaps []wordSwap) string {
	if len(swaps) == 0 {
		return normalized
	}
	table := make(map[string]string, len(swaps))
	for _, s := range swaps {
		if _, ok := table[s.from]; !ok {
			table[s.from] = s.to
		}
	}
	words := strings.Fields(normalized)
	for i, w := range words {
		if to, ok := table[w]; ok {
			words[i] = to
		}
	}
	return strings.Join(words, " ")
}
