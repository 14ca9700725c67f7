package graph

import (
	"fmt"
	"strings"

	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/parse"
)

// DefaultSupportThreshold is the fraction of an element's significant words
// that must appear in the specification before the element counts as
// supported. A heuristic, exposed for tuning in tests and config.
const DefaultSupportThreshold = 0.5

// CheckSupport cross-checks every claim element against a specification
// text supplied by the caller. Elements whose significant words mostly do
// not occur in the specification are flagged as warnings. An empty
// specification skips the check entirely.
func CheckSupport(claims []model.ParsedClaim, specText string, threshold float64) []model.ConsistencyIssue {
	if strings.TrimSpace(specText) == "" {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultSupportThreshold
	}

	vocab := map[string]bool{}
	for _, w := range strings.Fields(parse.Normalize(specText)) {
		vocab[w] = true
	}

	var issues []model.ConsistencyIssue
	for _, c := range claims {
		for _, el := range c.Elements {
			words := parse.SignificantWords(el)
			if len(words) == 0 {
				continue
			}
			found := 0
			for _, w := range words {
				if vocab[w] {
					found++
				}
			}
			if ratio := float64(found) / float64(len(words)); ratio < threshold {
				issues = append(issues, model.ConsistencyIssue{
					Type:        model.IssueUnsupportedElement,
					Severity:    model.SeverityWarning,
					ClaimNumber: c.Number,
					Message:     fmt.Sprintf("element %q of claim %d has weak specification support (%.0f%% of key terms found)", truncate(el, 60), c.Number, ratio*100),
					Suggestion:  "describe the element in the specification or align the claim wording with it",
				})
			}
		}
	}
	return issues
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
