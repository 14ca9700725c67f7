package parse

import (
	"regexp"
	"sort"
	"strconv"
)

// refPhraseRe matches a whole dependency phrase: "claim 1", "claims 2 and 3",
// "claims 2, 3, or 5", "claims 2-5", "claims 2 to 5", "claims 2 through 5",
// including mixed lists of singles and ranges. The separator group repeats so
// compound separators such as ", and" and ", or" keep the phrase going.
var refPhraseRe = regexp.MustCompile(`(?i)\bclaims?\s+\d+(?:(?:\s*(?:[-\x{2013}\x{2014}]|to|through|,|or|and))+\s*\d+)*`)

// refTokenRe picks number tokens out of one phrase. The range alternative is
// listed first so "2-5" binds as a range rather than two singles.
var refTokenRe = regexp.MustCompile(`(\d+)\s*(?:[-\x{2013}\x{2014}]|to|through)\s*(\d+)|(\d+)`)

// maxRangeSpan bounds how many claims a single range may expand to. Real
// claim sets stay well under this; anything larger is treated as a typo and
// only the endpoints are kept.
const maxRangeSpan = 500

// References extracts every claim number the text depends on. Lists and
// ranges are expanded, duplicates removed, and the result sorted ascending.
// A claim with no reference phrase returns nil, marking it independent.
func References(text string) []int {
	seen := map[int]bool{}
	for _, phrase := range refPhraseRe.FindAllString(text, -1) {
		for _, n := range expandPhrase(phrase) {
			seen[n] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	refs := make([]int, 0, len(seen))
	for n := range seen {
		refs = append(refs, n)
	}
	sort.Ints(refs)
	return refs
}

// expandPhrase resolves one matched phrase into concrete claim numbers.
func expandPhrase(phrase string) []int {
	var out []int
	for _, m := range refTokenRe.FindAllStringSubmatch(phrase, -1) {
		if m[1] != "" && m[2] != "" {
			lo, err1 := strconv.Atoi(m[1])
			hi, err2 := strconv.Atoi(m[2])
			if err1 != nil || err2 != nil {
				continue
			}
			if lo > hi || hi-lo > maxRangeSpan {
				out = append(out, lo, hi)
				continue
			}
			for n := lo; n <= hi; n++ {
				out = append(out, n)
			}
			continue
		}
		if n, err := strconv.Atoi(m[3]); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// RewriteReferences maps every claim number inside reference phrases through
// the given old-to-new table in a single pass, leaving all other digits in
// the text untouched. Numbers absent from the table pass through unchanged.
// The second result counts how many numbers were actually substituted.
//
// One pass over the original text makes bulk renumbering order-independent:
// a swap such as {2:3, 3:2} cannot collide with its own output.
func RewriteReferences(text string, mapping map[int]int) (string, int) {
	if len(mapping) == 0 {
		return text, 0
	}
	substituted := 0
	rewritten := refPhraseRe.ReplaceAllStringFunc(text, func(phrase string) string {
		return numberRe.ReplaceAllStringFunc(phrase, func(tok string) string {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return tok
			}
			to, ok := mapping[n]
			if !ok || to == n {
				return tok
			}
			substituted++
			return strconv.Itoa(to)
		})
	})
	return rewritten, substituted
}

var numberRe = regexp.MustCompile(`\d+`)
