package parse

import (
	"regexp"
	"strings"
	"unicode"
)

// leadInRe finds the transitional word separating the preamble from the body
// of the claim. The earliest occurrence wins.
var leadInRe = regexp.MustCompile(`(?i)\b(?:comprising|comprises|including|includes|having|consisting\s+essentially\s+of|consisting\s+of|wherein)\b[:,]?`)

// transitionalPrefixes are connective words stripped from the front of each
// clause before it is kept as an element. Stripping repeats until none apply,
// so "and wherein said processor" reduces to "processor".
var transitionalPrefixes = []string{
	"and ",
	"wherein ",
	"whereby ",
	"further ",
	"said ",
	"configured to ",
	"adapted to ",
	"operable to ",
	"for ",
}

// minElementLen drops fragments too short to be a real limitation.
const minElementLen = 3

// Elements splits claim text into candidate limitations: the preamble and
// lead-in are stripped, the body is cut at semicolons and at top-level
// commas, and each clause is trimmed of transitional prefixes. Commas inside
// parentheses do not split.
func Elements(text string) []string {
	body := bodyAfterLeadIn(StripNumberPrefix(text))

	var elements []string
	for _, clause := range splitClauses(body) {
		e := trimClause(clause)
		if len(e) >= minElementLen {
			elements = append(elements, e)
		}
	}
	return elements
}

// StripPreamble returns the claim body following the first lead-in word, or
// the full text when no lead-in is present. Used for compact labels.
func StripPreamble(text string) string {
	return strings.TrimSpace(bodyAfterLeadIn(StripNumberPrefix(text)))
}

func bodyAfterLeadIn(text string) string {
	if loc := leadInRe.FindStringIndex(text); loc != nil {
		return text[loc[1]:]
	}
	return text
}

// splitClauses cuts the body at semicolons and at commas that sit outside
// any parenthesized run.
func splitClauses(body string) []string {
	var clauses []string
	depth := 0
	start := 0
	for i, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';':
			clauses = append(clauses, body[start:i])
			start = i + 1
		case ',':
			if depth == 0 {
				clauses = append(clauses, body[start:i])
				start = i + 1
			}
		}
	}
	return append(clauses, body[start:])
}

// trimClause normalizes one clause into element form: whitespace and trailing
// punctuation trimmed, transitional prefixes peeled off the front.
func trimClause(clause string) string {
	e := strings.TrimSpace(clause)
	e = strings.TrimRight(e, ".:;,")

	for {
		stripped := false
		lower := strings.ToLower(e)
		for _, prefix := range transitionalPrefixes {
			if strings.HasPrefix(lower, prefix) {
				e = strings.TrimSpace(e[len(prefix):])
				lower = strings.ToLower(e)
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}
	return e
}

// Normalize lowercases the element, replaces punctuation with spaces and
// collapses runs of whitespace. The result is stable under re-normalization,
// which lets callers compare normalized and raw strings interchangeably.
func Normalize(element string) string {
	var b strings.Builder
	b.Grow(len(element))
	lastSpace := true
	for _, r := range strings.ToLower(element) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// SignificantWords returns the words of a normalized element longer than
// three characters, the token set used by fuzzy matching and support checks.
func SignificantWords(element string) []string {
	var words []string
	for _, w := range strings.Fields(Normalize(element)) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}
