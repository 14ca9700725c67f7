// Package parse extracts structure from raw claim text: the claim type
// inferred from the preamble, the claim numbers the text references, and
// the candidate technical limitations ("elements") used for cross-claim
// comparison. Everything here is a pure function over text.
package parse

import (
	"regexp"

	"github.com/anicholas99/claimgraph/internal/model"
)

// preamblePattern pairs an opening-phrase pattern with the claim type it
// implies. Patterns are evaluated top to bottom; first match wins.
type preamblePattern struct {
	re  *regexp.Regexp
	typ model.ClaimType
}

// numberPrefixRe strips a leading "12." or "12)" claim index some sources
// keep in the text itself.
var numberPrefixRe = regexp.MustCompile(`^\s*\d{1,4}\s*[.)]\s+`)

// Parser turns one claim's text into a ParsedClaim.
type Parser struct {
	preambles []preamblePattern
}

// NewParser creates a parser with the standard preamble patterns.
// The computer-readable-medium pattern must come first: a CRM preamble
// frequently goes on to mention the method its instructions perform.
func NewParser() *Parser {
	return &Parser{
		preambles: []preamblePattern{
			{regexp.MustCompile(`(?i)^(?:a|an|the)\s+(?:non-transitory\s+)?computer[-\s]readable\s+(?:storage\s+)?medium\b`), model.ClaimTypeCRM},
			{regexp.MustCompile(`(?i)^(?:a|the)\s+system\b`), model.ClaimTypeSystem},
			{regexp.MustCompile(`(?i)^(?:a|the)\s+method\b`), model.ClaimTypeMethod},
			{regexp.MustCompile(`(?i)^(?:an|the)\s+apparatus\b`), model.ClaimTypeApparatus},
			{regexp.MustCompile(`(?i)^(?:a|the)\s+process\b`), model.ClaimTypeProcess},
		},
	}
}

// Parse extracts type, references and elements from one claim.
func (p *Parser) Parse(claim model.Claim) model.ParsedClaim {
	text := StripNumberPrefix(claim.Text)

	return model.ParsedClaim{
		Claim:      claim,
		Type:       p.claimType(text),
		References: References(text),
		Elements:   Elements(text),
	}
}

// ParseAll parses a whole claim set, preserving input order.
func (p *Parser) ParseAll(claims []model.Claim) []model.ParsedClaim {
	parsed := make([]model.ParsedClaim, len(claims))
	for i, c := range claims {
		parsed[i] = p.Parse(c)
	}
	return parsed
}

// claimType matches the preamble against the ordered pattern list.
func (p *Parser) claimType(text string) model.ClaimType {
	for _, pat := range p.preambles {
		if pat.re.MatchString(text) {
			return pat.typ
		}
	}
	return model.ClaimTypeUnknown
}

// StripNumberPrefix removes a leading claim index such as "3. " when the
// source text carries one. The claim's number is tracked separately.
func StripNumberPrefix(text string) string {
	return numberPrefixRe.ReplaceAllString(text, "")
}
