// Package extract pulls numbered claims out of source documents: pasted
// claim text, claim files and patent web pages. It only recovers the
// number/text pairs; all interpretation happens downstream in the parser.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/anicholas99/claimgraph/internal/model"
)

// claimStartRe matches the claim-number marker opening a claim paragraph.
var claimStartRe = regexp.MustCompile(`^\s*(\d{1,4})\s*[.)]\s+(.*)$`)

// maxClaimLen guards against runaway paragraphs when input is not really
// a claim document.
const maxClaimLen = 20000

// SplitNumberedClaims splits a plain-text claim listing into claims. A
// claim starts at a line opening with "N." or "N)" and runs until the next
// marker; continuation lines are joined with single spaces. Text before
// the first marker, such as a "What is claimed is:" heading, is ignored.
// Claim ids are left empty for the store to assign.
func SplitNumberedClaims(text string) []model.Claim {
	var claims []model.Claim
	var current *model.Claim
	var body strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(body.String())
		if current.Text != "" && len(current.Text) <= maxClaimLen {
			claims = append(claims, *current)
		}
		current = nil
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if m := claimStartRe.FindStringSubmatch(line); m != nil {
			number, err := strconv.Atoi(m[1])
			if err == nil && number > 0 {
				flush()
				current = &model.Claim{Number: number}
				body.WriteString(strings.TrimSpace(m[2]))
				continue
			}
		}
		if current == nil {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if body.Len() > 0 {
			body.WriteString(" ")
		}
		body.WriteString(trimmed)
	}
	flush()

	return claims
}
