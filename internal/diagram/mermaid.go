// Package diagram formats an already-computed dependency graph as a
// Mermaid flowchart. No analysis happens here; the renderer only lays out
// what the graph builder derived.
package diagram

import (
	"fmt"
	"strings"

	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/parse"
)

// previewLen caps the claim-text preview inside each node label.
const previewLen = 40

// classDefs style nodes by claim type; missing-reference phantoms get a
// dashed outline so broken edges stand out in the rendered chart.
var classDefs = []string{
	"classDef system fill:#dbeafe,stroke:#1d4ed8",
	"classDef method fill:#dcfce7,stroke:#15803d",
	"classDef apparatus fill:#fef9c3,stroke:#a16207",
	"classDef process fill:#fae8ff,stroke:#86198f",
	"classDef crm fill:#ffedd5,stroke:#9a3412",
	"classDef unknown fill:#f3f4f6,stroke:#6b7280",
	"classDef missing fill:#fee2e2,stroke:#b91c1c,stroke-dasharray: 5 5",
}

// Renderer turns a dependency graph into Mermaid "graph TD" notation.
type Renderer struct{}

// NewRenderer creates a diagram renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render emits the full flowchart: one styled node per claim with a
// truncated text preview, one dashed phantom node per missing reference
// target, and a parent-to-child edge for every dependency.
func (r *Renderer) Render(claims []model.ParsedClaim, g *model.DependencyGraph) string {
	byNumber := map[int]model.ParsedClaim{}
	for _, c := range claims {
		if _, ok := byNumber[c.Number]; !ok {
			byNumber[c.Number] = c
		}
	}

	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, def := range classDefs {
		fmt.Fprintf(&b, "    %s\n", def)
	}

	for _, n := range g.Numbers() {
		c, ok := byNumber[n]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "    C%d[\"Claim %d: %s\"]\n", n, n, preview(c.Text))
		fmt.Fprintf(&b, "    class C%d %s\n", n, styleClass(c.Type))
	}

	for _, n := range g.Missing {
		fmt.Fprintf(&b, "    M%d((\"claim %d?\"))\n", n, n)
		fmt.Fprintf(&b, "    class M%d missing\n", n)
	}

	for _, child := range g.Numbers() {
		for _, parent := range g.References[child] {
			if _, exists := g.References[parent]; exists {
				fmt.Fprintf(&b, "    C%d --> C%d\n", parent, child)
			} else {
				fmt.Fprintf(&b, "    M%d -.-> C%d\n", parent, child)
			}
		}
	}
	return b.String()
}

// preview strips the preamble, sanitizes characters Mermaid treats as
// syntax, and truncates to previewLen.
func preview(text string) string {
	s := parse.StripPreamble(text)
	s = strings.NewReplacer("\"", "'", "[", "(", "]", ")", "\n", " ").Replace(s)
	s = strings.TrimSpace(s)
	if len(s) > previewLen {
		return strings.TrimSpace(s[:previewLen-3]) + "..."
	}
	return s
}

// styleClass maps a claim type to its classDef name.
func styleClass(t model.ClaimType) string {
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
		return "crm"
	default:
		return "unknown"
	}
}
