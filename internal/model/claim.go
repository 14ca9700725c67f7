package model

// Claim is a single numbered claim inside one invention's claim set.
// The engine treats a claim set as an immutable snapshot: analysis never
// mutates Text or Number, it only returns descriptions of mutations for
// the caller to apply.
type Claim struct {
	ID     string `json:"id"`     // Stable record identifier (opaque to the engine)
	Number int    `json:"number"` // Positive claim number as filed
	Text   string `json:"text"`   // Full claim text including preamble
}

// ClaimType categorizes a claim by its preamble
type ClaimType string

const (
	ClaimTypeSystem    ClaimType = "system"
	ClaimTypeMethod    ClaimType = "method"
	ClaimTypeApparatus ClaimType = "apparatus"
	ClaimTypeProcess   ClaimType = "process"
	ClaimTypeCRM       ClaimType = "computer-readable-medium"
	ClaimTypeUnknown   ClaimType = "unknown"
)

// ParsedClaim is a claim plus everything the text parser inferred from it.
// Type, references and elements are recomputed on every analysis and are
// never persisted.
type ParsedClaim struct {
	Claim
	Type       ClaimType `json:"type"`
	References []int     `json:"references,omitempty"` // Claim numbers this claim depends on, ascending, deduplicated
	Elements   []string  `json:"elements,omitempty"`   // Candidate technical limitations, original casing
}

// Independent reports whether the claim stands on its own.
// A claim is independent iff it references no other claim.
func (p ParsedClaim) Independent() bool {
	return len(p.References) == 0
}
