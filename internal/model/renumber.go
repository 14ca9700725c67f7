package model

import "fmt"

// ClaimChange describes one claim's part in a renumbering: its new number
// and, when in-text references had to move, its rewritten text.
type ClaimChange struct {
	ID        string `json:"id"`
	OldNumber int    `json:"old_number"`
	NewNumber int    `json:"new_number"`
	OldText   string `json:"old_text"`
	NewText   string `json:"new_text"`
}

// RenumberPlan is a computed, not-yet-applied renumbering of one claim set.
// The caller applies it through the transactional update interface as a
// single all-or-nothing batch; a plan is never partially applied.
type RenumberPlan struct {
	Mapping       map[int]int   `json:"mapping"`       // old number to new number, every claim in the set
	Changes       []ClaimChange `json:"changes"`       // only claims whose number or text actually changes
	Substitutions int           `json:"substitutions"` // individual in-text reference rewrites
}

// IsNoOp reports whether the claim set is already sequentially numbered.
// Callers use this to short-circuit before touching the store.
func (p RenumberPlan) IsNoOp() bool {
	return len(p.Changes) == 0
}

// Summary returns a human-readable change count.
func (p RenumberPlan) Summary() string {
	if p.IsNoOp() {
		return "claim numbers already sequential, nothing to renumber"
	}
	return fmt.Sprintf("%d claims renumbered, %d reference substitutions", len(p.Changes), p.Substitutions)
}

// ClaimUpdate is one entry of the transactional batch update interface.
// Nil fields are left untouched by the store.
type ClaimUpdate struct {
	ID        string  `json:"id"`
	NewNumber *int    `json:"new_number,omitempty"`
	NewText   *string `json:"new_text,omitempty"`
}

// Updates converts the plan's changes into a store update batch.
func (p RenumberPlan) Updates() []ClaimUpdate {
	updates := make([]ClaimUpdate, 0, len(p.Changes))
	for _, ch := range p.Changes {
		u := ClaimUpdate{ID: ch.ID}
		if ch.NewNumber != ch.OldNumber {
			u.NewNumber = &ch.NewNumber
		}
		if ch.NewText != ch.OldText {
			u.NewText = &ch.NewText
		}
		updates = append(updates, u)
	}
	return updates
}
