// Package renumber computes and applies sequential claim renumbering. A
// plan maps every claim to its new number and carries rewritten text for
// each claim whose in-text references move; applying a plan is a single
// all-or-nothing batch against the store, never a partial update.
package renumber

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/parse"
)

var (
	// ErrNoClaims means the invention has no claims to renumber.
	ErrNoClaims = errors.New("no claims to renumber")

	// ErrDuplicateNumbers blocks renumbering while two claims share a
	// number: the engine cannot know which claim a reference means.
	ErrDuplicateNumbers = errors.New("duplicate claim numbers present")
)

// ClaimLister supplies the claim snapshot for one invention.
type ClaimLister interface {
	ListClaims(ctx context.Context, inventionID string) ([]model.Claim, error)
}

// ClaimUpdater applies a batch of claim updates atomically, rejecting the
// whole batch on any failure.
type ClaimUpdater interface {
	UpdateClaims(ctx context.Context, inventionID string, updates []model.ClaimUpdate) error
}

// Engine computes renumber plans and drives their application.
type Engine struct{}

// NewEngine creates a renumbering engine.
func NewEngine() *Engine {
	return &Engine{}
}

// ComputePlan sorts the claims by current number, assigns new numbers 1..N
// in that order, and rewrites every in-text reference through the complete
// old-to-new mapping in one pass, so a later mapping can never re-rewrite
// an earlier mapping's output. Claims sharing a number abort the plan.
func (e *Engine) ComputePlan(claims []model.Claim) (*model.RenumberPlan, error) {
	if len(claims) == 0 {
		return nil, ErrNoClaims
	}
	if dups := duplicateNumbers(claims); len(dups) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateNumbers, dups)
	}

	ordered := make([]model.Claim, len(claims))
	copy(ordered, claims)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	plan := &model.RenumberPlan{Mapping: make(map[int]int, len(ordered))}
	for i, c := range ordered {
		plan.Mapping[c.Number] = i + 1
	}

	for i, c := range ordered {
		newNumber := i + 1
		newText, substituted := parse.RewriteReferences(c.Text, plan.Mapping)
		plan.Substitutions += substituted

		if newNumber == c.Number && newText == c.Text {
			continue
		}
		plan.Changes = append(plan.Changes, model.ClaimChange{
			ID:        c.ID,
			OldNumber: c.Number,
			NewNumber: newNumber,
			OldText:   c.Text,
			NewText:   newText,
		})
	}
	return plan, nil
}

// Apply persists the plan through the transactional update interface. A
// no-op plan returns immediately without touching the store.
func (e *Engine) Apply(ctx context.Context, updater ClaimUpdater, inventionID string, plan *model.RenumberPlan) error {
	if plan.IsNoOp() {
		return nil
	}
	if err := updater.UpdateClaims(ctx, inventionID, plan.Updates()); err != nil {
		return fmt.Errorf("applying renumber plan: %w", err)
	}
	return nil
}

// Run loads a fresh snapshot, computes the plan and applies it. Each call
// recomputes from current store state, so concurrent runs for the same
// invention serialize on the store's transaction and cannot interleave a
// stale plan with a fresh one.
func (e *Engine) Run(ctx context.Context, lister ClaimLister, updater ClaimUpdater, inventionID string) (*model.RenumberPlan, error) {
	claims, err := lister.ListClaims(ctx, inventionID)
	if err != nil {
		return nil, fmt.Errorf("loading claims: %w", err)
	}
	plan, err := e.ComputePlan(claims)
	if err != nil {
		return nil, err
	}
	if err := e.Apply(ctx, updater, inventionID, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// duplicateNumbers returns the sorted list of claim numbers used more than
// once.
func duplicateNumbers(claims []model.Claim) []int {
	count := map[int]int{}
	for _, c := range claims {
		count[c.Number]++
	}
	var dups []int
	for n, k := range count {
		if k > 1 {
			dups = append(dups, n)
		}
	}
	sort.Ints(dups)
	return dups
}
