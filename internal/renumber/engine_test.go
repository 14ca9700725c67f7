package renumber

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/parse"
)

// fakeStore implements ClaimLister and ClaimUpdater over an in-memory
// slice, applying updates the way the real store would.
type fakeStore struct {
	claims      []model.Claim
	applyCalls  int
	failUpdates bool
}

func (s *fakeStore) ListClaims(ctx context.Context, inventionID string) ([]model.Claim, error) {
	return append([]model.Claim(nil), s.claims...), nil
}

func (s *fakeStore) UpdateClaims(ctx context.Context, inventionID string, updates []model.ClaimUpdate) error {
	if s.failUpdates {
		return errors.New("store offline")
	}
	s.applyCalls++
	for _, u := range updates {
		for i := range s.claims {
			if s.claims[i].ID != u.ID {
				continue
			}
			if u.NewNumber != nil {
				s.claims[i].Number = *u.NewNumber
			}
			if u.NewText != nil {
				s.claims[i].Text = *u.NewText
			}
		}
	}
	return nil
}

func (s *fakeStore) byID(id string) model.Claim {
	for _, c := range s.claims {
		if c.ID == id {
			return c
		}
	}
	return model.Claim{}
}

func TestComputePlanSequentialSetIsNoOp(t *testing.T) {
	claims := []model.Claim{
		{ID: "a", Number: 1, Text: "A system comprising a processor."},
		{ID: "b", Number: 2, Text: "The system of claim 1, wherein the processor idles."},
	}

	plan, err := NewEngine().ComputePlan(claims)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !plan.IsNoOp() {
		t.Errorf("Sequential set must produce a no-op plan, got %+v", plan)
	}
	if plan.Substitutions != 0 {
		t.Errorf("Expected 0 substitutions, got %d", plan.Substitutions)
	}
}

func TestComputePlanGapClosing(t *testing.T) {
	claims := []model.Claim{
		{ID: "a", Number: 1, Text: "A system comprising a processor."},
		{ID: "b", Number: 3, Text: "The system of claim 1, wherein the processor idles."},
		{ID: "c", Number: 4, Text: "The system of claim 3, further comprising a fan."},
	}

	plan, err := NewEngine().ComputePlan(claims)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	wantMapping := map[int]int{1: 1, 3: 2, 4: 3}
	if !reflect.DeepEqual(plan.Mapping, wantMapping) {
		t.Errorf("Expected mapping %v, got %v", wantMapping, plan.Mapping)
	}
	if len(plan.Changes) != 2 {
		t.Fatalf("Expected 2 changed claims, got %d", len(plan.Changes))
	}
	if plan.Substitutions != 1 {
		t.Errorf("Expected 1 reference substitution, got %d", plan.Substitutions)
	}

	last := plan.Changes[1]
	if last.ID != "c" || last.NewNumber != 3 {
		t.Errorf("Expected claim c renumbered to 3, got %+v", last)
	}
	if refs := parse.References(last.NewText); !reflect.DeepEqual(refs, []int{2}) {
		t.Errorf("Expected rewritten reference [2], got %v in %q", refs, last.NewText)
	}
}

func TestComputePlanRefusesDuplicates(t *testing.T) {
	claims := []model.Claim{
		{ID: "a", Number: 2, Text: "A system comprising a processor."},
		{ID: "b", Number: 2, Text: "A method comprising processing."},
	}

	_, err := NewEngine().ComputePlan(claims)
	if !errors.Is(err, ErrDuplicateNumbers) {
		t.Errorf("Expected ErrDuplicateNumbers, got %v", err)
	}
}

func TestComputePlanEmptySet(t *testing.T) {
	_, err := NewEngine().ComputePlan(nil)
	if !errors.Is(err, ErrNoClaims) {
		t.Errorf("Expected ErrNoClaims, got %v", err)
	}
}

func TestApplySkipsStoreOnNoOp(t *testing.T) {
	store := &fakeStore{claims: []model.Claim{
		{ID: "a", Number: 1, Text: "A system comprising a processor."},
	}}
	engine := NewEngine()

	plan, err := engine.ComputePlan(store.claims)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := engine.Apply(context.Background(), store, "inv-1", plan); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if store.applyCalls != 0 {
		t.Errorf("No-op plan must not reach the store, got %d calls", store.applyCalls)
	}
}

func TestApplyPropagatesStoreFailure(t *testing.T) {
	store := &fakeStore{
		claims: []model.Claim{
			{ID: "a", Number: 2, Text: "A system comprising a processor."},
		},
		failUpdates: true,
	}
	engine := NewEngine()

	plan, err := engine.ComputePlan(store.claims)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := engine.Apply(context.Background(), store, "inv-1", plan); err == nil {
		t.Error("Expected store failure to propagate")
	}
}

func TestRunPreservesReferences(t *testing.T) {
	store := &fakeStore{claims: []model.Claim{
		{ID: "a", Number: 2, Text: "A system comprising a processor."},
		{ID: "b", Number: 5, Text: "The system of claim 2, wherein the processor idles."},
		{ID: "c", Number: 9, Text: "The system of claim 5, further comprising a fan."},
	}}

	plan, err := NewEngine().Run(context.Background(), store, store, "inv-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if plan.IsNoOp() {
		t.Fatal("Expected a real renumbering")
	}
	if store.applyCalls != 1 {
		t.Fatalf("Expected one atomic batch, got %d", store.applyCalls)
	}

	a, b, c := store.byID("a"), store.byID("b"), store.byID("c")
	if a.Number != 1 || b.Number != 2 || c.Number != 3 {
		t.Errorf("Expected numbers 1,2,3, got %d,%d,%d", a.Number, b.Number, c.Number)
	}
	if refs := parse.References(b.Text); !reflect.DeepEqual(refs, []int{1}) {
		t.Errorf("Claim b must still reference claim a, got %v", refs)
	}
	if refs := parse.References(c.Text); !reflect.DeepEqual(refs, []int{2}) {
		t.Errorf("Claim c must still reference claim b, got %v", refs)
	}
}

func TestRunIdempotent(t *testing.T) {
	store := &fakeStore{claims: []model.Claim{
		{ID: "a", Number: 3, Text: "A system comprising a processor."},
		{ID: "b", Number: 7, Text: "The system of claim 3, wherein the processor idles."},
	}}
	engine := NewEngine()

	first, err := engine.Run(context.Background(), store, store, "inv-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if first.IsNoOp() {
		t.Fatal("First run must renumber")
	}

	second, err := engine.Run(context.Background(), store, store, "inv-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !second.IsNoOp() {
		t.Errorf("Second run must be a no-op, got %+v", second)
	}
	if store.applyCalls != 1 {
		t.Errorf("Second run must not touch the store, got %d calls", store.applyCalls)
	}
}

func TestComputePlanSwapStaysConsistent(t *testing.T) {
	claims := []model.Claim{
		{ID: "a", Number: 2, Text: "A system comprising a processor."},
		{ID: "b", Number: 4, Text: "The system of claim 2, referencing claims 2 and 4."},
	}

	plan, err := NewEngine().ComputePlan(claims)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, ch := range plan.Changes {
		if ch.ID == "b" {
			if refs := parse.References(ch.NewText); !reflect.DeepEqual(refs, []int{1, 2}) {
				t.Errorf("Batch rewrite must map both references, got %v in %q", refs, ch.NewText)
			}
		}
	}
}
