package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/renumber"
)

var (
	_ renumber.ClaimLister  = (*Store)(nil)
	_ renumber.ClaimUpdater = (*Store)(nil)
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "claimgraph.db"))
	if err != nil {
		t.Fatalf("Expected store to open, got %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInventionLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvention(ctx, "Coffee machine")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if inv.ID == "" {
		t.Fatal("Expected generated invention id")
	}

	got, err := s.GetInvention(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Title != "Coffee machine" {
		t.Errorf("Expected title round-trip, got %q", got.Title)
	}

	if err := s.SetSpecText(ctx, inv.ID, "The invention relates to brewing."); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	got, err = s.GetInvention(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.SpecText == "" {
		t.Error("Expected spec text to persist")
	}

	all, err := s.ListInventions(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 invention, got %d", len(all))
	}

	if err := s.DeleteInvention(ctx, inv.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := s.GetInvention(ctx, inv.ID); !errors.Is(err, ErrInventionNotFound) {
		t.Errorf("Expected ErrInventionNotFound, got %v", err)
	}
}

func TestGetInventionMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetInvention(context.Background(), "nope"); !errors.Is(err, ErrInventionNotFound) {
		t.Errorf("Expected ErrInventionNotFound, got %v", err)
	}
}

func TestFindInvention(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvention(ctx, "Coffee machine")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	byID, err := s.FindInvention(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Expected lookup by id, got %v", err)
	}
	if byID.ID != inv.ID {
		t.Errorf("Expected id %s, got %s", inv.ID, byID.ID)
	}

	byTitle, err := s.FindInvention(ctx, "Coffee machine")
	if err != nil {
		t.Fatalf("Expected lookup by title, got %v", err)
	}
	if byTitle.ID != inv.ID {
		t.Errorf("Expected id %s, got %s", inv.ID, byTitle.ID)
	}

	if _, err := s.FindInvention(ctx, "Tea machine"); !errors.Is(err, ErrInventionNotFound) {
		t.Errorf("Expected ErrInventionNotFound, got %v", err)
	}

	// A duplicated title is no longer a usable reference
	if _, err := s.CreateInvention(ctx, "Coffee machine"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := s.FindInvention(ctx, "Coffee machine"); err == nil {
		t.Error("Expected error for ambiguous title, got nil")
	}
}

func TestRenameInvention(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvention(ctx, "Working title")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := s.RenameInvention(ctx, inv.ID, "Final title"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := s.GetInvention(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Title != "Final title" {
		t.Errorf("Expected renamed title, got %q", got.Title)
	}

	if err := s.RenameInvention(ctx, "nope", "X"); !errors.Is(err, ErrInventionNotFound) {
		t.Errorf("Expected ErrInventionNotFound, got %v", err)
	}
}

func TestClaimsOrderedByNumber(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvention(ctx, "Pump")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, n := range []int{3, 1, 2} {
		if _, err := s.AddClaim(ctx, inv.ID, n, "A system comprising a pump."); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	claims, err := s.ListClaims(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 3 {
		t.Fatalf("Expected 3 claims, got %d", len(claims))
	}
	for i, c := range claims {
		if c.Number != i+1 {
			t.Errorf("Expected number %d at index %d, got %d", i+1, i, c.Number)
		}
	}
}

func TestAddClaimToMissingInvention(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.AddClaim(context.Background(), "nope", 1, "A system comprising a pump."); !errors.Is(err, ErrInventionNotFound) {
		t.Errorf("Expected ErrInventionNotFound, got %v", err)
	}
}

func TestUpdateClaimsAtomicRollback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvention(ctx, "Fan")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	a, err := s.AddClaim(ctx, inv.ID, 2, "A system comprising a fan.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	two := 1
	text := "rewritten"
	updates := []model.ClaimUpdate{
		{ID: a.ID, NewNumber: &two, NewText: &text},
		{ID: "missing-claim", NewNumber: &two},
	}
	if err := s.UpdateClaims(ctx, inv.ID, updates); !errors.Is(err, ErrClaimNotFound) {
		t.Fatalf("Expected ErrClaimNotFound, got %v", err)
	}

	got, err := s.GetClaim(ctx, a.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Number != 2 || got.Text != "A system comprising a fan." {
		t.Errorf("Failed batch must not apply partially, got %+v", got)
	}
}

func TestUpdateClaimsPartialFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvention(ctx, "Valve")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	c, err := s.AddClaim(ctx, inv.ID, 5, "A system comprising a valve.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	one := 1
	if err := s.UpdateClaims(ctx, inv.ID, []model.ClaimUpdate{{ID: c.ID, NewNumber: &one}}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := s.GetClaim(ctx, c.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Number != 1 {
		t.Errorf("Expected renumbered claim, got %d", got.Number)
	}
	if got.Text != "A system comprising a valve." {
		t.Errorf("Nil text field must leave text untouched, got %q", got.Text)
	}
}

func TestDeleteInventionCascadesClaims(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvention(ctx, "Hose")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	c, err := s.AddClaim(ctx, inv.ID, 1, "A system comprising a hose.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := s.DeleteInvention(ctx, inv.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := s.GetClaim(ctx, c.ID); !errors.Is(err, ErrClaimNotFound) {
		t.Errorf("Expected cascade delete, got %v", err)
	}
}

func TestReplaceClaims(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvention(ctx, "Mixer")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := s.AddClaim(ctx, inv.ID, 9, "An old claim to be replaced."); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	err = s.ReplaceClaims(ctx, inv.ID, []model.Claim{
		{Number: 1, Text: "A system comprising a mixer."},
		{Number: 2, Text: "The system of claim 1, wherein the mixer rotates."},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := s.ListClaims(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims after replace, got %d", len(claims))
	}
	if claims[0].ID == "" || claims[1].ID == "" {
		t.Error("Replace must assign ids to new claims")
	}
}

func TestRenumberEngineAgainstStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvention(ctx, "Filter")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	seed := []model.Claim{
		{Number: 2, Text: "A system comprising a filter."},
		{Number: 6, Text: "The system of claim 2, wherein the filter is ceramic."},
	}
	if err := s.ReplaceClaims(ctx, inv.ID, seed); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	plan, err := renumber.NewEngine().Run(ctx, s, s, inv.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if plan.IsNoOp() {
		t.Fatal("Expected a real renumbering")
	}

	claims, err := s.ListClaims(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if claims[0].Number != 1 || claims[1].Number != 2 {
		t.Errorf("Expected sequential numbers, got %d and %d", claims[0].Number, claims[1].Number)
	}
	if want := "The system of claim 1, wherein the filter is ceramic."; claims[1].Text != want {
		t.Errorf("Expected rewritten reference, got %q", claims[1].Text)
	}
}
