package score

import (
	"testing"

	"github.com/anicholas99/claimgraph/internal/model"
)

func makeReport(independent, dependent, maxDepth int, issues []model.ConsistencyIssue) *model.AnalysisReport {
	errors, warnings := model.CountSeverity(issues)
	return &model.AnalysisReport{
		ClaimCount: independent + dependent,
		MaxDepth:   maxDepth,
		Issues:     issues,
		Stats: model.ReportStats{
			Independent: independent,
			Dependent:   dependent,
			Errors:      errors,
			Warnings:    warnings,
		},
	}
}

func TestScorer_Calculate_CleanSet(t *testing.T) {
	scorer := NewScorer()

	// One independent claim carrying four dependents, two levels deep,
	// nothing flagged. Every component should max out.
	result := scorer.Calculate(makeReport(1, 4, 2, nil))

	if result.Index != 100 {
		t.Errorf("Expected index 100 for a clean set, got %d", result.Index)
	}
	if result.Confidence != "high" {
		t.Errorf("Expected high confidence, got %s", result.Confidence)
	}
	if result.Conflict {
		t.Error("Expected no conflict for a clean set")
	}
	if len(result.Signals) != 4 {
		t.Errorf("Expected 4 signals, got %d", len(result.Signals))
	}
	for _, signal := range result.Signals {
		if signal.Severity != model.SeverityInfo {
			t.Errorf("Expected info severity for %s, got %s", signal.Type, signal.Severity)
		}
	}
}

func TestScorer_Calculate_Empty(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(&model.AnalysisReport{})

	if result.Index < 0 || result.Index > 100 {
		t.Errorf("Expected index between 0 and 100 for empty input, got %d", result.Index)
	}
	if result.Confidence != "low" {
		t.Errorf("Expected low confidence for empty input, got %s", result.Confidence)
	}
}

func TestScorer_Calculate_BrokenReferences(t *testing.T) {
	scorer := NewScorer()

	// Two of four claims reference numbers that do not exist. Integrity
	// drops to half: 20 + 21 + 20 + 10.
	issues := []model.ConsistencyIssue{
		{Type: model.IssueMissingReference, Severity: model.SeverityError, ClaimNumber: 3},
		{Type: model.IssueMissingReference, Severity: model.SeverityError, ClaimNumber: 4},
	}
	result := scorer.Calculate(makeReport(2, 2, 1, issues))

	if result.Index != 71 {
		t.Errorf("Expected index 71, got %d", result.Index)
	}
	if result.Confidence != "medium" {
		t.Errorf("Expected medium confidence, got %s", result.Confidence)
	}

	for _, signal := range result.Signals {
		if signal.Type == model.SignalReferenceIntegrity && signal.Severity != model.SeverityWarning {
			t.Errorf("Expected warning severity on integrity signal, got %s", signal.Severity)
		}
	}
}

func TestScorer_Calculate_CircularConflict(t *testing.T) {
	scorer := NewScorer()

	issues := []model.ConsistencyIssue{
		{Type: model.IssueCircularDependency, Severity: model.SeverityError, ClaimNumber: 2},
	}
	result := scorer.Calculate(makeReport(1, 2, 1, issues))

	if !result.Conflict {
		t.Error("Expected conflict for a circular reference")
	}
	if result.Confidence != "low-medium" {
		t.Errorf("Expected low-medium confidence, got %s", result.Confidence)
	}

	found := false
	for _, signal := range result.Signals {
		if signal.Type == model.SignalCircularReferences {
			found = true
			if signal.Severity != model.SeverityError {
				t.Errorf("Expected error severity on circular signal, got %s", signal.Severity)
			}
		}
	}
	if !found {
		t.Error("Expected a circular-references signal")
	}

	// 26 integrity + 28 structure + 20 depth + 10 hygiene - 10 penalty.
	if result.Index != 74 {
		t.Errorf("Expected index 74, got %d", result.Index)
	}
}

func TestScorer_Calculate_DeepChain(t *testing.T) {
	scorer := NewScorer()

	// Depth 7 loses 15 of the 20 depth points: 40 + 30 + 5 + 10.
	result := scorer.Calculate(makeReport(1, 11, 7, nil))

	if result.Index != 85 {
		t.Errorf("Expected index 85, got %d", result.Index)
	}

	found := false
	for _, signal := range result.Signals {
		if signal.Type == model.SignalDepthProfile {
			found = true
			if signal.Severity != model.SeverityError {
				t.Errorf("Expected error severity for depth 7, got %s", signal.Severity)
			}
		}
	}
	if !found {
		t.Error("Expected a depth-profile signal")
	}
}

func TestScorer_Calculate_FlatSet(t *testing.T) {
	scorer := NewScorer()

	// All claims independent: no chains, no structure. Depth stays neutral
	// at half score, structure drops to zero.
	result := scorer.Calculate(makeReport(5, 0, 0, nil))

	// 40 integrity + 0 structure + 10 depth + 10 hygiene.
	if result.Index != 60 {
		t.Errorf("Expected index 60, got %d", result.Index)
	}

	for _, signal := range result.Signals {
		if signal.Type == model.SignalDependencyStructure && signal.Severity != model.SeverityWarning {
			t.Errorf("Expected warning severity on structure signal, got %s", signal.Severity)
		}
	}
}

func TestScorer_Calculate_WarningDensity(t *testing.T) {
	scorer := NewScorer()

	issues := []model.ConsistencyIssue{
		{Type: model.IssueUnsupportedElement, Severity: model.SeverityWarning, ClaimNumber: 2},
		{Type: model.IssueUnsupportedElement, Severity: model.SeverityWarning, ClaimNumber: 3},
		{Type: model.IssueUnsupportedElement, Severity: model.SeverityWarning, ClaimNumber: 4},
		{Type: model.IssueMirrorCountMismatch, Severity: model.SeverityWarning},
	}
	result := scorer.Calculate(makeReport(2, 4, 1, issues))

	for _, signal := range result.Signals {
		if signal.Type == model.SignalWarningHygiene && signal.Severity != model.SeverityError {
			t.Errorf("Expected error severity for warning density, got %s", signal.Severity)
		}
	}
}

func TestScorer_DetermineConfidence(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		name     string
		score    int
		claims   int
		conflict bool
		want     string
	}{
		{"conflict overrides score", 90, 10, true, "low-medium"},
		{"tiny set stays low", 95, 2, false, "low"},
		{"high band", 85, 10, false, "high"},
		{"medium band", 65, 10, false, "medium"},
		{"low band", 40, 10, false, "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.determineConfidence(tt.score, tt.claims, tt.conflict)
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
