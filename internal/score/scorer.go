// Package score condenses an analysis report into a 0-100 consistency
// index. The index weighs four components: reference integrity (40),
// dependency structure (30), depth discipline (20) and warning hygiene
// (10), minus a flat penalty when the set contains a reference cycle.
// Every component publishes a signal with its inputs and formula so the
// number can be audited.
package score

import (
	"fmt"
	"math"

	"github.com/anicholas99/claimgraph/internal/model"
)

// Scorer calculates the consistency index and its diagnostic signals.
type Scorer struct{}

// NewScorer creates a new scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate derives the consistency index from a finished report. It reads
// the report's issues, graph and stats; the report's own Score field is
// ignored, so calling it before or after assignment makes no difference.
func (s *Scorer) Calculate(report *model.AnalysisReport) model.Score {
	var signals []model.Signal

	integrityScore, integritySignal := s.calculateReferenceIntegrity(report)
	signals = append(signals, integritySignal)

	structureScore, structureSignal := s.calculateStructure(report)
	signals = append(signals, structureSignal)

	depthScore, depthSignal := s.calculateDepth(report)
	signals = append(signals, depthSignal)

	hygieneScore, hygieneSignal := s.calculateWarningHygiene(report)
	signals = append(signals, hygieneSignal)

	conflictDetected, conflictSignal := s.detectCircular(report.Issues)
	if conflictDetected {
		signals = append(signals, conflictSignal)
	}

	totalScore := integrityScore + structureScore + depthScore + hygieneScore

	if conflictDetected {
		totalScore -= 10
		if totalScore < 0 {
			totalScore = 0
		}
	}

	confidence := s.determineConfidence(totalScore, report.ClaimCount, conflictDetected)

	return model.Score{
		Index:      totalScore,
		Confidence: confidence,
		Conflict:   conflictDetected,
		Signals:    signals,
	}
}

// calculateReferenceIntegrity scores the share of claims free of reference
// errors (0-40 points).
func (s *Scorer) calculateReferenceIntegrity(report *model.AnalysisReport) (int, model.Signal) {
	if report.ClaimCount == 0 {
		return 0, model.Signal{
			Type:        model.SignalReferenceIntegrity,
			Severity:    model.SeverityError,
			Description: "No claims parsed",
			Data: map[string]interface{}{
				"claims": 0,
			},
		}
	}

	affected := make(map[int]bool)
	for _, issue := range report.Issues {
		if issue.Severity == model.SeverityError && issue.ClaimNumber > 0 {
			affected[issue.ClaimNumber] = true
		}
	}

	clean := report.ClaimCount - len(affected)
	if clean < 0 {
		clean = 0
	}
	ratio := float64(clean) / float64(report.ClaimCount)
	score := int(ratio * 40)

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityError
	} else if ratio < 1.0 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalReferenceIntegrity,
		Severity:    severity,
		Description: fmt.Sprintf("Reference integrity: %d/%d claims resolve cleanly", clean, report.ClaimCount),
		Data: map[string]interface{}{
			"claims":   report.ClaimCount,
			"affected": len(affected),
			"clean":    clean,
			"ratio":    ratio,
			"score":    score,
			"formula":  "clean_claims / total_claims * 40",
		},
	}
}

// calculateStructure scores the independent-to-dependent balance (0-30
// points). A well-drafted set hangs several dependent claims off each
// independent one; the target share of 0.7 reflects the usual two to four
// dependents per independent claim.
func (s *Scorer) calculateStructure(report *model.AnalysisReport) (int, model.Signal) {
	if report.ClaimCount == 0 {
		return 0, model.Signal{
			Type:        model.SignalDependencyStructure,
			Severity:    model.SeverityWarning,
			Description: "No claims to assess",
			Data:        map[string]interface{}{"claims": 0},
		}
	}

	independent := report.Stats.Independent
	dependent := report.Stats.Dependent
	share := float64(dependent) / float64(report.ClaimCount)
	score := int(math.Min(share/0.7, 1) * 30)

	severity := model.SeverityInfo
	description := fmt.Sprintf("Dependency structure: %d independent, %d dependent", independent, dependent)
	switch {
	case independent == 0:
		severity = model.SeverityWarning
		description = "No independent claims: every claim references another"
	case dependent == 0:
		severity = model.SeverityWarning
		description = fmt.Sprintf("No dependent claims: all %d claims stand alone", independent)
	case share < 0.4:
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalDependencyStructure,
		Severity:    severity,
		Description: description,
		Data: map[string]interface{}{
			"independent":     independent,
			"dependent":       dependent,
			"dependent_share": share,
			"target_share":    0.7,
			"score":           score,
			"formula":         "min(dependent_share / 0.7, 1) * 30",
		},
	}
}

// calculateDepth scores dependency chain depth (0-20 points). Chains up to
// four levels are normal drafting; deeper nesting makes claims fragile and
// loses 5 points per extra level. A flat set with no chains at all earns a
// neutral half score.
func (s *Scorer) calculateDepth(report *model.AnalysisReport) (int, model.Signal) {
	depth := report.MaxDepth

	if depth == 0 {
		return 10, model.Signal{
			Type:        model.SignalDepthProfile,
			Severity:    model.SeverityInfo,
			Description: "No dependency chains",
			Data:        map[string]interface{}{"max_depth": 0, "score": 10},
		}
	}

	score := 20
	if depth > 4 {
		score = 20 - 5*(depth-4)
		if score < 0 {
			score = 0
		}
	}

	severity := model.SeverityInfo
	if depth > 6 {
		severity = model.SeverityError
	} else if depth > 4 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalDepthProfile,
		Severity:    severity,
		Description: fmt.Sprintf("Deepest dependency chain: %d levels", depth),
		Data: map[string]interface{}{
			"max_depth": depth,
			"score":     score,
			"formula":   "20 when depth <= 4, else max(20 - 5*(depth-4), 0)",
		},
	}
}

// calculateWarningHygiene scores warning density (0-10 points).
func (s *Scorer) calculateWarningHygiene(report *model.AnalysisReport) (int, model.Signal) {
	if report.ClaimCount == 0 {
		return 0, model.Signal{
			Type:        model.SignalWarningHygiene,
			Severity:    model.SeverityWarning,
			Description: "No claims to assess",
			Data:        map[string]interface{}{"claims": 0},
		}
	}

	warnings := report.Stats.Warnings
	density := math.Min(float64(warnings)/float64(report.ClaimCount), 1)
	score := int((1 - density) * 10)

	severity := model.SeverityInfo
	if density >= 0.5 {
		severity = model.SeverityError
	} else if density > 0.2 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalWarningHygiene,
		Severity:    severity,
		Description: fmt.Sprintf("Warning hygiene: %d warnings across %d claims", warnings, report.ClaimCount),
		Data: map[string]interface{}{
			"warnings": warnings,
			"claims":   report.ClaimCount,
			"density":  density,
			"score":    score,
			"formula":  "(1 - min(warnings / claims, 1)) * 10",
		},
	}
}

// detectCircular reports whether the issue list contains a reference cycle.
// A cycle is the one finding that invalidates the dependency order itself,
// so it carries a flat penalty on top of the integrity component.
func (s *Scorer) detectCircular(issues []model.ConsistencyIssue) (bool, model.Signal) {
	cycles := 0
	for _, issue := range issues {
		if issue.Type == model.IssueCircularDependency {
			cycles++
		}
	}

	if cycles == 0 {
		return false, model.Signal{}
	}

	return true, model.Signal{
		Type:        model.SignalCircularReferences,
		Severity:    model.SeverityError,
		Description: fmt.Sprintf("Circular reference chains detected (%d)", cycles),
		Data: map[string]interface{}{
			"cycles":  cycles,
			"penalty": 10,
		},
	}
}

// determineConfidence maps the index to a confidence band. Tiny claim sets
// score high too easily, so anything under three claims stays low.
func (s *Scorer) determineConfidence(score int, claimCount int, conflict bool) string {
	if conflict {
		return "low-medium"
	}

	if claimCount < 3 {
		return "low"
	}

	if score >= 80 {
		return "high"
	} else if score >= 60 {
		return "medium"
	}
	return "low"
}
