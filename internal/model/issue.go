package model

import "fmt"

// IssueType classifies a structural finding
type IssueType string

const (
	IssueDuplicateNumber      IssueType = "duplicate-number"       // One number held by more than one claim
	IssueMissingReference     IssueType = "missing-reference"      // Reference to a number absent from the set
	IssueForwardReference     IssueType = "forward-reference"      // Reference to the claim's own or a higher number
	IssueCircularDependency   IssueType = "circular-dependency"    // Reference cycle
	IssueUnsupportedElement   IssueType = "unsupported-element"    // Element without support in the specification text
	IssueMirrorDetected       IssueType = "mirror-detected"        // A mirrored claim-type pair was recognized
	IssueMirrorMissingElement IssueType = "mirror-missing-element" // Element with no counterpart in the mirror claim
	IssueMirrorCountMismatch  IssueType = "mirror-count-mismatch"  // Mirrored groups differ in dependent count by more than 1
)

// Severity indicates how serious a finding is
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ConsistencyIssue is the uniform output unit for every validator in the
// engine. Structural problems are always reported as issue values, never
// raised as errors, so one analysis pass can surface everything at once.
type ConsistencyIssue struct {
	Type        IssueType `json:"type"`
	Severity    Severity  `json:"severity"`
	ClaimNumber int       `json:"claim_number,omitempty"` // 0 for set-wide findings
	Message     string    `json:"message"`
	Suggestion  string    `json:"suggestion,omitempty"`
}

// String formats the issue for terminal display
func (i ConsistencyIssue) String() string {
	if i.ClaimNumber > 0 {
		return fmt.Sprintf("[%s] claim %d: %s", i.Severity, i.ClaimNumber, i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
}

// HasErrors reports whether any issue carries error severity
func HasErrors(issues []ConsistencyIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CountSeverity tallies issues by severity
func CountSeverity(issues []ConsistencyIssue) (errors, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
