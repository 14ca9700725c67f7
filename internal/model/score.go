package model

// Score is the transparent consistency breakdown for one claim set. The
// index aggregates four weighted components; every component also emits a
// Signal carrying the inputs and formula that produced its points, so the
// number is auditable rather than oracular.
type Score struct {
	Index      int      `json:"index"`      // Overall consistency index (0-100)
	Confidence string   `json:"confidence"` // "low", "low-medium", "medium", "high"
	Conflict   bool     `json:"conflict"`   // Whether a circular reference chain was detected
	Signals    []Signal `json:"signals"`    // Diagnostic signals with scoring data
}

// Signal is one diagnostic observation behind the index.
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    Severity               `json:"severity"`       // info, warning, error
	Description string                 `json:"description"`    // Human-readable summary
	Data        map[string]interface{} `json:"data,omitempty"` // Scoring inputs and formulas
}

// SignalType classifies a diagnostic signal.
type SignalType string

const (
	SignalReferenceIntegrity  SignalType = "reference-integrity"  // Share of claims free of reference errors
	SignalDependencyStructure SignalType = "dependency-structure" // Independent-to-dependent balance
	SignalDepthProfile        SignalType = "depth-profile"        // Dependency chain depth
	SignalWarningHygiene      SignalType = "warning-hygiene"      // Warning density
	SignalCircularReferences  SignalType = "circular-references"  // Reference cycle present
)

// SeverityInfo marks purely informational signals. Consistency issues never
// use it: a reported finding is always at least a warning.
const SeverityInfo Severity = "info"
