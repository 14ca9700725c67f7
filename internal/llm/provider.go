// Package llm drafts claim amendment suggestions through pluggable LLM
// providers. Suggestions are advisory output: the analysis engine never
// consumes them, and strict reference mode rejects any suggestion that
// mentions a claim number outside the invention's claim set.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/parse"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Revise drafts amendment suggestions for a report with strict
	// reference mode
	Revise(ctx context.Context, req ReviseRequest) (*ReviseResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ReviseRequest contains the input for LLM revision drafting
type ReviseRequest struct {
	// Report is the analysis whose findings need addressing
	Report model.AnalysisReport

	// AllowedClaims is the STRICT allowlist of claim numbers a suggestion
	// may reference. This prevents hallucination - the LLM cannot cite any
	// claim not in this list.
	AllowedClaims []int

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ReviseResponse contains the LLM's suggestion output
type ReviseResponse struct {
	// Suggestions is the generated markdown suggestion text
	Suggestions string

	// ReferencedClaims are the claim numbers the suggestions actually
	// mention (for verification)
	ReferencedClaims []int

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictReferences enforces the claim-number allowlist (should always
	// be true)
	StrictReferences bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:         "", // Disabled by default
		Model:            "",
		Timeout:          30,
		StrictReferences: true, // CRITICAL: Always enforce
		MaxTokens:        1000,
	}
}

// BuildPrompt constructs the default revision prompt with strict reference mode
func BuildPrompt(report model.AnalysisReport, allowedClaims []int) string {
	prompt := fmt.Sprintf(`You are revising patent claims flagged by a structural dependency check. The check finds numbering and reference problems - it NEVER judges validity or patentability, and neither should you.

CRITICAL RULES:
1. You MUST ONLY reference claim numbers from this allowed list:
%s

2. DO NOT invent claims, renumber claims, or reference any claim outside this list.
3. If a finding cannot be fixed by amending claim text, state that explicitly.
4. Suggest the smallest amendment that resolves each finding.
5. Never comment on validity or patentability - only structure.

Claim Set Summary:
- Subject: %s
- Claims: %d (%d independent, %d dependent)
- Findings: %d errors, %d warnings

Findings:
`, joinClaimNumbers(allowedClaims), report.Subject, report.ClaimCount,
		report.Stats.Independent, report.Stats.Dependent,
		report.Stats.Errors, report.Stats.Warnings)

	// Cap the finding list to keep the prompt small
	for i, issue := range report.Issues {
		if i >= 10 {
			prompt += fmt.Sprintf("... and %d more findings\n", len(report.Issues)-10)
			break
		}
		prompt += fmt.Sprintf("- %s\n", issue.String())
	}

	prompt += "\nClaims:\n"
	for _, claim := range report.Claims {
		prompt += fmt.Sprintf("- Claim %d (%s): %s\n", claim.Number, claim.Type, clipText(claim.Text, 160))
	}

	prompt += "\nProvide one short suggestion per finding, as a markdown list."

	return prompt
}

// Helper functions

func joinClaimNumbers(nums []int) string {
	if len(nums) == 0 {
		return "(No claims available)"
	}
	result := ""
	for i, n := range nums {
		if i >= 50 { // Limit to first 50 to avoid token bloat
			result += fmt.Sprintf("\n... and %d more claims", len(nums)-50)
			break
		}
		result += fmt.Sprintf("\n- claim %d", n)
	}
	return result
}

func clipText(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// checkAllowed verifies every referenced claim number is on the allowlist
func checkAllowed(refs, allowed []int) error {
	for _, n := range refs {
		if !containsInt(allowed, n) {
			return fmt.Errorf("REFERENCE LEAK: suggestion references claim %d outside the claim set", n)
		}
	}
	return nil
}

// extractClaimRefs extracts the claim numbers a suggestion text mentions
func extractClaimRefs(text string) []int {
	return parse.References(text)
}

// containsInt checks if a slice contains an int
func containsInt(nums []int, n int) bool {
	for _, v := range nums {
		if v == n {
			return true
		}
	}
	return false
}
