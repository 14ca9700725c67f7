package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anicholas99/claimgraph/internal/model"
)

// Reviser turns analysis findings into optional LLM-drafted amendment
// suggestions. Suggestions are generated after analysis and never feed
// back into it.
type Reviser struct {
	provider Provider
	config   Config
}

// NewReviser creates a reviser from configuration. An empty provider name
// yields a disabled reviser, not an error.
func NewReviser(config Config) (*Reviser, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	return &Reviser{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (r *Reviser) IsEnabled() bool {
	return r.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled
func (r *Reviser) ProviderName() string {
	if r.provider == nil {
		return ""
	}
	return r.provider.Name()
}

// Suggest generates revision notes for a report. Provider failures degrade
// to notes carrying warnings; they never fail the caller's analysis.
func (r *Reviser) Suggest(ctx context.Context, report model.AnalysisReport) (*model.RevisionNotes, error) {
	if r.provider == nil {
		return nil, nil
	}

	if !r.provider.IsAvailable(ctx) {
		return &model.RevisionNotes{
			Enabled:          false,
			Provider:         r.provider.Name(),
			StrictReferences: r.config.StrictReferences,
			Warnings: []string{
				fmt.Sprintf("Provider %s is not available; no suggestions generated", r.provider.Name()),
			},
		}, nil
	}

	allowed := make([]int, 0, len(report.Claims))
	for _, claim := range report.Claims {
		allowed = append(allowed, claim.Number)
	}

	resp, err := r.provider.Revise(ctx, ReviseRequest{
		Report:        report,
		AllowedClaims: allowed,
		Model:         r.config.Model,
		MaxTokens:     r.config.MaxTokens,
	})
	if err != nil {
		return &model.RevisionNotes{
			Enabled:          true,
			Provider:         r.provider.Name(),
			Model:            r.config.Model,
			StrictReferences: r.config.StrictReferences,
			Warnings: []string{
				fmt.Sprintf("Suggestion generation failed: %v", err),
			},
		}, nil
	}

	return &model.RevisionNotes{
		Enabled:          true,
		Provider:         r.provider.Name(),
		Model:            resp.Model,
		StrictReferences: r.config.StrictReferences,
		SuggestionsMD:    resp.Suggestions,
		Warnings: []string{
			fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
			fmt.Sprintf("Verified %d claim references against the claim set", len(resp.ReferencedClaims)),
		},
	}, nil
}

// RenderSeparateMarkdown renders revision notes as a standalone markdown
// document, kept apart from the analysis report.
func RenderSeparateMarkdown(notes *model.RevisionNotes) string {
	if notes == nil || !notes.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Revision Suggestions\n\n")
	b.WriteString("> **GENERATED CONTENT.** These suggestions were drafted by an LLM. ")
	b.WriteString("All findings in the analysis report are determined independently of this content.\n\n")

	b.WriteString(fmt.Sprintf("- **Provider:** %s\n", notes.Provider))
	if notes.Model != "" {
		b.WriteString(fmt.Sprintf("- **Model:** %s\n", notes.Model))
	}
	b.WriteString(fmt.Sprintf("- **Strict References Mode:** %t\n\n", notes.StrictReferences))

	if notes.SuggestionsMD == "" {
		b.WriteString("No suggestions generated.\n")
	} else {
		b.WriteString(notes.SuggestionsMD)
		b.WriteString("\n")
	}

	if len(notes.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, warning := range notes.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", warning))
		}
	}

	return b.String()
}
