package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anicholas99/claimgraph/internal/llm"
	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	llmProvider string
	llmModel    string
	reviseOut   string
)

// reviseCmd represents the revise command
var reviseCmd = &cobra.Command{
	Use:   "revise",
	Short: "Draft amendment suggestions for a stored invention",
	Long: `Revise analyzes a stored invention and asks an LLM provider to draft
amendment suggestions for the findings. Suggestions are advisory text:
nothing is ever written back to the claim store, and any suggestion that
references a claim number outside the set is rejected.

Provider credentials come from the environment:
  openai     OPENAI_API_KEY
  anthropic  ANTHROPIC_API_KEY
  ollama     OLLAMA_BASE_URL (optional, default http://localhost:11434)

Example:
  claimgraph revise --invention "Fluid dispenser"
  claimgraph revise --invention 1f0c... --llm-provider anthropic --out suggestions.md`,
	Args: cobra.NoArgs,
	RunE: runRevise,
}

func init() {
	rootCmd.AddCommand(reviseCmd)

	reviseCmd.Flags().StringVar(&invention, "invention", "", "stored invention id or title (required)")
	reviseCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	reviseCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
	reviseCmd.Flags().StringVar(&reviseOut, "out", "", "write suggestions to a file (default: stdout)")
	_ = reviseCmd.MarkFlagRequired("invention")
}

func runRevise(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("llm-provider") || cfg.LLM.Provider == "" {
		cfg.LLM.Provider = llmProvider
	}
	if cmd.Flags().Changed("llm-model") || cfg.LLM.Model == "" {
		cfg.LLM.Model = llmModel
	}
	if err := applyLLMEnv(cfg); err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	if !p.ReviserEnabled() {
		return fmt.Errorf("no LLM provider configured")
	}

	inv, err := p.Store().FindInvention(ctx, invention)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Generating suggestions with %s/%s...\n", cfg.LLM.Provider, cfg.LLM.Model)
	}

	report, notes, err := p.Revise(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("revise failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Consistency index: %d/100\n", report.Score.Index)
		fmt.Fprintln(os.Stderr)
	}

	text := llm.RenderSeparateMarkdown(notes)
	if text == "" {
		if notes != nil {
			for _, warning := range notes.Warnings {
				fmt.Fprintf(os.Stderr, "  %s\n", warning)
			}
		}
		return fmt.Errorf("no suggestions generated")
	}

	if reviseOut == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(reviseOut, []byte(text), 0644); err != nil {
		return fmt.Errorf("write suggestions: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote suggestions: %s\n", reviseOut)

	return nil
}

// applyLLMEnv fills provider credentials from the environment, the only
// place API keys are accepted from.
func applyLLMEnv(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}
