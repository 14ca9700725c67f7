package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anicholas99/claimgraph/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	importTitle string
	importSpec  string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file|url>",
	Short: "Import a claim set from a file or patent page",
	Long: `Import reads numbered claims from a plain-text file or a patent
publication page and stores them as a new invention:
- Plain text: a line starting with "N." opens claim N
- HTML: Google Patents claim markup, with a generic text fallback
- Claims keep their stated numbers; gaps and duplicates surface at
  analysis time, never at import

Example:
  claimgraph import claims.txt
  claimgraph import claims.txt --title "Fluid dispenser" --spec description.txt
  claimgraph import https://patents.google.com/patent/US9876543B2/en`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importTitle, "title", "", "invention title (default: page or file name)")
	importCmd.Flags().StringVar(&importSpec, "spec", "", "specification text file to attach for support checks")

	// HTTP flags, used when the source is a URL
	importCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall import timeout")
	importCmd.Flags().StringVar(&userAgent, "ua", "claimgraph/0.1 (+https://github.com/anicholas99/claimgraph)", "HTTP User-Agent")
	importCmd.Flags().Int64Var(&maxBytes, "max-bytes", 4_000_000, "max response bytes to read")
	importCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	importCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
}

func runImport(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCommonFlags(cmd, cfg)

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Importing: %s\n\n", source)
	}

	var result *pipeline.ImportResult
	if pipeline.IsURL(source) {
		result, err = p.ImportURL(ctx, source)
	} else {
		result, err = p.ImportFile(ctx, source)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if importTitle != "" {
		if err := p.Store().RenameInvention(ctx, result.Invention.ID, importTitle); err != nil {
			return fmt.Errorf("set title: %w", err)
		}
		result.Invention.Title = importTitle
	}
	if importSpec != "" {
		text, err := os.ReadFile(importSpec)
		if err != nil {
			return fmt.Errorf("read specification file: %w", err)
		}
		if err := p.Store().SetSpecText(ctx, result.Invention.ID, string(text)); err != nil {
			return fmt.Errorf("attach specification: %w", err)
		}
	}

	fmt.Printf("✓ Imported %d claims as %q\n", len(result.Claims), result.Invention.Title)
	fmt.Printf("  ID:     %s\n", result.Invention.ID)
	fmt.Printf("  Source: %s\n", result.Source)
	if result.FromCache {
		fmt.Printf("  Cache:  served from cache\n")
	}
	fmt.Printf("\nNext: claimgraph analyze --invention %s\n", result.Invention.ID)

	return nil
}
