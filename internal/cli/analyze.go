package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	insecureTLS bool
	strict      bool
	specFile    string
	invention   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|url]",
	Short: "Analyze a claim set for dependency and consistency problems",
	Long: `Analyze parses every claim, derives the dependency graph and reports
structural problems in one pass:
- Duplicate claim numbers, missing and forward references
- Circular dependency chains
- Dependency depths and mirror claim families across claim types
- Element support against a specification text (--spec)

The source is a plain-text claim file, a patent page URL, or a stored
invention (--invention, by id or title). Findings are reported all at
once; the exit status stays zero unless --strict is set and the set
contains errors.

Example:
  claimgraph analyze claims.txt
  claimgraph analyze claims.txt --spec description.txt --md report.md
  claimgraph analyze https://patents.google.com/patent/US9876543B2/en
  claimgraph analyze --invention "Fluid dispenser" --strict --json report.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Source flags
	analyzeCmd.Flags().StringVar(&invention, "invention", "", "analyze a stored invention by id or title")
	analyzeCmd.Flags().StringVar(&specFile, "spec", "", "specification text file for element support checks")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	analyzeCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the set contains errors")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// HTTP flags, used when the source is a URL
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "claimgraph/0.1 (+https://github.com/anicholas99/claimgraph)", "HTTP User-Agent")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 4_000_000, "max response bytes to read")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := checkSourceArgs(args); err != nil {
		return err
	}

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

	report, err := resolveReport(ctx, p, args)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Parsed %d claims\n", report.ClaimCount)
		fmt.Fprintf(os.Stderr, "✓ Consistency index: %d/100\n", report.Score.Index)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, nil, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if strict && !report.Clean() {
		return fmt.Errorf("analysis found %d errors", report.Stats.Errors)
	}
	return nil
}

// checkSourceArgs validates the source selection shared by analyze and
// diagram: exactly one of a positional source or --invention, and --spec
// only alongside a local claim file.
func checkSourceArgs(args []string) error {
	if len(args) == 0 && invention == "" {
		return fmt.Errorf("provide a claim file, a URL, or --invention")
	}
	if len(args) > 0 && invention != "" {
		return fmt.Errorf("provide either a claim source or --invention, not both")
	}
	if specFile != "" {
		if invention != "" {
			return fmt.Errorf("--spec applies to claim files; attach a specification to a stored invention with 'claimgraph import --spec'")
		}
		if pipeline.IsURL(args[0]) {
			return fmt.Errorf("--spec applies to local claim files only")
		}
	}
	return nil
}

// resolveReport analyzes whichever claim source the command was given: the
// stored invention when --invention is set, otherwise the positional file
// or URL.
func resolveReport(ctx context.Context, p *pipeline.Pipeline, args []string) (*model.AnalysisReport, error) {
	if invention != "" {
		inv, err := p.Store().FindInvention(ctx, invention)
		if err != nil {
			return nil, err
		}
		return p.AnalyzeInvention(ctx, inv.ID)
	}
	if pipeline.IsURL(args[0]) {
		return p.AnalyzeURL(ctx, args[0])
	}
	return p.AnalyzeFileWithSpec(args[0], specFile)
}
