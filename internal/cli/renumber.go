package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/anicholas99/claimgraph/internal/pipeline"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

var (
	renumberApply bool
	renumberDiff  bool
)

// renumberCmd represents the renumber command
var renumberCmd = &cobra.Command{
	Use:   "renumber",
	Short: "Renumber a stored claim set sequentially",
	Long: `Renumber computes a sequential numbering for a stored claim set and
rewrites every cross-reference to match, preserving claim order. The plan
is a preview unless --apply is set; application is a single transaction,
so a claim set is never left half renumbered.

A set with reference errors (duplicates, missing or circular references)
is refused: renumbering such a set would silently change its meaning.

Example:
  claimgraph renumber --invention "Fluid dispenser"
  claimgraph renumber --invention 1f0c... --diff
  claimgraph renumber --invention 1f0c... --apply`,
	Args: cobra.NoArgs,
	RunE: runRenumber,
}

func init() {
	rootCmd.AddCommand(renumberCmd)

	renumberCmd.Flags().StringVar(&invention, "invention", "", "stored invention id or title (required)")
	renumberCmd.Flags().BoolVar(&renumberApply, "apply", false, "apply the plan to the claim store")
	renumberCmd.Flags().BoolVar(&renumberDiff, "diff", false, "show text diffs for rewritten claims")
	_ = renumberCmd.MarkFlagRequired("invention")
}

func runRenumber(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	inv, err := p.Store().FindInvention(ctx, invention)
	if err != nil {
		return err
	}

	plan, err := p.Renumber(ctx, inv.ID, renumberApply)
	if err != nil {
		return fmt.Errorf("renumber failed: %w", err)
	}

	if plan.IsNoOp() {
		fmt.Println(plan.Summary())
		return nil
	}

	for _, ch := range plan.Changes {
		fmt.Printf("claim %d -> %d\n", ch.OldNumber, ch.NewNumber)
		if renumberDiff && ch.OldText != ch.NewText {
			fmt.Print(textDiff(ch.OldText, ch.NewText))
		}
	}
	fmt.Println(plan.Summary())

	if renumberApply {
		fmt.Printf("✓ Applied to %q\n", inv.Title)
	} else {
		fmt.Printf("\nPreview only. Re-run with --apply to update %q.\n", inv.Title)
	}

	return nil
}

// textDiff renders an inline character diff between two claim texts,
// deletions and insertions colored for the terminal.
func textDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return "  " + dmp.DiffPrettyText(diffs) + "\n"
}
