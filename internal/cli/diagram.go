package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anicholas99/claimgraph/internal/pipeline"
	"github.com/spf13/cobra"
)

var diagramOut string

// diagramCmd represents the diagram command
var diagramCmd = &cobra.Command{
	Use:   "diagram [file|url]",
	Short: "Render the claim dependency graph as Mermaid text",
	Long: `Diagram renders the dependency structure of a claim set as a Mermaid
flowchart: independent claims as roots, every dependent claim linked to
each claim it references. The text pastes directly into any Mermaid
renderer.

Example:
  claimgraph diagram claims.txt
  claimgraph diagram --invention "Fluid dispenser"
  claimgraph diagram --invention 1f0c... --out graph.mmd`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiagram,
}

func init() {
	rootCmd.AddCommand(diagramCmd)

	diagramCmd.Flags().StringVar(&invention, "invention", "", "render a stored invention by id or title")
	diagramCmd.Flags().StringVar(&diagramOut, "out", "", "output path (default: stdout)")
}

func runDiagram(cmd *cobra.Command, args []string) error {
	if err := checkSourceArgs(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
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

	report, err := resolveReport(ctx, p, args)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	mermaid := p.Diagram(report)
	if diagramOut == "" {
		fmt.Print(mermaid)
		return nil
	}

	if err := os.WriteFile(diagramOut, []byte(mermaid), 0644); err != nil {
		return fmt.Errorf("write diagram: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote diagram: %s\n", diagramOut)

	return nil
}
