package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/anicholas99/claimgraph/internal/pipeline"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored inventions",
	Long:  `Display every stored invention with its id, claim count and title.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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

	inventions, err := p.Store().ListInventions(ctx)
	if err != nil {
		return fmt.Errorf("list inventions: %w", err)
	}

	if len(inventions) == 0 {
		fmt.Println("No inventions stored yet.")
		fmt.Println("Import one with: claimgraph import <file|url>")
		return nil
	}

	fmt.Printf("%-36s  %6s  %-16s  %s\n", "ID", "CLAIMS", "UPDATED", "TITLE")
	for _, inv := range inventions {
		claims, err := p.Store().ListClaims(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("list claims for %s: %w", inv.ID, err)
		}
		fmt.Printf("%-36s  %6d  %-16s  %s\n",
			inv.ID, len(claims), inv.UpdatedAt.Format("2006-01-02 15:04"), inv.Title)
	}

	return nil
}
