package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

var (
	scoreRecompute bool
	scoreHistory   bool
	scoreJSON      bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [product-id]",
	Short: "Show the score of a product",
	Long: `Shows the latest score of a product, computing one if none is stored.

Scores are out of 100: coverage (40), premium efficiency (40) and
special conditions (20).`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreRecompute, "recompute", false, "compute a fresh score")
	scoreCmd.Flags().BoolVar(&scoreHistory, "history", false, "list every stored score, newest first")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	if scoreService == nil {
		return fmt.Errorf("score %w", errNoService)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if scoreHistory {
		history, err := scoreService.History(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load score history: %w", err)
		}
		if scoreJSON {
			return printJSON(cmd, history)
		}
		if len(history) == 0 {
			cmd.Printf("No scores stored for product %d.\n", id)
			return nil
		}
		for i := range history {
			printScore(cmd, &history[i])
		}
		return nil
	}

	var snap *domain.ScoreSnapshot
	if scoreRecompute {
		snap, err = scoreService.ComputeScore(ctx, id)
	} else {
		snap, err = scoreService.Ensure(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to score product %d: %w", id, err)
	}

	if scoreJSON {
		return printJSON(cmd, snap)
	}
	cmd.Printf("Product %d\n", id)
	printScore(cmd, snap)
	return nil
}

func printScore(cmd *cobra.Command, snap *domain.ScoreSnapshot) {
	st := stylesFor(cmd.OutOrStdout())
	cmd.Printf("  Total:              %s / 100  (%s)\n",
		st.scoreStyle(snap.TotalScore).Render(fmt.Sprintf("%.1f", snap.TotalScore)),
		snap.CalculatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Coverage:           %.1f / 40\n", snap.CoverageScore)
	cmd.Printf("  Premium:            %.1f / 40\n", snap.PremiumScore)
	cmd.Printf("  Special conditions: %.1f / 20\n", snap.SpecialConditionScore)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid product id %q", domain.ErrInvalidInput, arg)
	}
	return id, nil
}
