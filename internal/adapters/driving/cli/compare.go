package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

var (
	compareJSON bool
	compareType string
)

var compareCmd = &cobra.Command{
	Use:   "compare [product-id] [product-id]...",
	Short: "Compare products side by side",
	Long: `Shows two or more products with their coverage, conditions and scores.
Unknown ids are skipped; at least two products must exist.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCompare,
}

var compareCategoryCmd = &cobra.Command{
	Use:   "category [name]",
	Short: "Compare products covering a category",
	Long:  `Lists products covering a coverage category, largest total amount first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCompareCategory,
}

func init() {
	compareCmd.PersistentFlags().BoolVar(&compareJSON, "json", false, "output as JSON")
	compareCategoryCmd.Flags().StringVarP(&compareType, "type", "t", "", "company type: life or non-life")
	compareCmd.AddCommand(compareCategoryCmd)
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if compareService == nil {
		return fmt.Errorf("compare %w", errNoService)
	}

	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	comparisons, err := compareService.Compare(cmd.Context(), ids)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	if compareJSON {
		return printJSON(cmd, comparisons)
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Header.Render(fmt.Sprintf("%s %s %s %s %s %s",
		pad("Product", 28), pad("Total", 7), pad("Cov", 5), pad("Prem", 5), pad("Cond", 5), "Coverage")))
	for _, c := range comparisons {
		p := c.Details.Product
		name := pad(truncate(fmt.Sprintf("#%d %s", p.ID, p.Title), 28), 28)

		var coverage []string
		for _, a := range c.Details.Amounts {
			coverage = append(coverage, a.Category+" "+formatWon(a.Amount))
		}

		if c.Score == nil {
			cmd.Printf("%s %s %s\n", name, pad(st.Muted.Render("-"), 25), strings.Join(coverage, ", "))
			continue
		}
		cmd.Printf("%s %s %s %s %s %s\n", name,
			st.scoreStyle(c.Score.TotalScore).Render(pad(fmt.Sprintf("%.1f", c.Score.TotalScore), 7)),
			pad(fmt.Sprintf("%.0f", c.Score.CoverageScore), 5),
			pad(fmt.Sprintf("%.0f", c.Score.PremiumScore), 5),
			pad(fmt.Sprintf("%.0f", c.Score.SpecialConditionScore), 5),
			strings.Join(coverage, ", "))
	}
	return nil
}

func runCompareCategory(cmd *cobra.Command, args []string) error {
	if compareService == nil {
		return fmt.Errorf("compare %w", errNoService)
	}
	companyType, err := domain.ParseCompanyType(compareType)
	if err != nil {
		return err
	}

	offers, err := compareService.CompareByCategory(cmd.Context(), args[0], companyType)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	if compareJSON {
		if offers == nil {
			offers = []domain.CategoryOffer{}
		}
		return printJSON(cmd, offers)
	}
	if len(offers) == 0 {
		cmd.Printf("No products cover %s.\n", args[0])
		return nil
	}

	cmd.Printf("Products covering %s:\n\n", args[0])
	for i, o := range offers {
		cmd.Printf("  [%d] %s %s (#%d, %s)\n", i+1,
			pad(formatWon(o.Amount), 10), o.Product.Title, o.Product.ID, o.Product.CompanyName)
	}
	return nil
}
