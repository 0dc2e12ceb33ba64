package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

var (
	rankType  string
	rankLimit int
	rankJSON  bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank products by total score",
	Long: `Ranks products by their latest total score, highest first. Products
without a score are scored on the way; any that cannot be scored are listed
after the scored ones, newest first.

Totals within 0.01 of each other count as tied and the more recently
updated product ranks higher.`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVarP(&rankType, "type", "t", "", "company type: life or non-life")
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", 0, "maximum number of products (0 = settings default)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	if rankingService == nil {
		return fmt.Errorf("ranking %w", errNoService)
	}

	companyType, err := domain.ParseCompanyType(rankType)
	if err != nil {
		return err
	}
	limit := rankLimit
	if !cmd.Flags().Changed("limit") {
		limit = settings.DefaultLimit
	}

	ranking, err := rankingService.Ranking(cmd.Context(), domain.RankingOptions{
		CompanyType: companyType,
		Limit:       limit,
	})
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	if rankJSON {
		return printJSON(cmd, ranking)
	}
	return outputRankTable(cmd, ranking, companyType)
}

func outputRankTable(cmd *cobra.Command, ranking *domain.Ranking, companyType domain.CompanyType) error {
	if ranking.TotalCount == 0 {
		cmd.Println("No products found.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Heading.Render(fmt.Sprintf("Ranking (%s)", companyType.Label())))
	cmd.Println()

	header := fmt.Sprintf("%s %s %s %s %s %s %s",
		pad("#", 4), pad("ID", 6), pad("Product", 32), pad("Company", 16),
		pad("Total", 7), pad("Cov", 5), pad("Prem", 5)) + " Cond"
	cmd.Println(st.Header.Render(header))

	for i, r := range ranking.Products {
		title := pad(truncate(r.Product.Title, 32), 32)
		company := pad(truncate(r.Product.CompanyName, 16), 16)
		prefix := fmt.Sprintf("%s %s %s %s ", pad(fmt.Sprint(i+1), 4), pad(fmt.Sprint(r.Product.ID), 6), title, company)

		if !r.IsScored() {
			cmd.Println(prefix + st.Muted.Render("unscored"))
			continue
		}
		total := st.scoreStyle(r.Score.TotalScore).Render(pad(fmt.Sprintf("%.1f", r.Score.TotalScore), 7))
		cmd.Printf("%s%s %s %s %.0f\n", prefix, total,
			pad(fmt.Sprintf("%.0f", r.Score.CoverageScore), 5),
			pad(fmt.Sprintf("%.0f", r.Score.PremiumScore), 5),
			r.Score.SpecialConditionScore)
	}

	cmd.Println()
	cmd.Printf("Showing %d of %d products\n", ranking.DisplayedCount, ranking.TotalCount)
	return nil
}
