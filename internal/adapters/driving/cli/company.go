package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

var (
	companyType string
	companyJSON bool
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Inspect insurers",
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List insurers",
	Args:  cobra.NoArgs,
	RunE:  runCompanyList,
}

func init() {
	companyListCmd.Flags().StringVarP(&companyType, "type", "t", "", "company type: life or non-life")
	companyListCmd.Flags().BoolVar(&companyJSON, "json", false, "output as JSON")
	companyCmd.AddCommand(companyListCmd)
	rootCmd.AddCommand(companyCmd)
}

func runCompanyList(cmd *cobra.Command, _ []string) error {
	if companyService == nil {
		return fmt.Errorf("company %w", errNoService)
	}
	ct, err := domain.ParseCompanyType(companyType)
	if err != nil {
		return err
	}

	companies, err := companyService.List(cmd.Context(), ct)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}
	if companyJSON {
		if companies == nil {
			companies = []domain.Company{}
		}
		return printJSON(cmd, companies)
	}
	if len(companies) == 0 {
		cmd.Println("No companies found.")
		return nil
	}
	for _, c := range companies {
		cmd.Printf("  %s %s %s\n", pad(fmt.Sprint(c.ID), 5), pad(c.Name, 20), c.Type.Label())
	}
	return nil
}
