package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dedupeJSON bool

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate products",
	Long: `Finds products with the same company and title and deletes all but the
most recently updated one, together with their coverage, conditions and
scores. Running it again removes nothing.`,
	Args: cobra.NoArgs,
	RunE: runDedupe,
}

func init() {
	dedupeCmd.Flags().BoolVar(&dedupeJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(dedupeCmd)
}

func runDedupe(cmd *cobra.Command, _ []string) error {
	if duplicateService == nil {
		return fmt.Errorf("duplicate %w", errNoService)
	}

	report, err := duplicateService.RemoveDuplicates(cmd.Context())
	if err != nil {
		return fmt.Errorf("duplicate removal failed: %w", err)
	}

	if dedupeJSON {
		return printJSON(cmd, report)
	}

	if report.DuplicateGroupCount == 0 {
		cmd.Println("No duplicates found.")
		return nil
	}
	cmd.Printf("Removed %d duplicates across %d groups.\n", report.DeletedCount, report.DuplicateGroupCount)
	if len(report.DeletedIDs) > 0 {
		cmd.Printf("Deleted IDs: %v\n", report.DeletedIDs)
	}
	return nil
}
