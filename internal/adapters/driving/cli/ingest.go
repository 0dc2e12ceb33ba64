package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

var (
	ingestCompany string
	ingestType    string
	ingestSource  string
	ingestJSON    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [extraction.json]",
	Short: "Store products extracted from a brochure",
	Long: `Reads an extraction result and stores its products, replacing any
products previously extracted from the same source file. Every stored
product is scored immediately.

The input is a JSON object with companyName, companyType, file and products,
or a bare array of products when --company, --type and --source are given.
Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCompany, "company", "", "insurer name (overrides the input)")
	ingestCmd.Flags().StringVar(&ingestType, "type", "", "life or non-life (overrides the input)")
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "source file path (overrides the input)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if productService == nil {
		return fmt.Errorf("product %w", errNoService)
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	req, err := parseIngestRequest(data)
	if err != nil {
		return err
	}

	if ingestCompany != "" {
		req.CompanyName = ingestCompany
	}
	if ingestType != "" {
		ct, err := domain.ParseCompanyType(ingestType)
		if err != nil {
			return err
		}
		req.CompanyType = ct
	}
	if ingestSource != "" {
		req.File.Path = ingestSource
	}
	if req.File.Path != "" && req.File.ModTime == nil {
		req.File.ModTime = modTime(req.File.Path)
	}

	report, err := productService.Ingest(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		return printJSON(cmd, report)
	}

	cmd.Printf("Batch %s\n", report.BatchID)
	cmd.Printf("  Created:  %d\n", report.Created)
	cmd.Printf("  Replaced: %d\n", report.Updated)
	if len(report.Errors) > 0 {
		cmd.Printf("  Errors:   %d\n", len(report.Errors))
		for _, e := range report.Errors {
			cmd.Printf("    - %s\n", e)
		}
	}
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// parseIngestRequest accepts a full request object or a bare product array.
func parseIngestRequest(data []byte) (domain.IngestRequest, error) {
	var req domain.IngestRequest
	if err := json.Unmarshal(data, &req); err == nil {
		return req, nil
	}

	var products []domain.ExtractedProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return req, fmt.Errorf("%w: input is neither an ingest request nor a product list: %w", domain.ErrInvalidInput, err)
	}
	req.Products = products
	return req, nil
}

func modTime(path string) *time.Time {
	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return nil
	}
	t := info.ModTime().UTC()
	return &t
}
