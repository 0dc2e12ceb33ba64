package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Inspect and manage stored products",
}

var productShowCmd = &cobra.Command{
	Use:   "show [product-id]",
	Short: "Show a product with its coverage and conditions",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductShow,
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products grouped by company",
	Args:  cobra.NoArgs,
	RunE:  runProductList,
}

var productSearchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search products",
	Long: `Searches titles, keywords and content. Title matches rank first, then
keyword matches, then content matches; newer products first within each.
An empty text lists everything that passes the filters.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProductSearch,
}

var productUpdateCmd = &cobra.Command{
	Use:   "update [product-id]",
	Short: "Edit a product and rescore it",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductUpdate,
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete [product-id]",
	Short: "Delete a product, or every product with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProductDelete,
}

var productCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	Args:  cobra.NoArgs,
	RunE:  runProductCategories,
}

var productKeywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List product keywords",
	Args:  cobra.NoArgs,
	RunE:  runProductKeywords,
}

var (
	productJSON bool

	productType     string
	searchCategory  []string
	searchKeyword   []string
	searchCompanyID []int64
	searchLimit     int
	searchOffset    int

	updateTitle    string
	updateContent  string
	updateKeywords string
	updateCategory string
	updateData     string

	deleteAll bool
	deleteYes bool
)

func init() {
	productCmd.PersistentFlags().BoolVar(&productJSON, "json", false, "output as JSON")

	productListCmd.Flags().StringVarP(&productType, "type", "t", "", "company type: life or non-life")

	productSearchCmd.Flags().StringVarP(&productType, "type", "t", "", "company type: life or non-life")
	productSearchCmd.Flags().StringSliceVar(&searchCategory, "category", nil, "restrict to categories")
	productSearchCmd.Flags().StringSliceVar(&searchKeyword, "keyword", nil, "restrict to keywords")
	productSearchCmd.Flags().Int64SliceVar(&searchCompanyID, "company", nil, "restrict to company ids")
	productSearchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results (0 = all)")
	productSearchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")

	productUpdateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	productUpdateCmd.Flags().StringVar(&updateContent, "content", "", "new content")
	productUpdateCmd.Flags().StringVar(&updateKeywords, "keywords", "", "comma-separated keywords")
	productUpdateCmd.Flags().StringVar(&updateCategory, "category", "", "new category")
	productUpdateCmd.Flags().StringVar(&updateData, "data", "", "structured data JSON file replacing coverage and conditions")

	productDeleteCmd.Flags().BoolVar(&deleteAll, "all", false, "delete every product")
	productDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "confirm --all")

	productCmd.AddCommand(productShowCmd)
	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productSearchCmd)
	productCmd.AddCommand(productUpdateCmd)
	productCmd.AddCommand(productDeleteCmd)
	productCmd.AddCommand(productCategoriesCmd)
	productCmd.AddCommand(productKeywordsCmd)
	rootCmd.AddCommand(productCmd)
}

func runProductShow(cmd *cobra.Command, args []string) error {
	if productService == nil {
		return fmt.Errorf("product %w", errNoService)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	details, err := productService.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}

	var score *domain.ScoreSnapshot
	if scoreService != nil {
		score, err = scoreService.GetScore(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get score: %w", err)
		}
	}

	if productJSON {
		return printJSON(cmd, domain.ProductComparison{Details: *details, Score: score})
	}
	printDetails(cmd, details)
	if score != nil {
		cmd.Println()
		cmd.Println("  Score:")
		printScore(cmd, score)
	}
	return nil
}

func printDetails(cmd *cobra.Command, details *domain.ProductDetails) {
	p := details.Product
	cmd.Printf("Product %d: %s\n\n", p.ID, p.Title)
	cmd.Printf("  Company:  %s (%s)\n", p.CompanyName, p.CompanyType.Label())
	if p.Category != nil {
		cmd.Printf("  Category: %s\n", *p.Category)
	}
	if p.PremiumAmount != nil {
		cmd.Printf("  Premium:  %s\n", formatWon(*p.PremiumAmount))
	}
	if p.CoveragePeriod != nil {
		cmd.Printf("  Period:   %s\n", *p.CoveragePeriod)
	}
	if p.Keywords != "" {
		cmd.Printf("  Keywords: %s\n", strings.Join(p.KeywordList(), ", "))
	}
	if p.FilePath != "" {
		cmd.Printf("  Source:   %s\n", p.FilePath)
	}
	cmd.Printf("  Updated:  %s (v%d)\n", p.UpdatedAt.Format("2006-01-02 15:04:05"), p.Version)

	if len(details.Amounts) > 0 {
		cmd.Println("\n  Coverage:")
		for _, a := range details.Amounts {
			line := fmt.Sprintf("    %s %s", pad(a.Category, 12), formatWon(a.Amount))
			if a.Condition != nil && *a.Condition != "" {
				line += " (" + *a.Condition + ")"
			}
			cmd.Println(line)
		}
	}
	if len(details.Conditions) > 0 {
		cmd.Println("\n  Special conditions:")
		for _, c := range details.Conditions {
			cmd.Printf("    - %s\n", c.Name)
		}
	}
}

func runProductList(cmd *cobra.Command, _ []string) error {
	if productService == nil {
		return fmt.Errorf("product %w", errNoService)
	}
	companyType, err := domain.ParseCompanyType(productType)
	if err != nil {
		return err
	}

	groups, err := productService.GroupedByCompany(cmd.Context(), companyType)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	if productJSON {
		return printJSON(cmd, groups)
	}
	if len(groups) == 0 {
		cmd.Println("No products found.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	total := 0
	for _, g := range groups {
		cmd.Println(st.Heading.Render(fmt.Sprintf("%s (%s)", g.CompanyName, g.CompanyType.Label())))
		for _, p := range g.Products {
			cmd.Printf("  %s %s\n", pad(fmt.Sprint(p.ID), 6), p.Title)
		}
		cmd.Println()
		total += len(g.Products)
	}
	cmd.Printf("Total: %d products from %d companies\n", total, len(groups))
	return nil
}

func runProductSearch(cmd *cobra.Command, args []string) error {
	if productService == nil {
		return fmt.Errorf("product %w", errNoService)
	}
	companyType, err := domain.ParseCompanyType(productType)
	if err != nil {
		return err
	}

	query := domain.ProductQuery{
		CompanyType: companyType,
		CompanyIDs:  searchCompanyID,
		Categories:  searchCategory,
		Keywords:    searchKeyword,
		Limit:       searchLimit,
		Offset:      searchOffset,
	}
	if len(args) == 1 {
		query.Text = args[0]
	}

	result, err := productService.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if productJSON {
		return printJSON(cmd, result)
	}
	if result.TotalCount == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range result.Products {
		p := &result.Products[i]
		cmd.Printf("  [%d] %s (#%d)\n", searchOffset+i+1, p.Title, p.ID)
		cmd.Printf("      %s, %s\n", p.CompanyName, p.CompanyType.Label())
		if p.Category != nil {
			cmd.Printf("      Category: %s\n", *p.Category)
		}
	}
	cmd.Println()
	cmd.Printf("Showing %d of %d\n", len(result.Products), result.TotalCount)
	return nil
}

func runProductUpdate(cmd *cobra.Command, args []string) error {
	if productService == nil {
		return fmt.Errorf("product %w", errNoService)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var update domain.ProductUpdate
	flags := cmd.Flags()
	if flags.Changed("title") {
		update.Title = &updateTitle
	}
	if flags.Changed("content") {
		update.Content = &updateContent
	}
	if flags.Changed("keywords") {
		joined := strings.Join(domain.SplitKeywords(updateKeywords), ",")
		update.Keywords = &joined
	}
	if flags.Changed("category") {
		update.Category = &updateCategory
	}
	if updateData != "" {
		data, err := readInput(cmd, updateData)
		if err != nil {
			return err
		}
		var sd domain.StructuredData
		if err := json.Unmarshal(data, &sd); err != nil {
			return fmt.Errorf("%w: structured data: %w", domain.ErrInvalidInput, err)
		}
		update.StructuredData = &sd
	}
	if update == (domain.ProductUpdate{}) {
		return errors.New("nothing to update: pass at least one of --title, --content, --keywords, --category, --data")
	}

	details, err := productService.Update(cmd.Context(), id, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if productJSON {
		return printJSON(cmd, details)
	}
	cmd.Printf("Updated product %d (v%d).\n", id, details.Product.Version)
	return nil
}

func runProductDelete(cmd *cobra.Command, args []string) error {
	if productService == nil {
		return fmt.Errorf("product %w", errNoService)
	}

	if deleteAll {
		if len(args) > 0 {
			return errors.New("--all takes no product id")
		}
		if !deleteYes {
			return errors.New("refusing to delete every product without --yes")
		}
		n, err := productService.DeleteAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to delete products: %w", err)
		}
		cmd.Printf("Deleted %d products.\n", n)
		return nil
	}

	if len(args) == 0 {
		return errors.New("pass a product id or --all")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := productService.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	cmd.Printf("Deleted product %d.\n", id)
	return nil
}

func runProductCategories(cmd *cobra.Command, _ []string) error {
	if productService == nil {
		return fmt.Errorf("product %w", errNoService)
	}
	categories, err := productService.Categories(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	return printList(cmd, categories, "No categories found.")
}

func runProductKeywords(cmd *cobra.Command, _ []string) error {
	if productService == nil {
		return fmt.Errorf("product %w", errNoService)
	}
	keywords, err := productService.Keywords(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list keywords: %w", err)
	}
	return printList(cmd, keywords, "No keywords found.")
}

func printList(cmd *cobra.Command, items []string, empty string) error {
	if productJSON {
		if items == nil {
			items = []string{}
		}
		return printJSON(cmd, items)
	}
	if len(items) == 0 {
		cmd.Println(empty)
		return nil
	}
	for _, item := range items {
		cmd.Println(item)
	}
	return nil
}
