package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

// RankInput is the input schema for the rank_products tool.
type RankInput struct {
	CompanyType string `json:"company_type,omitempty" jsonschema:"life or non-life; empty ranks every product"`
	Limit       int    `json:"limit,omitempty" jsonschema:"maximum number of products to return; 0 returns all"`
}

// RankOutput is the output schema for the rank_products tool.
type RankOutput struct {
	Products       []RankedProductOutput `json:"products"`
	TotalCount     int                   `json:"total_count"`
	DisplayedCount int                   `json:"displayed_count"`
}

// RankedProductOutput is one row of a ranking.
type RankedProductOutput struct {
	Rank        int          `json:"rank"`
	ProductID   int64        `json:"product_id"`
	Title       string       `json:"title"`
	CompanyName string       `json:"company_name"`
	CompanyType string       `json:"company_type"`
	Category    string       `json:"category,omitempty"`
	Score       *ScoreOutput `json:"score,omitempty"`
}

// ScoreOutput is a score snapshot.
type ScoreOutput struct {
	Total            float64 `json:"total"`
	Coverage         float64 `json:"coverage"`
	Premium          float64 `json:"premium"`
	SpecialCondition float64 `json:"special_condition"`
	CalculatedAt     string  `json:"calculated_at"`
}

// ProductIDInput identifies one product.
type ProductIDInput struct {
	ProductID int64 `json:"product_id" jsonschema:"the product id"`
}

// ScoreResult is the output schema for the score tools.
type ScoreResult struct {
	ProductID int64        `json:"product_id"`
	Scored    bool         `json:"scored"`
	Score     *ScoreOutput `json:"score,omitempty"`
}

// DedupInput is the (empty) input schema for remove_duplicates.
type DedupInput struct{}

// DedupOutput is the output schema for remove_duplicates.
type DedupOutput struct {
	DeletedCount        int     `json:"deleted_count"`
	DeletedIDs          []int64 `json:"deleted_ids"`
	DuplicateGroupCount int     `json:"duplicate_group_count"`
}

// SearchInput is the input schema for the search_products tool.
type SearchInput struct {
	Query       string `json:"query,omitempty" jsonschema:"text matched against title, keywords and content"`
	CompanyType string `json:"company_type,omitempty" jsonschema:"life or non-life"`
	Category    string `json:"category,omitempty" jsonschema:"restrict to one product category"`
	Keyword     string `json:"keyword,omitempty" jsonschema:"restrict to products tagged with this keyword"`
	Limit       int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 10)"`
	Offset      int    `json:"offset,omitempty" jsonschema:"number of results to skip"`
}

// SearchOutput is the output schema for the search_products tool.
type SearchOutput struct {
	Products   []ProductOutput `json:"products"`
	Count      int             `json:"count"`
	TotalCount int             `json:"total_count"`
}

// ProductOutput is a product summary.
type ProductOutput struct {
	ProductID      int64    `json:"product_id"`
	Title          string   `json:"title"`
	CompanyName    string   `json:"company_name"`
	CompanyType    string   `json:"company_type"`
	Category       string   `json:"category,omitempty"`
	PremiumAmount  *float64 `json:"premium_amount,omitempty"`
	CoveragePeriod string   `json:"coverage_period,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
}

// CompareInput is the input schema for compare_products.
type CompareInput struct {
	ProductIDs []int64 `json:"product_ids" jsonschema:"two or more product ids"`
}

// CompareOutput is the output schema for compare_products.
type CompareOutput struct {
	Products []ComparedProductOutput `json:"products"`
}

// ComparedProductOutput is one product in a comparison.
type ComparedProductOutput struct {
	Product           ProductOutput  `json:"product"`
	CoverageAmounts   []AmountOutput `json:"coverage_amounts"`
	SpecialConditions []string       `json:"special_conditions"`
	Score             *ScoreOutput   `json:"score,omitempty"`
}

// AmountOutput is one coverage amount.
type AmountOutput struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CategoryInput is the input schema for compare_category.
type CategoryInput struct {
	Category    string `json:"category" jsonschema:"coverage category such as 암 or 뇌혈관"`
	CompanyType string `json:"company_type,omitempty" jsonschema:"life or non-life"`
}

// CategoryOutput is the output schema for compare_category.
type CategoryOutput struct {
	Category string           `json:"category"`
	Offers   []CategoryOffers `json:"offers"`
}

// CategoryOffers is one product's total amount for a category.
type CategoryOffers struct {
	Product ProductOutput `json:"product"`
	Amount  float64       `json:"amount"`
}

const defaultSearchLimit = 10

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rank_products",
		Description: "Rank insurance products by total score, highest first. Unscored products follow the scored ones.",
	}, s.handleRank)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_score",
		Description: "Return the latest stored score of a product without computing a new one",
	}, s.handleGetScore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compute_score",
		Description: "Compute and store a fresh score for a product",
	}, s.handleComputeScore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_duplicates",
		Description: "Delete products sharing company and title, keeping the most recently updated one",
	}, s.handleRemoveDuplicates)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_products",
		Description: "Search products by text, company type, category or keyword",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_products",
		Description: "Put two or more products side by side with their coverage and scores",
	}, s.handleCompare)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_category",
		Description: "List products covering a category, largest total amount first",
	}, s.handleCompareCategory)
}

func (s *Server) handleRank(ctx context.Context, _ *mcp.CallToolRequest, input RankInput) (*mcp.CallToolResult, RankOutput, error) {
	companyType, err := domain.ParseCompanyType(input.CompanyType)
	if err != nil {
		return nil, RankOutput{}, err
	}

	ranking, err := s.ports.Ranking.Ranking(ctx, domain.RankingOptions{
		CompanyType: companyType,
		Limit:       input.Limit,
	})
	if err != nil {
		return nil, RankOutput{}, err
	}

	output := RankOutput{
		Products:       make([]RankedProductOutput, len(ranking.Products)),
		TotalCount:     ranking.TotalCount,
		DisplayedCount: ranking.DisplayedCount,
	}
	for i, r := range ranking.Products {
		output.Products[i] = RankedProductOutput{
			Rank:        i + 1,
			ProductID:   r.Product.ID,
			Title:       r.Product.Title,
			CompanyName: r.Product.CompanyName,
			CompanyType: string(r.Product.CompanyType),
			Category:    deref(r.Product.Category),
			Score:       scoreOutput(r.Score),
		}
	}
	return nil, output, nil
}

func (s *Server) handleGetScore(ctx context.Context, _ *mcp.CallToolRequest, input ProductIDInput) (*mcp.CallToolResult, ScoreResult, error) {
	snap, err := s.ports.Score.GetScore(ctx, input.ProductID)
	if err != nil {
		return nil, ScoreResult{}, err
	}
	return nil, scoreResult(input.ProductID, snap), nil
}

func (s *Server) handleComputeScore(ctx context.Context, _ *mcp.CallToolRequest, input ProductIDInput) (*mcp.CallToolResult, ScoreResult, error) {
	snap, err := s.ports.Score.ComputeScore(ctx, input.ProductID)
	if err != nil {
		return nil, ScoreResult{}, err
	}
	return nil, scoreResult(input.ProductID, snap), nil
}

func (s *Server) handleRemoveDuplicates(ctx context.Context, _ *mcp.CallToolRequest, _ DedupInput) (*mcp.CallToolResult, DedupOutput, error) {
	if s.ports.Duplicates == nil {
		return nil, DedupOutput{}, fmt.Errorf("remove_duplicates: %w", ErrServiceUnavailable)
	}

	report, err := s.ports.Duplicates.RemoveDuplicates(ctx)
	if err != nil {
		return nil, DedupOutput{}, err
	}
	return nil, DedupOutput{
		DeletedCount:        report.DeletedCount,
		DeletedIDs:          report.DeletedIDs,
		DuplicateGroupCount: report.DuplicateGroupCount,
	}, nil
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if s.ports.Products == nil {
		return nil, SearchOutput{}, fmt.Errorf("search_products: %w", ErrServiceUnavailable)
	}
	companyType, err := domain.ParseCompanyType(input.CompanyType)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	query := domain.ProductQuery{
		Text:        input.Query,
		CompanyType: companyType,
		Limit:       limit,
		Offset:      input.Offset,
	}
	if input.Category != "" {
		query.Categories = []string{input.Category}
	}
	if input.Keyword != "" {
		query.Keywords = []string{input.Keyword}
	}

	result, err := s.ports.Products.Search(ctx, query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Products:   make([]ProductOutput, len(result.Products)),
		Count:      len(result.Products),
		TotalCount: result.TotalCount,
	}
	for i := range result.Products {
		output.Products[i] = productOutput(&result.Products[i])
	}
	return nil, output, nil
}

func (s *Server) handleCompare(ctx context.Context, _ *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, CompareOutput, error) {
	if s.ports.Compare == nil {
		return nil, CompareOutput{}, fmt.Errorf("compare_products: %w", ErrServiceUnavailable)
	}

	comparisons, err := s.ports.Compare.Compare(ctx, input.ProductIDs)
	if err != nil {
		return nil, CompareOutput{}, err
	}

	output := CompareOutput{Products: make([]ComparedProductOutput, len(comparisons))}
	for i, c := range comparisons {
		out := ComparedProductOutput{
			Product:           productOutput(&c.Details.Product),
			CoverageAmounts:   make([]AmountOutput, len(c.Details.Amounts)),
			SpecialConditions: make([]string, len(c.Details.Conditions)),
			Score:             scoreOutput(c.Score),
		}
		for j, a := range c.Details.Amounts {
			out.CoverageAmounts[j] = AmountOutput{Category: a.Category, Amount: a.Amount}
		}
		for j, sc := range c.Details.Conditions {
			out.SpecialConditions[j] = sc.Name
		}
		output.Products[i] = out
	}
	return nil, output, nil
}

func (s *Server) handleCompareCategory(ctx context.Context, _ *mcp.CallToolRequest, input CategoryInput) (*mcp.CallToolResult, CategoryOutput, error) {
	if s.ports.Compare == nil {
		return nil, CategoryOutput{}, fmt.Errorf("compare_category: %w", ErrServiceUnavailable)
	}
	companyType, err := domain.ParseCompanyType(input.CompanyType)
	if err != nil {
		return nil, CategoryOutput{}, err
	}

	offers, err := s.ports.Compare.CompareByCategory(ctx, input.Category, companyType)
	if err != nil {
		return nil, CategoryOutput{}, err
	}

	output := CategoryOutput{Category: input.Category, Offers: make([]CategoryOffers, len(offers))}
	for i := range offers {
		output.Offers[i] = CategoryOffers{
			Product: productOutput(&offers[i].Product),
			Amount:  offers[i].Amount,
		}
	}
	return nil, output, nil
}

func scoreOutput(snap *domain.ScoreSnapshot) *ScoreOutput {
	if snap == nil {
		return nil
	}
	return &ScoreOutput{
		Total:            snap.TotalScore,
		Coverage:         snap.CoverageScore,
		Premium:          snap.PremiumScore,
		SpecialCondition: snap.SpecialConditionScore,
		CalculatedAt:     snap.CalculatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func scoreResult(id int64, snap *domain.ScoreSnapshot) ScoreResult {
	return ScoreResult{ProductID: id, Scored: snap != nil, Score: scoreOutput(snap)}
}

func productOutput(p *domain.Product) ProductOutput {
	return ProductOutput{
		ProductID:      p.ID,
		Title:          p.Title,
		CompanyName:    p.CompanyName,
		CompanyType:    string(p.CompanyType),
		Category:       deref(p.Category),
		PremiumAmount:  p.PremiumAmount,
		CoveragePeriod: deref(p.CoveragePeriod),
		Keywords:       p.KeywordList(),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
