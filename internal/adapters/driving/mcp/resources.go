package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

const uriScheme = "covrank://"

// productResource is the JSON body of a product resource.
type productResource struct {
	Details *domain.ProductDetails `json:"details"`
	Score   *domain.ScoreSnapshot  `json:"score,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "companies",
		Name:        "companies",
		Description: "Insurers known to the catalogue",
		MIMEType:    "application/json",
	}, s.handleCompaniesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Distinct product categories",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "products/{productId}",
		Name:        "product",
		Description: "A product with its coverage amounts, special conditions and latest score",
		MIMEType:    "application/json",
	}, s.handleProductResource)
}

func (s *Server) handleCompaniesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if s.ports.Companies == nil {
		return jsonResource(req.Params.URI, []domain.Company{})
	}

	companies, err := s.ports.Companies.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	return jsonResource(req.Params.URI, companies)
}

func (s *Server) handleCategoriesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if s.ports.Products == nil {
		return jsonResource(req.Params.URI, []string{})
	}

	categories, err := s.ports.Products.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return jsonResource(req.Params.URI, categories)
}

func (s *Server) handleProductResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if s.ports.Products == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id, ok := extractProductID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	details, err := s.ports.Products.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	score, err := s.ports.Score.GetScore(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting score of product %d: %w", id, err)
	}

	return jsonResource(req.Params.URI, productResource{Details: details, Score: score})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractProductID parses covrank://products/{productId}.
func extractProductID(uri string) (int64, bool) {
	const prefix = uriScheme + "products/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
