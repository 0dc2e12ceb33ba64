package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/covrank/internal/adapters/driven/config/file"
	"github.com/custodia-labs/covrank/internal/core/domain"
)

func TestResolveDataDir_Precedence(t *testing.T) {
	t.Setenv(file.HomeEnv, "/home/test/.covrank")

	tests := []struct {
		name                  string
		flag, env, configured string
		want                  string
	}{
		{"flag wins", "/flag", "/env", "/config", "/flag"},
		{"env over config", "", "/env", "/config", "/env"},
		{"config", "", "", "/config", "/config"},
		{"default under home", "", "", "", filepath.Join("/home/test/.covrank", "data")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDataDir(tt.flag, tt.env, tt.configured)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBootstrap_WiresSQLiteStore(t *testing.T) {
	home := t.TempDir()
	t.Setenv(file.HomeEnv, home)
	t.Setenv(DataDirEnv, "")

	svcs, closeStore, err := bootstrap("")
	require.NoError(t, err)
	defer func() { require.NoError(t, closeStore()) }()

	assert.FileExists(t, filepath.Join(home, "data", domain.DatabaseFileName))

	ctx := context.Background()
	premium := 20_000.0
	report, err := svcs.Products.Ingest(ctx, domain.IngestRequest{
		CompanyName: "삼성생명",
		CompanyType: domain.CompanyTypeLife,
		File:        domain.SourceFile{Path: "/docs/a.pdf"},
		Products: []domain.ExtractedProduct{{
			Title: "암보험",
			StructuredData: &domain.StructuredData{
				PremiumAmount:   &premium,
				CoverageAmounts: []domain.ExtractedAmount{{Category: "암", Amount: 50_000_000}},
			},
		}},
	})
	require.NoError(t, err)
	require.Len(t, report.ProductIDs, 1)

	ranking, err := svcs.Ranking.Ranking(ctx, domain.RankingOptions{CompanyType: domain.CompanyTypeLife})
	require.NoError(t, err)
	require.Len(t, ranking.Products, 1)
	assert.True(t, ranking.Products[0].IsScored())
}

func TestBootstrap_FlagDirectory(t *testing.T) {
	t.Setenv(file.HomeEnv, t.TempDir())
	dir := t.TempDir()

	_, closeStore, err := bootstrap(dir)
	require.NoError(t, err)
	require.NoError(t, closeStore())

	assert.FileExists(t, filepath.Join(dir, domain.DatabaseFileName))
}
