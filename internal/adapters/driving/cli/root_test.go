package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/covrank/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/services"
	"github.com/custodia-labs/covrank/internal/logger"
)

// testStore is the memory store behind the services of the current test.
var testStore *memory.Store

// setupTestServices wires every service over an empty memory store.
func setupTestServices() func() {
	store := memory.NewStore()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	locks := services.NewProductLocks()
	scores := services.NewScoreService(store.Products(), store.Scores(), locks)
	SetServices(&Services{
		Products:   services.NewProductService(store.Products(), store.Companies(), scores, locks),
		Scores:     scores,
		Ranking:    services.NewRankingService(store.Products(), scores),
		Duplicates: services.NewDuplicateService(store.Products(), locks),
		Compare:    services.NewCompareService(store.Products(), scores),
		Companies:  services.NewCompanyService(store.Companies()),
		Settings:   services.NewSettingsService(memory.NewConfigStore()),
	})
	testStore = store

	prevBootstrap := bootstrap
	bootstrap = nil

	return func() {
		SetServices(&Services{})
		bootstrap = prevBootstrap
		settings = domain.DefaultSettings()
		testStore = nil
		resetFlags(rootCmd)
		logger.SetVerbose(false)
	}
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// seedCatalogue ingests three products and returns their ids by title.
func seedCatalogue(t *testing.T) map[string]int64 {
	t.Helper()
	ids := map[string]int64{}
	premium := 30_000.0
	for _, seed := range []struct {
		company     string
		companyType domain.CompanyType
		file, title string
		amount      float64
	}{
		{"삼성생명", domain.CompanyTypeLife, "/docs/삼성_간병치매플랜.pdf", "암보험", 90_000_000},
		{"한화생명", domain.CompanyTypeLife, "/docs/hanwha.pdf", "종신보험", 10_000_000},
		{"DB손해보험", domain.CompanyTypeNonLife, "/docs/db.pdf", "운전자보험", 30_000_000},
	} {
		report, err := productService.Ingest(context.Background(), domain.IngestRequest{
			CompanyName: seed.company,
			CompanyType: seed.companyType,
			File:        domain.SourceFile{Path: seed.file},
			Products: []domain.ExtractedProduct{{
				Title:    seed.title,
				Keywords: []string{"보장", seed.title},
				StructuredData: &domain.StructuredData{
					PremiumAmount:     &premium,
					CoveragePeriod:    ptr("100세"),
					CoverageAmounts:   []domain.ExtractedAmount{{Category: "암", Amount: seed.amount}},
					SpecialConditions: []string{"납입면제"},
				},
			}},
		})
		require.NoError(t, err)
		require.Len(t, report.ProductIDs, 1)
		ids[seed.title] = report.ProductIDs[0]
	}
	return ids
}

// execute runs the root command with args and returns the combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func ptr[T any](v T) *T {
	return &v
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "covrank", rootCmd.Use)
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("data-dir"))
}

func TestRootCmd_BootstrapReceivesDataDir(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	wired := &Services{
		Ranking: rankingService,
		Scores:  scoreService,
	}
	SetServices(&Services{})

	var gotDir string
	closed := false
	bootstrap = func(dir string) (*Services, func() error, error) {
		gotDir = dir
		return wired, func() error { closed = true; return nil }, nil
	}

	_, err := execute("rank", "--data-dir", "/tmp/covrank-test")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/covrank-test", gotDir)
	assert.NotNil(t, closeStore)
	assert.False(t, closed)

	closeStore = nil
}

func TestRootCmd_VersionSkipsBootstrap(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	SetServices(&Services{})
	bootstrap = func(string) (*Services, func() error, error) {
		t.Fatal("bootstrap must not run for version")
		return nil, nil, nil
	}

	_, err := execute("version")
	assert.NoError(t, err)
}

func TestRootCmd_SettingsVerboseEnablesLogging(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, settingsService.Save(&domain.Settings{Verbose: true}))

	_, err := execute("company", "list")
	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestCommands_WithoutServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	SetServices(&Services{})

	for _, args := range [][]string{
		{"rank"},
		{"score", "1"},
		{"dedupe"},
		{"product", "list"},
		{"compare", "1", "2"},
		{"company", "list"},
		{"settings", "show"},
	} {
		_, err := execute(args...)
		require.Error(t, err, "%v", args)
		assert.ErrorIs(t, err, errNoService, "%v", args)
	}
}
