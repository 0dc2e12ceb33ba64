// Package cli provides the covrank command line interface.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driving"
	"github.com/custodia-labs/covrank/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Global flags.
var (
	verbose bool
	dataDir string
)

// Services bundles the driving ports the commands call into.
type Services struct {
	Products   driving.ProductService
	Scores     driving.ScoreService
	Ranking    driving.RankingService
	Duplicates driving.DuplicateService
	Compare    driving.CompareService
	Companies  driving.CompanyService
	Settings   driving.SettingsService
}

// Bootstrap builds the services once flags are parsed. dataDir is the
// --data-dir flag value, empty when unset. The returned func releases the
// store.
type Bootstrap func(dataDir string) (*Services, func() error, error)

var (
	productService   driving.ProductService
	scoreService     driving.ScoreService
	rankingService   driving.RankingService
	duplicateService driving.DuplicateService
	compareService   driving.CompareService
	companyService   driving.CompanyService
	settingsService  driving.SettingsService

	bootstrap    Bootstrap
	closeStore   func() error
	settings     = domain.DefaultSettings()
	errNoService = errors.New("service not configured")
)

// noStore marks commands that run without opening the database.
const noStore = "covrank.no-store"

var rootCmd = &cobra.Command{
	Use:   "covrank",
	Short: "Score, rank and deduplicate insurance products",
	Long: `covrank keeps a local catalogue of insurance products extracted from
brochures, scores every product on coverage, premium efficiency and special
conditions, and ranks them within life or non-life insurers.

Data lives in a SQLite database under --data-dir (or COVRANK_DATA_DIR,
or storage.data_dir in ~/.covrank/config.toml).`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the database")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires services on first use.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	productService = s.Products
	scoreService = s.Scores
	rankingService = s.Ranking
	duplicateService = s.Duplicates
	compareService = s.Compare
	companyService = s.Companies
	settingsService = s.Settings
}

// Execute runs the root command and releases the store afterwards.
func Execute() error {
	defer func() {
		if closeStore == nil {
			return
		}
		if err := closeStore(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
		closeStore = nil
	}()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

func initServices(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	if cmd.Annotations[noStore] == "true" {
		return nil
	}

	if bootstrap != nil && productService == nil {
		svcs, closer, err := bootstrap(dataDir)
		if err != nil {
			return err
		}
		SetServices(svcs)
		closeStore = closer
	}

	if settingsService != nil {
		s, err := settingsService.Get()
		if err != nil {
			return err
		}
		settings = *s
		if settings.Verbose {
			logger.SetVerbose(true)
		}
	}
	return nil
}
