package domain

// Default settings values.
const (
	// DefaultRankingLimit of 0 returns every product.
	DefaultRankingLimit = 0

	// DefaultMCPPort of 0 serves MCP over stdio.
	DefaultMCPPort = 0

	// DatabaseFileName is the SQLite file created inside the data directory.
	DatabaseFileName = "covrank.db"
)

// Settings holds application settings resolved from config and environment.
type Settings struct {
	// DataDir is where the SQLite database lives.
	DataDir string

	// DefaultLimit caps rankings when no explicit limit is passed.
	DefaultLimit int

	// Verbose enables debug and info logging.
	Verbose bool

	// MCPPort serves MCP over streamable HTTP when non-zero.
	MCPPort int
}

// DefaultSettings returns settings with sensible defaults.
// DataDir is left empty; callers resolve it relative to the config directory.
func DefaultSettings() Settings {
	return Settings{
		DefaultLimit: DefaultRankingLimit,
		MCPPort:      DefaultMCPPort,
	}
}
