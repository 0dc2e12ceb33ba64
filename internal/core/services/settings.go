package services

import (
	"fmt"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
	"github.com/custodia-labs/covrank/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataDir      = "storage.data_dir"
	keyDefaultLimit = "ranking.default_limit"
	keyVerbose      = "log.verbose"
	keyMCPPort      = "mcp.port"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		DataDir:      s.getString(keyDataDir, defaults.DataDir),
		DefaultLimit: s.getInt(keyDefaultLimit, defaults.DefaultLimit),
		Verbose:      s.getBool(keyVerbose, defaults.Verbose),
		MCPPort:      s.getInt(keyMCPPort, defaults.MCPPort),
	}

	if settings.DefaultLimit < 0 {
		settings.DefaultLimit = defaults.DefaultLimit
	}
	if settings.MCPPort < 0 || settings.MCPPort > 65535 {
		settings.MCPPort = defaults.MCPPort
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if settings.DefaultLimit < 0 {
		return fmt.Errorf("%w: default limit must not be negative", domain.ErrInvalidInput)
	}
	if settings.MCPPort < 0 || settings.MCPPort > 65535 {
		return fmt.Errorf("%w: invalid mcp port %d", domain.ErrInvalidInput, settings.MCPPort)
	}

	if err := s.configStore.Set(keyDataDir, settings.DataDir); err != nil {
		return fmt.Errorf("save data dir: %w", err)
	}
	if err := s.configStore.Set(keyDefaultLimit, settings.DefaultLimit); err != nil {
		return fmt.Errorf("save default limit: %w", err)
	}
	if err := s.configStore.Set(keyVerbose, settings.Verbose); err != nil {
		return fmt.Errorf("save verbose: %w", err)
	}
	if err := s.configStore.Set(keyMCPPort, settings.MCPPort); err != nil {
		return fmt.Errorf("save mcp port: %w", err)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
