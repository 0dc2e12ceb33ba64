package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in the config file.

Keys:
  data_dir       directory holding the database
  default_limit  products shown by rank when --limit is not given (0 = all)
  verbose        true to always log debug output
  mcp_port       serve MCP over HTTP on this port (0 = stdio)`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNoService)
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Printf("  data_dir:      %s\n", orDefault(s.DataDir, "(default)"))
	cmd.Printf("  default_limit: %s\n", limitLabel(s.DefaultLimit))
	cmd.Printf("  verbose:       %t\n", s.Verbose)
	cmd.Printf("  mcp_port:      %s\n", portLabel(s.MCPPort))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNoService)
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := applySetting(s, args[0], args[1]); err != nil {
		return err
	}
	if err := settingsService.Save(s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s to %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNoService)
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

func applySetting(s *domain.Settings, key, value string) error {
	switch strings.ReplaceAll(key, "-", "_") {
	case "data_dir":
		s.DataDir = value
	case "default_limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: default_limit must be a non-negative integer", domain.ErrInvalidInput)
		}
		s.DefaultLimit = n
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: verbose must be true or false", domain.ErrInvalidInput)
		}
		s.Verbose = b
	case "mcp_port":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 65535 {
			return fmt.Errorf("%w: mcp_port must be between 0 and 65535", domain.ErrInvalidInput)
		}
		s.MCPPort = n
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func limitLabel(n int) string {
	if n == 0 {
		return "0 (all)"
	}
	return strconv.Itoa(n)
}

func portLabel(n int) string {
	if n == 0 {
		return "0 (stdio)"
	}
	return strconv.Itoa(n)
}
