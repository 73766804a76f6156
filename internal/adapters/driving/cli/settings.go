package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the backend connection, the default sheet
requirements and history options.

Settings are stored in config.toml in the configuration directory.
REFSHEET_BACKEND_URL and REFSHEET_TIMEOUT, from the environment or a
.env file, override the stored values.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Long: `Change a single setting by its key, e.g.

  refsheet settings set backend.url http://localhost:5000
  refsheet settings set sheet.target_word_count 900

Run 'refsheet settings keys' for the full list.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  URL: %s\n", settings.Backend.BaseURL)
	cmd.Printf("  Timeout: %s\n", settings.Backend.Timeout)
	cmd.Println()

	cmd.Println("[Sheet defaults]")
	cmd.Printf("  Event: %s\n", orNotSet(settings.Sheet.EventName))
	cmd.Printf("  Division: %s\n", orNotSet(settings.Sheet.Division))
	cmd.Printf("  Difficulty: %s\n", orNotSet(settings.Sheet.Difficulty))
	cmd.Printf("  Target words: %d\n", settings.Sheet.TargetWordCount)
	cmd.Printf("  Required topics: %s\n", orNotSet(settings.Sheet.RequiredTopics))
	cmd.Printf("  Banned topics: %s\n", orNotSet(settings.Sheet.BannedTopics))
	cmd.Printf("  Notes: %s\n", orNotSet(settings.Sheet.Notes))
	cmd.Println()

	cmd.Println("[History]")
	if settings.History.Enabled {
		cmd.Printf("  Enabled: yes\n")
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Printf("  Limit: %d\n", settings.History.Limit)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'refsheet settings set backend.url URL' to fix it.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func orNotSet(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
