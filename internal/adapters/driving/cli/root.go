// Package cli provides the cobra command tree for refsheet.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services holds the driving ports used by the commands.
type Services struct {
	Paginator driving.Paginator
	Analysis  driving.AnalysisService
	Sheet     driving.SheetService
	Settings  driving.SettingsService

	// Close releases resources such as the history database. Optional.
	Close func() error
}

// Options are the global flags passed to the bootstrap function.
type Options struct {
	ConfigDir string
	NoHistory bool
	Verbose   bool
}

// BootstrapFunc builds the services once the global flags are parsed.
type BootstrapFunc func(opts Options) (*Services, error)

var (
	paginator       driving.Paginator
	analysisService driving.AnalysisService
	sheetService    driving.SheetService
	settingsService driving.SettingsService
	closeServices   func() error

	bootstrap BootstrapFunc
	globals   Options
)

var rootCmd = &cobra.Command{
	Use:   "refsheet",
	Short: "Build two-page reference sheets from practice material",
	Long: `refsheet uploads practice files to an analysis backend, turns the
analysis into a reference sheet and splits it into two printable pages.

Run 'refsheet tui' for the interactive interface.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globals.Verbose, "verbose", "v", false, "print diagnostic output to stderr")
	flags.StringVar(&globals.ConfigDir, "config-dir", "", "configuration directory (default ~/.refsheet)")
	flags.BoolVar(&globals.NoHistory, "no-history", false, "keep analyses and sheets in memory only")
}

// SetServices injects the services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	paginator = s.Paginator
	analysisService = s.Analysis
	sheetService = s.Sheet
	settingsService = s.Settings
	closeServices = s.Close
}

// SetBootstrap sets the function that builds services from the global flags.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetVersion sets the version reported by 'refsheet version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
// Command output goes to stdout; cobra's default for Print is stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(globals.Verbose)

	if bootstrap == nil {
		return nil
	}

	services, err := bootstrap(globals)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// commandContext returns the command's context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
