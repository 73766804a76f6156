// Command refsheet builds two-page reference sheets from practice material.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driven/backend"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driven/config/env"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/refsheet-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refsheet-cli/internal/core/services"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(buildServices)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// buildServices wires the adapters and services for one command run.
func buildServices(opts cli.Options) (*cli.Services, error) {
	dir := opts.ConfigDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultConfigDir(); err != nil {
			return nil, err
		}
	}

	fileStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	configStore, err := env.NewConfigStore(fileStore, ".env", filepath.Join(dir, ".env"))
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settings.Backend.Validate(); err != nil {
		// Only commands that reach the backend fail on these.
		logger.Warn("Backend settings are invalid: %v", err)
	}

	client := backend.NewClient(backend.Config{
		BaseURL: settings.Backend.BaseURL,
		Timeout: settings.Backend.Timeout,
	})

	var (
		analyses driven.AnalysisStore
		sheets   driven.SheetStore
		closeFn  func() error
	)
	if settings.History.Enabled && !opts.NoHistory {
		store, err := sqlite.NewStore(filepath.Join(dir, "data"))
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		logger.Debug("History database: %s", store.Path())
		analyses, sheets, closeFn = store.AnalysisStore(), store.SheetStore(), store.Close
	} else {
		memAnalyses, memSheets := memory.NewAnalysisStore(), memory.NewSheetStore()
		memAnalyses.SetSheetStore(memSheets)
		analyses, sheets = memAnalyses, memSheets
	}

	paginator := services.NewPaginator()

	analysisService := services.NewAnalysisService(client, filesystem.NewLoader(), analyses)
	analysisService.SetWatcher(filesystem.NewWatcher())

	sheetService := services.NewSheetService(client, analyses, sheets, paginator)
	sheetService.SetSettingsService(settingsService)

	return &cli.Services{
		Paginator: paginator,
		Analysis:  analysisService,
		Sheet:     sheetService,
		Settings:  settingsService,
		Close:     closeFn,
	}, nil
}
