package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// DefaultWatchInterval is the minimum spacing between watch-mode re-runs.
const DefaultWatchInterval = 2 * time.Second

// errHistoryDisabled is returned by lookups when no store is configured.
var errHistoryDisabled = fmt.Errorf("history disabled: %w", domain.ErrNotFound)

// AnalysisService uploads file selections to the backend for analysis.
type AnalysisService struct {
	backend driven.Backend
	loader  driven.FileLoader
	store   driven.AnalysisStore
	watcher driven.FileWatcher
	guard   *RequestGuard

	watchInterval time.Duration
	now           func() time.Time
}

// NewAnalysisService creates a new analysis service.
// The store is optional; without it results are not remembered.
func NewAnalysisService(
	backend driven.Backend,
	loader driven.FileLoader,
	store driven.AnalysisStore,
) *AnalysisService {
	return &AnalysisService{
		backend:       backend,
		loader:        loader,
		store:         store,
		guard:         NewRequestGuard(),
		watchInterval: DefaultWatchInterval,
		now:           time.Now,
	}
}

// SetWatcher sets the file watcher used by Watch.
func (s *AnalysisService) SetWatcher(w driven.FileWatcher) {
	s.watcher = w
}

// SetWatchInterval sets the minimum spacing between watch-mode re-runs.
func (s *AnalysisService) SetWatchInterval(d time.Duration) {
	if d > 0 {
		s.watchInterval = d
	}
}

// Select loads the files at paths without uploading them.
func (s *AnalysisService) Select(ctx context.Context, paths []string) (*domain.FileSelection, error) {
	if len(paths) == 0 {
		return &domain.FileSelection{}, nil
	}
	if s.loader == nil {
		return nil, errors.New("file loader not configured")
	}

	sel, err := s.loader.Load(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("load files: %w", err)
	}
	return sel, nil
}

// Analyze validates and uploads a selection.
func (s *AnalysisService) Analyze(ctx context.Context, selection *domain.FileSelection) (*domain.AnalysisResult, error) {
	valid, skipped, err := domain.ValidateSelection(selection)
	for _, name := range skipped {
		logger.Warn("Skipping empty file %s", name)
	}
	if err != nil {
		return nil, err
	}
	if s.backend == nil {
		return nil, errors.New("backend not configured")
	}

	reqCtx, ticket := s.guard.Begin(ctx)
	defer ticket.Done()

	logger.Info("Uploading %d file(s)...", valid.Len())
	result, err := s.backend.Analyze(reqCtx, valid.Files)
	if !ticket.Current() {
		logger.Debug("Discarding superseded analysis request %d", ticket.Seq())
		return nil, domain.ErrRequestSuperseded
	}
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	result.ID = uuid.New().String()
	result.CreatedAt = s.now()
	logger.Debug("Analysis %s: %s", result.ID, result.Meta())

	if s.store != nil {
		if err := s.store.Save(ctx, *result); err != nil {
			logger.Warn("Failed to save analysis to history: %v", err)
		}
	}

	return result, nil
}

// AnalyzePaths loads and analyses the files at paths.
func (s *AnalysisService) AnalyzePaths(ctx context.Context, paths []string) (*domain.AnalysisResult, error) {
	sel, err := s.Select(ctx, paths)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, sel)
}

// Watch analyses paths once and again after each change.
// Bursts of changes are coalesced so at most one run starts per watch interval,
// and a new run cancels the one still in flight. fn is never called concurrently.
func (s *AnalysisService) Watch(ctx context.Context, paths []string, fn driving.WatchFunc) error {
	if len(paths) == 0 {
		return domain.ErrNoFilesSelected
	}
	if s.watcher == nil {
		return errors.New("file watcher not configured")
	}

	events, errs, err := s.watcher.Watch(ctx, paths)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	var (
		wg   sync.WaitGroup
		fnMu sync.Mutex
	)
	defer wg.Wait()

	report := func(result *domain.AnalysisResult, err error) {
		fnMu.Lock()
		defer fnMu.Unlock()
		fn(result, err)
	}

	trigger := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.AnalyzePaths(ctx, paths)
			if errors.Is(err, domain.ErrRequestSuperseded) || ctx.Err() != nil {
				return
			}
			report(result, err)
		}()
	}

	limiter := rate.NewLimiter(rate.Every(s.watchInterval), 1)
	limiter.Allow()
	trigger()

	var retry <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				events = nil
				if errs == nil {
					return nil
				}
				continue
			}
			logger.Debug("Change detected: %s (removed=%t)", ev.Path, ev.Removed)
			if retry != nil {
				// A trailing run is already scheduled and will see this change.
				continue
			}
			if limiter.Allow() {
				trigger()
				continue
			}
			retry = time.After(limiter.Reserve().Delay())

		case <-retry:
			retry = nil
			trigger()

		case werr, ok := <-errs:
			if !ok {
				errs = nil
				if events == nil {
					return nil
				}
				continue
			}
			report(nil, fmt.Errorf("watch: %w", werr))
		}
	}
}

// Latest returns the most recent stored analysis.
func (s *AnalysisService) Latest(ctx context.Context) (*domain.AnalysisResult, error) {
	if s.store == nil {
		return nil, errHistoryDisabled
	}
	return s.store.Latest(ctx)
}

// Get returns a stored analysis by ID.
func (s *AnalysisService) Get(ctx context.Context, id string) (*domain.AnalysisResult, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.store == nil {
		return nil, errHistoryDisabled
	}
	return s.store.Get(ctx, id)
}

// List returns up to limit stored analyses, newest first.
func (s *AnalysisService) List(ctx context.Context, limit int) ([]domain.AnalysisResult, error) {
	if s.store == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	return s.store.List(ctx, limit)
}

// Ping checks that the backend is reachable.
func (s *AnalysisService) Ping(ctx context.Context) error {
	if s.backend == nil {
		return errors.New("backend not configured")
	}
	return s.backend.Ping(ctx)
}
