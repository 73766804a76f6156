package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
)

// Ensure AnalysisStore implements the interface.
var _ driven.AnalysisStore = (*AnalysisStore)(nil)

// AnalysisStore is an in-memory implementation of driven.AnalysisStore.
type AnalysisStore struct {
	mu       sync.RWMutex
	analyses map[string]domain.AnalysisResult
	order    []string
	sheets   *SheetStore
}

// NewAnalysisStore creates a new in-memory analysis store.
func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{
		analyses: make(map[string]domain.AnalysisResult),
	}
}

// SetSheetStore links a sheet store so Delete cascades to sheets.
func (s *AnalysisStore) SetSheetStore(sheets *SheetStore) {
	s.sheets = sheets
}

// Save stores an analysis result.
func (s *AnalysisStore) Save(_ context.Context, result domain.AnalysisResult) error {
	if result.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.analyses[result.ID]; !exists {
		s.order = append(s.order, result.ID)
	}
	result.FilesAnalyzed = append([]string(nil), result.FilesAnalyzed...)
	s.analyses[result.ID] = result
	return nil
}

// Get retrieves an analysis by ID.
func (s *AnalysisStore) Get(_ context.Context, id string) (*domain.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.analyses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &result, nil
}

// Latest returns the most recently created analysis.
func (s *AnalysisStore) Latest(ctx context.Context) (*domain.AnalysisResult, error) {
	list, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return &list[0], nil
}

// List returns up to limit analyses, newest first.
// Ties on CreatedAt keep the later insert first.
func (s *AnalysisStore) List(_ context.Context, limit int) ([]domain.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.AnalysisResult, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		results = append(results, s.analyses[s.order[i]])
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Delete removes an analysis and, when linked, its sheets.
func (s *AnalysisStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.analyses[id]; !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(s.analyses, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if s.sheets != nil {
		s.sheets.deleteByAnalysis(id)
	}
	return nil
}
