package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
)

// Ensure SheetStore implements the interface.
var _ driven.SheetStore = (*SheetStore)(nil)

// SheetStore is an in-memory implementation of driven.SheetStore.
type SheetStore struct {
	mu     sync.RWMutex
	sheets map[string]domain.ReferenceSheet
	order  []string
}

// NewSheetStore creates a new in-memory sheet store.
func NewSheetStore() *SheetStore {
	return &SheetStore{
		sheets: make(map[string]domain.ReferenceSheet),
	}
}

// Save stores a reference sheet.
func (s *SheetStore) Save(_ context.Context, sheet domain.ReferenceSheet) error {
	if sheet.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sheets[sheet.ID]; !exists {
		s.order = append(s.order, sheet.ID)
	}
	if sheet.Quality != nil {
		q := *sheet.Quality
		sheet.Quality = &q
	}
	s.sheets[sheet.ID] = sheet
	return nil
}

// Get retrieves a sheet by ID.
func (s *SheetStore) Get(_ context.Context, id string) (*domain.ReferenceSheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sheet, ok := s.sheets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sheet, nil
}

// Latest returns the most recently created sheet.
func (s *SheetStore) Latest(_ context.Context) (*domain.ReferenceSheet, error) {
	all := s.newestFirst(func(domain.ReferenceSheet) bool { return true })
	if len(all) == 0 {
		return nil, domain.ErrNotFound
	}
	return &all[0], nil
}

// ListByAnalysis returns the sheets for an analysis, newest first.
func (s *SheetStore) ListByAnalysis(_ context.Context, analysisID string) ([]domain.ReferenceSheet, error) {
	return s.newestFirst(func(sheet domain.ReferenceSheet) bool {
		return sheet.AnalysisID == analysisID
	}), nil
}

func (s *SheetStore) newestFirst(keep func(domain.ReferenceSheet) bool) []domain.ReferenceSheet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ReferenceSheet, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if sheet := s.sheets[s.order[i]]; keep(sheet) {
			out = append(out, sheet)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *SheetStore) deleteByAnalysis(analysisID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.order[:0]
	for _, id := range s.order {
		if s.sheets[id].AnalysisID == analysisID {
			delete(s.sheets, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}
