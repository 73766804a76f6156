package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

type pingResponse struct {
	OK   bool `json:"ok"`
	Pong bool `json:"pong"`
}

type paginateRequest struct {
	Text *string `json:"text"`
}

// pagesResponse is the two-page result.
type pagesResponse struct {
	Page1 string `json:"page1"`
	Page2 string `json:"page2"`
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pingResponse{OK: true, Pong: true})
}

func (s *Server) handlePaginate(w http.ResponseWriter, r *http.Request) {
	var in paginateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON body.", Details: err.Error()})
		return
	}
	if in.Text == nil {
		writeError(w, http.StatusBadRequest, "Missing 'text'.")
		return
	}

	pages := s.ports.Paginator.Split(*in.Text)
	writeJSON(w, http.StatusOK, pagesResponse{Page1: pages.First, Page2: pages.Second})
}

func (s *Server) handleSheetPages(w http.ResponseWriter, r *http.Request) {
	if s.ports.Sheet == nil {
		writeError(w, http.StatusNotFound, "History is not available.")
		return
	}

	// Empty for /latest/pages.
	id := chi.URLParam(r, "sheetID")

	pages, err := s.ports.Sheet.Paginate(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Sheet not found.")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, domain.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, pagesResponse{Page1: pages.First, Page2: pages.Second})
}
