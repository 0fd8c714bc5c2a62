package http

import (
	"net/http"
	"strings"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/state"
)

// handleCategories serves /api/categories. GET takes an optional ?kind=
// query so forms can offer only income or only expense categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snapshot := s.tracker.State()
		if kindParam := r.URL.Query().Get("kind"); kindParam != "" {
			kind := core.CategoryKind(kindParam)
			if !kind.IsValid() {
				respondError(w, core.ErrInvalidKind)
				return
			}
			writeJSON(w, http.StatusOK, state.CategoriesByKind(snapshot, kind))
			return
		}
		writeJSON(w, http.StatusOK, snapshot.Categories)
	case http.MethodPost:
		var cat core.Category
		if !decodeJSON(w, r, &cat) {
			return
		}
		created, err := s.tracker.AddCategory(r.Context(), cat)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCategoryByID serves PUT and DELETE on /api/categories/{id}.
func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing category id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var cat core.Category
		if !decodeJSON(w, r, &cat) {
			return
		}
		cat.ID = id
		if err := s.tracker.UpdateCategory(r.Context(), cat); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := s.tracker.DeleteCategory(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
