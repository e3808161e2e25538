package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) {
	entry, err := s.Definitions.Define(r.Context(), chi.URLParam(r, "term"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entry)
}
