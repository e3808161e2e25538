package api

import (
	"net/http"

	"github.com/vytor/wordflash/internal/models"
)

type createItemRequest struct {
	Term       string `json:"term" validate:"required,max=64"`
	Definition string `json:"definition" validate:"required,max=2000"`
	Topic      string `json:"topic" validate:"max=64"`
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	item, err := s.Items.Create(r.Context(), models.Item{Term: req.Term, Definition: req.Definition, Topic: req.Topic})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 100)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	items, err := s.Items.List(r.Context(), models.ItemFilter{
		Topic:  r.URL.Query().Get("topic"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	item, err := s.Items.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Items.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
