package api

import (
	"net/http"

	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/models"
)

type attemptRequest struct {
	Grade string `json:"grade" validate:"required,oneof=pass almost fail"`
	Mode  string `json:"mode" validate:"omitempty,oneof=flashcard voice"`
}

type voiceRequest struct {
	Transcript string `json:"transcript" validate:"required,max=4000"`
}

// userItem reads the {userID} and {itemID} path parameters.
func userItem(r *http.Request) (int64, int64, error) {
	userID, err := idParam(r, "userID")
	if err != nil {
		return 0, 0, err
	}
	itemID, err := idParam(r, "itemID")
	if err != nil {
		return 0, 0, err
	}
	return userID, itemID, nil
}

func (s *Server) handleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	userID, itemID, err := userItem(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req attemptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	grade, err := models.ParseGrade(req.Grade)
	if err != nil {
		handleError(w, r, errors.NewValidationError("grade", "must be one of pass, almost, fail"))
		return
	}

	res, err := s.Reviews.RecordAttempt(r.Context(), userID, itemID, grade, models.AttemptMode(req.Mode))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleVoiceAttempt(w http.ResponseWriter, r *http.Request) {
	userID, itemID, err := userItem(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req voiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.Reviews.GradeSpokenAttempt(r.Context(), userID, itemID, req.Transcript)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	userID, itemID, err := userItem(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	state, err := s.Reviews.State(r.Context(), userID, itemID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, itemID, err := userItem(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", 50)
	if err != nil {
		handleError(w, r, err)
		return
	}
	attempts, err := s.Reviews.History(r.Context(), userID, itemID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if attempts == nil {
		attempts = []models.Attempt{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"attempts": attempts})
}

func (s *Server) handleDueSession(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", s.SessionSize)
	if err != nil {
		handleError(w, r, err)
		return
	}

	due, err := s.Reviews.DueSession(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": due})
}
