package api

import (
	"net/http"

	"github.com/vytor/wordflash/internal/models"
)

type dailyReport struct {
	Days     []models.DailySummary `json:"days"`
	Attempts int                   `json:"attempts"`
	Accuracy float64               `json:"accuracy"`
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	q := r.URL.Query()
	days, err := s.Reports.Daily(r.Context(), userID, q.Get("from"), q.Get("to"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	total := models.DailySummary{}
	for _, d := range days {
		total.Attempts += d.Attempts
		total.Passes += d.Passes
	}
	if days == nil {
		days = []models.DailySummary{}
	}
	writeJSON(w, r, http.StatusOK, dailyReport{Days: days, Attempts: total.Attempts, Accuracy: total.Accuracy()})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	ov, err := s.Reports.Overview(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ov)
}
