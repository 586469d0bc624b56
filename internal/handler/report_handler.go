package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ytharvest/internal/service"
	"ytharvest/pkg/logger"
)

// ReportHandler serves the canned insight reports
type ReportHandler struct {
	reports service.Reporter
	log     *logger.Logger
}

func NewReportHandler(reports service.Reporter, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		log:     log.Named("report_handler"),
	}
}

// ListReports handles GET /api/reports
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	names := h.reports.ReportNames()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reports": names,
		"count":   len(names),
	})
}

// RunReport handles GET /api/reports/{name}
func (h *ReportHandler) RunReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rows, err := h.reports.RunReport(r.Context(), name)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"report": name,
		"rows":   rows,
		"count":  len(rows),
	})
}
