package handler

import (
	"net/http"

	"github.com/hospitalhub-api/internal/application/report"
)

// ReportHandler exposes the patient analytics aggregation.
type ReportHandler struct {
	svc report.Service
}

func NewReportHandler(svc report.Service) *ReportHandler { return &ReportHandler{svc: svc} }

func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Generate(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Analysis completed successfully",
		"report":  rep,
	})
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	rep, res, err := h.svc.Export(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report": rep,
		"export": res,
	})
}
