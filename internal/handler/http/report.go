package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	reportsvc "github.com/edgehq/edge-backend-go/internal/service/report"

	"github.com/edgehq/edge-backend-go/internal/handler/http/middleware"
	"github.com/edgehq/edge-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	ReviewPDF(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService *reportsvc.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *reportsvc.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// ReviewPDF renders and stores the finalized review PDF for one assessment
func (h *reportHandlerImpl) ReviewPDF(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	report, err := h.reportService.GenerateReviewPDF(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}
