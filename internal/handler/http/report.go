package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/export"
)

type ReportHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.WorkReportService
	notifier      notification.Notifier
}

func NewReportHandler(reportService report.WorkReportService, notifier notification.Notifier) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
		notifier:      notifier,
	}
}

// Submit implements ReportHandler.
func (h *reportHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req report.SubmitWorkReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitWorkReport decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.SubmitWorkReport(r.Context(), actor, req)
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "SubmitWorkReport", err)
		return
	}

	h.notifier.Notify(actor.ID, notification.Success("Work Report Submitted", result.Date))
	response.Created(w, "Work report submitted successfully", result)
}

// ListMy implements ReportHandler.
func (h *reportHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	filter, page, limit, err := reportFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.ListMyWorkReports(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result, page, limit, result.Total)
}

// List implements ReportHandler.
func (h *reportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	filter, page, limit, err := reportFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	filter.UserID = optionalQuery(r, "user_id")

	result, err := h.reportService.ListWorkReports(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result, page, limit, result.Total)
}

// Export implements ReportHandler. The workbook is streamed as an attachment.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	filter, _, _, err := reportFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	filter.UserID = optionalQuery(r, "user_id")

	data, err := h.reportService.ExportWorkReports(r.Context(), actor, filter)
	if err != nil {
		slog.Error("ExportWorkReports service error", "error", err)
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("work-reports-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

func reportFilterFromQuery(r *http.Request) (report.WorkReportFilter, int, int, error) {
	page, limit, offset := pagination(r)
	filter := report.WorkReportFilter{Limit: limit, Offset: offset}

	from, to, err := report.ParsePeriod(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		return filter, page, limit, err
	}
	filter.From = from
	filter.To = to
	return filter, page, limit, nil
}
