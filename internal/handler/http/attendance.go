package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/handler/http/response"
)

// DegradedHeader is set when a report endpoint answers 200 [] because of a failure.
const DegradedHeader = "X-Report-Degraded"

// DegradeHook observes report failures that are answered with an empty result.
type DegradeHook func(ctx context.Context, endpoint string, err error)

// LogDegrade is the default DegradeHook.
func LogDegrade(ctx context.Context, endpoint string, err error) {
	slog.ErrorContext(ctx, "Report degraded to empty result", "endpoint", endpoint, "error", err)
}

type AttendanceHandler interface {
	InsertDaily(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
	Daily(w http.ResponseWriter, r *http.Request)
	AllDaily(w http.ResponseWriter, r *http.Request)
	UserReport(w http.ResponseWriter, r *http.Request)
	AllUsersSummary(w http.ResponseWriter, r *http.Request)
	PunchReport(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	loc               *time.Location
	now               func() time.Time
	onDegrade         DegradeHook
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, loc *time.Location, onDegrade DegradeHook) AttendanceHandler {
	if loc == nil {
		loc = time.UTC
	}
	if onDegrade == nil {
		onDegrade = LogDegrade
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		loc:               loc,
		now:               time.Now,
		onDegrade:         onDegrade,
	}
}

// InsertDaily implements AttendanceHandler.
func (h *attendanceHandlerImpl) InsertDaily(w http.ResponseWriter, r *http.Request) {
	date := attendance.StartOfDay(h.now(), h.loc)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation(attendance.DateLayout, raw, h.loc)
		if err != nil {
			response.Failure(w, http.StatusBadRequest, attendance.ErrInvalidDate.Error())
			return
		}
		date = parsed
	}

	result, err := h.attendanceService.RunDaily(r.Context(), date)
	if err != nil {
		slog.Error("Failed to insert daily attendance", "date", date.Format(attendance.DateLayout), "run_id", result.RunID, "error", err)
		response.Failure(w, http.StatusInternalServerError, fmt.Sprintf("Failed to insert daily attendance: %v", err))
		return
	}

	message := fmt.Sprintf("Daily attendance inserted for %s", result.Date)
	if result.Failed > 0 {
		message = fmt.Sprintf("Daily attendance inserted for %s with %d failures", result.Date, result.Failed)
	}
	response.SuccessWithMessage(w, message, result)
}

// Report implements AttendanceHandler. It never fails: errors yield 200 [] with DegradedHeader.
func (h *attendanceHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := attendance.ReportRequest{
		From:   q.Get("from"),
		To:     q.Get("to"),
		UserID: q.Get("user"),
	}

	rows, err := h.attendanceService.Report(r.Context(), req)
	if err != nil {
		h.onDegrade(r.Context(), "report", err)
		w.Header().Set(DegradedHeader, "true")
		response.JSON(w, http.StatusOK, []attendance.SummaryRow{})
		return
	}
	if rows == nil {
		rows = []attendance.SummaryRow{}
	}
	response.JSON(w, http.StatusOK, rows)
}

// Daily implements AttendanceHandler.
func (h *attendanceHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	req := attendance.DailyRequest{
		Date:   r.URL.Query().Get("date"),
		UserID: r.URL.Query().Get("user"),
	}

	records, err := h.attendanceService.Daily(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// AllDaily implements AttendanceHandler.
func (h *attendanceHandlerImpl) AllDaily(w http.ResponseWriter, r *http.Request) {
	req := attendance.DailyRequest{
		Date: r.URL.Query().Get("date"),
	}

	rows, err := h.attendanceService.AllDaily(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rows)
}

// UserReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) UserReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := attendance.ReportRequest{
		From:   q.Get("from"),
		To:     q.Get("to"),
		UserID: q.Get("user"),
	}

	result, err := h.attendanceService.UserReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// AllUsersSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) AllUsersSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := attendance.ReportRequest{
		From: q.Get("from"),
		To:   q.Get("to"),
	}

	result, err := h.attendanceService.AllUsersSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// PunchReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := attendance.PunchReportRequest{
		From:     q.Get("from"),
		To:       q.Get("to"),
		UserCode: q.Get("user_code"),
	}

	rows, err := h.attendanceService.PunchReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rows)
}
