package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/handler/http/middleware"
	"github.com/tally-hr/peopleops-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	TodayStatus(w http.ResponseWriter, r *http.Request)
	MonthView(w http.ResponseWriter, r *http.Request)

	RecomputeRange(w http.ResponseWriter, r *http.Request)
	RangeReport(w http.ResponseWriter, r *http.Request)
	OverrideDay(w http.ResponseWriter, r *http.Request)
	LockDay(w http.ResponseWriter, r *http.Request)
	UnlockDay(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// TodayStatus implements AttendanceHandler.
func (h *AttendanceHandlerImpl) TodayStatus(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.TodayStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MonthView implements AttendanceHandler.
func (h *AttendanceHandlerImpl) MonthView(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	year, month, ok := parseYearMonth(r)
	if !ok {
		response.BadRequest(w, "year and month query parameters are required", nil)
		return
	}

	result, err := h.attendanceService.MonthView(r.Context(), employeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RecomputeRange implements AttendanceHandler.
func (h *AttendanceHandlerImpl) RecomputeRange(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecomputeRangeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RecomputeRange decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.RecomputeRange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance recomputed successfully", result)
}

// RangeReport implements AttendanceHandler.
func (h *AttendanceHandlerImpl) RangeReport(w http.ResponseWriter, r *http.Request) {
	var req attendance.RangeReportRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RangeReport decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.RangeReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// OverrideDay implements AttendanceHandler.
func (h *AttendanceHandlerImpl) OverrideDay(w http.ResponseWriter, r *http.Request) {
	var req attendance.OverrideDayRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("OverrideDay decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.EmployeeID = chi.URLParam(r, "employeeID")
	req.Date = chi.URLParam(r, "date")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.OverrideDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance day overridden successfully", result)
}

// LockDay implements AttendanceHandler.
func (h *AttendanceHandlerImpl) LockDay(w http.ResponseWriter, r *http.Request) {
	h.setLock(w, r, true, "Attendance day locked")
}

// UnlockDay implements AttendanceHandler.
func (h *AttendanceHandlerImpl) UnlockDay(w http.ResponseWriter, r *http.Request) {
	h.setLock(w, r, false, "Attendance day unlocked")
}

func (h *AttendanceHandlerImpl) setLock(w http.ResponseWriter, r *http.Request, locked bool, message string) {
	employeeID := chi.URLParam(r, "employeeID")
	date := chi.URLParam(r, "date")
	if employeeID == "" || date == "" {
		response.BadRequest(w, "Employee ID and date are required", nil)
		return
	}

	result, err := h.attendanceService.SetDayLock(r.Context(), employeeID, date, locked)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

func parseYearMonth(r *http.Request) (int, int, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
