package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/policy"
	"github.com/tally-hr/peopleops-backend-go/internal/handler/http/response"
)

type PolicyHandler interface {
	UpsertWorkweek(w http.ResponseWriter, r *http.Request)
	GetWorkweek(w http.ResponseWriter, r *http.Request)
	ListWorkweeks(w http.ResponseWriter, r *http.Request)

	CreateHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
}

type PolicyHandlerImpl struct {
	policyService policy.Service
}

func NewPolicyHandler(policyService policy.Service) PolicyHandler {
	return &PolicyHandlerImpl{policyService: policyService}
}

// UpsertWorkweek implements PolicyHandler.
func (p *PolicyHandlerImpl) UpsertWorkweek(w http.ResponseWriter, r *http.Request) {
	var req policy.UpsertWorkweekRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpsertWorkweek decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.Region = chi.URLParam(r, "region")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := p.policyService.UpsertWorkweek(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Workweek policy saved successfully", result)
}

// GetWorkweek implements PolicyHandler.
func (p *PolicyHandlerImpl) GetWorkweek(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	if region == "" {
		response.BadRequest(w, "Region is required", nil)
		return
	}

	result, err := p.policyService.GetWorkweek(r.Context(), region)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListWorkweeks implements PolicyHandler.
func (p *PolicyHandlerImpl) ListWorkweeks(w http.ResponseWriter, r *http.Request) {
	result, err := p.policyService.ListWorkweeks(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateHoliday implements PolicyHandler.
func (p *PolicyHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req policy.CreateHolidayRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateHoliday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := p.policyService.CreateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created successfully", result)
}

// DeleteHoliday implements PolicyHandler.
func (p *PolicyHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Holiday ID is required", nil)
		return
	}

	if err := p.policyService.DeleteHoliday(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}

// ListHolidays implements PolicyHandler.
func (p *PolicyHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if _, err := time.Parse("2006-01-02", from); err != nil {
		response.BadRequest(w, "from query parameter must be YYYY-MM-DD", nil)
		return
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		response.BadRequest(w, "to query parameter must be YYYY-MM-DD", nil)
		return
	}

	result, err := p.policyService.ListHolidays(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
