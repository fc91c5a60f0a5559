package policy

import (
	"encoding/json"

	"github.com/tally-hr/peopleops-backend-go/internal/pkg/validator"
)

type UpsertWorkweekRequest struct {
	Region string          `json:"-"`
	Week   json.RawMessage `json:"week"`
}

func (r *UpsertWorkweekRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidRegionCode(r.Region) {
		errs = append(errs, validator.ValidationError{
			Field:   "region",
			Message: "region must be 1-8 uppercase letters or digits",
		})
	}

	var week WeekPolicy
	if len(r.Week) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "week",
			Message: "week policy document is required",
		})
	} else if err := json.Unmarshal(r.Week, &week); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "week",
			Message: "week policy document is malformed: " + err.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type WorkweekResponse struct {
	Region string     `json:"region"`
	Week   WeekPolicy `json:"week"`
}

type CreateHolidayRequest struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	Name           string  `json:"name"`
	IsPaid         bool    `json:"is_paid"`
	Region         *string `json:"region,omitempty"`
	RecursAnnually bool    `json:"recurs_annually"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 80 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 80 characters",
		})
	}

	if r.Region != nil && !validator.IsValidRegionCode(*r.Region) {
		errs = append(errs, validator.ValidationError{
			Field:   "region",
			Message: "region must be 1-8 uppercase letters or digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HolidayResponse struct {
	ID             string  `json:"id"`
	Date           string  `json:"date"`
	Name           string  `json:"name"`
	IsPaid         bool    `json:"is_paid"`
	Region         *string `json:"region,omitempty"`
	RecursAnnually bool    `json:"recurs_annually"`
}

// MapHolidayToResponse converts a Holiday entity to HolidayResponse
func MapHolidayToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:             h.ID,
		Date:           h.Date.Format("2006-01-02"),
		Name:           h.Name,
		IsPaid:         h.IsPaid,
		Region:         h.Region,
		RecursAnnually: h.RecursAnnually,
	}
}
