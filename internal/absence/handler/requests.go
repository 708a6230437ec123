package handler

import (
	"github.com/go-playground/validator/v10"

	"hrgate/internal/absence/models"
	"hrgate/internal/absence/service"
	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
)

var validate = validator.New()

// createRequest is the POST /requests body.
type createRequest struct {
	EmployeeID      string            `json:"employee_id,omitempty" validate:"omitempty,uuid"`
	Type            string            `json:"type" validate:"required"`
	IncidenceTypeID string            `json:"incidence_type_id,omitempty" validate:"omitempty,uuid"`
	StartDate       string            `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string            `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason          string            `json:"reason" validate:"required,max=1000"`
	HoursPerDay     float64           `json:"hours_per_day,omitempty" validate:"omitempty,gt=0,lte=24"`
	PaidDays        int               `json:"paid_days,omitempty" validate:"omitempty,min=0"`
	UnpaidDays      int               `json:"unpaid_days,omitempty" validate:"omitempty,min=0"`
	ShiftChangeTo   string            `json:"shift_change_to,omitempty"`
	Extra           map[string]string `json:"extra,omitempty"`
}

// toParams validates the body and converts it to service input.
func (r createRequest) toParams() (service.CreateParams, error) {
	if err := validate.Struct(r); err != nil {
		return service.CreateParams{}, dErrors.New(dErrors.CodeValidation, err.Error())
	}

	reqType, err := models.ParseRequestType(r.Type)
	if err != nil {
		return service.CreateParams{}, err
	}
	dates, err := models.ParseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return service.CreateParams{}, err
	}

	params := service.CreateParams{
		Type:   reqType,
		Dates:  dates,
		Reason: r.Reason,
		Fields: models.CustomFields{
			HoursPerDay:   r.HoursPerDay,
			PaidDays:      r.PaidDays,
			UnpaidDays:    r.UnpaidDays,
			ShiftChangeTo: r.ShiftChangeTo,
			Extra:         r.Extra,
		},
	}
	if r.EmployeeID != "" {
		params.EmployeeID, err = id.ParseEmployeeID(r.EmployeeID)
		if err != nil {
			return service.CreateParams{}, err
		}
	}
	if r.IncidenceTypeID != "" {
		params.IncidenceTypeID, err = id.ParseIncidenceTypeID(r.IncidenceTypeID)
		if err != nil {
			return service.CreateParams{}, err
		}
	}
	return params, nil
}

// decideRequest is the POST /requests/{requestID}/decision body. Stage is
// optional; when supplied the decision fails if the request has moved on.
type decideRequest struct {
	Action   string `json:"action" validate:"required,oneof=APPROVED DECLINED"`
	Stage    string `json:"stage,omitempty" validate:"omitempty,oneof=SUPERVISOR MANAGER HR PAYROLL"`
	Comments string `json:"comments,omitempty" validate:"max=1000"`
}

func (r decideRequest) toDecision() (service.Decision, error) {
	if err := validate.Struct(r); err != nil {
		return service.Decision{}, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	action, err := models.ParseAction(r.Action)
	if err != nil {
		return service.Decision{}, err
	}
	decision := service.Decision{Action: action, Comments: r.Comments}
	if r.Stage != "" {
		decision.Stage, err = models.ParseStage(r.Stage)
		if err != nil {
			return service.Decision{}, err
		}
	}
	return decision, nil
}
