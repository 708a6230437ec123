package handler

import (
	"time"

	"hrgate/internal/absence/models"
	"hrgate/internal/absence/service"
)

// requestResponse is the JSON shape of one absence request.
type requestResponse struct {
	ID              string            `json:"id"`
	TenantID        string            `json:"tenant_id"`
	EmployeeID      string            `json:"employee_id"`
	Type            string            `json:"type"`
	IncidenceTypeID string            `json:"incidence_type_id,omitempty"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	TotalDays       int               `json:"total_days"`
	Reason          string            `json:"reason"`
	Status          string            `json:"status"`
	Stage           string            `json:"stage"`
	RequiresPayroll bool              `json:"requires_payroll"`
	HoursPerDay     float64           `json:"hours_per_day,omitempty"`
	PaidDays        int               `json:"paid_days,omitempty"`
	UnpaidDays      int               `json:"unpaid_days,omitempty"`
	ShiftChangeTo   string            `json:"shift_change_to,omitempty"`
	Extra           map[string]string `json:"extra,omitempty"`
	ArchivedAt      *time.Time        `json:"archived_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toRequestResponse(r *models.AbsenceRequest) requestResponse {
	resp := requestResponse{
		ID:              r.ID.String(),
		TenantID:        r.TenantID.String(),
		EmployeeID:      r.EmployeeID.String(),
		Type:            r.Type.String(),
		StartDate:       r.Dates.Start.Format(models.DateFormat),
		EndDate:         r.Dates.End.Format(models.DateFormat),
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          r.Status.String(),
		Stage:           r.Stage.String(),
		RequiresPayroll: r.RequiresPayroll,
		HoursPerDay:     r.Fields.HoursPerDay,
		PaidDays:        r.Fields.PaidDays,
		UnpaidDays:      r.Fields.UnpaidDays,
		ShiftChangeTo:   r.Fields.ShiftChangeTo,
		Extra:           r.Fields.Extra,
		ArchivedAt:      r.ArchivedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if !r.IncidenceTypeID.IsNil() {
		resp.IncidenceTypeID = r.IncidenceTypeID.String()
	}
	return resp
}

func toRequestResponses(rs []*models.AbsenceRequest) []requestResponse {
	out := make([]requestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRequestResponse(r))
	}
	return out
}

// historyResponse is one row of the decision trail.
type historyResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Stage     string    `json:"stage"`
	Action    string    `json:"action"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// detailResponse is a request with its history.
type detailResponse struct {
	Request requestResponse   `json:"request"`
	History []historyResponse `json:"history"`
}

func toDetailResponse(d *service.RequestDetails) detailResponse {
	history := make([]historyResponse, 0, len(d.History))
	for _, row := range d.History {
		history = append(history, historyResponse{
			ID:        row.ID.String(),
			ActorID:   row.ActorID.String(),
			Stage:     row.Stage.String(),
			Action:    string(row.Action),
			Comments:  row.Comments,
			CreatedAt: row.CreatedAt,
		})
	}
	return detailResponse{Request: toRequestResponse(d.Request), History: history}
}

// overlapResponse is one calendar conflict.
type overlapResponse struct {
	RequestID   string `json:"request_id,omitempty"`
	IncidenceID string `json:"incidence_id,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status,omitempty"`
}

// overlapsResponse is the GET /requests/overlaps envelope: a summary flag
// plus the conflicts split by origin.
type overlapsResponse struct {
	HasOverlap            bool              `json:"has_overlap"`
	OverlappingRequests   []overlapResponse `json:"overlapping_requests"`
	OverlappingIncidences []overlapResponse `json:"overlapping_incidences"`
}

func toOverlapsResponse(overlaps []service.Overlap) overlapsResponse {
	out := overlapsResponse{
		HasOverlap:            len(overlaps) > 0,
		OverlappingRequests:   []overlapResponse{},
		OverlappingIncidences: []overlapResponse{},
	}
	for _, o := range overlaps {
		resp := overlapResponse{
			StartDate: o.Dates.Start.Format(models.DateFormat),
			EndDate:   o.Dates.End.Format(models.DateFormat),
			Status:    o.Status.String(),
		}
		if !o.IncidenceID.IsNil() {
			resp.IncidenceID = o.IncidenceID.String()
			out.OverlappingIncidences = append(out.OverlappingIncidences, resp)
			continue
		}
		resp.RequestID = o.RequestID.String()
		out.OverlappingRequests = append(out.OverlappingRequests, resp)
	}
	return out
}

// countsResponse maps stage name to pending backlog size.
type countsResponse struct {
	Counts map[string]int `json:"counts"`
}

func toCountsResponse(counts map[models.Stage]int) countsResponse {
	out := make(map[string]int, len(counts))
	for stage, n := range counts {
		out[stage.String()] = n
	}
	return countsResponse{Counts: out}
}
