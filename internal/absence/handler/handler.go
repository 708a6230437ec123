// Package handler exposes the approval workflow over HTTP. Handlers decode,
// validate and delegate; every rule lives in the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrgate/internal/absence/models"
	"hrgate/internal/absence/service"
	"hrgate/internal/platform/metrics"
	"hrgate/internal/platform/middleware"
	"hrgate/internal/transport/http/shared"
	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
)

// Service defines the engine operations the handler depends on.
type Service interface {
	Create(ctx context.Context, params service.CreateParams) (*models.AbsenceRequest, error)
	Decide(ctx context.Context, requestID id.RequestID, decision service.Decision) (*models.AbsenceRequest, error)
	Archive(ctx context.Context, requestID id.RequestID) (*models.AbsenceRequest, error)
	Delete(ctx context.Context, requestID id.RequestID) error
	GetRequest(ctx context.Context, requestID id.RequestID) (*service.RequestDetails, error)
	ListByEmployee(ctx context.Context, employeeID id.EmployeeID) ([]*models.AbsenceRequest, error)
	ListPendingForActor(ctx context.Context, stage models.Stage) ([]*models.AbsenceRequest, error)
	PendingCounts(ctx context.Context) (map[models.Stage]int, error)
	FindOverlaps(ctx context.Context, employeeID id.EmployeeID, dates models.DateRange, excludeRequestID id.RequestID) ([]service.Overlap, error)
}

// Handler handles absence request endpoints.
type Handler struct {
	logger    *slog.Logger
	engine    Service
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

// New creates a new absence Handler.
func New(engine Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		engine:    engine,
		metrics:   m,
		validator: validator,
	}
}

// Register registers the absence routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))
	router.Use(middleware.RequireAuth(h.validator, h.logger))

	router.Post("/requests", h.handleCreate)
	router.Get("/requests", h.handleList)
	router.Get("/requests/{requestID}", h.handleGet)
	router.Delete("/requests/{requestID}", h.handleDelete)
	router.Post("/requests/{requestID}/decision", h.handleDecide)
	router.Post("/requests/{requestID}/archive", h.handleArchive)
	router.Get("/requests/overlaps", h.handleOverlaps)
	router.Get("/approvals/pending", h.handlePendingQueue)
	router.Get("/approvals/counts", h.handlePendingCounts)

	r.Mount("/", router)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	params, err := body.toParams()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	created, err := h.engine.Create(ctx, params)
	if err != nil {
		h.logFailure(ctx, "create request failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toRequestResponse(created))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID, err := id.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	details, err := h.engine.GetRequest(r.Context(), requestID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toDetailResponse(details))
}

// handleList returns the actor's own requests, or another employee's when
// employee_id is given and the actor may see them.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var employeeID id.EmployeeID
	if raw := r.URL.Query().Get("employee_id"); raw != "" {
		parsed, err := id.ParseEmployeeID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		employeeID = parsed
	}

	requests, err := h.engine.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toRequestResponses(requests))
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requestID, err := id.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var body decideRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	decision, err := body.toDecision()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	updated, err := h.engine.Decide(ctx, requestID, decision)
	if err != nil {
		h.logFailure(ctx, "decide request failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toRequestResponse(updated))
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	requestID, err := id.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	archived, err := h.engine.Archive(r.Context(), requestID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toRequestResponse(archived))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID, err := id.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.engine.Delete(r.Context(), requestID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleOverlaps(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dates, err := models.ParseDateRange(query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var employeeID id.EmployeeID
	if raw := query.Get("employee_id"); raw != "" {
		employeeID, err = id.ParseEmployeeID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
	}
	var excludeID id.RequestID
	if raw := query.Get("exclude_request_id"); raw != "" {
		excludeID, err = id.ParseRequestID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
	}

	overlaps, err := h.engine.FindOverlaps(r.Context(), employeeID, dates, excludeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toOverlapsResponse(overlaps))
}

func (h *Handler) handlePendingQueue(w http.ResponseWriter, r *http.Request) {
	var stage models.Stage
	if raw := r.URL.Query().Get("stage"); raw != "" {
		parsed, err := models.ParseStage(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		stage = parsed
	}

	requests, err := h.engine.ListPendingForActor(r.Context(), stage)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toRequestResponses(requests))
}

func (h *Handler) handlePendingCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.engine.PendingCounts(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCountsResponse(counts))
}

func (h *Handler) logFailure(ctx context.Context, message string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, message,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		return
	}
	h.logger.WarnContext(ctx, message,
		"error", err.Error(),
		"request_id", middleware.GetRequestID(ctx),
	)
}
