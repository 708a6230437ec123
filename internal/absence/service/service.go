// Package service implements the approval engine: request creation with
// overlap blocking, stage decisions, archival and deletion. Handlers stay
// thin; every rule lives here or in the models.
package service

import (
	"context"
	"log/slog"

	"hrgate/internal/absence/authority"
	"hrgate/internal/absence/cache"
	"hrgate/internal/absence/metrics"
	"hrgate/internal/absence/models"
	"hrgate/internal/absence/store"
	"hrgate/internal/directory"
	"hrgate/internal/incidence"
	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
	"hrgate/pkg/platform/events"
	"hrgate/pkg/requestcontext"
)

//go:generate mockgen -destination=mocks/directory.go -package=mocks -mock_names=Store=MockDirectoryStore hrgate/internal/directory Store
//go:generate mockgen -destination=mocks/catalog.go -package=mocks -mock_names=Store=MockCatalogStore hrgate/internal/incidence Store
//go:generate mockgen -destination=mocks/events.go -package=mocks -mock_names=Store=MockEventStore hrgate/pkg/platform/events Store

// Service orchestrates the absence request lifecycle.
type Service struct {
	requests  store.RequestStore
	history   store.HistoryStore
	authority *authority.Resolver
	tx        StoreTx
	directory directory.Store
	catalog   incidence.Store
	incidents incidence.RecordStore
	events    events.Store
	counts    *cache.Counts
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithEventStore wires the transactional outbox. Without it the engine
// mutates state but emits nothing.
func WithEventStore(store events.Store) Option {
	return func(s *Service) {
		s.events = store
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCountsCache wires the Redis pending-counts cache.
func WithCountsCache(c *cache.Counts) Option {
	return func(s *Service) {
		s.counts = c
	}
}

// WithIncidenceRecords wires recorded incidences into the overlap check.
// Without it only other absence requests block dates.
func WithIncidenceRecords(records incidence.RecordStore) Option {
	return func(s *Service) {
		s.incidents = records
	}
}

// New constructs a Service.
func New(
	requests store.RequestStore,
	history store.HistoryStore,
	resolver *authority.Resolver,
	tx StoreTx,
	dir directory.Store,
	catalog incidence.Store,
	opts ...Option,
) *Service {
	s := &Service{
		requests:  requests,
		history:   history,
		authority: resolver,
		tx:        tx,
		directory: dir,
		catalog:   catalog,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// requireActor resolves the authenticated actor or fails with 401.
func requireActor(ctx context.Context) (id.ActorContext, error) {
	actor := requestcontext.Actor(ctx)
	if actor.IsNil() {
		return id.ActorContext{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return actor, nil
}

// canView reports whether the actor may read the request: the owner, an
// admin, or anyone holding approval authority in the tenant.
func (s *Service) canView(actor id.ActorContext, req *models.AbsenceRequest) bool {
	if req.EmployeeID == actor.ID || actor.IsAdmin() {
		return true
	}
	return len(s.authority.AuthorizedStages(actor.Roles)) > 0
}

func (s *Service) emitEvent(ctx context.Context, event events.Event) error {
	if s.events == nil {
		return nil
	}
	event.TraceID = requestcontext.RequestID(ctx)
	return s.events.Append(ctx, event)
}

func (s *Service) invalidateCounts(ctx context.Context, tenantID id.TenantID) {
	s.counts.Invalidate(ctx, tenantID)
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
