package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hrgate/internal/absence/models"
	id "hrgate/pkg/domain"
	"hrgate/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite

	store    *InMemory
	tenantID id.TenantID
	employee id.EmployeeID
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.tenantID = id.TenantID(uuid.New())
	s.employee = id.EmployeeID(uuid.New())
}

func (s *InMemorySuite) newRequest(start, end string, createdAt time.Time) *models.AbsenceRequest {
	dates, err := models.ParseDateRange(start, end)
	s.Require().NoError(err)
	req, err := models.NewAbsenceRequest(
		id.NewRequestID(),
		s.tenantID,
		s.employee,
		models.TypeVacation,
		id.IncidenceTypeID{},
		dates,
		"store test request",
		false,
		models.CustomFields{},
		createdAt,
	)
	s.Require().NoError(err)
	return req
}

func (s *InMemorySuite) TestCreateAndFind() {
	ctx := context.Background()
	req := s.newRequest("2026-03-02", "2026-03-06", time.Now().UTC())
	s.Require().NoError(s.store.Create(ctx, req))

	got, err := s.store.FindByID(ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(req.ID, got.ID)

	s.ErrorIs(s.store.Create(ctx, req), sentinel.ErrConflict)

	_, err = s.store.FindByID(ctx, id.NewRequestID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestStoreNeverAliasesCallers() {
	ctx := context.Background()
	req := s.newRequest("2026-03-02", "2026-03-06", time.Now().UTC())
	s.Require().NoError(s.store.Create(ctx, req))

	// Mutating the caller's copy after Create must not leak into the store,
	// and mutating a returned copy must not leak back.
	req.Reason = "tampered"
	got, err := s.store.FindByID(ctx, req.ID)
	s.Require().NoError(err)
	s.Equal("store test request", got.Reason)

	got.Status = models.StatusDeclined
	again, err := s.store.FindByID(ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, again.Status)
}

func (s *InMemorySuite) TestListByEmployee_OrderedByCreation() {
	ctx := context.Background()
	base := time.Now().UTC()

	second := s.newRequest("2026-04-06", "2026-04-07", base.Add(time.Minute))
	first := s.newRequest("2026-03-02", "2026-03-03", base)
	s.Require().NoError(s.store.Create(ctx, second))
	s.Require().NoError(s.store.Create(ctx, first))

	got, err := s.store.ListByEmployee(ctx, s.tenantID, s.employee)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(first.ID, got[0].ID)
	s.Equal(second.ID, got[1].ID)

	other, err := s.store.ListByEmployee(ctx, id.TenantID(uuid.New()), s.employee)
	s.Require().NoError(err)
	s.Empty(other)
}

func (s *InMemorySuite) TestListPending_FiltersByStage() {
	ctx := context.Background()
	now := time.Now().UTC()

	atSupervisor := s.newRequest("2026-03-02", "2026-03-03", now)
	s.Require().NoError(s.store.Create(ctx, atSupervisor))

	atHR := s.newRequest("2026-03-05", "2026-03-06", now)
	atHR.Stage = models.StageHR
	s.Require().NoError(s.store.Create(ctx, atHR))

	declined := s.newRequest("2026-03-09", "2026-03-10", now)
	declined.Status = models.StatusDeclined
	s.Require().NoError(s.store.Create(ctx, declined))

	got, err := s.store.ListPending(ctx, PendingFilter{
		TenantID: s.tenantID,
		Stages:   []models.Stage{models.StageHR},
	})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(atHR.ID, got[0].ID)
}

func (s *InMemorySuite) TestCountPendingByStage() {
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 2; i++ {
		s.Require().NoError(s.store.Create(ctx, s.newRequest("2026-03-02", "2026-03-03", now)))
	}
	atHR := s.newRequest("2026-03-05", "2026-03-06", now)
	atHR.Stage = models.StageHR
	s.Require().NoError(s.store.Create(ctx, atHR))

	counts, err := s.store.CountPendingByStage(ctx, s.tenantID)
	s.Require().NoError(err)
	s.Equal(map[models.Stage]int{
		models.StageSupervisor: 2,
		models.StageHR:         1,
	}, counts)
}

func (s *InMemorySuite) TestListOverlapping() {
	ctx := context.Background()
	now := time.Now().UTC()

	blocking := s.newRequest("2026-03-02", "2026-03-06", now)
	s.Require().NoError(s.store.Create(ctx, blocking))

	declined := s.newRequest("2026-03-02", "2026-03-06", now)
	declined.Status = models.StatusDeclined
	s.Require().NoError(s.store.Create(ctx, declined))

	dates, err := models.ParseDateRange("2026-03-06", "2026-03-08")
	s.Require().NoError(err)

	got, err := s.store.ListOverlapping(ctx, OverlapFilter{
		TenantID:   s.tenantID,
		EmployeeID: s.employee,
		Dates:      dates,
	})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(blocking.ID, got[0].ID)

	got, err = s.store.ListOverlapping(ctx, OverlapFilter{
		TenantID:         s.tenantID,
		EmployeeID:       s.employee,
		Dates:            dates,
		ExcludeRequestID: blocking.ID,
	})
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *InMemorySuite) TestExecute() {
	ctx := context.Background()
	req := s.newRequest("2026-03-02", "2026-03-06", time.Now().UTC())
	s.Require().NoError(s.store.Create(ctx, req))

	updated, err := s.store.Execute(ctx, req.ID,
		func(r *models.AbsenceRequest) error { return r.CanDecide() },
		func(r *models.AbsenceRequest) { r.ApplyDecline(time.Now().UTC()) },
	)
	s.Require().NoError(err)
	s.Equal(models.StatusDeclined, updated.Status)

	// Validation failure leaves the stored record untouched.
	mutated := false
	_, err = s.store.Execute(ctx, req.ID,
		func(r *models.AbsenceRequest) error { return r.CanDecide() },
		func(*models.AbsenceRequest) { mutated = true },
	)
	s.Require().Error(err)
	s.False(mutated)

	_, err = s.store.Execute(ctx, id.NewRequestID(),
		func(*models.AbsenceRequest) error { return nil },
		func(*models.AbsenceRequest) {},
	)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestDeleteIfPending() {
	ctx := context.Background()
	req := s.newRequest("2026-03-02", "2026-03-06", time.Now().UTC())
	s.Require().NoError(s.store.Create(ctx, req))

	s.Require().NoError(s.store.DeleteIfPending(ctx, req.ID))
	_, err := s.store.FindByID(ctx, req.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	decided := s.newRequest("2026-03-09", "2026-03-10", time.Now().UTC())
	decided.Status = models.StatusApproved
	decided.Stage = models.StageCompleted
	s.Require().NoError(s.store.Create(ctx, decided))
	s.ErrorIs(s.store.DeleteIfPending(ctx, decided.ID), sentinel.ErrInvalidState)

	s.ErrorIs(s.store.DeleteIfPending(ctx, id.NewRequestID()), sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestHistoryAppendAndList() {
	ctx := context.Background()
	history := NewInMemoryHistory()
	requestID := id.NewRequestID()
	actor := id.EmployeeID(uuid.New())
	now := time.Now().UTC()

	for _, stage := range []models.Stage{models.StageSupervisor, models.StageManager} {
		s.Require().NoError(history.Append(ctx, models.NewApprovalHistory(
			requestID, actor, stage, models.ActionApproved, "ok", now,
		)))
	}
	s.Require().NoError(history.Append(ctx, models.NewApprovalHistory(
		id.NewRequestID(), actor, models.StageSupervisor, models.ActionApproved, "", now,
	)))

	rows, err := history.ListByRequest(ctx, requestID)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(models.StageSupervisor, rows[0].Stage)
	s.Equal(models.StageManager, rows[1].Stage)
}
