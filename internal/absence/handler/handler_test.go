package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrgate/internal/absence/authority"
	"hrgate/internal/absence/models"
	"hrgate/internal/absence/service"
	"hrgate/internal/absence/store"
	"hrgate/internal/directory"
	"hrgate/internal/incidence"
	"hrgate/internal/token"
	id "hrgate/pkg/domain"
)

const signingKey = "handler-test-signing-key"

type testEnv struct {
	router    http.Handler
	jwt       *token.JWTService
	directory *directory.InMemory
	records   *incidence.InMemoryRecords
	tenantID  id.TenantID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := directory.NewInMemory()
	records := incidence.NewInMemoryRecords()
	jwtService := token.NewJWTService(signingKey, "hrgate", "hrgate-api")

	svc := service.New(
		store.NewInMemory(),
		store.NewInMemoryHistory(),
		authority.NewResolver(),
		service.NewShardedTx(),
		dir,
		incidence.NewInMemory(),
		service.WithLogger(logger),
		service.WithIncidenceRecords(records),
	)

	h := New(svc, logger, nil, jwtService)
	r := chi.NewRouter()
	h.Register(r)

	return &testEnv{
		router:    r,
		jwt:       jwtService,
		directory: dir,
		records:   records,
		tenantID:  id.TenantID(uuid.New()),
	}
}

func (e *testEnv) addEmployee(t *testing.T, roles ...id.Role) *directory.Employee {
	t.Helper()
	emp := &directory.Employee{
		ID:       id.EmployeeID(uuid.New()),
		TenantID: e.tenantID,
		Name:     "test employee",
		Roles:    roles,
	}
	e.directory.Put(context.Background(), emp)
	return emp
}

func (e *testEnv) tokenFor(t *testing.T, emp *directory.Employee) string {
	t.Helper()
	tok, err := e.jwt.GenerateAccessToken(emp.ID, emp.TenantID, emp.Roles, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func vacationBody(start, end string) map[string]any {
	return map[string]any{
		"type":       "VACATION",
		"start_date": start,
		"end_date":   end,
		"reason":     "family trip",
	}
}

func TestCreateRequest_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/requests", "", vacationBody("2024-03-04", "2024-03-08"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRequest_ReturnsDerivedFields(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)

	rec := env.do(t, http.MethodPost, "/requests", env.tokenFor(t, emp), vacationBody("2024-03-04", "2024-03-08"))
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[requestResponse](t, rec)
	assert.Equal(t, 5, resp.TotalDays)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "SUPERVISOR", resp.Stage)
	assert.Equal(t, emp.ID.String(), resp.EmployeeID)
}

func TestCreateRequest_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)
	bearer := env.tokenFor(t, emp)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing reason", map[string]any{"type": "VACATION", "start_date": "2024-03-04", "end_date": "2024-03-08"}},
		{"bad date format", map[string]any{"type": "VACATION", "start_date": "04-03-2024", "end_date": "2024-03-08", "reason": "x"}},
		{"end before start", map[string]any{"type": "VACATION", "start_date": "2024-03-08", "end_date": "2024-03-04", "reason": "x"}},
		{"unknown type", map[string]any{"type": "SABBATICAL", "start_date": "2024-03-04", "end_date": "2024-03-08", "reason": "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/requests", bearer, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateRequest_OverlapReturnsConflict(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)
	bearer := env.tokenFor(t, emp)

	rec := env.do(t, http.MethodPost, "/requests", bearer, vacationBody("2024-03-04", "2024-03-08"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/requests", bearer, vacationBody("2024-03-08", "2024-03-12"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDecisionFlow_ApproveThroughAllStages(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)
	supervisor := env.addEmployee(t, id.RoleSupervisor)
	manager := env.addEmployee(t, id.RoleManager)
	hr := env.addEmployee(t, id.RoleHR)

	rec := env.do(t, http.MethodPost, "/requests", env.tokenFor(t, emp), vacationBody("2024-03-04", "2024-03-08"))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[requestResponse](t, rec)

	approve := map[string]any{"action": "APPROVED", "comments": "ok"}
	for _, approver := range []*directory.Employee{supervisor, manager, hr} {
		rec = env.do(t, http.MethodPost, "/requests/"+created.ID+"/decision", env.tokenFor(t, approver), approve)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	final := decode[requestResponse](t, rec)
	assert.Equal(t, "APPROVED", final.Status)
	assert.Equal(t, "COMPLETED", final.Stage)

	rec = env.do(t, http.MethodGet, "/requests/"+created.ID, env.tokenFor(t, emp), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[detailResponse](t, rec)
	assert.Len(t, detail.History, 3)
}

func TestDecisionFlow_CombinedRoleWritesOneRowPerStage(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)
	supMan := env.addEmployee(t, id.RoleSupervisorManager)

	rec := env.do(t, http.MethodPost, "/requests", env.tokenFor(t, emp), vacationBody("2024-03-04", "2024-03-08"))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[requestResponse](t, rec)

	rec = env.do(t, http.MethodPost, "/requests/"+created.ID+"/decision", env.tokenFor(t, supMan),
		map[string]any{"action": "APPROVED"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[requestResponse](t, rec)
	assert.Equal(t, "HR", updated.Stage)

	rec = env.do(t, http.MethodGet, "/requests/"+created.ID, env.tokenFor(t, emp), nil)
	detail := decode[detailResponse](t, rec)
	require.Len(t, detail.History, 2)
	assert.Equal(t, "SUPERVISOR", detail.History[0].Stage)
	assert.Equal(t, "MANAGER", detail.History[1].Stage)
	assert.Equal(t, detail.History[0].CreatedAt, detail.History[1].CreatedAt)
}

func TestDecisionFlow_DeclineIsAbsorbing(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)
	supervisor := env.addEmployee(t, id.RoleSupervisor)
	manager := env.addEmployee(t, id.RoleManager)

	rec := env.do(t, http.MethodPost, "/requests", env.tokenFor(t, emp), vacationBody("2024-03-04", "2024-03-08"))
	created := decode[requestResponse](t, rec)

	rec = env.do(t, http.MethodPost, "/requests/"+created.ID+"/decision", env.tokenFor(t, supervisor),
		map[string]any{"action": "DECLINED", "comments": "no coverage"})
	require.Equal(t, http.StatusOK, rec.Code)
	declined := decode[requestResponse](t, rec)
	assert.Equal(t, "DECLINED", declined.Status)
	assert.Equal(t, "SUPERVISOR", declined.Stage)

	rec = env.do(t, http.MethodPost, "/requests/"+created.ID+"/decision", env.tokenFor(t, manager),
		map[string]any{"action": "APPROVED"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDecisionFlow_WrongStageIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)
	hr := env.addEmployee(t, id.RoleHR)

	rec := env.do(t, http.MethodPost, "/requests", env.tokenFor(t, emp), vacationBody("2024-03-04", "2024-03-08"))
	created := decode[requestResponse](t, rec)

	rec = env.do(t, http.MethodPost, "/requests/"+created.ID+"/decision", env.tokenFor(t, hr),
		map[string]any{"action": "APPROVED"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDecisionFlow_StaleStageEchoIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)
	supervisor := env.addEmployee(t, id.RoleSupervisor)
	manager := env.addEmployee(t, id.RoleManager)

	rec := env.do(t, http.MethodPost, "/requests", env.tokenFor(t, emp), vacationBody("2024-03-04", "2024-03-08"))
	created := decode[requestResponse](t, rec)

	rec = env.do(t, http.MethodPost, "/requests/"+created.ID+"/decision", env.tokenFor(t, supervisor),
		map[string]any{"action": "APPROVED", "stage": "SUPERVISOR"})
	require.Equal(t, http.StatusOK, rec.Code)

	// The request is at MANAGER now; an echo of the old stage is refused.
	rec = env.do(t, http.MethodPost, "/requests/"+created.ID+"/decision", env.tokenFor(t, manager),
		map[string]any{"action": "APPROVED", "stage": "SUPERVISOR"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteRequest_OwnerPendingOnly(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)

	rec := env.do(t, http.MethodPost, "/requests", env.tokenFor(t, emp), vacationBody("2024-03-04", "2024-03-08"))
	created := decode[requestResponse](t, rec)

	rec = env.do(t, http.MethodDelete, "/requests/"+created.ID, env.tokenFor(t, emp), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/requests/"+created.ID, env.tokenFor(t, emp), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArchiveRequest_AfterDecline(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)
	supervisor := env.addEmployee(t, id.RoleSupervisor)

	rec := env.do(t, http.MethodPost, "/requests", env.tokenFor(t, emp), vacationBody("2024-03-04", "2024-03-08"))
	created := decode[requestResponse](t, rec)

	rec = env.do(t, http.MethodPost, "/requests/"+created.ID+"/archive", env.tokenFor(t, emp), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	env.do(t, http.MethodPost, "/requests/"+created.ID+"/decision", env.tokenFor(t, supervisor),
		map[string]any{"action": "DECLINED"})

	rec = env.do(t, http.MethodPost, "/requests/"+created.ID+"/archive", env.tokenFor(t, emp), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	archived := decode[requestResponse](t, rec)
	assert.NotNil(t, archived.ArchivedAt)
}

func TestPendingQueueAndCounts(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)
	supervisor := env.addEmployee(t, id.RoleSupervisor)

	env.do(t, http.MethodPost, "/requests", env.tokenFor(t, emp), vacationBody("2024-03-04", "2024-03-08"))
	env.do(t, http.MethodPost, "/requests", env.tokenFor(t, emp), vacationBody("2024-04-01", "2024-04-02"))

	rec := env.do(t, http.MethodGet, "/approvals/pending", env.tokenFor(t, supervisor), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	queue := decode[[]requestResponse](t, rec)
	assert.Len(t, queue, 2)

	// Stage filter outside the actor's authority.
	rec = env.do(t, http.MethodGet, "/approvals/pending?stage=HR", env.tokenFor(t, supervisor), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/approvals/pending?stage=SUPERVISOR", env.tokenFor(t, supervisor), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	queue = decode[[]requestResponse](t, rec)
	assert.Len(t, queue, 2)

	rec = env.do(t, http.MethodGet, "/approvals/counts", env.tokenFor(t, supervisor), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	counts := decode[countsResponse](t, rec)
	assert.Equal(t, 2, counts.Counts["SUPERVISOR"])

	// Plain employees have no queue.
	rec = env.do(t, http.MethodGet, "/approvals/pending", env.tokenFor(t, emp), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOverlapLookup_EnvelopeSplitsOrigins(t *testing.T) {
	env := newTestEnv(t)
	emp := env.addEmployee(t, id.RoleEmployee)
	bearer := env.tokenFor(t, emp)

	env.do(t, http.MethodPost, "/requests", bearer, vacationBody("2024-03-04", "2024-03-08"))

	dates, err := models.ParseDateRange("2024-03-10", "2024-03-10")
	require.NoError(t, err)
	env.records.Put(context.Background(), &incidence.Incidence{
		ID:         id.IncidenceID(uuid.New()),
		TenantID:   env.tenantID,
		EmployeeID: emp.ID,
		Dates:      dates,
	})

	rec := env.do(t, http.MethodGet, "/requests/overlaps?start_date=2024-03-08&end_date=2024-03-10", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[overlapsResponse](t, rec)
	assert.True(t, body.HasOverlap)
	require.Len(t, body.OverlappingRequests, 1)
	assert.NotEmpty(t, body.OverlappingRequests[0].RequestID)
	assert.Equal(t, "2024-03-04", body.OverlappingRequests[0].StartDate)
	require.Len(t, body.OverlappingIncidences, 1)
	assert.NotEmpty(t, body.OverlappingIncidences[0].IncidenceID)

	// A clear range still returns the full envelope, arrays empty.
	rec = env.do(t, http.MethodGet, "/requests/overlaps?start_date=2024-03-12&end_date=2024-03-13", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[overlapsResponse](t, rec)
	assert.False(t, body.HasOverlap)
	assert.NotNil(t, body.OverlappingRequests)
	assert.Empty(t, body.OverlappingRequests)
	assert.NotNil(t, body.OverlappingIncidences)
	assert.Empty(t, body.OverlappingIncidences)
}
