package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hrgate/internal/absence/authority"
	"hrgate/internal/absence/models"
	"hrgate/internal/absence/service/mocks"
	"hrgate/internal/absence/store"
	"hrgate/internal/directory"
	"hrgate/internal/incidence"
	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
	"hrgate/pkg/platform/sentinel"
	"hrgate/pkg/requestcontext"
)

func marchDates(t *testing.T) models.DateRange {
	t.Helper()
	dates, err := models.ParseDateRange("2026-03-02", "2026-03-06")
	require.NoError(t, err)
	return dates
}

func employeeActor(employeeID id.EmployeeID, tenantID id.TenantID) context.Context {
	return requestcontext.WithActor(context.Background(), id.ActorContext{
		ID:       employeeID,
		TenantID: tenantID,
		Roles:    []id.Role{id.RoleEmployee},
	})
}

func TestCreate_DirectoryLookupFails(t *testing.T) {
	ctrl := gomock.NewController(t)

	dir := mocks.NewMockDirectoryStore(ctrl)
	catalog := mocks.NewMockCatalogStore(ctrl)

	employeeID := id.EmployeeID(uuid.New())
	dir.EXPECT().FindByID(gomock.Any(), employeeID).Return(nil, errors.New("connection reset"))

	svc := New(store.NewInMemory(), store.NewInMemoryHistory(), authority.NewResolver(), NewShardedTx(), dir, catalog)

	ctx := employeeActor(employeeID, id.TenantID(uuid.New()))
	_, err := svc.Create(ctx, CreateParams{
		Type:   models.TypeVacation,
		Dates:  marchDates(t),
		Reason: "spring break",
	})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestCreate_UnknownEmployee(t *testing.T) {
	ctrl := gomock.NewController(t)

	dir := mocks.NewMockDirectoryStore(ctrl)
	catalog := mocks.NewMockCatalogStore(ctrl)

	employeeID := id.EmployeeID(uuid.New())
	dir.EXPECT().FindByID(gomock.Any(), employeeID).Return(nil, sentinel.ErrNotFound)

	svc := New(store.NewInMemory(), store.NewInMemoryHistory(), authority.NewResolver(), NewShardedTx(), dir, catalog)

	ctx := employeeActor(employeeID, id.TenantID(uuid.New()))
	_, err := svc.Create(ctx, CreateParams{
		Type:   models.TypeVacation,
		Dates:  marchDates(t),
		Reason: "spring break",
	})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCreate_CatalogLookupFails(t *testing.T) {
	ctrl := gomock.NewController(t)

	dir := mocks.NewMockDirectoryStore(ctrl)
	catalog := mocks.NewMockCatalogStore(ctrl)

	tenantID := id.TenantID(uuid.New())
	employeeID := id.EmployeeID(uuid.New())
	typeID := id.IncidenceTypeID(uuid.New())

	dir.EXPECT().FindByID(gomock.Any(), employeeID).Return(&directory.Employee{
		ID:       employeeID,
		TenantID: tenantID,
		Roles:    []id.Role{id.RoleEmployee},
	}, nil)
	catalog.EXPECT().FindByID(gomock.Any(), typeID).Return(nil, errors.New("connection reset"))

	svc := New(store.NewInMemory(), store.NewInMemoryHistory(), authority.NewResolver(), NewShardedTx(), dir, catalog)

	ctx := employeeActor(employeeID, tenantID)
	_, err := svc.Create(ctx, CreateParams{
		Type:            models.TypeSickLeave,
		IncidenceTypeID: typeID,
		Dates:           marchDates(t),
		Reason:          "medical",
	})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestCreate_UnknownIncidenceType(t *testing.T) {
	ctrl := gomock.NewController(t)

	dir := mocks.NewMockDirectoryStore(ctrl)
	catalog := mocks.NewMockCatalogStore(ctrl)

	tenantID := id.TenantID(uuid.New())
	employeeID := id.EmployeeID(uuid.New())
	typeID := id.IncidenceTypeID(uuid.New())

	dir.EXPECT().FindByID(gomock.Any(), employeeID).Return(&directory.Employee{
		ID:       employeeID,
		TenantID: tenantID,
		Roles:    []id.Role{id.RoleEmployee},
	}, nil)
	catalog.EXPECT().FindByID(gomock.Any(), typeID).Return(nil, sentinel.ErrNotFound)

	svc := New(store.NewInMemory(), store.NewInMemoryHistory(), authority.NewResolver(), NewShardedTx(), dir, catalog)

	ctx := employeeActor(employeeID, tenantID)
	_, err := svc.Create(ctx, CreateParams{
		Type:            models.TypeSickLeave,
		IncidenceTypeID: typeID,
		Dates:           marchDates(t),
		Reason:          "medical",
	})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCreate_CrossTenantIncidenceTypeReadsAsMissing(t *testing.T) {
	ctrl := gomock.NewController(t)

	dir := mocks.NewMockDirectoryStore(ctrl)
	catalog := mocks.NewMockCatalogStore(ctrl)

	tenantID := id.TenantID(uuid.New())
	employeeID := id.EmployeeID(uuid.New())
	typeID := id.IncidenceTypeID(uuid.New())

	dir.EXPECT().FindByID(gomock.Any(), employeeID).Return(&directory.Employee{
		ID:       employeeID,
		TenantID: tenantID,
		Roles:    []id.Role{id.RoleEmployee},
	}, nil)
	catalog.EXPECT().FindByID(gomock.Any(), typeID).Return(&incidence.IncidenceType{
		ID:       typeID,
		TenantID: id.TenantID(uuid.New()),
		Name:     "someone else's catalog entry",
	}, nil)

	svc := New(store.NewInMemory(), store.NewInMemoryHistory(), authority.NewResolver(), NewShardedTx(), dir, catalog)

	ctx := employeeActor(employeeID, tenantID)
	_, err := svc.Create(ctx, CreateParams{
		Type:            models.TypeSickLeave,
		IncidenceTypeID: typeID,
		Dates:           marchDates(t),
		Reason:          "medical",
	})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestArchive_EventAppendFailureAbortsTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)

	dir := mocks.NewMockDirectoryStore(ctrl)
	catalog := mocks.NewMockCatalogStore(ctrl)
	eventStore := mocks.NewMockEventStore(ctrl)

	tenantID := id.TenantID(uuid.New())
	employeeID := id.EmployeeID(uuid.New())

	dir.EXPECT().FindByID(gomock.Any(), employeeID).Return(&directory.Employee{
		ID:       employeeID,
		TenantID: tenantID,
		Roles:    []id.Role{id.RoleEmployee},
	}, nil)
	gomock.InOrder(
		eventStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil), // create
		eventStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil), // decline
		eventStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("outbox insert failed")),
	)

	svc := New(
		store.NewInMemory(),
		store.NewInMemoryHistory(),
		authority.NewResolver(),
		NewShardedTx(),
		dir,
		catalog,
		WithEventStore(eventStore),
	)

	ctx := employeeActor(employeeID, tenantID)
	req, err := svc.Create(ctx, CreateParams{
		Type:   models.TypeVacation,
		Dates:  marchDates(t),
		Reason: "spring break",
	})
	require.NoError(t, err)

	supervisorCtx := requestcontext.WithActor(context.Background(), id.ActorContext{
		ID:       id.EmployeeID(uuid.New()),
		TenantID: tenantID,
		Roles:    []id.Role{id.RoleSupervisor},
	})
	_, err = svc.Decide(supervisorCtx, req.ID, Decision{Action: models.ActionDeclined})
	require.NoError(t, err)

	_, err = svc.Archive(ctx, req.ID)
	require.Error(t, err)
}

func TestCreate_EventAppendFailureAbortsTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)

	dir := mocks.NewMockDirectoryStore(ctrl)
	catalog := mocks.NewMockCatalogStore(ctrl)
	eventStore := mocks.NewMockEventStore(ctrl)

	tenantID := id.TenantID(uuid.New())
	employeeID := id.EmployeeID(uuid.New())

	dir.EXPECT().FindByID(gomock.Any(), employeeID).Return(&directory.Employee{
		ID:       employeeID,
		TenantID: tenantID,
		Roles:    []id.Role{id.RoleEmployee},
	}, nil)
	eventStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("outbox insert failed"))

	svc := New(
		store.NewInMemory(),
		store.NewInMemoryHistory(),
		authority.NewResolver(),
		NewShardedTx(),
		dir,
		catalog,
		WithEventStore(eventStore),
	)

	ctx := employeeActor(employeeID, tenantID)
	_, err := svc.Create(ctx, CreateParams{
		Type:   models.TypeVacation,
		Dates:  marchDates(t),
		Reason: "spring break",
	})

	require.Error(t, err)
}
