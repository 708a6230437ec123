package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-signing-key", "hrgate", "hrgate-api")
	employeeID := id.EmployeeID(uuid.New())
	tenantID := id.TenantID(uuid.New())

	tokenString, err := svc.GenerateAccessToken(employeeID, tenantID, []id.Role{id.RoleHRPayroll}, time.Hour)
	require.NoError(t, err)

	actor, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, employeeID, actor.ID)
	assert.Equal(t, tenantID, actor.TenantID)
	assert.Equal(t, []id.Role{id.RoleHRPayroll}, actor.Roles)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-signing-key", "hrgate", "hrgate-api")
	tokenString, err := svc.GenerateAccessToken(id.EmployeeID(uuid.New()), id.TenantID(uuid.New()), nil, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestJWTService_RejectsWrongKey(t *testing.T) {
	issuer := NewJWTService("key-one", "hrgate", "hrgate-api")
	verifier := NewJWTService("key-two", "hrgate", "hrgate-api")

	tokenString, err := issuer.GenerateAccessToken(id.EmployeeID(uuid.New()), id.TenantID(uuid.New()), nil, time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(tokenString)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-signing-key", "hrgate", "hrgate-api")
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
