// Package token issues and validates the HS256 access tokens the gateway
// trusts. Claims carry the actor's employee id, tenant and roles; stage
// authority is resolved later from the roles, never encoded in the token.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
)

// Claims represents the JWT claims for our access tokens.
type Claims struct {
	EmployeeID string   `json:"employee_id"`
	TenantID   string   `json:"tenant_id"`
	Roles      []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

func (s *JWTService) GenerateAccessToken(
	employeeID id.EmployeeID,
	tenantID id.TenantID,
	roles []id.Role,
	expiresIn time.Duration) (string, error) {
	roleStrings := make([]string, len(roles))
	for i, r := range roles {
		roleStrings[i] = string(r)
	}
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		EmployeeID: employeeID.String(),
		TenantID:   tenantID.String(),
		Roles:      roleStrings,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateToken parses and verifies a token, returning the actor it encodes.
func (s *JWTService) ValidateToken(tokenString string) (id.ActorContext, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return id.ActorContext{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return id.ActorContext{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return id.ActorContext{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return id.ActorContext{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	employeeID, err := id.ParseEmployeeID(claims.EmployeeID)
	if err != nil {
		return id.ActorContext{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	tenantID, err := id.ParseTenantID(claims.TenantID)
	if err != nil {
		return id.ActorContext{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token tenant")
	}
	actorRoles := make([]id.Role, len(claims.Roles))
	for i, r := range claims.Roles {
		actorRoles[i] = id.ParseRole(r)
	}

	return id.ActorContext{ID: employeeID, TenantID: tenantID, Roles: actorRoles}, nil
}
