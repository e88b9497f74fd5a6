package session

import (
	"errors"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/ems-platform/web-client/internal/domain"
)

// ErrNoRoleClaim reports a token whose payload carries no usable role.
var ErrNoRoleClaim = errors.New("token carries no usable role claim")

type roleClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// DecodeRole extracts the role claim from a session token. The signature is
// deliberately not verified: the backend validates every request, so the
// decoded role is advisory and used only for screen gating. Backend tokens
// prefix the claim with "ROLE_".
func DecodeRole(token string) (domain.Role, error) {
	claims := &roleClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", err
	}

	role := domain.Role(strings.TrimPrefix(claims.Role, "ROLE_"))
	if !role.Valid() {
		return "", ErrNoRoleClaim
	}
	return role, nil
}
