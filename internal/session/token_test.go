package session

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ems-platform/web-client/internal/domain"
)

// makeToken builds an unsigned JWT carrying the given claims. Role decoding
// never checks the signature, so an empty third segment is enough.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "."
}

func TestDecodeRoleStripsBackendPrefix(t *testing.T) {
	cases := map[string]domain.Role{
		"ROLE_ADMIN":    domain.RoleAdmin,
		"ROLE_MANAGER":  domain.RoleManager,
		"ROLE_EMPLOYEE": domain.RoleEmployee,
	}
	for claim, want := range cases {
		role, err := DecodeRole(makeToken(t, map[string]any{"role": claim, "sub": "jane"}))
		require.NoError(t, err, claim)
		assert.Equal(t, want, role)
	}
}

func TestDecodeRoleAcceptsBareClaim(t *testing.T) {
	role, err := DecodeRole(makeToken(t, map[string]any{"role": "MANAGER"}))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, role)
}

func TestDecodeRoleRejectsUnknownRole(t *testing.T) {
	_, err := DecodeRole(makeToken(t, map[string]any{"role": "ROLE_WIZARD"}))
	assert.ErrorIs(t, err, ErrNoRoleClaim)
}

func TestDecodeRoleRejectsMissingClaim(t *testing.T) {
	_, err := DecodeRole(makeToken(t, map[string]any{"sub": "jane"}))
	assert.ErrorIs(t, err, ErrNoRoleClaim)
}

func TestDecodeRoleRejectsMalformedToken(t *testing.T) {
	for _, token := range []string{"", "garbage", "a.b", "!!!.???.###"} {
		_, err := DecodeRole(token)
		assert.Error(t, err, token)
	}
}
