package adapter

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestScopeFromToken(t *testing.T) {
	t.Run("tenant and branch claims", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"tenant": "acme", "branch": "main"})

		scope, err := ScopeFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, "acme", scope.Tenant)
		assert.Equal(t, "main", scope.Branch)
	})

	t.Run("missing claims", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "user-1"})

		_, err := ScopeFromToken(token)
		assert.ErrorIs(t, err, ErrNoScopeClaims)
	})

	t.Run("partial scope is still usable", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"tenant": "acme"})

		scope, err := ScopeFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, "acme", scope.Tenant)
		assert.Empty(t, scope.Branch)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ScopeFromToken("not-a-jwt")
		assert.Error(t, err)
	})
}
