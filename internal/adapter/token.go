package adapter

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jdbravo/vencsync/models"
)

// ErrNoScopeClaims is returned when the access token carries no tenant or
// branch claim to derive a default scope from.
var ErrNoScopeClaims = errors.New("token carries no scope claims")

// ScopeFromToken derives the default sync scope from the tenant and branch
// claims of the access token. The signature is not verified here: the token
// was issued to this client by the surrounding application and is validated
// by the remote store on every request; the client only reads the partition
// it was scoped to.
func ScopeFromToken(token string) (models.Scope, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return models.Scope{}, fmt.Errorf("parse access token: %w", err)
	}

	tenant, _ := claims["tenant"].(string)
	branch, _ := claims["branch"].(string)

	scope := models.Scope{Tenant: tenant, Branch: branch}
	if scope.IsZero() {
		return models.Scope{}, ErrNoScopeClaims
	}

	return scope, nil
}
