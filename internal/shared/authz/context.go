package authz

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContextKey is the gin context key under which the auth middleware stores
// the resolved AuthContext.
const ContextKey = "auth_context"

// AuthContext identifies the actor of a request. It is constructed exactly
// once per request by the auth middleware and passed explicitly into every
// status-engine and visibility-gate call; nothing below the handler layer
// reads identity from globals.
type AuthContext struct {
	ActorEmail string `json:"actor_email"`
	IsAdmin    bool   `json:"is_admin"`
}

// Owns reports whether the actor is the owner identified by email.
// Admins do not implicitly own anything; ownership and admin override are
// separate checks.
func (a AuthContext) Owns(ownerEmail string) bool {
	return a.ActorEmail != "" && a.ActorEmail == ownerEmail
}

var ErrMissingAuthContext = errors.New("auth context not found in request")

// FromGin extracts the AuthContext set by the auth middleware.
func FromGin(c *gin.Context) (AuthContext, error) {
	v, exists := c.Get(ContextKey)
	if !exists {
		return AuthContext{}, ErrMissingAuthContext
	}

	actor, ok := v.(AuthContext)
	if !ok {
		return AuthContext{}, ErrMissingAuthContext
	}

	return actor, nil
}
