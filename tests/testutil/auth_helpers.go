package testutil

import (
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/demenago/demenago-api/middleware"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer, role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Role: role,
		},
	}
}

// MockAuthMiddleware returns a middleware that simulates a validated JWT with
// the given identity and role, matching the context keys the real
// EnsureValidToken middleware sets.
func MockAuthMiddleware(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := MockValidatedClaims(auth0ID, "https://test.auth0.com/", role)
		c.Set("user_id", auth0ID)
		c.Set("validated_claims", claims)
		c.Next()
	}
}
