package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tillpoint/internal/core/appctx"
	"tillpoint/internal/core/apperror"
)

// TokenValidator validates a bearer token and returns the cashier identity.
type TokenValidator interface {
	ValidateToken(tokenString string) (*appctx.Cashier, error)
}

// Auth middleware validates JWT tokens and populates the cashier context.
// The webhook endpoint is not behind this middleware: the gateway
// authenticates with its signature, not a session.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		cashier, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		ctx := appctx.WithCashier(c.Request.Context(), cashier)
		c.Request = c.Request.WithContext(ctx)
		c.Set("cashier_id", cashier.ID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
