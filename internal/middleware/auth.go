package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lankaspa/portal/pkg/auth"
	apperrors "github.com/lankaspa/portal/pkg/errors"
	"github.com/lankaspa/portal/pkg/httputil"
)

const (
	ContextClaims = "auth_claims"
	ContextSpaID  = "auth_spa_id"
)

type AuthMiddleware struct {
	jwt auth.JWTService
}

func NewAuthMiddleware(jwt auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// RequireRole admits only bearers of a token carrying one of the given
// roles. Spa admins additionally get their spa ID placed on the context so
// handlers can scope their queries.
func (m *AuthMiddleware) RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			httputil.RespondWithError(c, apperrors.Unauthorized(nil))
			c.Abort()
			return
		}

		claims, err := m.jwt.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			c.Abort()
			return
		}

		allowed := false
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			httputil.RespondWithError(c, apperrors.Forbidden("insufficient role"))
			c.Abort()
			return
		}

		c.Set(ContextClaims, claims)
		if claims.SpaID != "" {
			c.Set(ContextSpaID, claims.SpaID)
		}
		c.Next()
	}
}
