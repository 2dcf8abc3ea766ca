package middleware

import (
	"strings"

	"github.com/emsteam/ems-api/internal/constants"
	apierrors "github.com/emsteam/ems-api/internal/errors"
	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RequireAuth checks the bearer token and stores the caller in the context
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			apierrors.Unauthorized(c, "No token provided")
			return
		}

		principal, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			apierrors.Unauthorized(c, services.PublicMessage(err))
			return
		}

		c.Set(constants.ContextKeyUserID, principal.UserID)
		c.Set(constants.ContextKeyRole, principal.Role)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not listed
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		if _, ok := roleSet[principal.Role]; !ok {
			apierrors.Forbidden(c, "")
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetPrincipal retrieves the authenticated caller from context
func GetPrincipal(c *gin.Context) (services.Principal, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return services.Principal{}, false
	}

	role, ok := c.Get(constants.ContextKeyRole)
	if !ok {
		return services.Principal{}, false
	}
	r, ok := role.(models.Role)
	if !ok {
		return services.Principal{}, false
	}

	return services.Principal{UserID: userID, Role: r}, true
}
