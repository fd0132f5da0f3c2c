package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ebd-admin/ebd-api/internal/models"
	appErrors "github.com/ebd-admin/ebd-api/pkg/errors"
	"github.com/ebd-admin/ebd-api/pkg/response"
)

// RequireRoles enforces role-based access control for routes.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// ClassAccess rejects requests whose turma_id, taken from the path or the
// query string, lies outside the caller's permitted classes.
func ClassAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		classID := c.Param("turma_id")
		if classID == "" {
			classID = c.Query("turma_id")
		}
		if classID == "" {
			c.Next()
			return
		}
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if !claims.CanAccessClass(classID) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "class is outside your permissions"))
			return
		}
		c.Next()
	}
}
