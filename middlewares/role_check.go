package middlewares

import (
	"net/http"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
)

// RequireRole lets through only actors holding one of roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, models.ErrMissingToken)
			c.Abort()
			return
		}

		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		utils.RespondError(c, http.StatusForbidden, models.ErrNoPermission)
		c.Abort()
	}
}
