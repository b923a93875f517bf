package middlewares

import (
	"net/http"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware reads the token from the query string, since
// browsers cannot set headers on a websocket handshake.
func WebSocketAuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, models.ErrMissingToken)
			c.Abort()
			return
		}
		if !authenticate(c, tokens, token) {
			return
		}
		c.Next()
	}
}
