package middlewares

import (
	"net/http"
	"strings"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
)

const (
	ctxActor  = "actor"
	ctxClaims = "claims"
)

func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, models.ErrMissingToken)
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if !authenticate(c, tokens, tokenString) {
			return
		}
		c.Next()
	}
}

// authenticate validates tokenString and stores the actor on the context.
// It aborts the request and returns false on failure.
func authenticate(c *gin.Context, tokens *utils.TokenManager, tokenString string) bool {
	claims, err := tokens.ParseToken(tokenString)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		c.Abort()
		return false
	}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleCustomer {
		utils.RespondError(c, http.StatusUnauthorized, models.ErrInvalidToken)
		c.Abort()
		return false
	}

	c.Set(ctxClaims, claims)
	c.Set(ctxActor, claims.Actor())
	return true
}

// CurrentActor returns the authenticated actor. ok is false on public routes.
func CurrentActor(c *gin.Context) (models.Actor, bool) {
	v, exists := c.Get(ctxActor)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// CurrentClaims returns the parsed token of the request.
func CurrentClaims(c *gin.Context) (*utils.CustomClaims, bool) {
	v, exists := c.Get(ctxClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*utils.CustomClaims)
	return claims, ok
}
