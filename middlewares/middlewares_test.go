package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(tokens *utils.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	r := gin.New()
	r.Use(RequestID(), LoggerMiddleware())

	who := func(c *gin.Context) {
		actor, _ := CurrentActor(c)
		utils.RespondJSON(c, http.StatusOK, "ok", actor)
	}
	r.GET("/me", AuthMiddleware(tokens), who)
	r.GET("/admin", AuthMiddleware(tokens), RequireRole(models.RoleAdmin), who)
	r.GET("/ws", WebSocketAuthMiddleware(tokens), who)
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := setupRouter(tokens)

	w := do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.GenerateToken(models.Actor{Role: models.RoleCustomer, Subject: "CUS1", CustomerID: "CUS1"})
	require.NoError(t, err)
	w = do(r, http.MethodGet, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	var resp struct {
		Data models.Actor `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CUS1", resp.Data.CustomerID)
}

func TestRevokedTokenRejected(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := setupRouter(tokens)
	token, err := tokens.GenerateToken(models.Actor{Role: models.RoleAdmin, Subject: "admin"})
	require.NoError(t, err)
	claims, err := tokens.ParseToken(token)
	require.NoError(t, err)

	tokens.Revoke(claims)
	w := do(r, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrTokenRevoked.Error())
}

func TestRequireRole(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := setupRouter(tokens)

	customer, err := tokens.GenerateToken(models.Actor{Role: models.RoleCustomer, Subject: "CUS1", CustomerID: "CUS1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin", customer).Code)

	admin, err := tokens.GenerateToken(models.Actor{Role: models.RoleAdmin, Subject: "admin"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin", admin).Code)
}

func TestWebSocketAuthReadsQuery(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := setupRouter(tokens)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/ws", "").Code)

	admin, err := tokens.GenerateToken(models.Actor{Role: models.RoleAdmin, Subject: "admin"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ws?token="+admin, "").Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddlewares("http://localhost:3000"), SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodOptions, "/x", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, http.MethodGet, "/x", "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}
