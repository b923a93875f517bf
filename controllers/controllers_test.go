package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amorty/cafe-admin/controllers"
	"github.com/amorty/cafe-admin/database"
	"github.com/amorty/cafe-admin/middlewares"
	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/store"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	router *gin.Engine
	store  *store.MemoryStore
	tokens *utils.TokenManager
	events []string
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupTestDB menggunakan SQLite in-memory untuk akun admin
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.EnsureAdmin(db, "admin", "secret123"))
	return db
}

func seedVenue(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	rows := []struct {
		kind *schema.Kind
		rec  models.Record
	}{
		{schema.Customer, models.Record{"id": "CUS1", "name": "John Doe", "contact": "+62812345671"}},
		{schema.Customer, models.Record{"id": "CUS2", "name": "Jane Smith", "contact": "+62812345672"}},
		{schema.Karyawan, models.Record{"id": "KAR1", "name": "Alice Brown", "salary": 4500000.0}},
		{schema.Menu, models.Record{"id": "MN1", "name": "Espresso", "price": 15000.0, "category": "Minuman"}},
		{schema.Meja, models.Record{"id": "MJ1", "number": int64(1), "status": schema.MejaAvailable, "karyawan_id": "KAR1"}},
		{schema.Meja, models.Record{"id": "MJ2", "number": int64(2), "status": schema.MejaAvailable, "karyawan_id": "KAR1"}},
	}
	for _, r := range rows {
		require.NoError(t, s.Add(ctx, r.kind, r.rec))
	}
}

// setupRouterForTest mengonfigurasi router dengan endpoint yang akan diuji
func setupRouterForTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	db := setupTestDB(t)
	env := &testEnv{
		store:  store.NewMemoryStore(),
		tokens: utils.NewTokenManager("test-secret", time.Hour),
	}
	seedVenue(t, env.store)

	onChange := func(kind *schema.Kind, action, key string) {
		env.events = append(env.events, kind.Name+":"+action+":"+key)
	}

	userCtrl := controllers.NewUserController(db, env.store, env.tokens)
	recordCtrl := controllers.NewRecordController(env.store, onChange)
	adminCtrl := controllers.NewAdminController(env.store)
	adminCtrl.Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.POST("/login/admin", userCtrl.LoginAdmin)
	r.POST("/login/customer", userCtrl.LoginCustomer)
	r.POST("/logout", middlewares.AuthMiddleware(env.tokens), userCtrl.Logout)

	api := r.Group("/api", middlewares.AuthMiddleware(env.tokens))
	api.GET("/me", userCtrl.GetProfile)
	api.GET("/kinds", recordCtrl.ListKinds)
	api.GET("/records/:kind", recordCtrl.List)
	api.POST("/records/:kind", recordCtrl.Create)
	api.GET("/records/:kind/:id", recordCtrl.Get)
	api.PATCH("/records/:kind/:id", recordCtrl.Update)
	api.DELETE("/records/:kind/:id", recordCtrl.Delete)
	api.GET("/options/:kind/:field", recordCtrl.Options)
	api.GET("/stats", middlewares.RequireRole(models.RoleAdmin), adminCtrl.GetDashboardStats)

	env.router = r
	return env
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func (env *testEnv) login(t *testing.T, path string, body interface{}) string {
	t.Helper()
	code, resp := env.do(t, http.MethodPost, path, "", body)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (env *testEnv) adminToken(t *testing.T) string {
	return env.login(t, "/login/admin", map[string]string{"username": "admin", "password": "secret123"})
}

func (env *testEnv) customerToken(t *testing.T, id string) string {
	return env.login(t, "/login/customer", map[string]string{"customer_id": id})
}

func decodeRecord(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &rec))
	return rec
}
