package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAdmin(t *testing.T) {
	env := setupRouterForTest(t)

	token := env.adminToken(t)
	claims, err := env.tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)

	code, resp := env.do(t, http.MethodPost, "/login/admin", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Status)

	code, _ = env.do(t, http.MethodPost, "/login/admin", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLoginCustomer(t *testing.T) {
	env := setupRouterForTest(t)

	token := env.customerToken(t, " cus1 ")
	claims, err := env.tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "CUS1", claims.CustomerID)

	code, _ := env.do(t, http.MethodPost, "/login/customer", "", map[string]string{"customer_id": "CUS9"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp := env.do(t, http.MethodPost, "/login/customer", "", map[string]string{"customer_id": ""})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Customer ID is required", resp.Message)
}

func TestGetProfile(t *testing.T) {
	env := setupRouterForTest(t)

	code, resp := env.do(t, http.MethodGet, "/api/me", env.customerToken(t, "CUS2"), nil)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Role     string                 `json:"role"`
		Customer map[string]interface{} `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "customer", data.Role)
	assert.Equal(t, "Jane Smith", data.Customer["name"])

	code, _ = env.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := setupRouterForTest(t)
	token := env.adminToken(t)

	code, _ := env.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, resp := env.do(t, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token has been revoked", resp.Message)
}
