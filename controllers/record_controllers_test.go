package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/amorty/cafe-admin/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCRUD(t *testing.T) {
	env := setupRouterForTest(t)
	token := env.adminToken(t)

	code, resp := env.do(t, http.MethodPost, "/api/records/customer", token, map[string]string{
		"name":    "Mike Johnson",
		"contact": "+62812345673",
	})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	assert.Equal(t, "Customer created successfully", resp.Message)
	assert.Equal(t, "CUS3", decodeRecord(t, resp.Data)["id"])

	code, resp = env.do(t, http.MethodPatch, "/api/records/customer/CUS3", token, map[string]string{
		"contact": "+62899",
	})
	require.Equal(t, http.StatusOK, code, resp.Message)
	rec := decodeRecord(t, resp.Data)
	assert.Equal(t, "+62899", rec["contact"])
	assert.Equal(t, "Mike Johnson", rec["name"])

	code, resp = env.do(t, http.MethodGet, "/api/records/customer", token, nil)
	require.Equal(t, http.StatusOK, code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "CUS3", rows[2]["id"])

	code, _ = env.do(t, http.MethodDelete, "/api/records/customer/CUS3", token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(t, http.MethodDelete, "/api/records/customer/CUS3", token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	assert.Equal(t, []string{
		"customer:INSERT:CUS3",
		"customer:UPDATE:CUS3",
		"customer:DELETE:CUS3",
	}, env.events)
}

func TestRecordKindLookup(t *testing.T) {
	env := setupRouterForTest(t)
	token := env.adminToken(t)

	code, _ := env.do(t, http.MethodGet, "/api/records/Customers", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodGet, "/api/records/billiard", token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = env.do(t, http.MethodGet, "/api/records/meja/MJ9", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateRejectsBadFields(t *testing.T) {
	env := setupRouterForTest(t)
	token := env.adminToken(t)

	tests := []struct {
		name string
		kind string
		body map[string]interface{}
		code int
	}{
		{"unknown enum", "meja", map[string]interface{}{"number": 3, "status": "BROKEN"}, http.StatusUnprocessableEntity},
		{"bad date", "karyawan", map[string]interface{}{"name": "Dan", "hire_date": "31-02-2024"}, http.StatusUnprocessableEntity},
		{"missing table", "pesanan", map[string]interface{}{"customer_id": "CUS1", "menu_id": "MN1", "meja_id": "MJ9"}, http.StatusUnprocessableEntity},
		{"required reference", "pesanan", map[string]interface{}{"customer_id": "CUS1", "menu_id": "MN1"}, http.StatusUnprocessableEntity},
		{"key is read only", "menu", map[string]interface{}{"id": "MN7", "name": "Tea"}, http.StatusUnprocessableEntity},
		{"nested value", "menu", map[string]interface{}{"name": map[string]string{"en": "Tea"}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := env.do(t, http.MethodPost, "/api/records/"+tt.kind, token, tt.body)
			assert.Equal(t, tt.code, code, resp.Message)
			assert.False(t, resp.Status)
		})
	}
	assert.Empty(t, env.events)
}

func TestAdminOrderReservesTable(t *testing.T) {
	env := setupRouterForTest(t)
	token := env.adminToken(t)

	code, resp := env.do(t, http.MethodPost, "/api/records/pesanan", token, map[string]string{
		"customer_id": "CUS1",
		"karyawan_id": "KAR1",
		"menu_id":     "MN1",
		"meja_id":     "MJ2",
		"ordered_at":  "01-06-2024 18:30",
	})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	assert.Equal(t, "PES1", decodeRecord(t, resp.Data)["id"])

	meja, err := env.store.Get(context.Background(), schema.Meja, "MJ2")
	require.NoError(t, err)
	assert.Equal(t, schema.MejaReserved, meja["status"])
	assert.Contains(t, env.events, "meja:UPDATE:MJ2")
}

func TestCustomerPermissions(t *testing.T) {
	env := setupRouterForTest(t)
	token := env.customerToken(t, "CUS1")

	code, _ := env.do(t, http.MethodGet, "/api/records/karyawan", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := env.do(t, http.MethodGet, "/api/records/customer", token, nil)
	require.Equal(t, http.StatusOK, code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "CUS1", rows[0]["id"])

	code, _ = env.do(t, http.MethodPost, "/api/records/menu", token, map[string]string{"name": "Tea"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = env.do(t, http.MethodPatch, "/api/records/customer/CUS1", token, map[string]string{"name": "X"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = env.do(t, http.MethodDelete, "/api/records/menu/MN1", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = env.do(t, http.MethodGet, "/api/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	var kinds []map[string]interface{}
	_, resp = env.do(t, http.MethodGet, "/api/kinds", token, nil)
	require.NoError(t, json.Unmarshal(resp.Data, &kinds))
	names := make([]interface{}, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k["name"])
	}
	assert.NotContains(t, names, "karyawan")
	assert.Contains(t, names, "pesanan")
}

func TestCustomerPlacesOrder(t *testing.T) {
	env := setupRouterForTest(t)
	token := env.customerToken(t, "CUS2")

	code, resp := env.do(t, http.MethodPost, "/api/records/pesanan", token, map[string]string{
		"menu_id": "MN1",
		"meja_id": "MJ1",
	})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	rec := decodeRecord(t, resp.Data)
	assert.Equal(t, "PES1", rec["id"])
	assert.Equal(t, "CUS2", rec["customer_id"])

	// the table is now reserved
	code, _ = env.do(t, http.MethodPost, "/api/records/pesanan", token, map[string]string{
		"menu_id": "MN1",
		"meja_id": "MJ1",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = env.do(t, http.MethodPost, "/api/records/pesanan", token, map[string]string{
		"customer_id": "CUS1",
		"menu_id":     "MN1",
		"meja_id":     "MJ2",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = env.do(t, http.MethodGet, "/api/options/pesanan/meja_id", token, nil)
	require.Equal(t, http.StatusOK, code)
	var opts []map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &opts))
	require.Len(t, opts, 1)
	assert.Equal(t, "MJ2", opts[0]["value"])
}

func TestOptions(t *testing.T) {
	env := setupRouterForTest(t)
	token := env.adminToken(t)

	code, resp := env.do(t, http.MethodGet, "/api/options/meja/karyawan_id", token, nil)
	require.Equal(t, http.StatusOK, code)
	var opts []map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &opts))
	require.Len(t, opts, 1)
	assert.Equal(t, "KAR1", opts[0]["value"])
	assert.Equal(t, "KAR1 - Alice Brown", opts[0]["label"])

	code, _ = env.do(t, http.MethodGet, "/api/options/meja/status", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestDashboardStats(t *testing.T) {
	env := setupRouterForTest(t)
	token := env.adminToken(t)

	code, resp := env.do(t, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, code)

	var stats struct {
		Counts          map[string]int `json:"counts"`
		AvailableTables int            `json:"available_tables"`
		TotalRevenueIDR string         `json:"total_revenue_idr"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 2, stats.Counts["customer"])
	assert.Equal(t, 2, stats.AvailableTables)
	assert.Equal(t, "Rp 0", stats.TotalRevenueIDR)
}
