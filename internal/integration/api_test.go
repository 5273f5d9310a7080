package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acgl-management-api/internal/config"
	"acgl-management-api/internal/database"
	"acgl-management-api/internal/handler"
	"acgl-management-api/internal/middleware"
	"acgl-management-api/internal/repository"
	"acgl-management-api/internal/router"
	"acgl-management-api/internal/service"
	"acgl-management-api/internal/session"
)

// newTestServer boots the full stack against a throwaway SQLite file.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "integration_test.db")
	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_fk=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Bootstrap(db))

	logger := log.New(io.Discard, "", 0)
	sessions := session.NewStore(session.DefaultTTL)

	inventory := service.NewInventoryFromDB(db, nil, logger)
	auth := service.NewAuth(repository.NewUserStore(db), sessions, logger)

	cfg := &config.Config{
		Security: config.SecurityConfig{
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
			RequestTimeout: 30 * time.Second,
			EnableCORS:     true,
			AllowedOrigins: []string{"*"},
		},
	}

	r := router.NewRouter(
		handler.NewEntityHandler(inventory, logger),
		handler.NewAuthHandler(auth, logger),
		handler.NewLookupHandler(repository.NewLookupStore(db), logger),
		middleware.NewAuthMiddleware(auth, logger),
		cfg,
	)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func login(t *testing.T, server *httptest.Server, username, password string) string {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestLoginAndSessionGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)

	// Dashboard routes reject anonymous callers.
	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/assets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Wrong password is rejected.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, server, "admin", "admin123")

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/session", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", body["username"])

	// Logout invalidates the token.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/assets", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEntityLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)
	token := login(t, server, "admin", "admin123")

	// Create an asset.
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/assets", token, map[string]interface{}{
		"asset_number": "AST001",
		"name":         "Dell Laptop",
		"department":   "IT Department",
		"hostname":     "acgl-lap-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	id := int64(body["id"].(float64))

	// Fetch it back.
	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/assets/%d", server.URL, id), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AST001", body["asset_number"])
	assert.Equal(t, float64(1), body["sr_number"])
	assert.Equal(t, "admin", body["created_by"])

	// A missing record reads as an empty object.
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/assets/999", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)

	// Update one field; the rest stay intact.
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/assets/%d", server.URL, id), token, map[string]interface{}{
		"name": "Dell Latitude",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/assets/%d", server.URL, id), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Dell Latitude", body["name"])
	assert.Equal(t, "acgl-lap-01", body["hostname"])
	assert.Equal(t, "AST001", body["asset_number"])

	// Validation failures do not mutate.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/assets", token, map[string]interface{}{
		"asset_number": "AST002",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	listReq, err := http.NewRequest(http.MethodGet, server.URL+"/api/assets", nil)
	require.NoError(t, err)
	listReq.Header.Set("Authorization", "Bearer "+token)
	listResp, err := http.DefaultClient.Do(listReq)
	require.NoError(t, err)
	defer listResp.Body.Close()

	var records []map[string]interface{}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&records))
	assert.Len(t, records, 1)
}

func TestSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)
	token := login(t, server, "admin", "admin123")

	for _, sw := range []string{"SW1", "SW2", "SW3"} {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/switches", token, map[string]interface{}{
			"switch_id":  sw,
			"name":       "Cisco " + sw,
			"department": "IT Department",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/switches/search/sw2", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, "SW2", records[0]["switch_id"])
}

func TestDeleteRequiresAdmin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)

	adminToken := login(t, server, "admin", "admin123")
	deepakToken := login(t, server, "deepak", "deepak123")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/printers", adminToken, map[string]interface{}{
		"printer_id": "PRN001",
		"name":       "HP LaserJet",
		"department": "HR Department",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int64(body["id"].(float64))

	// A named-user session can read but not delete.
	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/printers/%d", server.URL, id), deepakToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/printers/%d", server.URL, id), deepakToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The record is untouched, and the admin can delete it.
	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/printers/%d", server.URL, id), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PRN001", body["printer_id"])

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/printers/%d", server.URL, id), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Deleting again reports not found.
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/printers/%d", server.URL, id), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardStatsAndLookups(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)
	token := login(t, server, "shivaji", "shivaji123")

	srv := map[string]interface{}{
		"server_brand":  "HP",
		"serial_number": "SN-1",
		"model_number":  "DL380",
	}
	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/sap_servers", token, srv)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	srv["serial_number"] = "SN-2"
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/non_sap_servers", token, srv)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats, ok := body["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), stats["sap_servers"])
	assert.Equal(t, float64(1), stats["non_sap_servers"])
	assert.Equal(t, float64(2), stats["servers"])
	assert.Equal(t, float64(0), stats["assets"])

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/plants", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	plantsResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer plantsResp.Body.Close()

	var plants []map[string]interface{}
	require.NoError(t, json.NewDecoder(plantsResp.Body).Decode(&plants))
	require.Len(t, plants, 3)
	assert.Equal(t, "Plant A", plants[0]["name"])
}

func TestUnknownCollection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)
	token := login(t, server, "admin", "admin123")

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/spaceships", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
