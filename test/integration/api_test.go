// Package integration provides end-to-end integration tests for the vaultcode API.
// Tests all API endpoints against both PostgreSQL and MySQL databases.
package integration

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultcode/vaultcode/internal/app"
	"github.com/vaultcode/vaultcode/internal/config"
	"github.com/vaultcode/vaultcode/internal/httputil"
	"github.com/vaultcode/vaultcode/internal/testutil"
	vaultDTO "github.com/vaultcode/vaultcode/internal/vault/http/dto"
)

const testAdminAPIKey = "integration-test-admin-key"

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	asAdmin bool,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if asAdmin {
		req.Header.Set("X-Admin-Key", testAdminAPIKey)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// generateEncryptionKey creates a hex-encoded 32-byte content encryption key for testing.
func generateEncryptionKey() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(fmt.Sprintf("failed to generate encryption key: %v", err))
	}
	return hex.EncodeToString(key)
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Setup database
	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	// Create configuration
	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",
		EncryptionKey:        generateEncryptionKey(),
		EncryptionAlgorithm:  "aes-gcm",
		DefaultExpiry:        24 * time.Hour,
		MaxContentBytes:      1 << 20,
		AdminAPIKey:          testAdminAPIKey,
	}

	// Create DI container
	container := app.NewContainer(cfg)

	// Setup HTTP server
	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil")

	// Create test server with the handler
	testServer := httptest.NewServer(handler)

	t.Logf("Integration test setup complete for %s", dbDriver)

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    testServer,
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		err := ctx.container.Shutdown(context.Background())
		if err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}

	t.Logf("Integration test teardown complete for %s", ctx.dbDriver)
}

// dbDrivers enumerates the database backends every integration test runs against.
var dbDrivers = []struct {
	name     string
	dbDriver string
}{
	{"PostgreSQL", "postgres"},
	{"MySQL", "mysql"},
}

func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range dbDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, false)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(body), "healthy")

			resp, body = ctx.makeRequest(t, http.MethodGet, "/ready", nil, false)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(body), "ready")
		})
	}
}

func TestIntegration_Secret_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range dbDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			// Create with a generated vault code
			resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{
				Content: "first version",
			}, false)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)

			var upsert vaultDTO.UpsertSecretResponse
			require.NoError(t, json.Unmarshal(body, &upsert))
			require.NotEmpty(t, upsert.ID, "server should generate a vault code")

			// Retrieve the content back
			resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/secrets/"+upsert.ID, nil, false)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)

			var retrieved vaultDTO.RetrievedSecretResponse
			require.NoError(t, json.Unmarshal(body, &retrieved))
			assert.Equal(t, upsert.ID, retrieved.ID)
			assert.Equal(t, "first version", retrieved.Content)
			assert.Empty(t, retrieved.History)

			// Update via upsert with the same vault code
			resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{
				ID:      upsert.ID,
				Content: "second version",
			}, false)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)

			resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/secrets/"+upsert.ID, nil, false)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)
			require.NoError(t, json.Unmarshal(body, &retrieved))
			assert.Equal(t, "second version", retrieved.Content)
			require.Len(t, retrieved.History, 1, "prior version should be in history")
			assert.Equal(t, "first version", retrieved.History[0].Content)

			// Delete and verify the secret is gone
			resp, _ = ctx.makeRequest(t, http.MethodDelete, "/v1/secrets/"+upsert.ID, nil, false)
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)

			resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/secrets/"+upsert.ID, nil, false)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)

			// Delete is idempotent
			resp, _ = ctx.makeRequest(t, http.MethodDelete, "/v1/secrets/"+upsert.ID, nil, false)
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		})
	}
}

func TestIntegration_Secret_ChosenCode(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range dbDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			// Explicit creation under a caller-chosen vault code
			resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/secrets/deploy-creds", vaultDTO.CreateSecretRequest{
				Content: "hunter2",
			}, false)
			require.Equal(t, http.StatusCreated, resp.StatusCode, "unexpected body: %s", body)

			// Creating again under the same code conflicts
			resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/secrets/deploy-creds", vaultDTO.CreateSecretRequest{
				Content: "other",
			}, false)
			assert.Equal(t, http.StatusConflict, resp.StatusCode)

			var errResp httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, "conflict", errResp.Error)

			// Upsert with an unknown code is rejected, not created
			resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{
				ID:      "never-created",
				Content: "whatever",
			}, false)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestIntegration_Secret_PasswordProtection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range dbDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{
				Content:  "guarded",
				Password: "open-sesame",
			}, false)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)

			var upsert vaultDTO.UpsertSecretResponse
			require.NoError(t, json.Unmarshal(body, &upsert))

			// No password supplied
			resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/secrets/"+upsert.ID, nil, false)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var errResp httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, "password_required", errResp.Error)

			// Wrong password
			resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/secrets/"+upsert.ID+"?password=wrong", nil, false)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, "invalid_password", errResp.Error)

			// Correct password
			resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/secrets/"+upsert.ID+"?password=open-sesame", nil, false)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)

			var retrieved vaultDTO.RetrievedSecretResponse
			require.NoError(t, json.Unmarshal(body, &retrieved))
			assert.Equal(t, "guarded", retrieved.Content)
		})
	}
}

func TestIntegration_Secret_Expiry(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range dbDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{
				Content:    "short lived",
				ExpiryTime: time.Now().Add(200 * time.Millisecond),
			}, false)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)

			var upsert vaultDTO.UpsertSecretResponse
			require.NoError(t, json.Unmarshal(body, &upsert))

			time.Sleep(300 * time.Millisecond)

			resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/secrets/"+upsert.ID, nil, false)
			assert.Equal(t, http.StatusGone, resp.StatusCode)

			var errResp httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, "expired", errResp.Error)

			// Expired retrieval purges the row, so subsequent requests see not found
			resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/secrets/"+upsert.ID, nil, false)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestIntegration_Secret_Validation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range dbDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			// Missing content
			resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{}, false)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			// Vault code with characters outside the allowed set
			resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{
				ID:      "bad code!",
				Content: "content",
			}, false)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			// Expiry in the past
			resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{
				Content:    "content",
				ExpiryTime: time.Now().Add(-time.Hour),
			}, false)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		})
	}
}

func TestIntegration_Admin_ListSecrets(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range dbDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{
				Content:  "plain secret",
				Password: "pw",
			}, false)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)

			var upsert vaultDTO.UpsertSecretResponse
			require.NoError(t, json.Unmarshal(body, &upsert))

			// Without the admin key
			resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/admin/secrets", nil, false)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			// With the admin key
			resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/admin/secrets", nil, true)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)

			var list vaultDTO.ListAdminSecretsResponse
			require.NoError(t, json.Unmarshal(body, &list))
			require.Len(t, list.Data, 1)
			assert.Equal(t, upsert.ID, list.Data[0].ID)
			assert.Equal(t, "plain secret", list.Data[0].ContentPreview)
			assert.True(t, list.Data[0].IsPasswordProtected)
		})
	}
}

func TestIntegration_Admin_PurgeExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range dbDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{
				Content:    "about to expire",
				ExpiryTime: time.Now().Add(100 * time.Millisecond),
			}, false)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)

			resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/secrets", vaultDTO.CreateOrUpdateSecretRequest{
				Content: "long lived",
			}, false)
			require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected body: %s", body)

			time.Sleep(200 * time.Millisecond)

			useCase, err := ctx.container.VaultUseCase()
			require.NoError(t, err)

			// Dry run reports without deleting
			count, err := useCase.PurgeExpired(context.Background(), true)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			count, err = useCase.PurgeExpired(context.Background(), false)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			count, err = useCase.PurgeExpired(context.Background(), true)
			require.NoError(t, err)
			assert.Equal(t, int64(0), count)
		})
	}
}
