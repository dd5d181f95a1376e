package server_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"tokoshop/internal/config"
	"tokoshop/internal/database"
	"tokoshop/internal/repositories"
	"tokoshop/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newApp(t *testing.T, cacheTTL time.Duration) *fiber.App {
	t.Helper()
	db, err := database.OpenSQLite()
	require.NoError(t, err)
	require.NoError(t, database.Seed(db))

	return server.New(server.Deps{
		Config: &config.Config{
			Env:          "production",
			JWTSecret:    "server_test_secret",
			JWTExpiresIn: time.Hour,
			ShippingFee:  decimal.NewFromInt(30000),
			CacheTTL:     cacheTTL,
			CORSOrigins:  "http://localhost:3000",
		},
		DB:       db,
		Denylist: repositories.NewGORMTokenDenylist(db),
	})
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return fmt.Sprintf(":%d", l.Addr().(*net.TCPAddr).Port)
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	app := newApp(t, 0)
	appPort := freePort(t)

	// Start the server in a goroutine
	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Printf("Test server listen error: %v", err)
		}
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client := &http.Client{Timeout: time.Second}

	// Give the server a moment to start
	var resp *http.Response
	require.Eventually(t, func() bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost"+appPort+"/health", nil)
		if err != nil {
			return false
		}
		resp, err = client.Do(req)
		return err == nil
	}, 3*time.Second, 50*time.Millisecond)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(bodyBytes), `"status":"healthy"`)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	// --- Test Unauthenticated Access ---
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost"+appPort+"/api/orders", nil)
	require.NoError(t, err)
	respOrders, err := client.Do(req)
	require.NoError(t, err)
	defer respOrders.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, respOrders.StatusCode, "Expected Unauthorized for /orders without token")

	// --- Public catalogue needs no token ---
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost"+appPort+"/api/products", nil)
	require.NoError(t, err)
	respProducts, err := client.Do(req)
	require.NoError(t, err)
	defer respProducts.Body.Close()
	assert.Equal(t, http.StatusOK, respProducts.StatusCode)
}

func TestListingsAreCached(t *testing.T) {
	app := newApp(t, time.Minute)

	get := func(path string) *http.Response {
		resp, err := app.Test(newRequest(path), -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	assert.Equal(t, "miss", get("/api/products?sort=newest").Header.Get("X-Cache"))
	assert.Equal(t, "hit", get("/api/products?sort=newest").Header.Get("X-Cache"))
	assert.Equal(t, "miss", get("/api/products?sort=popular").Header.Get("X-Cache"))

	// Product detail reads count views, so they bypass the cache.
	assert.Empty(t, get("/api/products/unknown").Header.Get("X-Cache"))
}

func TestProductionErrorsHideDetail(t *testing.T) {
	app := newApp(t, 0)
	resp, err := app.Test(newRequest("/api/products/does-not-exist"), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"fail"`)
	assert.NotContains(t, string(body), `"error"`)
}

func newRequest(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}
