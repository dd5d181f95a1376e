package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tokoshop/internal/apperror"
	"tokoshop/internal/database"
	"tokoshop/internal/middleware"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, resp *http.Response) middleware.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestErrorHandler(t *testing.T) {
	cause := errors.New("constraint violated")
	newApp := func(development bool) *fiber.App {
		app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(development)})
		app.Get("/missing", func(c *fiber.Ctx) error { return apperror.NotFound("product with ID 9 not found") })
		app.Get("/invalid", func(c *fiber.Ctx) error {
			return apperror.Validation(map[string]string{"email": "must be a valid email"})
		})
		app.Get("/conflict", func(c *fiber.Ctx) error { return apperror.Conflict("duplicate").Wrap(cause) })
		app.Get("/boom", func(c *fiber.Ctx) error { return cause })
		return app
	}

	t.Run("client errors are fail", func(t *testing.T) {
		resp, err := newApp(false).Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decode(t, resp)
		assert.Equal(t, "fail", body.Status)
		assert.Equal(t, "product with ID 9 not found", body.Message)
		assert.Empty(t, body.Error)
	})

	t.Run("validation carries fields", func(t *testing.T) {
		resp, err := newApp(false).Test(httptest.NewRequest(http.MethodGet, "/invalid", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode(t, resp)
		assert.Equal(t, "must be a valid email", body.Errors["email"])
	})

	t.Run("unknown routes use fiber status", func(t *testing.T) {
		resp, err := newApp(false).Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "fail", decode(t, resp).Status)
	})

	t.Run("server errors hide detail in production", func(t *testing.T) {
		resp, err := newApp(false).Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decode(t, resp)
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "Internal server error", body.Message)
		assert.Empty(t, body.Error)
	})

	t.Run("development shows detail", func(t *testing.T) {
		resp, err := newApp(true).Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.NoError(t, err)
		assert.Equal(t, "constraint violated", decode(t, resp).Error)

		resp, err = newApp(true).Test(httptest.NewRequest(http.MethodGet, "/conflict", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "constraint violated", decode(t, resp).Error)
	})
}

func TestAuthRequired(t *testing.T) {
	db, err := database.OpenSQLite()
	require.NoError(t, err)
	authService := services.NewAuthService(
		repositories.NewGORMCustomerRepository(db),
		repositories.NewGORMStaffRepository(db),
		repositories.NewGORMTokenDenylist(db),
		"middleware_secret",
		time.Hour,
	)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(false)})
	protected := app.Group("/", middleware.AuthRequired(authService))
	protected.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(middleware.Principal(c).ID)
	})
	protected.Get("/staff", middleware.RequireStaff(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	protected.Get("/admin", middleware.RequireAdmin(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })

	customerToken, err := authService.IssueToken("cust-1", models.RoleCustomer, services.KindCustomer)
	require.NoError(t, err)
	staffToken, err := authService.IssueToken("staff-1", models.RoleStaff, services.KindStaff)
	require.NoError(t, err)

	get := func(path, header string, cookie *http.Cookie) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if cookie != nil {
			req.AddCookie(cookie)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, get("/me", "", nil))
	assert.Equal(t, http.StatusUnauthorized, get("/me", "Token "+customerToken, nil))
	assert.Equal(t, http.StatusUnauthorized, get("/me", "Bearer not-a-token", nil))
	assert.Equal(t, http.StatusOK, get("/me", "Bearer "+customerToken, nil))
	assert.Equal(t, http.StatusOK, get("/me", "", &http.Cookie{Name: middleware.TokenCookie, Value: customerToken}))

	assert.Equal(t, http.StatusForbidden, get("/staff", "Bearer "+customerToken, nil))
	assert.Equal(t, http.StatusNoContent, get("/staff", "Bearer "+staffToken, nil))
	assert.Equal(t, http.StatusForbidden, get("/admin", "Bearer "+staffToken, nil))
}
