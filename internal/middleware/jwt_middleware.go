package middleware

import (
	"strings"

	"tokoshop/internal/apperror"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired.
const (
	principalKey = "principal"
	tokenKey     = "token"
)

// TokenCookie is the cookie the login handlers set and AuthRequired reads.
const TokenCookie = "token"

// AuthRequired is a Fiber middleware to check for a valid JWT token, sent either as
// "Authorization: Bearer <token>" or in the token cookie.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c)
		if err != nil {
			return err
		}

		principal, err := authService.ValidateToken(c.UserContext(), tokenString)
		if err != nil {
			return err
		}

		// Store the caller in Fiber context for subsequent handlers
		c.Locals(principalKey, principal)
		c.Locals(tokenKey, tokenString)

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if cookie := c.Cookies(TokenCookie); cookie != "" {
			return cookie, nil
		}
		return "", apperror.Unauthorized("Authorization header is required")
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "") {
		return "", apperror.Unauthorized("Authorization header format must be 'Bearer <token>'")
	}
	return parts[1], nil
}

// RequireStaff lets staff and admins through. Must run after AuthRequired.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Principal(c).IsStaff() {
			return apperror.Forbidden("staff access required")
		}
		return c.Next()
	}
}

// RequireAdmin lets only admins through. Must run after AuthRequired.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Principal(c).IsAdmin() {
			return apperror.Forbidden("admin access required")
		}
		return c.Next()
	}
}

// RequireCustomer rejects back-office accounts on customer-only routes.
func RequireCustomer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := Principal(c)
		if p == nil || p.Kind != services.KindCustomer {
			return apperror.Forbidden("customer account required")
		}
		return c.Next()
	}
}

// Principal returns the authenticated caller, or nil on public routes.
func Principal(c *fiber.Ctx) *services.Principal {
	p, _ := c.Locals(principalKey).(*services.Principal)
	return p
}

// Token returns the raw token the caller authenticated with.
func Token(c *fiber.Ctx) string {
	t, _ := c.Locals(tokenKey).(string)
	return t
}

// OptionalAuth decodes a token when one is present but never rejects the request.
// Public routes use it to show extra data to staff.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c)
		if err != nil {
			return c.Next()
		}
		if principal, err := authService.ValidateToken(c.UserContext(), tokenString); err == nil {
			c.Locals(principalKey, principal)
			c.Locals(tokenKey, tokenString)
		}
		return c.Next()
	}
}
