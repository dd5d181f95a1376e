package handlers

import (
	"time"

	"tokoshop/internal/middleware"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the token cookie Secure.
func NewAuthHandler(authService *services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, g Guards) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/staff/login", h.HandleStaffLogin)
	authRoutes.Post("/logout", g.Auth, h.HandleLogout)
	authRoutes.Get("/me", g.Auth, h.HandleMe)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the account it belongs to.
type LoginResponse struct {
	Token   string `json:"token"`
	Account any    `json:"account"`
}

// HandleRegister handles new customer registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterCustomerInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	customer, err := h.authService.RegisterCustomer(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Customer registered successfully", customer)
}

// HandleLogin handles customer login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, customer, err := h.authService.LoginCustomer(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setTokenCookie(c, token)
	return respond(c, fiber.StatusOK, "Login successful", LoginResponse{Token: token, Account: customer})
}

// HandleStaffLogin handles back-office login.
func (h *AuthHandler) HandleStaffLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, staff, err := h.authService.LoginStaff(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setTokenCookie(c, token)
	return respond(c, fiber.StatusOK, "Login successful", LoginResponse{Token: token, Account: staff})
}

// HandleLogout revokes the caller's token and clears the cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.Token(c), middleware.Principal(c)); err != nil {
		return err
	}
	c.ClearCookie(middleware.TokenCookie)
	return respond(c, fiber.StatusOK, "Logout successful", nil)
}

// HandleMe returns the authenticated account.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	account, err := h.authService.CurrentAccount(c.UserContext(), middleware.Principal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Account retrieved", account)
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(h.authService.TokenDuration()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
