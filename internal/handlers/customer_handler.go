package handlers

import (
	"tokoshop/internal/middleware"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CustomerHandler serves the customer's own profile and the back-office customer list.
type CustomerHandler struct {
	service *services.CustomerService
}

func NewCustomerHandler(service *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

func (h *CustomerHandler) RegisterRoutes(router fiber.Router, g Guards) {
	customerRoutes := router.Group("/customers", g.Auth)
	customerRoutes.Get("/me", middleware.RequireCustomer(), h.HandleGetProfile)
	customerRoutes.Patch("/me", middleware.RequireCustomer(), h.HandleUpdateProfile)
	customerRoutes.Put("/me/password", middleware.RequireCustomer(), h.HandleChangePassword)
	customerRoutes.Get("/", middleware.RequireStaff(), h.HandleGetCustomers)
	customerRoutes.Get("/:id", middleware.RequireStaff(), h.HandleGetCustomer)
	customerRoutes.Patch("/:id/active", middleware.RequireAdmin(), h.HandleSetActive)
}

func (h *CustomerHandler) HandleGetProfile(c *fiber.Ctx) error {
	customer, err := h.service.GetCustomer(c.UserContext(), middleware.Principal(c).ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Profile retrieved", customer)
}

func (h *CustomerHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req services.UpdateProfileInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.UpdateProfile(c.UserContext(), middleware.Principal(c).ID, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Profile updated", customer)
}

func (h *CustomerHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req services.ChangePasswordInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.service.ChangePassword(c.UserContext(), middleware.Principal(c).ID, req); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Password changed", nil)
}

func (h *CustomerHandler) HandleGetCustomers(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	customers, total, err := h.service.ListCustomers(c.UserContext(), page)
	if err != nil {
		return err
	}
	return respondPage(c, "Customers retrieved", customers, page, total)
}

func (h *CustomerHandler) HandleGetCustomer(c *fiber.Ctx) error {
	customer, err := h.service.GetCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Customer retrieved", customer)
}

func (h *CustomerHandler) HandleSetActive(c *fiber.Ctx) error {
	var req activeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.SetActive(c.UserContext(), c.Params("id"), *req.Active)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Customer updated", customer)
}
