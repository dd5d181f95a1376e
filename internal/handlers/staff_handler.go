package handlers

import (
	"tokoshop/internal/middleware"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StaffHandler manages back-office accounts. Admin only.
type StaffHandler struct {
	service *services.StaffService
}

func NewStaffHandler(service *services.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

func (h *StaffHandler) RegisterRoutes(router fiber.Router, g Guards) {
	staffRoutes := router.Group("/staff", g.Auth, middleware.RequireAdmin())
	staffRoutes.Get("/", h.HandleGetStaff)
	staffRoutes.Post("/", h.HandleCreateStaff)
	staffRoutes.Get("/:id", h.HandleGetStaffByID)
	staffRoutes.Patch("/:id", h.HandleUpdateStaff)
	staffRoutes.Patch("/:id/active", h.HandleSetActive)
}

func (h *StaffHandler) HandleGetStaff(c *fiber.Ctx) error {
	staff, err := h.service.ListStaff(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Staff retrieved", staff)
}

func (h *StaffHandler) HandleGetStaffByID(c *fiber.Ctx) error {
	staff, err := h.service.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Staff retrieved", staff)
}

func (h *StaffHandler) HandleCreateStaff(c *fiber.Ctx) error {
	var req services.CreateStaffInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	staff, err := h.service.CreateStaff(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Staff created", staff)
}

func (h *StaffHandler) HandleUpdateStaff(c *fiber.Ctx) error {
	var req services.UpdateStaffInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	staff, err := h.service.UpdateStaff(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Staff updated", staff)
}

func (h *StaffHandler) HandleSetActive(c *fiber.Ctx) error {
	var req activeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	staff, err := h.service.SetActive(c.UserContext(), c.Params("id"), *req.Active, middleware.Principal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Staff updated", staff)
}
