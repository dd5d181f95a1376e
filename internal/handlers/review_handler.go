package handlers

import (
	"tokoshop/internal/middleware"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	service *services.ReviewService
}

func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/products/:id/reviews", g.Optional, h.HandleGetReviews)
	router.Post("/products/:id/reviews", g.Auth, middleware.RequireCustomer(), h.HandleCreateReview)
	router.Patch("/reviews/:id/visibility", g.Auth, middleware.RequireStaff(), h.HandleSetVisibility)
}

// HandleGetReviews lists a product's reviews. Staff also see hidden ones.
func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	reviews, err := h.service.ListReviews(c.UserContext(), c.Params("id"), middleware.Principal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Reviews retrieved", reviews)
}

func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req services.CreateReviewInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	review, err := h.service.CreateReview(c.UserContext(), c.Params("id"), middleware.Principal(c), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Review created", review)
}

func (h *ReviewHandler) HandleSetVisibility(c *fiber.Ctx) error {
	var req struct {
		Visible *bool `json:"visible" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	review, err := h.service.SetVisibility(c.UserContext(), c.Params("id"), *req.Visible)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Review updated", review)
}
