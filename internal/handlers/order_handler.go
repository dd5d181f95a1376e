package handlers

import (
	"tokoshop/internal/middleware"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Every route needs a token.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, g Guards) {
	orderRoutes := router.Group("/orders", g.Auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", middleware.RequireCustomer(), h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", middleware.RequireStaff(), h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// HandleGetOrders lists orders. Customers only ever get their own; staff may filter by
// status and customer_id.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	filter := repositories.OrderFilter{
		CustomerID: c.Query("customer_id"),
		Status:     models.OrderStatus(c.Query("status")),
		Page:       pageFromQuery(c),
	}
	orders, total, err := h.service.ListOrders(c.UserContext(), middleware.Principal(c), filter)
	if err != nil {
		return err
	}
	return respondPage(c, "Orders retrieved", orders, filter.Page, total)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"), middleware.Principal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Order retrieved", order)
}

// HandleCreateOrder places an order for the authenticated customer.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	// The service prices the lines, writes the order and decrements stock in one transaction.
	createdOrder, err := h.service.CreateOrder(c.UserContext(), middleware.Principal(c).ID, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Order created", createdOrder)
}

// HandleUpdateOrderStatus updates the status, payment status or admin note of an order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req services.UpdateOrderStatusInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), c.Params("id"), req, middleware.Principal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Order updated", order)
}

// CancelOrderRequest is the optional body of a cancellation.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// HandleCancelOrder cancels an order and restores its stock.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	var req CancelOrderRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	order, err := h.service.CancelOrder(c.UserContext(), c.Params("id"), req.Reason, middleware.Principal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Order cancelled", order)
}
