package handlers

import (
	"tokoshop/internal/apperror"
	"tokoshop/internal/middleware"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. Reads are public.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, g Guards) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", g.Auth, middleware.RequireStaff(), h.HandleCreateProduct)
	productRoutes.Patch("/:id", g.Auth, middleware.RequireStaff(), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", g.Auth, middleware.RequireAdmin(), h.HandleDeleteProduct)
}

// HandleGetProducts lists products. Query: q, category_id, min_price, max_price, sort, page, limit.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Keyword:    c.Query("q"),
		CategoryID: c.Query("category_id"),
		Sort:       repositories.ProductSort(c.Query("sort")),
		Page:       pageFromQuery(c),
	}
	var err error
	if filter.MinPrice, err = decimalQuery(c, "min_price"); err != nil {
		return err
	}
	if filter.MaxPrice, err = decimalQuery(c, "max_price"); err != nil {
		return err
	}

	products, total, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, "Products retrieved", products, filter.Page, total)
}

// HandleGetProductByID retrieves a single product and counts the view.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product retrieved", product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req services.CreateProductInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Product created", product)
}

// HandleUpdateProduct applies a partial update.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req services.UpdateProductInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product updated", product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product deleted", nil)
}

func decimalQuery(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperror.BadRequest("%s must be a number", key)
	}
	return &d, nil
}
