// Package server assembles the Fiber application from its dependencies.
package server

import (
	"strings"
	"time"

	"tokoshop/internal/config"
	"tokoshop/internal/events"
	"tokoshop/internal/handlers"
	"tokoshop/internal/middleware"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"gorm.io/gorm"
)

// Deps are the handles the application is built from.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Denylist  repositories.TokenDenylist
	Publisher events.Publisher // nil disables order events
}

// cachedPaths are the public listings served through the response cache.
var cachedPaths = map[string]bool{
	"/api/products":   true,
	"/api/categories": true,
}

// New wires repositories, services and handlers into a ready Fiber app.
func New(deps Deps) *fiber.App {
	cfg := deps.Config

	// --- Initialize Repositories ---
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	categoryRepo := repositories.NewGORMCategoryRepository(deps.DB)
	orderRepo := repositories.NewGORMOrderRepository(deps.DB)
	customerRepo := repositories.NewGORMCustomerRepository(deps.DB)
	staffRepo := repositories.NewGORMStaffRepository(deps.DB)
	reviewRepo := repositories.NewGORMReviewRepository(deps.DB)
	transactor := repositories.NewGORMTransactor(deps.DB)

	// --- Initialize Services ---
	authService := services.NewAuthService(customerRepo, staffRepo, deps.Denylist, cfg.JWTSecret, cfg.JWTExpiresIn)
	productService := services.NewProductService(productRepo, categoryRepo, orderRepo)
	categoryService := services.NewCategoryService(categoryRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, transactor, deps.Publisher, cfg.ShippingFee)
	reviewService := services.NewReviewService(reviewRepo, productRepo)
	customerService := services.NewCustomerService(customerRepo)
	staffService := services.NewStaffService(staffRepo)
	dashboardService := services.NewDashboardService(orderRepo, productRepo, customerRepo)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:      "tokoshop",
		ErrorHandler: middleware.ErrorHandler(cfg.IsDevelopment()),
	})

	// --- Middleware ---
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	if cfg.CacheTTL > 0 {
		app.Use(cache.New(cache.Config{
			Next: func(c *fiber.Ctx) bool {
				return !cachedPaths[strings.TrimSuffix(c.Path(), "/")]
			},
			Expiration: cfg.CacheTTL,
			KeyGenerator: func(c *fiber.Ctx) string {
				return utils.CopyString(c.OriginalURL())
			},
		}))
	}

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": deps.Publisher != nil,
		})
	})

	// --- API Routes ---
	guards := handlers.Guards{
		Auth:     middleware.AuthRequired(authService),
		Optional: middleware.OptionalAuth(authService),
	}
	api := app.Group("/api")
	handlers.NewAuthHandler(authService, !cfg.IsDevelopment()).RegisterRoutes(api, guards)
	handlers.NewProductHandler(productService).RegisterRoutes(api, guards)
	handlers.NewReviewHandler(reviewService).RegisterRoutes(api, guards)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(api, guards)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, guards)
	handlers.NewCustomerHandler(customerService).RegisterRoutes(api, guards)
	handlers.NewStaffHandler(staffService).RegisterRoutes(api, guards)
	handlers.NewDashboardHandler(dashboardService).RegisterRoutes(api, guards)

	return app
}
