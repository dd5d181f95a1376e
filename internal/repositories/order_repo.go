package repositories

import (
	"context"

	"tokoshop/internal/models"

	"github.com/shopspring/decimal"
)

// OrderFilter narrows an order listing. Empty fields are ignored.
type OrderFilter struct {
	CustomerID string
	Status     models.OrderStatus
	Page       Page
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the header and its lines.
	Create(ctx context.Context, order *models.Order) error
	// GetByID loads the order with lines, their products and the customer.
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	// UpdateState writes status, payment status and admin note, but only while the stored
	// status is still from. Otherwise it returns ErrStateChanged and writes nothing.
	UpdateState(ctx context.Context, order *models.Order, from models.OrderStatus) error
	CountByProduct(ctx context.Context, productID string) (int64, error)
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
	RevenueByStatus(ctx context.Context, status models.OrderStatus) (decimal.Decimal, error)
}
