package services

import (
	"context"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"

	"github.com/shopspring/decimal"
)

// DashboardStats summarises the shop for the admin dashboard.
type DashboardStats struct {
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	Revenue        decimal.Decimal              `json:"revenue"`
	Products       int64                        `json:"products"`
	Customers      int64                        `json:"customers"`
}

// DashboardService aggregates counts for back-office users.
type DashboardService struct {
	orders    repositories.OrderRepository
	products  repositories.ProductRepository
	customers repositories.CustomerRepository
}

func NewDashboardService(orders repositories.OrderRepository, products repositories.ProductRepository, customers repositories.CustomerRepository) *DashboardService {
	return &DashboardService{orders: orders, products: products, customers: customers}
}

// Stats counts revenue from completed orders only.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orders.RevenueByStatus(ctx, models.OrderCompleted)
	if err != nil {
		return nil, err
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		OrdersByStatus: byStatus,
		Revenue:        revenue,
		Products:       products,
		Customers:      customers,
	}, nil
}
