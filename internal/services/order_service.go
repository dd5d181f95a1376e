package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tokoshop/internal/apperror"
	"tokoshop/internal/events"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxLineQuantity caps one product's quantity in an order, after duplicate lines are merged.
const maxLineQuantity = 1000

// OrderLineInput is one requested product and quantity.
type OrderLineInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=1000"`
}

// CreateOrderInput is the checkout payload. Prices are never taken from the caller.
type CreateOrderInput struct {
	Lines           []OrderLineInput     `json:"lines" validate:"required,min=1,dive"`
	RecipientName   string               `json:"recipient_name" validate:"required,max=100"`
	RecipientPhone  string               `json:"recipient_phone" validate:"required,max=20"`
	RecipientEmail  string               `json:"recipient_email" validate:"omitempty,email"`
	ShippingAddress string               `json:"shipping_address" validate:"required,max=500"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" validate:"required"`
	CustomerNote    string               `json:"customer_note" validate:"omitempty,max=1000"`
}

// UpdateOrderStatusInput changes only the fields that are set.
type UpdateOrderStatusInput struct {
	Status        *models.OrderStatus   `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
	AdminNote     *string               `json:"admin_note" validate:"omitempty,max=1000"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	tx          repositories.Transactor
	publisher   events.Publisher
	shippingFee decimal.Decimal
	now         func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	tx repositories.Transactor,
	publisher events.Publisher,
	shippingFee decimal.Decimal,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		tx:          tx,
		publisher:   publisher,
		shippingFee: shippingFee,
		now:         time.Now,
	}
}

// CreateOrder prices the requested lines from the current product rows and, in one
// transaction, writes the order, its lines and the stock decrements. Nothing is written
// if any line fails.
func (s *OrderService) CreateOrder(ctx context.Context, customerID string, in CreateOrderInput) (*models.Order, error) {
	if len(in.Lines) == 0 {
		return nil, apperror.BadRequest("order must contain at least one item")
	}
	if !in.PaymentMethod.Valid() {
		return nil, apperror.BadRequest("unsupported payment method %q", in.PaymentMethod)
	}
	lines, err := mergeLines(in.Lines)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		Code:            generateOrderCode(s.now()),
		CustomerID:      customerID,
		RecipientName:   in.RecipientName,
		RecipientPhone:  in.RecipientPhone,
		RecipientEmail:  in.RecipientEmail,
		ShippingAddress: in.ShippingAddress,
		ShippingFee:     s.shippingFee,
		Discount:        decimal.Zero,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentUnpaid,
		Status:          models.OrderPending,
		CustomerNote:    in.CustomerNote,
	}
	order.ID = uuid.New().String()

	err = s.tx.WithinTransaction(ctx, func(tx repositories.TxRepositories) error {
		subtotal := decimal.Zero
		for _, line := range lines {
			product, err := tx.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return apperror.NotFound("product %s not found", line.ProductID).Wrap(err)
				}
				return err
			}
			if line.Quantity > product.Stock {
				return insufficientStock(product.Name, line.Quantity, product.Stock)
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			order.Lines = append(order.Lines, models.OrderLine{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				LineTotal: lineTotal,
			})
		}

		order.Subtotal = subtotal
		order.Total = subtotal.Add(order.ShippingFee).Sub(order.Discount)

		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}
		for _, line := range order.Lines {
			if err := tx.Products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return apperror.BadRequest("insufficient stock for product %s", line.ProductID).Wrap(err)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("order %s committed but could not be reloaded: %w", order.ID, err)
	}
	log.Printf("Order %s created for customer %s, total %s", created.Code, customerID, created.Total)
	events.PublishOrder(ctx, s.publisher, events.OrderCreated, created)
	return created, nil
}

// GetOrder returns an order visible to viewer.
func (s *OrderService) GetOrder(ctx context.Context, id string, viewer *Principal) (*models.Order, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsStaff() && !viewer.Owns(order.CustomerID) {
		return nil, apperror.Forbidden("you do not have access to this order")
	}
	return order, nil
}

// ListOrders lists orders. Customers only ever see their own.
func (s *OrderService) ListOrders(ctx context.Context, viewer *Principal, filter repositories.OrderFilter) ([]models.Order, int64, error) {
	if !viewer.IsStaff() {
		filter.CustomerID = viewer.ID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperror.BadRequest("unknown order status %q", filter.Status)
	}
	return s.orderRepo.List(ctx, filter)
}

// UpdateOrderStatus applies an admin update. A status change must follow the transition
// table; a change to cancelled goes through CancelOrder so stock is restored.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, in UpdateOrderStatusInput, actor *Principal) (*models.Order, error) {
	if in.Status == nil && in.PaymentStatus == nil && in.AdminNote == nil {
		return nil, apperror.BadRequest("nothing to update")
	}
	if in.PaymentStatus != nil && !in.PaymentStatus.Valid() {
		return nil, apperror.BadRequest("unknown payment status %q", *in.PaymentStatus)
	}

	if in.Status != nil && *in.Status == models.OrderCancelled {
		reason := "cancelled by staff"
		if in.AdminNote != nil && *in.AdminNote != "" {
			reason = *in.AdminNote
		}
		return s.cancel(ctx, id, reason, in.PaymentStatus, actor)
	}

	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if in.Status != nil && *in.Status != order.Status {
		if !in.Status.Valid() {
			return nil, apperror.BadRequest("unknown order status %q", *in.Status)
		}
		if !order.Status.CanTransitionTo(*in.Status) {
			return nil, apperror.BadRequest("cannot change order status from %s to %s", order.Status, *in.Status)
		}
		order.Status = *in.Status
	}
	if in.PaymentStatus != nil {
		order.PaymentStatus = *in.PaymentStatus
	}
	if in.AdminNote != nil {
		order.AdminNote = *in.AdminNote
	}

	if err := s.orderRepo.UpdateState(ctx, order, from); err != nil {
		return nil, stateConflict(err, id)
	}
	events.PublishOrder(ctx, s.publisher, events.OrderStatusChanged, order)
	return order, nil
}

// CancelOrder cancels an order that has not progressed past the cancellable states and
// returns every line's quantity to stock, atomically. Customers may only cancel their own.
func (s *OrderService) CancelOrder(ctx context.Context, id, reason string, actor *Principal) (*models.Order, error) {
	return s.cancel(ctx, id, reason, nil, actor)
}

// cancel also writes paymentStatus when it is set, in the same transaction.
func (s *OrderService) cancel(ctx context.Context, id, reason string, paymentStatus *models.PaymentStatus, actor *Principal) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "no reason given"
	}

	var cancelled *models.Order
	err := s.tx.WithinTransaction(ctx, func(tx repositories.TxRepositories) error {
		order, err := tx.Orders.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperror.NotFound("order with ID %s not found", id).Wrap(err)
			}
			return err
		}
		if !actor.IsStaff() && !actor.Owns(order.CustomerID) {
			return apperror.Forbidden("you do not have access to this order")
		}
		if !order.Cancellable() {
			return apperror.BadRequest("order in status %s (payment %s) can no longer be cancelled", order.Status, order.PaymentStatus)
		}

		// Claim the status change before touching stock; a concurrent cancel loses here.
		from := order.Status
		order.Status = models.OrderCancelled
		order.AdminNote = "Cancelled: " + reason
		if paymentStatus != nil {
			order.PaymentStatus = *paymentStatus
		}
		if err := tx.Orders.UpdateState(ctx, order, from); err != nil {
			return stateConflict(err, id)
		}

		for _, line := range order.Lines {
			if err := tx.Products.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Order %s cancelled: %s", cancelled.Code, reason)
	events.PublishOrder(ctx, s.publisher, events.OrderCancelled, cancelled)
	return cancelled, nil
}

func (s *OrderService) findOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("order with ID %s not found", id).Wrap(err)
	}
	return order, err
}

// mergeLines folds repeated products into one line and rejects quantities outside 1..maxLineQuantity.
func mergeLines(in []OrderLineInput) ([]OrderLineInput, error) {
	merged := make([]OrderLineInput, 0, len(in))
	index := make(map[string]int, len(in))
	for _, line := range in {
		if line.ProductID == "" {
			return nil, apperror.BadRequest("product_id is required for every line")
		}
		if line.Quantity <= 0 {
			return nil, apperror.BadRequest("quantity must be > 0 for product %s", line.ProductID)
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	for _, line := range merged {
		if line.Quantity > maxLineQuantity {
			return nil, apperror.BadRequest("quantity for product %s must not exceed %d", line.ProductID, maxLineQuantity)
		}
	}
	return merged, nil
}

func stateConflict(err error, id string) error {
	if errors.Is(err, repositories.ErrStateChanged) {
		return apperror.Conflict("order %s was changed by another request, reload and try again", id).Wrap(err)
	}
	return err
}

func insufficientStock(name string, requested, available int) error {
	return apperror.BadRequest("insufficient stock for product %s (requested: %d, available: %d)", name, requested, available)
}

// generateOrderCode creates a human-readable order code: ORD-YYYYMMDD-XXXXXX
func generateOrderCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}
