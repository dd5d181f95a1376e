package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending" // awaiting confirmation
	OrderProcessing OrderStatus = "processing"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderShipping   OrderStatus = "shipping"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentStatus tracks whether the order has been paid.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentMethod is the customer's chosen way to pay.
type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCard         PaymentMethod = "card"
)

// orderTransitions lists every status change an update may perform.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderShipping},
	OrderShipping:   {OrderCompleted},
	OrderCompleted:  {},
	OrderCancelled:  {},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllOrderStatuses returns the statuses in lifecycle order.
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderPending, OrderProcessing, OrderConfirmed, OrderShipping, OrderCompleted, OrderCancelled}
}

// Valid reports whether p is a known payment status.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentBankTransfer, PaymentCard:
		return true
	}
	return false
}

// Order is the header of a customer order. Lines are written together with it and never change.
type Order struct {
	Base
	Code            string          `json:"code" gorm:"uniqueIndex;type:varchar(32);not null"`
	CustomerID      string          `json:"customer_id" gorm:"type:varchar(36);not null;index"`
	Customer        *Customer       `json:"customer,omitempty"`
	RecipientName   string          `json:"recipient_name" gorm:"type:varchar(100)"`
	RecipientPhone  string          `json:"recipient_phone" gorm:"type:varchar(20)"`
	RecipientEmail  string          `json:"recipient_email" gorm:"type:varchar(255)"`
	ShippingAddress string          `json:"shipping_address" gorm:"type:varchar(500)"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:decimal(14,2);not null"`
	ShippingFee     decimal.Decimal `json:"shipping_fee" gorm:"type:decimal(14,2);not null"`
	Discount        decimal.Decimal `json:"discount" gorm:"type:decimal(14,2);not null"`
	Total           decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"type:varchar(30);not null"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(30);not null;index"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(30);not null;index"`
	CustomerNote    string          `json:"customer_note" gorm:"type:text"`
	AdminNote       string          `json:"admin_note" gorm:"type:text"`
	Lines           []OrderLine     `json:"lines" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// Cancellable reports whether the order may still be cancelled: it has not been
// confirmed yet, or it is being processed but nothing has been paid.
func (o *Order) Cancellable() bool {
	switch o.Status {
	case OrderPending:
		return true
	case OrderProcessing:
		return o.PaymentStatus == PaymentUnpaid
	}
	return false
}

// OrderLine is one product entry of an order, priced at the time of checkout.
type OrderLine struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);not null;index"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(14,2);not null"`
	LineTotal decimal.Decimal `json:"line_total" gorm:"type:decimal(14,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
}
