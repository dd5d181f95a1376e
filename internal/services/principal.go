package services

import (
	"time"

	"tokoshop/internal/models"
)

// AccountKind distinguishes the two account tables a token may refer to.
type AccountKind string

const (
	KindCustomer AccountKind = "customer"
	KindStaff    AccountKind = "staff"
)

// Principal is the authenticated caller, decoded from a token.
type Principal struct {
	ID        string
	RoleID    uint
	Kind      AccountKind
	ExpiresAt time.Time
}

// IsStaff reports whether the caller is a back-office account (staff or admin).
func (p *Principal) IsStaff() bool {
	return p != nil && p.Kind == KindStaff
}

// IsAdmin reports whether the caller is a staff account with the admin role.
func (p *Principal) IsAdmin() bool {
	return p.IsStaff() && p.RoleID == models.RoleAdmin
}

// Owns reports whether the caller is the customer with the given id.
func (p *Principal) Owns(customerID string) bool {
	return p != nil && p.Kind == KindCustomer && p.ID == customerID
}
