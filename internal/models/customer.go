package models

import "time"

// Customer is a shopper account.
type Customer struct {
	Base
	FullName    string     `json:"full_name" gorm:"type:varchar(100)"`
	Email       string     `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password    string     `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialised
	Phone       string     `json:"phone" gorm:"type:varchar(20)"`
	Address     string     `json:"address" gorm:"type:varchar(500)"`
	RoleID      uint       `json:"role_id" gorm:"not null;default:3"`
	Role        *Role      `json:"role,omitempty"`
	IsActive    bool       `json:"is_active" gorm:"not null"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
