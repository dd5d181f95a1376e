package models

import "time"

// Staff is a back-office account. Admins are staff with RoleAdmin.
type Staff struct {
	Base
	FullName    string     `json:"full_name" gorm:"type:varchar(100)"`
	Email       string     `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password    string     `json:"-" gorm:"type:varchar(255)"`
	Phone       string     `json:"phone" gorm:"type:varchar(20)"`
	Position    string     `json:"position" gorm:"type:varchar(100)"`
	RoleID      uint       `json:"role_id" gorm:"not null;default:2"`
	Role        *Role      `json:"role,omitempty"`
	IsActive    bool       `json:"is_active" gorm:"not null"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// TableName keeps the table name plural like the others.
func (Staff) TableName() string { return "staff" }
