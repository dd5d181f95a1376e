package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product represents a product in the store.
type Product struct {
	Base
	Name        string          `json:"name" gorm:"type:varchar(200);not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(14,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	CategoryID  string          `json:"category_id" gorm:"type:varchar(36);index"`
	Category    *Category       `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ViewCount   int64           `json:"view_count" gorm:"not null;default:0"`
	Images      datatypes.JSON  `json:"images,omitempty"`
}
