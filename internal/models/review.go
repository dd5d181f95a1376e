package models

// Review is a customer's score for a product. Hidden reviews stay in the table.
type Review struct {
	Base
	ProductID  string    `json:"product_id" gorm:"type:varchar(36);not null;index"`
	CustomerID string    `json:"customer_id" gorm:"type:varchar(36);not null;index"`
	Customer   *Customer `json:"customer,omitempty"`
	Rating     int       `json:"rating" gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment    string    `json:"comment" gorm:"type:text"`
	IsVisible  bool      `json:"is_visible" gorm:"not null"`
}
