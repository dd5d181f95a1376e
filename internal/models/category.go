package models

// Category groups products. A category can only be removed once no product points at it.
type Category struct {
	Base
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:varchar(500)"`
	ImageURL    string `json:"image_url" gorm:"type:varchar(500)"`
}
