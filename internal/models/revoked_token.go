package models

import "time"

// RevokedToken is a denylisted JWT, kept until it would have expired anyway.
type RevokedToken struct {
	Token     string    `gorm:"primaryKey;type:varchar(512)"`
	ExpiresAt time.Time `gorm:"index"`
}
