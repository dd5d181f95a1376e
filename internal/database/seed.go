package database

import (
	"fmt"
	"log"

	"tokoshop/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin is the back-office account created by Seed.
const (
	SeedAdminEmail    = "admin@toko.local"
	SeedAdminPassword = "admin12345"
)

// Seed populates an empty database with an admin account, categories and products.
// It does nothing when any category already exists.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to inspect categories: %w", err)
	}
	if count > 0 {
		log.Println("Database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := models.Staff{
			FullName: "Store Admin",
			Email:    SeedAdminEmail,
			Password: string(hash),
			Position: "Administrator",
			RoleID:   models.RoleAdmin,
			IsActive: true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}

		categories := []models.Category{
			{Name: "Laptops", Description: "Portable computers"},
			{Name: "Accessories", Description: "Keyboards, mice and more"},
		}
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}

		products := []models.Product{
			{Name: "Laptop", Description: "High performance laptop", Price: decimal.NewFromInt(15000000), Stock: 10, CategoryID: categories[0].ID},
			{Name: "Keyboard", Description: "Mechanical keyboard", Price: decimal.NewFromInt(750000), Stock: 25, CategoryID: categories[1].ID},
			{Name: "Mouse", Description: "Ergonomic wireless mouse", Price: decimal.NewFromInt(250000), Stock: 50, CategoryID: categories[1].ID},
		}
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return fmt.Errorf("failed to seed product %s: %w", products[i].Name, err)
			}
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
		return nil
	})
}
