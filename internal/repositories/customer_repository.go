package repositories

import (
	"context"
	"fmt"
	"time"

	"tokoshop/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository defines the interface for customer data access.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	List(ctx context.Context, page Page) ([]models.Customer, int64, error)
	// Update writes profile fields, the password hash and the active flag.
	Update(ctx context.Context, customer *models.Customer) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Count(ctx context.Context) (int64, error)
}

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

// NewGORMCustomerRepository creates a new instance of GORMCustomerRepository.
func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{
		db: db,
	}
}

// Create creates a new customer in the database.
func (r *GORMCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Omit("Role").Create(customer).Error; err != nil {
		return wrapWrite(err, "failed to create customer")
	}
	return nil
}

// GetByEmail retrieves a customer by their email from the database.
func (r *GORMCustomerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Preload("Role").First(&customer, "email = ?", email).Error; err != nil {
		return nil, wrapFind(err, "customer with email %s", email)
	}
	return &customer, nil
}

// GetByID retrieves a customer by their ID from the database.
func (r *GORMCustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Preload("Role").First(&customer, "id = ?", id).Error; err != nil {
		return nil, wrapFind(err, "customer with ID %s", id)
	}
	return &customer, nil
}

func (r *GORMCustomerRepository) List(ctx context.Context, page Page) ([]models.Customer, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}
	page = page.Normalize()
	var customers []models.Customer
	err := r.db.WithContext(ctx).Order("created_at DESC").Offset(page.Offset()).Limit(page.Size).Find(&customers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}

func (r *GORMCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	res := r.db.WithContext(ctx).Model(customer).
		Select("full_name", "phone", "address", "password", "is_active", "updated_at").
		Updates(customer)
	if res.Error != nil {
		return fmt.Errorf("failed to update customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer with ID %s: %w", customer.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMCustomerRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to record login for customer %s: %w", id, err)
	}
	return nil
}

func (r *GORMCustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
