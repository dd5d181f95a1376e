package repositories

import (
	"context"
	"fmt"
	"time"

	"tokoshop/internal/models"

	"gorm.io/gorm"
)

// StaffRepository defines the interface for staff data access.
type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByEmail(ctx context.Context, email string) (*models.Staff, error)
	GetByID(ctx context.Context, id string) (*models.Staff, error)
	List(ctx context.Context) ([]models.Staff, error)
	Update(ctx context.Context, staff *models.Staff) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// GORMStaffRepository is a GORM implementation of StaffRepository.
type GORMStaffRepository struct {
	db *gorm.DB
}

func NewGORMStaffRepository(db *gorm.DB) *GORMStaffRepository {
	return &GORMStaffRepository{db: db}
}

func (r *GORMStaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	if err := r.db.WithContext(ctx).Omit("Role").Create(staff).Error; err != nil {
		return wrapWrite(err, "failed to create staff")
	}
	return nil
}

func (r *GORMStaffRepository) GetByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).Preload("Role").First(&staff, "email = ?", email).Error; err != nil {
		return nil, wrapFind(err, "staff with email %s", email)
	}
	return &staff, nil
}

func (r *GORMStaffRepository) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).Preload("Role").First(&staff, "id = ?", id).Error; err != nil {
		return nil, wrapFind(err, "staff with ID %s", id)
	}
	return &staff, nil
}

func (r *GORMStaffRepository) List(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	if err := r.db.WithContext(ctx).Preload("Role").Order("full_name").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (r *GORMStaffRepository) Update(ctx context.Context, staff *models.Staff) error {
	res := r.db.WithContext(ctx).Model(staff).
		Select("full_name", "phone", "position", "role_id", "password", "is_active", "updated_at").
		Updates(staff)
	if res.Error != nil {
		return fmt.Errorf("failed to update staff: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("staff with ID %s: %w", staff.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMStaffRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.Staff{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to record login for staff %s: %w", id, err)
	}
	return nil
}
