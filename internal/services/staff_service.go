package services

import (
	"context"
	"errors"
	"strings"

	"tokoshop/internal/apperror"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
)

// CreateStaffInput is the payload for a new back-office account.
type CreateStaffInput struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Position string `json:"position" validate:"omitempty,max=100"`
	Admin    bool   `json:"admin"`
}

// UpdateStaffInput changes only the fields that are set.
type UpdateStaffInput struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Position *string `json:"position" validate:"omitempty,max=100"`
	Admin    *bool   `json:"admin"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

// StaffService manages back-office accounts.
type StaffService struct {
	repo repositories.StaffRepository
}

func NewStaffService(repo repositories.StaffRepository) *StaffService {
	return &StaffService{repo: repo}
}

func (s *StaffService) ListStaff(ctx context.Context) ([]models.Staff, error) {
	return s.repo.List(ctx)
}

func (s *StaffService) GetStaff(ctx context.Context, id string) (*models.Staff, error) {
	staff, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("staff with ID %s not found", id).Wrap(err)
	}
	return staff, err
}

// CreateStaff rejects an email that is already used by another staff account.
func (s *StaffService) CreateStaff(ctx context.Context, in CreateStaffInput) (*models.Staff, error) {
	email := NormalizeEmail(in.Email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperror.Conflict("email '%s' already registered", email)
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	staff := &models.Staff{
		FullName: strings.TrimSpace(in.FullName),
		Email:    email,
		Password: hashed,
		Phone:    in.Phone,
		Position: in.Position,
		RoleID:   roleFor(in.Admin),
		IsActive: true,
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("email '%s' already registered", email).Wrap(err)
		}
		return nil, err
	}
	return staff, nil
}

func (s *StaffService) UpdateStaff(ctx context.Context, id string, in UpdateStaffInput) (*models.Staff, error) {
	staff, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		staff.FullName = *in.FullName
	}
	if in.Phone != nil {
		staff.Phone = *in.Phone
	}
	if in.Position != nil {
		staff.Position = *in.Position
	}
	if in.Admin != nil {
		staff.RoleID = roleFor(*in.Admin)
		staff.Role = nil
	}
	if in.Password != nil {
		hashed, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		staff.Password = hashed
	}
	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// SetActive enables or disables a staff account. Admins cannot disable themselves.
func (s *StaffService) SetActive(ctx context.Context, id string, active bool, actor *Principal) (*models.Staff, error) {
	if !active && actor != nil && actor.ID == id {
		return nil, apperror.BadRequest("you cannot deactivate your own account")
	}
	staff, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	staff.IsActive = active
	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func roleFor(admin bool) uint {
	if admin {
		return models.RoleAdmin
	}
	return models.RoleStaff
}
