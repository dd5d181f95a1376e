package services

import (
	"context"
	"errors"

	"tokoshop/internal/apperror"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UpdateProfileInput changes only the fields that are set.
type UpdateProfileInput struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
}

// ChangePasswordInput requires the current password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

// CustomerService manages customer accounts.
type CustomerService struct {
	repo repositories.CustomerRepository
}

func NewCustomerService(repo repositories.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("customer with ID %s not found", id).Wrap(err)
	}
	return customer, err
}

func (s *CustomerService) ListCustomers(ctx context.Context, page repositories.Page) ([]models.Customer, int64, error) {
	return s.repo.List(ctx, page)
}

func (s *CustomerService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		customer.FullName = *in.FullName
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) ChangePassword(ctx context.Context, id string, in ChangePasswordInput) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(in.CurrentPassword)); err != nil {
		return apperror.BadRequest("current password is incorrect")
	}
	hashed, err := HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	customer.Password = hashed
	return s.repo.Update(ctx, customer)
}

// SetActive enables or disables a customer account.
func (s *CustomerService) SetActive(ctx context.Context, id string, active bool) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.IsActive = active
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}
