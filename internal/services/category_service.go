package services

import (
	"context"
	"errors"
	"strings"

	"tokoshop/internal/apperror"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
)

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=500"`
}

// UpdateCategoryInput changes only the fields that are set.
type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=500"`
}

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo     repositories.CategoryRepository
	products repositories.ProductRepository
}

func NewCategoryService(repo repositories.CategoryRepository, products repositories.ProductRepository) *CategoryService {
	return &CategoryService{repo: repo, products: products}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("category with ID %s not found", id).Wrap(err)
	}
	return category, err
}

// CreateCategory rejects a name that is already taken.
func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	category := &models.Category{Name: name, Description: in.Description, ImageURL: in.ImageURL}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, duplicateName(err, name)
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id string, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		category.Name = name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.ImageURL != nil {
		category.ImageURL = *in.ImageURL
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, duplicateName(err, category.Name)
	}
	return category, nil
}

// DeleteCategory refuses while any product still belongs to the category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("category still has %d product(s)", count)
	}
	return s.repo.Delete(ctx, id)
}

// ensureNameFree fails when another category (not selfID) already uses name.
func (s *CategoryService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return apperror.Conflict("category '%s' already exists", name)
	}
	return nil
}

// duplicateName reports a unique violation that raced past ensureNameFree as a conflict.
func duplicateName(err error, name string) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return apperror.Conflict("category '%s' already exists", name).Wrap(err)
	}
	return err
}
