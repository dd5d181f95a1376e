package services

import (
	"context"
	"errors"
	"log"

	"tokoshop/internal/apperror"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CreateProductInput is the payload for a new product.
type CreateProductInput struct {
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Description string          `json:"description" validate:"omitempty,max=5000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  string          `json:"category_id" validate:"required"`
	Images      datatypes.JSON  `json:"images"`
}

// UpdateProductInput changes only the fields that are set.
type UpdateProductInput struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *string          `json:"category_id" validate:"omitempty"`
	Images      *datatypes.JSON  `json:"images"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
	orders     repositories.OrderRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository, orders repositories.OrderRepository) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		orders:     orders,
	}
}

// ListProducts returns one page of products and the total match count.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, apperror.BadRequest("min_price must not exceed max_price")
	}
	switch filter.Sort {
	case "", repositories.SortNewest, repositories.SortPriceAsc, repositories.SortPriceDesc, repositories.SortPopular:
	default:
		return nil, 0, apperror.BadRequest("unknown sort %q", filter.Sort)
	}
	return s.repo.List(ctx, filter)
}

// GetProduct returns a product and counts the view. The counter is best effort.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViewCount(ctx, id); err != nil {
		log.Printf("Warning: %v", err)
	} else {
		product.ViewCount++
	}
	return product, nil
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if !in.Price.IsPositive() {
		return nil, apperror.BadRequest("price must be greater than zero")
	}
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		Images:      in.Images,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.findProduct(ctx, product.ID)
}

// UpdateProduct applies the set fields of in to the product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*models.Product, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only changed columns are written. Rewriting stock from this read would undo
	// any checkout committed in between.
	var columns []string
	if in.Name != nil {
		product.Name = *in.Name
		columns = append(columns, "name")
	}
	if in.Description != nil {
		product.Description = *in.Description
		columns = append(columns, "description")
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, apperror.BadRequest("price must be greater than zero")
		}
		product.Price = *in.Price
		columns = append(columns, "price")
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
		columns = append(columns, "stock")
	}
	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		if err := s.ensureCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
		product.Category = nil
		columns = append(columns, "category_id")
	}
	if in.Images != nil {
		product.Images = *in.Images
		columns = append(columns, "images")
	}
	if len(columns) == 0 {
		return product, nil
	}

	if err := s.repo.Update(ctx, product, columns); err != nil {
		return nil, err
	}
	return s.findProduct(ctx, id)
}

// DeleteProduct deletes a product that no order line references.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.findProduct(ctx, id); err != nil {
		return err
	}
	used, err := s.orders.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if used > 0 {
		return apperror.Conflict("product %s appears in %d order(s) and cannot be deleted", id, used)
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) findProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("product with ID %s not found", id).Wrap(err)
	}
	return product, err
}

func (s *ProductService) ensureCategory(ctx context.Context, id string) error {
	_, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.BadRequest("category %s does not exist", id)
	}
	return err
}
