package services

import (
	"context"
	"errors"

	"tokoshop/internal/apperror"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
)

// CreateReviewInput is a customer's review of a product.
type CreateReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewService handles product reviews. Reviews are hidden, never deleted.
type ReviewService struct {
	repo     repositories.ReviewRepository
	products repositories.ProductRepository
}

func NewReviewService(repo repositories.ReviewRepository, products repositories.ProductRepository) *ReviewService {
	return &ReviewService{repo: repo, products: products}
}

// ListReviews returns the product's reviews; hidden ones only for staff.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, viewer *Principal) ([]models.Review, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListByProduct(ctx, productID, viewer.IsStaff())
}

func (s *ReviewService) CreateReview(ctx context.Context, productID string, author *Principal, in CreateReviewInput) (*models.Review, error) {
	if author == nil || author.Kind != KindCustomer {
		return nil, apperror.Forbidden("only customers can write reviews")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperror.BadRequest("rating must be between 1 and 5")
	}
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	review := &models.Review{
		ProductID:  productID,
		CustomerID: author.ID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		IsVisible:  true,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// SetVisibility shows or hides a review.
func (s *ReviewService) SetVisibility(ctx context.Context, id string, visible bool) (*models.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("review with ID %s not found", id).Wrap(err)
	}
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetVisibility(ctx, id, visible); err != nil {
		return nil, err
	}
	review.IsVisible = visible
	return review, nil
}

func (s *ReviewService) ensureProduct(ctx context.Context, productID string) error {
	_, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound("product with ID %s not found", productID).Wrap(err)
	}
	return err
}
