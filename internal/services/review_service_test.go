package services_test

import (
	"context"
	"testing"

	"tokoshop/internal/apperror"
	"tokoshop/internal/database"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite()
	require.NoError(t, err)

	customer := models.Customer{FullName: "Reviewer", Email: "reviewer@example.com", Password: "x", RoleID: models.RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(&customer).Error)
	category := models.Category{Name: "Audio"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{Name: "Headphones", Price: decimal.NewFromInt(500000), Stock: 2, CategoryID: category.ID}
	require.NoError(t, db.Create(&product).Error)

	service := services.NewReviewService(repositories.NewGORMReviewRepository(db), repositories.NewGORMProductRepository(db))
	author := &services.Principal{ID: customer.ID, RoleID: models.RoleCustomer, Kind: services.KindCustomer}
	staff := &services.Principal{ID: "staff-1", RoleID: models.RoleStaff, Kind: services.KindStaff}

	review, err := service.CreateReview(ctx, product.ID, author, services.CreateReviewInput{Rating: 4, Comment: "Great bass"})
	require.NoError(t, err)
	assert.True(t, review.IsVisible)

	_, err = service.CreateReview(ctx, product.ID, author, services.CreateReviewInput{Rating: 6})
	assert.Equal(t, 400, apperror.StatusOf(err))
	_, err = service.CreateReview(ctx, product.ID, staff, services.CreateReviewInput{Rating: 5})
	assert.Equal(t, 403, apperror.StatusOf(err))
	_, err = service.CreateReview(ctx, "missing", author, services.CreateReviewInput{Rating: 5})
	assert.Equal(t, 404, apperror.StatusOf(err))

	_, err = service.SetVisibility(ctx, review.ID, false)
	require.NoError(t, err)

	public, err := service.ListReviews(ctx, product.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := service.ListReviews(ctx, product.ID, staff)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsVisible)

	_, err = service.SetVisibility(ctx, "missing", true)
	assert.Equal(t, 404, apperror.StatusOf(err))
}
