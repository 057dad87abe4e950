package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stylist_errors "stylist-backend/pkg/errors"
)

func TestProductSearch(t *testing.T) {
	svc := NewProductService()
	ctx := context.Background()

	products, err := svc.Search(ctx, "summer dress", ProductSearchFilters{})
	require.NoError(t, err)
	assert.Len(t, products, 6)

	for _, p := range products {
		assert.Contains(t, p.Name, "Summer dress")
		assert.NotEmpty(t, p.ProductID)
		assert.Equal(t, "INR", p.Currency)
	}
	assert.Equal(t, "myntra-summer-dress-1", products[0].ProductID)
}

func TestProductSearchValidation(t *testing.T) {
	svc := NewProductService()

	_, err := svc.Search(context.Background(), "   ", ProductSearchFilters{})
	assert.ErrorIs(t, err, stylist_errors.ErrInvalidInput)
}

func TestProductSearchFilters(t *testing.T) {
	svc := NewProductService()
	ctx := context.Background()

	byPlatform, err := svc.Search(ctx, "dress", ProductSearchFilters{Platform: "HM"})
	require.NoError(t, err)
	require.NotEmpty(t, byPlatform)
	for _, p := range byPlatform {
		assert.Equal(t, "HM", p.Platform)
	}

	byPrice, err := svc.Search(ctx, "dress", ProductSearchFilters{MinPrice: 2000, MaxPrice: 3000})
	require.NoError(t, err)
	require.NotEmpty(t, byPrice)
	for _, p := range byPrice {
		assert.GreaterOrEqual(t, p.Price, 2000.0)
		assert.LessOrEqual(t, p.Price, 3000.0)
	}

	limited, err := svc.Search(ctx, "dress", ProductSearchFilters{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetSimilarProducts(t *testing.T) {
	svc := NewProductService()
	ctx := context.Background()

	_, err := svc.GetSimilarProducts(ctx, "", "prod-1", 5)
	assert.ErrorIs(t, err, stylist_errors.ErrInvalidInput)

	products, err := svc.GetSimilarProducts(ctx, "AMAZON", "prod-1", 5)
	require.NoError(t, err)
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.Equal(t, "AMAZON", p.Platform)
	}
}
