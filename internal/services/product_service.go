package services

import (
	"context"
	"fmt"
	"strings"

	stylist_errors "stylist-backend/pkg/errors"
)

// Platforms searched for products.
var productPlatforms = []string{"MYNTRA", "AMAZON", "HM"}

type ProductSearchFilters struct {
	Category string
	MinPrice float64
	MaxPrice float64
	Platform string
	Limit    int
}

type Product struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	ImageURL   string  `json:"image_url"`
	ProductURL string  `json:"product_url"`
	Platform   string  `json:"platform"`
	Category   string  `json:"category"`
	Rating     float64 `json:"rating"`
	InStock    bool    `json:"in_stock"`
}

// ProductService searches the supported e-commerce platforms. Per-platform
// adapters currently serve catalog-shaped sample data; the service keeps the
// aggregation and filter semantics that real adapters would plug into.
type ProductService struct{}

func NewProductService() *ProductService {
	return &ProductService{}
}

func (s *ProductService) Search(ctx context.Context, query string, filters ProductSearchFilters) ([]Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, stylist_errors.ErrInvalidInput
	}

	limit := filters.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var results []Product
	for _, platform := range productPlatforms {
		if filters.Platform != "" && filters.Platform != platform {
			continue
		}
		results = append(results, s.searchPlatform(platform, query, filters)...)
	}

	filtered := results[:0]
	for _, p := range results {
		if filters.MinPrice > 0 && p.Price < filters.MinPrice {
			continue
		}
		if filters.MaxPrice > 0 && p.Price > filters.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (s *ProductService) GetTrendingProducts(ctx context.Context, category string, limit int) ([]Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	query := "trending"
	if category != "" {
		query = category
	}
	products, err := s.Search(ctx, query, ProductSearchFilters{Category: category, Limit: limit})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) GetSimilarProducts(ctx context.Context, platform, productID string, limit int) ([]Product, error) {
	if platform == "" || productID == "" {
		return nil, stylist_errors.ErrInvalidInput
	}
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	products := s.searchPlatform(platform, "similar", ProductSearchFilters{})
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (s *ProductService) searchPlatform(platform, query string, filters ProductSearchFilters) []Product {
	base := platformCatalog[platform]
	products := make([]Product, 0, len(base))
	for i, tmpl := range base {
		p := tmpl
		p.ProductID = fmt.Sprintf("%s-%s-%d", strings.ToLower(platform), slugify(query), i+1)
		p.Name = fmt.Sprintf("%s %s", capitalize(query), tmpl.Name)
		if filters.Category != "" {
			p.Category = filters.Category
		}
		products = append(products, p)
	}
	return products
}

var platformCatalog = map[string][]Product{
	"MYNTRA": {
		{Name: "Cotton Top", Brand: "H&M", Price: 1299, Currency: "INR", Platform: "MYNTRA", Category: "TOP", Rating: 4.2, InStock: true, ImageURL: "https://images.example.com/myntra/top.jpg", ProductURL: "https://www.myntra.com/"},
		{Name: "Slim Jeans", Brand: "Levis", Price: 2999, Currency: "INR", Platform: "MYNTRA", Category: "BOTTOM", Rating: 4.4, InStock: true, ImageURL: "https://images.example.com/myntra/jeans.jpg", ProductURL: "https://www.myntra.com/"},
	},
	"AMAZON": {
		{Name: "Casual Shirt", Brand: "Allen Solly", Price: 1599, Currency: "INR", Platform: "AMAZON", Category: "TOP", Rating: 4.0, InStock: true, ImageURL: "https://images.example.com/amazon/shirt.jpg", ProductURL: "https://www.amazon.in/"},
		{Name: "Running Shoes", Brand: "Nike", Price: 5499, Currency: "INR", Platform: "AMAZON", Category: "SHOES", Rating: 4.5, InStock: true, ImageURL: "https://images.example.com/amazon/shoes.jpg", ProductURL: "https://www.amazon.in/"},
	},
	"HM": {
		{Name: "Knit Dress", Brand: "H&M", Price: 2299, Currency: "INR", Platform: "HM", Category: "DRESS", Rating: 4.1, InStock: true, ImageURL: "https://images.example.com/hm/dress.jpg", ProductURL: "https://www2.hm.com/"},
		{Name: "Wool Coat", Brand: "H&M", Price: 6999, Currency: "INR", Platform: "HM", Category: "OUTERWEAR", Rating: 4.3, InStock: false, ImageURL: "https://images.example.com/hm/coat.jpg", ProductURL: "https://www2.hm.com/"},
	},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "-")
}
