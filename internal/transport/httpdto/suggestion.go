package httpdto

import (
	"time"

	"stylist-backend/internal/domain/suggestion"
)

// GenerateSuggestionRequest is used for POST /ai/suggestions
type GenerateSuggestionRequest struct {
	Occasion  string `json:"occasion" binding:"required"`
	BodyType  string `json:"body_type,omitempty"`
	FaceShape string `json:"face_shape,omitempty"`
	SkinTone  string `json:"skin_tone,omitempty"`
}

// SuggestionFeedbackRequest is used for POST /ai/suggestions/:id/feedback
type SuggestionFeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Liked   bool   `json:"liked"`
	Comment string `json:"comment,omitempty"`
}

// SuggestionListResponse is returned when listing suggestion history
type SuggestionListResponse struct {
	Suggestions []SuggestionDTO `json:"suggestions"`
	Total       int64           `json:"total"`
}

// SuggestionDTO represents a style suggestion in API responses
type SuggestionDTO struct {
	ID          string       `json:"id"`
	Occasion    string       `json:"occasion"`
	BodyType    string       `json:"body_type"`
	OutfitDesc  string       `json:"outfit_desc"`
	Hairstyle   string       `json:"hairstyle,omitempty"`
	Accessories string       `json:"accessories,omitempty"`
	Skincare    string       `json:"skincare,omitempty"`
	Colors      []string     `json:"colors,omitempty"`
	CreatedAt   string       `json:"created_at"`
	Products    []ProductDTO `json:"products,omitempty"`
}

// ProductDTO represents a recommended or searched product in API responses
type ProductDTO struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	ImageURL   string  `json:"image_url"`
	ProductURL string  `json:"product_url"`
	Platform   string  `json:"platform"`
	Category   string  `json:"category"`
	Rating     float64 `json:"rating,omitempty"`
	InStock    bool    `json:"in_stock"`
}

// FromSuggestion converts a domain suggestion to SuggestionDTO
func FromSuggestion(s suggestion.StyleSuggestion) SuggestionDTO {
	dto := SuggestionDTO{
		ID:         s.ID.String(),
		Occasion:   s.Occasion,
		BodyType:   s.BodyType,
		OutfitDesc: s.OutfitDesc,
		Colors:     s.Colors,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
	if s.Hairstyle.Valid {
		dto.Hairstyle = s.Hairstyle.String
	}
	if s.Accessories.Valid {
		dto.Accessories = s.Accessories.String
	}
	if s.Skincare.Valid {
		dto.Skincare = s.Skincare.String
	}
	for _, p := range s.Products {
		dto.Products = append(dto.Products, FromRecommendation(p))
	}
	return dto
}

// FromSuggestionSlice converts a slice of domain suggestions to SuggestionDTO slice
func FromSuggestionSlice(suggestions []suggestion.StyleSuggestion) []SuggestionDTO {
	dtos := make([]SuggestionDTO, len(suggestions))
	for i, s := range suggestions {
		dtos[i] = FromSuggestion(s)
	}
	return dtos
}

// FromRecommendation converts a domain product recommendation to ProductDTO
func FromRecommendation(p suggestion.ProductRecommendation) ProductDTO {
	dto := ProductDTO{
		ProductID:  p.ProductID,
		Name:       p.Name,
		Brand:      p.Brand,
		Price:      p.Price,
		Currency:   p.Currency,
		ImageURL:   p.ImageURL,
		ProductURL: p.ProductURL,
		Platform:   p.Platform,
		Category:   p.Category,
		InStock:    p.InStock,
	}
	if p.Rating.Valid {
		dto.Rating = p.Rating.Float64
	}
	return dto
}
