package httpdto

import (
	"time"

	"stylist-backend/internal/domain/trending"
)

// TrendingListRequest holds query parameters for listing trending outfits
type TrendingListRequest struct {
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
	Category string `form:"category"`
	Occasion string `form:"occasion"`
}

// TrendingListResponse is returned when listing trending outfits
type TrendingListResponse struct {
	Outfits []OutfitDTO `json:"outfits"`
	Count   int         `json:"count"`
}

// OutfitDTO represents a trending outfit in API responses
type OutfitDTO struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url"`
	Category      string          `json:"category"`
	Occasion      string          `json:"occasion"`
	Season        string          `json:"season"`
	Tags          []string        `json:"tags"`
	Colors        []string        `json:"colors"`
	PriceRange    string          `json:"price_range"`
	TrendingScore float64         `json:"trending_score"`
	ViewCount     int             `json:"view_count"`
	LikeCount     int             `json:"like_count"`
	ShareCount    int             `json:"share_count"`
	IsFeatured    bool            `json:"is_featured"`
	CreatedAt     string          `json:"created_at"`
	Items         []OutfitItemDTO `json:"items"`
}

// OutfitItemDTO represents one item of an outfit in API responses
type OutfitItemDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	ProductURL  string  `json:"product_url"`
	Description string  `json:"description,omitempty"`
	FitAdvice   string  `json:"fit_advice,omitempty"`
	StylingTip  string  `json:"styling_tip,omitempty"`
}

// LikeRequest is used for POST /trending/:id/like
type LikeRequest struct {
	Liked bool `json:"liked"`
}

// FromOutfit converts a domain outfit to OutfitDTO
func FromOutfit(o trending.Outfit) OutfitDTO {
	items := make([]OutfitItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = FromOutfitItem(item)
	}
	return OutfitDTO{
		ID:            o.ID.String(),
		Title:         o.Title,
		Description:   o.Description,
		ImageURL:      o.ImageURL,
		Category:      o.Category,
		Occasion:      o.Occasion,
		Season:        o.Season,
		Tags:          o.Tags,
		Colors:        o.Colors,
		PriceRange:    o.PriceRange,
		TrendingScore: o.TrendingScore,
		ViewCount:     o.ViewCount,
		LikeCount:     o.LikeCount,
		ShareCount:    o.ShareCount,
		IsFeatured:    o.IsFeatured,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		Items:         items,
	}
}

// FromOutfitItem converts a domain outfit item to OutfitItemDTO
func FromOutfitItem(item trending.OutfitItem) OutfitItemDTO {
	dto := OutfitItemDTO{
		ID:         item.ID.String(),
		Name:       item.Name,
		Category:   item.Category,
		Brand:      item.Brand,
		Price:      item.Price,
		ImageURL:   item.ImageURL,
		ProductURL: item.ProductURL,
	}
	if item.Description.Valid {
		dto.Description = item.Description.String
	}
	if item.FitAdvice.Valid {
		dto.FitAdvice = item.FitAdvice.String
	}
	if item.StylingTip.Valid {
		dto.StylingTip = item.StylingTip.String
	}
	return dto
}

// FromOutfitSlice converts a slice of domain outfits to OutfitDTO slice
func FromOutfitSlice(outfits []trending.Outfit) []OutfitDTO {
	dtos := make([]OutfitDTO, len(outfits))
	for i, o := range outfits {
		dtos[i] = FromOutfit(o)
	}
	return dtos
}
