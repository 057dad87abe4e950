package httpdto

import (
	"time"

	"stylist-backend/internal/domain/user"
)

// UpdateUserRequest is used for PUT /user/me
type UpdateUserRequest struct {
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UpsertProfileRequest is used for PUT /user/profile
type UpsertProfileRequest struct {
	Gender      string   `json:"gender" binding:"required"`
	HeightCm    float64  `json:"height_cm,omitempty"`
	WeightKg    float64  `json:"weight_kg,omitempty"`
	BodyType    string   `json:"body_type,omitempty"`
	FaceShape   string   `json:"face_shape,omitempty"`
	SkinTone    string   `json:"skin_tone,omitempty"`
	StyleTypes  []string `json:"style_types,omitempty"`
	BudgetRange string   `json:"budget_range,omitempty"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ProfileDTO represents a style profile in API responses
type ProfileDTO struct {
	UserID      string   `json:"user_id"`
	Gender      string   `json:"gender,omitempty"`
	HeightCm    float64  `json:"height_cm,omitempty"`
	WeightKg    float64  `json:"weight_kg,omitempty"`
	BodyType    string   `json:"body_type,omitempty"`
	FaceShape   string   `json:"face_shape,omitempty"`
	SkinTone    string   `json:"skin_tone,omitempty"`
	StyleTypes  []string `json:"style_types,omitempty"`
	BudgetRange string   `json:"budget_range,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// PhotoDTO represents a profile photo in API responses
type PhotoDTO struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Type      string `json:"type"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// AddFavoriteRequest is used for POST /user/favorites
type AddFavoriteRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	Name       string `json:"name,omitempty"`
	Brand      string `json:"brand,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	ProductURL string `json:"product_url,omitempty"`
	Platform   string `json:"platform" binding:"required"`
}

// FavoriteDTO represents a saved product in API responses
type FavoriteDTO struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Name       string `json:"name,omitempty"`
	Brand      string `json:"brand,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	ProductURL string `json:"product_url,omitempty"`
	Platform   string `json:"platform"`
	CreatedAt  string `json:"created_at"`
}

// FromUser converts a domain user to UserDTO
func FromUser(u user.User) UserDTO {
	return UserDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// FromProfile converts a domain profile to ProfileDTO
func FromProfile(p user.Profile) ProfileDTO {
	dto := ProfileDTO{
		UserID:     p.UserID.String(),
		Gender:     p.Gender,
		StyleTypes: p.StyleTypes,
	}
	if p.HeightCm.Valid {
		dto.HeightCm = p.HeightCm.Float64
	}
	if p.WeightKg.Valid {
		dto.WeightKg = p.WeightKg.Float64
	}
	if p.BodyType.Valid {
		dto.BodyType = p.BodyType.String
	}
	if p.FaceShape.Valid {
		dto.FaceShape = p.FaceShape.String
	}
	if p.SkinTone.Valid {
		dto.SkinTone = p.SkinTone.String
	}
	if p.BudgetRange.Valid {
		dto.BudgetRange = p.BudgetRange.String
	}
	if !p.UpdatedAt.IsZero() {
		dto.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// FromPhoto converts a domain photo to PhotoDTO
func FromPhoto(p user.Photo) PhotoDTO {
	return PhotoDTO{
		ID:        p.ID.String(),
		URL:       p.URL,
		Type:      p.Type,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

// FromPhotoSlice converts a slice of domain photos to PhotoDTO slice
func FromPhotoSlice(photos []user.Photo) []PhotoDTO {
	dtos := make([]PhotoDTO, len(photos))
	for i, p := range photos {
		dtos[i] = FromPhoto(p)
	}
	return dtos
}

// FromFavorite converts a domain favorite to FavoriteDTO
func FromFavorite(f user.Favorite) FavoriteDTO {
	return FavoriteDTO{
		ID:         f.ID.String(),
		ProductID:  f.ProductID,
		Name:       f.Name,
		Brand:      f.Brand,
		ImageURL:   f.ImageURL,
		ProductURL: f.ProductURL,
		Platform:   f.Platform,
		CreatedAt:  f.CreatedAt.Format(time.RFC3339),
	}
}

// FromFavoriteSlice converts a slice of domain favorites to FavoriteDTO slice
func FromFavoriteSlice(favorites []user.Favorite) []FavoriteDTO {
	dtos := make([]FavoriteDTO, len(favorites))
	for i, f := range favorites {
		dtos[i] = FromFavorite(f)
	}
	return dtos
}
