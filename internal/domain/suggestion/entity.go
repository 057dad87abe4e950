package suggestion

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// StyleSuggestion represents the style_suggestions table
type StyleSuggestion struct {
	ID          uuid.UUID
	UserID      uuid.UUID `gorm:"index"`
	Occasion    string
	BodyType    string
	FaceShape   sql.NullString
	SkinTone    sql.NullString
	OutfitDesc  string
	Hairstyle   sql.NullString
	Accessories sql.NullString
	Skincare    sql.NullString
	Colors      []string `gorm:"serializer:json"`
	ImageURL    sql.NullString
	CreatedAt   time.Time

	Products []ProductRecommendation `gorm:"constraint:OnDelete:CASCADE"`
	Feedback []Feedback              `gorm:"constraint:OnDelete:CASCADE"`
}

// ProductRecommendation represents the product_recommendations table
type ProductRecommendation struct {
	ID                uuid.UUID
	StyleSuggestionID uuid.UUID `gorm:"index"`
	ProductID         string
	Name              string
	Brand             string
	Price             float64
	Currency          string
	ImageURL          string
	ProductURL        string
	Platform          string // MYNTRA, AMAZON, HM
	Category          string
	Rating            sql.NullFloat64
	ReviewCount       sql.NullInt64
	InStock           bool
	CreatedAt         time.Time
}

// Feedback represents the suggestion_feedback table
type Feedback struct {
	ID                uuid.UUID
	StyleSuggestionID uuid.UUID `gorm:"index"`
	UserID            uuid.UUID `gorm:"index"`
	Rating            int
	Liked             bool
	Comment           sql.NullString
	CreatedAt         time.Time
}

func (StyleSuggestion) TableName() string {
	return "style_suggestions"
}

func (ProductRecommendation) TableName() string {
	return "product_recommendations"
}

func (Feedback) TableName() string {
	return "suggestion_feedback"
}
