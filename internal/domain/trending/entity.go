package trending

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Occasion values accepted for outfits.
const (
	OccasionCasual      = "CASUAL"
	OccasionOffice      = "OFFICE"
	OccasionDate        = "DATE"
	OccasionWedding     = "WEDDING"
	OccasionParty       = "PARTY"
	OccasionFormalEvent = "FORMAL_EVENT"
	OccasionVacation    = "VACATION"
	OccasionWorkout     = "WORKOUT"
	OccasionInterview   = "INTERVIEW"
)

// Price range buckets.
const (
	PriceBudgetFriendly = "BUDGET_FRIENDLY"
	PriceMidRange       = "MID_RANGE"
	PricePremium        = "PREMIUM"
	PriceLuxury         = "LUXURY"
)

// Item categories.
const (
	ItemTop         = "TOP"
	ItemBottom      = "BOTTOM"
	ItemDress       = "DRESS"
	ItemOuterwear   = "OUTERWEAR"
	ItemShoes       = "SHOES"
	ItemAccessories = "ACCESSORIES"
	ItemJewelry     = "JEWELRY"
	ItemBag         = "BAG"
)

// Outfit represents the trending_outfits table.
// Counters are incremented by the interaction endpoints; trendingScore and
// isActive are owned by the refresh pipeline.
type Outfit struct {
	ID            uuid.UUID
	Title         string
	Description   string
	ImageURL      string
	Category      string `gorm:"index"`
	Occasion      string `gorm:"index"`
	Season        string
	Tags          []string `gorm:"serializer:json"`
	Colors        []string `gorm:"serializer:json"`
	PriceRange    string
	TrendingScore float64 `gorm:"index"`
	ViewCount     int
	LikeCount     int
	ShareCount    int
	IsActive      bool `gorm:"index"`
	IsFeatured    bool
	CreatedAt     time.Time

	Items []OutfitItem `gorm:"constraint:OnDelete:CASCADE"`
}

// OutfitItem represents the trending_outfit_items table.
// Items are immutable after creation.
type OutfitItem struct {
	ID          uuid.UUID
	OutfitID    uuid.UUID `gorm:"index"`
	Name        string
	Category    string
	Brand       string
	Price       float64
	ImageURL    string
	ProductURL  string
	Description sql.NullString
	FitAdvice   sql.NullString
	StylingTip  sql.NullString
	CreatedAt   time.Time
}

func (Outfit) TableName() string {
	return "trending_outfits"
}

func (OutfitItem) TableName() string {
	return "trending_outfit_items"
}
