package notification

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	TypeTrendingOutfits = "TRENDING_OUTFITS"
	TypeStyleSuggestion = "STYLE_SUGGESTION"
	TypeSystem          = "SYSTEM"
)

// Notification represents the notifications table
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID `gorm:"index"`
	Title     string
	Body      string
	Type      string
	Data      sql.NullString // JSON payload
	ImageURL  string
	IsRead    bool `gorm:"index"`
	IsSent    bool
	SentAt    sql.NullTime
	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
