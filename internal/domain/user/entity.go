package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents the users table
type User struct {
	ID           uuid.UUID
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	AvatarURL    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relationships
	Profile     *Profile
	Photos      []Photo
	Favorites   []Favorite
	Preferences *NotificationPreferences
}

// Profile represents the user_profiles table
type Profile struct {
	ID          uuid.UUID
	UserID      uuid.UUID `gorm:"uniqueIndex"`
	Gender      string    // MALE, FEMALE, NON_BINARY, PREFER_NOT_TO_SAY
	HeightCm    sql.NullFloat64
	WeightKg    sql.NullFloat64
	BodyType    sql.NullString // PEAR, APPLE, HOURGLASS, RECTANGLE, ...
	FaceShape   sql.NullString
	SkinTone    sql.NullString
	StyleTypes  []string `gorm:"serializer:json"`
	BudgetRange sql.NullString // BUDGET_FRIENDLY, MID_RANGE, PREMIUM, LUXURY
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Photo represents the user_photos table
type Photo struct {
	ID        uuid.UUID
	UserID    uuid.UUID `gorm:"index"`
	URL       string
	ObjectKey string
	Type      string // FACE, FULL_BODY
	IsActive  bool
	CreatedAt time.Time
}

// Favorite represents the favorites table
type Favorite struct {
	ID         uuid.UUID
	UserID     uuid.UUID `gorm:"index:idx_favorites_user_product,priority:1"`
	ProductID  string    `gorm:"index:idx_favorites_user_product,priority:2"`
	Name       string
	Brand      string
	ImageURL   string
	ProductURL string
	Platform   string // MYNTRA, AMAZON, HM
	CreatedAt  time.Time
}

// DeviceToken represents the device_tokens table
type DeviceToken struct {
	ID         uuid.UUID
	UserID     uuid.UUID `gorm:"index"`
	Token      string    `gorm:"uniqueIndex"`
	Platform   string    // IOS, ANDROID, WEB
	IsActive   bool
	CreatedAt  time.Time
	LastUsedAt sql.NullTime
}

// NotificationPreferences represents the notification_preferences table
type NotificationPreferences struct {
	UserID             uuid.UUID `gorm:"primaryKey"`
	PushNotifications  bool
	EmailNotifications bool
	TrendingOutfits    bool
	StyleSuggestions   bool
	UpdatedAt          time.Time
}

// UserSession represents the user_sessions table
type UserSession struct {
	ID               uuid.UUID
	UserID           uuid.UUID `gorm:"index"`
	RefreshTokenHash string
	ExpiresAt        time.Time
	IsRevoked        bool
	CreatedAt        time.Time
}

func (User) TableName() string {
	return "users"
}

func (Profile) TableName() string {
	return "user_profiles"
}

func (Photo) TableName() string {
	return "user_photos"
}

func (Favorite) TableName() string {
	return "favorites"
}

func (DeviceToken) TableName() string {
	return "device_tokens"
}

func (NotificationPreferences) TableName() string {
	return "notification_preferences"
}

func (UserSession) TableName() string {
	return "user_sessions"
}
