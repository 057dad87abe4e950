package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stylist-backend/internal/domain/cronjob"
	"stylist-backend/internal/domain/notification"
	"stylist-backend/internal/domain/suggestion"
	"stylist-backend/internal/domain/trending"
	"stylist-backend/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Update(ctx context.Context, u user.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error)
	UpsertProfile(ctx context.Context, p *user.Profile) error

	AddPhoto(ctx context.Context, p *user.Photo) error
	GetPhotos(ctx context.Context, userID uuid.UUID) ([]user.Photo, error)
	DeactivatePhotosByType(ctx context.Context, userID uuid.UUID, photoType string) error
	DeletePhoto(ctx context.Context, userID, photoID uuid.UUID) error

	GetFavorites(ctx context.Context, userID uuid.UUID) ([]user.Favorite, error)
	GetFavoriteByProduct(ctx context.Context, userID uuid.UUID, productID, platform string) (user.Favorite, error)
	AddFavorite(ctx context.Context, f *user.Favorite) error
	RemoveFavorite(ctx context.Context, userID, favoriteID uuid.UUID) error

	CreateSession(ctx context.Context, s *user.UserSession) error
	GetSessionByID(ctx context.Context, sessionID uuid.UUID) (user.UserSession, error)
	GetUserSessions(ctx context.Context, userID uuid.UUID) ([]user.UserSession, error)
	UpdateSession(ctx context.Context, s user.UserSession) error
	RevokeSession(ctx context.Context, sessionID uuid.UUID) error
	RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error
	CleanExpiredSessions(ctx context.Context) error
}

type TrendingRepository interface {
	CreateOutfit(ctx context.Context, o *trending.Outfit) error
	GetOutfitByID(ctx context.Context, id uuid.UUID) (trending.Outfit, error)
	GetActiveOutfits(ctx context.Context) ([]trending.Outfit, error)
	ListOutfits(ctx context.Context, limit, offset int) ([]trending.Outfit, error)
	ListFeaturedOutfits(ctx context.Context, limit int) ([]trending.Outfit, error)
	ListOutfitsByCategory(ctx context.Context, category string, limit, offset int) ([]trending.Outfit, error)
	ListOutfitsByOccasion(ctx context.Context, occasion string, limit, offset int) ([]trending.Outfit, error)

	UpdateScore(ctx context.Context, outfitID uuid.UUID, score float64) error
	IncrementViewCount(ctx context.Context, outfitID uuid.UUID) error
	IncrementLikeCount(ctx context.Context, outfitID uuid.UUID, delta int) error
	IncrementShareCount(ctx context.Context, outfitID uuid.UUID) error

	DeactivateStale(ctx context.Context, olderThan time.Time, scoreBelow float64) (int64, error)
}

type SuggestionRepository interface {
	Create(ctx context.Context, s *suggestion.StyleSuggestion) error
	GetByID(ctx context.Context, id uuid.UUID) (suggestion.StyleSuggestion, error)
	GetUserSuggestions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]suggestion.StyleSuggestion, int64, error)
	ListCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]suggestion.StyleSuggestion, error)
	AddFeedback(ctx context.Context, f *suggestion.Feedback) error
	AverageFeedbackRating(ctx context.Context, userID uuid.UUID) (float64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	GetUserNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAsSent(ctx context.Context, notificationID uuid.UUID) error
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	UpsertDeviceToken(ctx context.Context, t *user.DeviceToken) error
	GetActiveDeviceTokens(ctx context.Context, userID uuid.UUID) ([]user.DeviceToken, error)
	DeactivateDeviceTokens(ctx context.Context, tokens []string) error

	GetPreferences(ctx context.Context, userID uuid.UUID) (user.NotificationPreferences, error)
	UpsertPreferences(ctx context.Context, p *user.NotificationPreferences) error
	GetTrendingSubscribers(ctx context.Context) ([]user.User, error)
}

type CronJobRepository interface {
	RecordRun(ctx context.Context, name, schedule string, lastRun, nextRun time.Time, success bool, lastError string) error
	GetAll(ctx context.Context) ([]cronjob.CronJob, error)
	GetByName(ctx context.Context, name string) (cronjob.CronJob, error)
}
