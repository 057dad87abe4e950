package repository

import (
	"context"
	"errors"
	"time"

	"stylist-backend/internal/domain/suggestion"
	stylist_errors "stylist-backend/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresSuggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &PostgresSuggestionRepository{db: db}
}

func (r *PostgresSuggestionRepository) Create(ctx context.Context, s *suggestion.StyleSuggestion) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *PostgresSuggestionRepository) GetByID(ctx context.Context, id uuid.UUID) (suggestion.StyleSuggestion, error) {
	var s suggestion.StyleSuggestion
	err := r.db.WithContext(ctx).
		Preload("Products").
		Preload("Feedback").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return suggestion.StyleSuggestion{}, stylist_errors.ErrNotFound
		}
		return suggestion.StyleSuggestion{}, err
	}
	return s, nil
}

func (r *PostgresSuggestionRepository) GetUserSuggestions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]suggestion.StyleSuggestion, int64, error) {
	var suggestions []suggestion.StyleSuggestion
	var total int64

	q := r.db.WithContext(ctx).
		Model(&suggestion.StyleSuggestion{}).
		Where("user_id = ?", userID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.
		Preload("Products").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&suggestions).Error; err != nil {
		return nil, 0, err
	}

	return suggestions, total, nil
}

// ListCreatedSince returns the user's suggestions created at or after the
// cutoff, oldest first. Feeds the dashboard activity charts.
func (r *PostgresSuggestionRepository) ListCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]suggestion.StyleSuggestion, error) {
	var suggestions []suggestion.StyleSuggestion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC").
		Find(&suggestions).Error
	return suggestions, err
}

func (r *PostgresSuggestionRepository) AddFeedback(ctx context.Context, f *suggestion.Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *PostgresSuggestionRepository) AverageFeedbackRating(ctx context.Context, userID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&suggestion.Feedback{}).
		Where("user_id = ?", userID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}
