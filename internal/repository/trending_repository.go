package repository

import (
	"context"
	"errors"
	"time"

	"stylist-backend/internal/domain/trending"
	stylist_errors "stylist-backend/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresTrendingRepository struct {
	db *gorm.DB
}

func NewTrendingRepository(db *gorm.DB) TrendingRepository {
	return &PostgresTrendingRepository{db: db}
}

// CreateOutfit persists an outfit together with its nested items in one
// transaction; GORM cascades the association create.
func (r *PostgresTrendingRepository) CreateOutfit(ctx context.Context, o *trending.Outfit) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *PostgresTrendingRepository) GetOutfitByID(ctx context.Context, id uuid.UUID) (trending.Outfit, error) {
	var o trending.Outfit
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return trending.Outfit{}, stylist_errors.ErrNotFound
		}
		return trending.Outfit{}, err
	}
	return o, nil
}

func (r *PostgresTrendingRepository) GetActiveOutfits(ctx context.Context) ([]trending.Outfit, error) {
	var outfits []trending.Outfit
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Find(&outfits).Error
	if err != nil {
		return nil, err
	}
	return outfits, nil
}

func (r *PostgresTrendingRepository) ListOutfits(ctx context.Context, limit, offset int) ([]trending.Outfit, error) {
	var outfits []trending.Outfit
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("is_active = true").
		Order("trending_score DESC").
		Limit(limit).
		Offset(offset).
		Find(&outfits).Error
	if err != nil {
		return nil, err
	}
	return outfits, nil
}

func (r *PostgresTrendingRepository) ListFeaturedOutfits(ctx context.Context, limit int) ([]trending.Outfit, error) {
	var outfits []trending.Outfit
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("is_active = true AND is_featured = true").
		Order("trending_score DESC").
		Limit(limit).
		Find(&outfits).Error
	if err != nil {
		return nil, err
	}
	return outfits, nil
}

func (r *PostgresTrendingRepository) ListOutfitsByCategory(ctx context.Context, category string, limit, offset int) ([]trending.Outfit, error) {
	var outfits []trending.Outfit
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("category = ? AND is_active = true", category).
		Order("trending_score DESC").
		Limit(limit).
		Offset(offset).
		Find(&outfits).Error
	if err != nil {
		return nil, err
	}
	return outfits, nil
}

func (r *PostgresTrendingRepository) ListOutfitsByOccasion(ctx context.Context, occasion string, limit, offset int) ([]trending.Outfit, error) {
	var outfits []trending.Outfit
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("occasion = ? AND is_active = true", occasion).
		Order("trending_score DESC").
		Limit(limit).
		Offset(offset).
		Find(&outfits).Error
	if err != nil {
		return nil, err
	}
	return outfits, nil
}

func (r *PostgresTrendingRepository) UpdateScore(ctx context.Context, outfitID uuid.UUID, score float64) error {
	res := r.db.WithContext(ctx).
		Model(&trending.Outfit{}).
		Where("id = ?", outfitID).
		Update("trending_score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return stylist_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresTrendingRepository) IncrementViewCount(ctx context.Context, outfitID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&trending.Outfit{}).
		Where("id = ?", outfitID).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *PostgresTrendingRepository) IncrementLikeCount(ctx context.Context, outfitID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&trending.Outfit{}).
		Where("id = ?", outfitID).
		Update("like_count", gorm.Expr("like_count + ?", delta)).Error
}

func (r *PostgresTrendingRepository) IncrementShareCount(ctx context.Context, outfitID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&trending.Outfit{}).
		Where("id = ?", outfitID).
		Update("share_count", gorm.Expr("share_count + 1")).Error
}

// DeactivateStale flips is_active off for outfits past the age threshold
// whose score fell under the floor. Both conditions are required; a popular
// old outfit stays active.
func (r *PostgresTrendingRepository) DeactivateStale(ctx context.Context, olderThan time.Time, scoreBelow float64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&trending.Outfit{}).
		Where("is_active = true AND created_at < ? AND trending_score < ?", olderThan, scoreBelow).
		Update("is_active", false)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
