package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"stylist-backend/internal/domain/cronjob"
	stylist_errors "stylist-backend/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresCronJobRepository struct {
	db *gorm.DB
}

func NewCronJobRepository(db *gorm.DB) CronJobRepository {
	return &PostgresCronJobRepository{db: db}
}

// RecordRun upserts the audit row for a named job: always bumps runCount,
// bumps failCount only on failure, and sets or clears lastError.
func (r *PostgresCronJobRepository) RecordRun(ctx context.Context, name, schedule string, lastRun, nextRun time.Time, success bool, lastError string) error {
	var job cronjob.CronJob
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&job).Error

	lastErr := sql.NullString{}
	if lastError != "" {
		lastErr = sql.NullString{String: lastError, Valid: true}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		failCount := 0
		if !success {
			failCount = 1
		}
		job = cronjob.CronJob{
			ID:        uuid.New(),
			Name:      name,
			Schedule:  schedule,
			IsActive:  true,
			LastRun:   sql.NullTime{Time: lastRun, Valid: true},
			NextRun:   sql.NullTime{Time: nextRun, Valid: true},
			RunCount:  1,
			FailCount: failCount,
			LastError: lastErr,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		return r.db.WithContext(ctx).Create(&job).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"last_run":   sql.NullTime{Time: lastRun, Valid: true},
		"next_run":   sql.NullTime{Time: nextRun, Valid: true},
		"run_count":  gorm.Expr("run_count + 1"),
		"last_error": lastErr,
		"updated_at": time.Now(),
	}
	if !success {
		updates["fail_count"] = gorm.Expr("fail_count + 1")
	}

	return r.db.WithContext(ctx).
		Model(&cronjob.CronJob{}).
		Where("name = ?", name).
		Updates(updates).Error
}

func (r *PostgresCronJobRepository) GetAll(ctx context.Context) ([]cronjob.CronJob, error) {
	var jobs []cronjob.CronJob
	err := r.db.WithContext(ctx).
		Order("last_run DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *PostgresCronJobRepository) GetByName(ctx context.Context, name string) (cronjob.CronJob, error) {
	var job cronjob.CronJob
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cronjob.CronJob{}, stylist_errors.ErrNotFound
		}
		return cronjob.CronJob{}, err
	}
	return job, nil
}
