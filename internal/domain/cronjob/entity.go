package cronjob

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CronJob represents the cron_jobs table. One row per named job; purely an
// audit record, scheduling state lives in-process in the scheduler registry.
type CronJob struct {
	ID        uuid.UUID
	Name      string `gorm:"uniqueIndex"`
	Schedule  string
	IsActive  bool
	LastRun   sql.NullTime
	NextRun   sql.NullTime
	RunCount  int
	FailCount int
	LastError sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CronJob) TableName() string {
	return "cron_jobs"
}
