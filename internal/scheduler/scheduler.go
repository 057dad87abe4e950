package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"stylist-backend/config"
	"stylist-backend/internal/repository"
	"stylist-backend/internal/services"
	stylist_errors "stylist-backend/pkg/errors"
	"stylist-backend/pkg/logger"
)

type jobSpec struct {
	name     string
	schedule string
	// interval feeds the nextRun column for jobs whose bookkeeping is done
	// here rather than inside the pipeline.
	interval      time.Duration
	selfRecording bool
	run           func(ctx context.Context) error
}

type jobEntry struct {
	spec    jobSpec
	entryID cron.EntryID

	// Re-entrancy guard: an overlapping fire of the same job is skipped,
	// whether it comes from the schedule or a manual trigger.
	mu sync.Mutex
}

// SessionCleaner removes expired refresh sessions. Satisfied by
// services.UserService.
type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) error
}

// Scheduler owns the three background jobs. The cron table is fixed; the
// CronJob rows in the database are audit records only.
type Scheduler struct {
	cron          *cron.Cron
	cronRepo      repository.CronJobRepository
	trending      *services.TrendingService
	notifications *services.NotificationService
	sessions      SessionCleaner
	log           *logger.Logger

	mu   sync.RWMutex
	jobs map[string]*jobEntry
}

func New(
	cfg *config.Config,
	trending *services.TrendingService,
	notifications *services.NotificationService,
	sessions SessionCleaner,
	cronRepo repository.CronJobRepository,
	log *logger.Logger,
) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.CronTimezone)
	if err != nil {
		return nil, fmt.Errorf("load cron timezone %q: %w", cfg.CronTimezone, err)
	}

	return &Scheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		cronRepo:      cronRepo,
		trending:      trending,
		notifications: notifications,
		sessions:      sessions,
		log:           log,
		jobs:          make(map[string]*jobEntry),
	}, nil
}

func (s *Scheduler) jobSpecs() []jobSpec {
	return []jobSpec{
		{
			name:          services.JobTrendingOutfits,
			schedule:      services.ScheduleTrendingOutfits,
			selfRecording: true,
			run: func(ctx context.Context) error {
				_, err := s.trending.RunTrendingOutfits(ctx)
				return err
			},
		},
		{
			name:     services.JobTrendingScores,
			schedule: services.ScheduleTrendingScores,
			interval: 24 * time.Hour,
			run: func(ctx context.Context) error {
				_, err := s.trending.UpdateTrendingScores(ctx)
				return err
			},
		},
		{
			name:     services.JobWeeklyCleanup,
			schedule: services.ScheduleWeeklyCleanup,
			interval: 7 * 24 * time.Hour,
			run:      s.runWeeklyCleanup,
		},
	}
}

func (s *Scheduler) runWeeklyCleanup(ctx context.Context) error {
	if _, err := s.trending.CleanupOldOutfits(ctx); err != nil {
		return err
	}
	if _, err := s.notifications.PurgeReadNotifications(ctx); err != nil {
		// Notification purge is secondary; outfit cleanup already succeeded.
		s.log.Warnf("weekly notification purge failed: %v", err)
	}
	if s.sessions != nil {
		if err := s.sessions.CleanExpiredSessions(ctx); err != nil {
			s.log.Warnf("weekly session cleanup failed: %v", err)
		}
	}
	return nil
}

// Initialize registers every job from the fixed table and starts the cron
// loop.
func (s *Scheduler) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, spec := range s.jobSpecs() {
		if _, ok := s.jobs[spec.name]; ok {
			continue
		}
		if err := s.registerLocked(spec); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.log.Infof("scheduler started with %d jobs", len(s.jobs))
	return nil
}

func (s *Scheduler) registerLocked(spec jobSpec) error {
	entry := &jobEntry{spec: spec}
	entryID, err := s.cron.AddFunc(spec.schedule, func() {
		_ = s.runEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("schedule job %s (%s): %w", spec.name, spec.schedule, err)
	}
	entry.entryID = entryID
	s.jobs[spec.name] = entry
	s.log.Infof("scheduled job %s (%s)", spec.name, spec.schedule)
	return nil
}

func (s *Scheduler) runEntry(entry *jobEntry) error {
	if !entry.mu.TryLock() {
		s.log.Warnf("skipping %s: previous run still in progress", entry.spec.name)
		return stylist_errors.ErrJobRunning
	}
	defer entry.mu.Unlock()

	ctx := context.Background()
	s.log.Infof("running job %s", entry.spec.name)

	err := entry.spec.run(ctx)
	if !entry.spec.selfRecording {
		s.recordRun(ctx, entry.spec, err)
	}
	if err != nil {
		s.log.Errorf("job %s failed: %v", entry.spec.name, err)
		return err
	}

	s.log.Infof("job %s completed", entry.spec.name)
	return nil
}

func (s *Scheduler) recordRun(ctx context.Context, spec jobSpec, runErr error) {
	lastError := ""
	if runErr != nil {
		lastError = runErr.Error()
	}
	now := time.Now()
	err := s.cronRepo.RecordRun(ctx, spec.name, spec.schedule, now, now.Add(spec.interval), runErr == nil, lastError)
	if err != nil {
		s.log.Errorf("failed to record %s run: %v", spec.name, err)
	}
}

// TriggerResult is the outcome of a manual trigger.
type TriggerResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TriggerNow runs a job immediately, subject to the same re-entrancy guard
// as scheduled fires.
func (s *Scheduler) TriggerNow(name string) (TriggerResult, error) {
	s.mu.RLock()
	entry, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return TriggerResult{Success: false, Error: "unknown job: " + name}, stylist_errors.ErrUnknownJob
	}

	if err := s.runEntry(entry); err != nil {
		return TriggerResult{Success: false, Error: err.Error()}, nil
	}
	return TriggerResult{Success: true, Message: name + " completed successfully"}, nil
}

// Stop removes one job from the schedule. Returns false for unknown jobs.
func (s *Scheduler) Stop(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.jobs[name]
	if !ok {
		return false
	}
	s.cron.Remove(entry.entryID)
	delete(s.jobs, name)
	s.log.Infof("stopped job %s", name)
	return true
}

// StopAll removes every job and halts the cron loop. In-flight runs finish.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	for name, entry := range s.jobs {
		s.cron.Remove(entry.entryID)
		delete(s.jobs, name)
		s.log.Infof("stopped job %s", name)
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.log.Infof("scheduler stopped")
}

// Restart re-registers one job from the fixed table. Returns false for names
// not in the table.
func (s *Scheduler) Restart(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.jobs[name]; ok {
		s.cron.Remove(entry.entryID)
		delete(s.jobs, name)
	}

	for _, spec := range s.jobSpecs() {
		if spec.name != name {
			continue
		}
		if err := s.registerLocked(spec); err != nil {
			s.log.Errorf("failed to restart job %s: %v", name, err)
			return false
		}
		s.log.Infof("restarted job %s", name)
		return true
	}
	return false
}

type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	IsActive    bool       `json:"is_active"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	RunCount    int        `json:"run_count"`
	FailCount   int        `json:"fail_count"`
	LastError   string     `json:"last_error,omitempty"`
	SuccessRate string     `json:"success_rate"`
}

type Status struct {
	Jobs       []JobStatus `json:"jobs"`
	ActiveJobs []string    `json:"active_jobs"`
	TotalJobs  int         `json:"total_jobs"`
}

// Status joins the persisted run records with the in-process registry.
func (s *Scheduler) Status(ctx context.Context) (Status, error) {
	records, err := s.cronRepo.GetAll(ctx)
	if err != nil {
		return Status{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]JobStatus, 0, len(records))
	for _, record := range records {
		status := JobStatus{
			Name:        record.Name,
			Schedule:    record.Schedule,
			IsActive:    record.IsActive,
			RunCount:    record.RunCount,
			FailCount:   record.FailCount,
			SuccessRate: successRate(record.RunCount, record.FailCount),
		}
		if record.LastRun.Valid {
			t := record.LastRun.Time
			status.LastRun = &t
		}
		if record.NextRun.Valid {
			t := record.NextRun.Time
			status.NextRun = &t
		}
		if record.LastError.Valid {
			status.LastError = record.LastError.String
		}
		if entry, ok := s.jobs[record.Name]; ok {
			next := s.cron.Entry(entry.entryID).Next
			if !next.IsZero() {
				status.NextRun = &next
			}
		}
		jobs = append(jobs, status)
	}

	active := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		active = append(active, name)
	}
	sort.Strings(active)

	return Status{
		Jobs:       jobs,
		ActiveJobs: active,
		TotalJobs:  len(s.jobs),
	}, nil
}

func successRate(runCount, failCount int) string {
	if runCount == 0 {
		return "N/A"
	}
	rate := float64(runCount-failCount) / float64(runCount) * 100
	return fmt.Sprintf("%.2f%%", rate)
}
