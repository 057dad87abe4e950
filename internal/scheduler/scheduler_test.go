package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylist-backend/config"
	"stylist-backend/internal/domain/cronjob"
	"stylist-backend/internal/domain/notification"
	"stylist-backend/internal/domain/trending"
	"stylist-backend/internal/domain/user"
	"stylist-backend/internal/services"
	stylist_errors "stylist-backend/pkg/errors"
	"stylist-backend/pkg/logger"
)

type memTrendingRepo struct {
	outfits map[uuid.UUID]*trending.Outfit
}

func newMemTrendingRepo() *memTrendingRepo {
	return &memTrendingRepo{outfits: make(map[uuid.UUID]*trending.Outfit)}
}

func (r *memTrendingRepo) CreateOutfit(_ context.Context, o *trending.Outfit) error {
	cp := *o
	r.outfits[o.ID] = &cp
	return nil
}

func (r *memTrendingRepo) GetOutfitByID(_ context.Context, id uuid.UUID) (trending.Outfit, error) {
	o, ok := r.outfits[id]
	if !ok {
		return trending.Outfit{}, stylist_errors.ErrNotFound
	}
	return *o, nil
}

func (r *memTrendingRepo) GetActiveOutfits(_ context.Context) ([]trending.Outfit, error) {
	var out []trending.Outfit
	for _, o := range r.outfits {
		if o.IsActive {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memTrendingRepo) ListOutfits(_ context.Context, limit, offset int) ([]trending.Outfit, error) {
	return r.GetActiveOutfits(context.Background())
}

func (r *memTrendingRepo) ListFeaturedOutfits(_ context.Context, limit int) ([]trending.Outfit, error) {
	return nil, nil
}

func (r *memTrendingRepo) ListOutfitsByCategory(_ context.Context, category string, limit, offset int) ([]trending.Outfit, error) {
	return nil, nil
}

func (r *memTrendingRepo) ListOutfitsByOccasion(_ context.Context, occasion string, limit, offset int) ([]trending.Outfit, error) {
	return nil, nil
}

func (r *memTrendingRepo) UpdateScore(_ context.Context, outfitID uuid.UUID, score float64) error {
	o, ok := r.outfits[outfitID]
	if !ok {
		return stylist_errors.ErrNotFound
	}
	o.TrendingScore = score
	return nil
}

func (r *memTrendingRepo) IncrementViewCount(_ context.Context, outfitID uuid.UUID) error { return nil }
func (r *memTrendingRepo) IncrementLikeCount(_ context.Context, outfitID uuid.UUID, delta int) error {
	return nil
}
func (r *memTrendingRepo) IncrementShareCount(_ context.Context, outfitID uuid.UUID) error {
	return nil
}

func (r *memTrendingRepo) DeactivateStale(_ context.Context, olderThan time.Time, scoreBelow float64) (int64, error) {
	var count int64
	for _, o := range r.outfits {
		if o.IsActive && o.CreatedAt.Before(olderThan) && o.TrendingScore < scoreBelow {
			o.IsActive = false
			count++
		}
	}
	return count, nil
}

type memCronRepo struct {
	records map[string]cronjob.CronJob
}

func newMemCronRepo() *memCronRepo {
	return &memCronRepo{records: make(map[string]cronjob.CronJob)}
}

func (r *memCronRepo) RecordRun(_ context.Context, name, schedule string, lastRun, nextRun time.Time, success bool, lastError string) error {
	record := r.records[name]
	record.Name = name
	record.Schedule = schedule
	record.IsActive = true
	record.RunCount++
	if !success {
		record.FailCount++
	}
	r.records[name] = record
	return nil
}

func (r *memCronRepo) GetAll(_ context.Context) ([]cronjob.CronJob, error) {
	out := make([]cronjob.CronJob, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record)
	}
	return out, nil
}

func (r *memCronRepo) GetByName(_ context.Context, name string) (cronjob.CronJob, error) {
	record, ok := r.records[name]
	if !ok {
		return cronjob.CronJob{}, stylist_errors.ErrNotFound
	}
	return record, nil
}

type memNotificationRepo struct{}

func (memNotificationRepo) Create(_ context.Context, n *notification.Notification) error { return nil }
func (memNotificationRepo) GetUserNotifications(_ context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error) {
	return nil, nil
}
func (memNotificationRepo) MarkAsRead(_ context.Context, userID, notificationID uuid.UUID) error {
	return nil
}
func (memNotificationRepo) MarkAsSent(_ context.Context, notificationID uuid.UUID) error { return nil }
func (memNotificationRepo) DeleteReadOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
func (memNotificationRepo) UpsertDeviceToken(_ context.Context, t *user.DeviceToken) error {
	return nil
}
func (memNotificationRepo) GetActiveDeviceTokens(_ context.Context, userID uuid.UUID) ([]user.DeviceToken, error) {
	return nil, nil
}
func (memNotificationRepo) DeactivateDeviceTokens(_ context.Context, tokens []string) error {
	return nil
}
func (memNotificationRepo) GetPreferences(_ context.Context, userID uuid.UUID) (user.NotificationPreferences, error) {
	return user.NotificationPreferences{}, stylist_errors.ErrNotFound
}
func (memNotificationRepo) UpsertPreferences(_ context.Context, p *user.NotificationPreferences) error {
	return nil
}
func (memNotificationRepo) GetTrendingSubscribers(_ context.Context) ([]user.User, error) {
	return nil, nil
}

type memSessionCleaner struct {
	calls int
	err   error
}

func (c *memSessionCleaner) CleanExpiredSessions(_ context.Context) error {
	c.calls++
	return c.err
}

type staticProvider struct{}

func (staticProvider) GenerateStyleSuggestion(_ context.Context, input services.StyleSuggestionInput) (services.StyleSuggestionOutput, error) {
	return services.StyleSuggestionOutput{OutfitDesc: "Look"}, nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *memCronRepo, *memTrendingRepo, *memSessionCleaner) {
	t.Helper()

	trendingRepo := newMemTrendingRepo()
	cronRepo := newMemCronRepo()
	sessions := &memSessionCleaner{}
	log := logger.NewNop()

	notificationService := services.NewNotificationService(memNotificationRepo{}, &services.LogPushSender{Log: log}, &services.LogEmailSender{Log: log}, log)
	trendingService := services.NewTrendingService(trendingRepo, cronRepo, staticProvider{}, notificationService, nil, log)

	s, err := New(&config.Config{CronTimezone: "UTC"}, trendingService, notificationService, sessions, cronRepo, log)
	require.NoError(t, err)
	require.NoError(t, s.Initialize())
	t.Cleanup(s.StopAll)
	return s, cronRepo, trendingRepo, sessions
}

func TestNewRejectsBadTimezone(t *testing.T) {
	_, err := New(&config.Config{CronTimezone: "Mars/Olympus"}, nil, nil, nil, newMemCronRepo(), logger.NewNop())
	require.Error(t, err)
}

func TestInitializeRegistersAllJobs(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalJobs)
	assert.Equal(t, []string{
		services.JobTrendingOutfits,
		services.JobTrendingScores,
		services.JobWeeklyCleanup,
	}, status.ActiveJobs)
}

func TestTriggerNowUnknownJob(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)

	result, err := s.TriggerNow("no-such-job")
	assert.ErrorIs(t, err, stylist_errors.ErrUnknownJob)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no-such-job")
}

func TestTriggerNowRunsTrendingPipeline(t *testing.T) {
	s, cronRepo, trendingRepo, _ := newTestScheduler(t)

	result, err := s.TriggerNow(services.JobTrendingOutfits)
	require.NoError(t, err)
	assert.True(t, result.Success)

	// Ten outfits saved, run recorded by the pipeline itself.
	assert.Len(t, trendingRepo.outfits, 10)
	record, err := cronRepo.GetByName(context.Background(), services.JobTrendingOutfits)
	require.NoError(t, err)
	assert.Equal(t, 1, record.RunCount)
	assert.Equal(t, 0, record.FailCount)
}

func TestTriggerNowRecordsIntervalJobs(t *testing.T) {
	s, cronRepo, _, _ := newTestScheduler(t)

	result, err := s.TriggerNow(services.JobTrendingScores)
	require.NoError(t, err)
	assert.True(t, result.Success)

	record, err := cronRepo.GetByName(context.Background(), services.JobTrendingScores)
	require.NoError(t, err)
	assert.Equal(t, 1, record.RunCount)

	result, err = s.TriggerNow(services.JobWeeklyCleanup)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestWeeklyCleanupPurgesExpiredSessions(t *testing.T) {
	s, _, _, sessions := newTestScheduler(t)

	result, err := s.TriggerNow(services.JobWeeklyCleanup)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, sessions.calls)

	// A failed session purge is secondary; the job still succeeds.
	sessions.err = errors.New("db down")
	result, err = s.TriggerNow(services.JobWeeklyCleanup)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, sessions.calls)
}

func TestTriggerNowSkipsWhileRunning(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)

	s.mu.RLock()
	entry := s.jobs[services.JobTrendingScores]
	s.mu.RUnlock()
	require.NotNil(t, entry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	result, err := s.TriggerNow(services.JobTrendingScores)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, stylist_errors.ErrJobRunning.Error(), result.Error)
}

func TestStopAndRestart(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)

	assert.False(t, s.Stop("no-such-job"))
	assert.True(t, s.Stop(services.JobWeeklyCleanup))

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalJobs)
	assert.NotContains(t, status.ActiveJobs, services.JobWeeklyCleanup)

	assert.True(t, s.Restart(services.JobWeeklyCleanup))
	status, err = s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalJobs)
	assert.Contains(t, status.ActiveJobs, services.JobWeeklyCleanup)

	assert.False(t, s.Restart("no-such-job"))
}

func TestStatusJoinsRunRecords(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)

	_, err := s.TriggerNow(services.JobTrendingScores)
	require.NoError(t, err)

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, status.Jobs, 1)

	job := status.Jobs[0]
	assert.Equal(t, services.JobTrendingScores, job.Name)
	assert.Equal(t, services.ScheduleTrendingScores, job.Schedule)
	assert.Equal(t, "100.00%", job.SuccessRate)

	// Next fire time comes from the live cron entry.
	require.NotNil(t, job.NextRun)
	assert.True(t, job.NextRun.After(time.Now().Add(-time.Minute)))
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, "N/A", successRate(0, 0))
	assert.Equal(t, "100.00%", successRate(4, 0))
	assert.Equal(t, "75.00%", successRate(4, 1))
	assert.Equal(t, "0.00%", successRate(2, 2))
}
