package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylist-backend/internal/domain/notification"
	"stylist-backend/internal/domain/trending"
	"stylist-backend/internal/domain/user"
	"stylist-backend/pkg/logger"
)

func notificationAt(id uuid.UUID, read bool, createdAt time.Time) notification.Notification {
	return notification.Notification{ID: id, UserID: uuid.New(), IsRead: read, CreatedAt: createdAt}
}

type fakePushSender struct {
	sent       []PushPayload
	sentTokens [][]string
	failTokens []string
	err        error
}

func (p *fakePushSender) SendPush(_ context.Context, tokens []string, payload PushPayload) ([]string, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.sent = append(p.sent, payload)
	p.sentTokens = append(p.sentTokens, tokens)
	return p.failTokens, nil
}

type fakeEmailSender struct {
	recipients []string
	err        error
}

func (e *fakeEmailSender) SendEmail(_ context.Context, to, subject, htmlBody string) error {
	if e.err != nil {
		return e.err
	}
	e.recipients = append(e.recipients, to)
	return nil
}

func subscriber(repo *fakeNotificationRepo, email string, prefs user.NotificationPreferences) user.User {
	u := user.User{ID: uuid.New(), Email: email, Name: "U", IsActive: true}
	repo.subscribers = append(repo.subscribers, u)
	prefs.UserID = u.ID
	repo.prefs[u.ID] = prefs
	return u
}

func TestSendTrendingNotificationsFanOut(t *testing.T) {
	repo := newFakeNotificationRepo()
	push := &fakePushSender{}
	email := &fakeEmailSender{}
	svc := NewNotificationService(repo, push, email, logger.NewNop())

	all := subscriber(repo, "all@example.com", user.NotificationPreferences{
		PushNotifications: true, EmailNotifications: true, TrendingOutfits: true,
	})
	pushOnly := subscriber(repo, "push@example.com", user.NotificationPreferences{
		PushNotifications: true, TrendingOutfits: true,
	})
	optedOut := subscriber(repo, "quiet@example.com", user.NotificationPreferences{
		PushNotifications: true, EmailNotifications: true,
	})

	for _, u := range []user.User{all, pushOnly, optedOut} {
		repo.tokens["tok-"+u.Email] = user.DeviceToken{
			ID: uuid.New(), UserID: u.ID, Token: "tok-" + u.Email, IsActive: true,
		}
	}

	outfits := []trending.Outfit{
		{ID: uuid.New(), Title: "Streetwear casual Look", Category: "Streetwear", ImageURL: "https://img/1"},
		{ID: uuid.New(), Title: "Minimalist office Look", Category: "Minimalist", ImageURL: "https://img/2"},
	}

	err := svc.SendTrendingNotifications(context.Background(), outfits)
	require.NoError(t, err)

	// Push for both subscribed users, email only for the first, nothing
	// for the opted-out user.
	assert.Len(t, push.sent, 2)
	assert.Equal(t, []string{"all@example.com"}, email.recipients)

	// One persisted in-app notification per subscribed user.
	assert.Len(t, repo.notifications, 2)
	assert.Len(t, repo.sent, 2)
}

func TestSendTrendingNotificationsToleratesPerUserFailure(t *testing.T) {
	repo := newFakeNotificationRepo()
	push := &fakePushSender{err: errors.New("gateway timeout")}
	email := &fakeEmailSender{}
	svc := NewNotificationService(repo, push, email, logger.NewNop())

	subscriber(repo, "a@example.com", user.NotificationPreferences{PushNotifications: true, TrendingOutfits: true})
	subscriber(repo, "b@example.com", user.NotificationPreferences{EmailNotifications: true, TrendingOutfits: true})

	outfits := []trending.Outfit{{ID: uuid.New(), Title: "Look"}}
	err := svc.SendTrendingNotifications(context.Background(), outfits)

	// Push failures for one user never fail the fan-out; the email-only
	// user is still served.
	require.NoError(t, err)
	assert.Equal(t, []string{"b@example.com"}, email.recipients)
}

func TestSendTrendingNotificationsSubscriberQueryFailure(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.subscribersErr = errors.New("db down")
	svc := NewNotificationService(repo, &fakePushSender{}, &fakeEmailSender{}, logger.NewNop())

	err := svc.SendTrendingNotifications(context.Background(), []trending.Outfit{{ID: uuid.New()}})
	require.Error(t, err)
}

func TestSendTrendingNotificationsEmptyBatch(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.subscribersErr = errors.New("must not be queried")
	svc := NewNotificationService(repo, &fakePushSender{}, &fakeEmailSender{}, logger.NewNop())

	require.NoError(t, svc.SendTrendingNotifications(context.Background(), nil))
}

func TestSendPushDeactivatesRejectedTokens(t *testing.T) {
	repo := newFakeNotificationRepo()
	push := &fakePushSender{failTokens: []string{"dead-token"}}
	svc := NewNotificationService(repo, push, &fakeEmailSender{}, logger.NewNop())

	userID := uuid.New()
	repo.tokens["dead-token"] = user.DeviceToken{ID: uuid.New(), UserID: userID, Token: "dead-token", IsActive: true}
	repo.tokens["live-token"] = user.DeviceToken{ID: uuid.New(), UserID: userID, Token: "live-token", IsActive: true}

	err := svc.SendPushToUser(context.Background(), userID, PushPayload{Title: "hi"})
	require.NoError(t, err)

	assert.False(t, repo.tokens["dead-token"].IsActive)
	assert.True(t, repo.tokens["live-token"].IsActive)
}

func TestGetPreferencesDefaults(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, &fakePushSender{}, &fakeEmailSender{}, logger.NewNop())

	prefs, err := svc.GetPreferences(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, prefs.PushNotifications)
	assert.True(t, prefs.EmailNotifications)
	assert.True(t, prefs.TrendingOutfits)
	assert.True(t, prefs.StyleSuggestions)
}

func TestRegisterDeviceTokenUpsert(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, &fakePushSender{}, &fakeEmailSender{}, logger.NewNop())
	ctx := context.Background()

	first := uuid.New()
	require.NoError(t, svc.RegisterDeviceToken(ctx, first, "tok-1", "IOS"))
	require.Len(t, repo.tokens, 1)

	// Re-registering the same token reassigns it, it never duplicates.
	second := uuid.New()
	require.NoError(t, svc.RegisterDeviceToken(ctx, second, "tok-1", "ANDROID"))
	require.Len(t, repo.tokens, 1)
	assert.Equal(t, second, repo.tokens["tok-1"].UserID)
	assert.Equal(t, "ANDROID", repo.tokens["tok-1"].Platform)
}

func TestPurgeReadNotifications(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, &fakePushSender{}, &fakeEmailSender{}, logger.NewNop())

	old := time.Now().Add(-60 * 24 * time.Hour)
	readOld := uuid.New()
	repo.notifications[readOld] = notificationAt(readOld, true, old)
	unreadOld := uuid.New()
	repo.notifications[unreadOld] = notificationAt(unreadOld, false, old)
	readFresh := uuid.New()
	repo.notifications[readFresh] = notificationAt(readFresh, true, time.Now())

	count, err := svc.PurgeReadNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, repo.notifications, 2)
}
