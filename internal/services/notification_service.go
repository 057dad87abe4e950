package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stylist-backend/internal/domain/notification"
	"stylist-backend/internal/domain/trending"
	"stylist-backend/internal/domain/user"
	"stylist-backend/internal/repository"
	stylist_errors "stylist-backend/pkg/errors"
	"stylist-backend/pkg/logger"
)

// Read notifications older than this are purged by the weekly cleanup.
const notificationRetention = 30 * 24 * time.Hour

// PushPayload is the message handed to the push channel.
type PushPayload struct {
	Title    string
	Body     string
	ImageURL string
	Data     map[string]string
}

// PushSender delivers a payload to a set of device tokens and reports the
// tokens that were rejected so they can be deactivated.
type PushSender interface {
	SendPush(ctx context.Context, tokens []string, payload PushPayload) (failed []string, err error)
}

// EmailSender delivers a single HTML email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// LogPushSender logs instead of delivering. Used when no push credentials
// are configured.
type LogPushSender struct {
	Log *logger.Logger
}

func (s LogPushSender) SendPush(_ context.Context, tokens []string, payload PushPayload) ([]string, error) {
	s.Log.Infof("push (dry-run) to %d tokens: %s", len(tokens), payload.Title)
	return nil, nil
}

// LogEmailSender logs instead of delivering.
type LogEmailSender struct {
	Log *logger.Logger
}

func (s LogEmailSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.Log.Infof("email (dry-run) to %s: %s", to, subject)
	return nil
}

// NotificationService owns notification records, device tokens, delivery
// preferences and the trending fan-out.
type NotificationService struct {
	repo  repository.NotificationRepository
	push  PushSender
	email EmailSender
	log   *logger.Logger
	now   func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, push PushSender, email EmailSender, log *logger.Logger) *NotificationService {
	return &NotificationService{
		repo:  repo,
		push:  push,
		email: email,
		log:   log,
		now:   time.Now,
	}
}

// CreateNotification persists a notification record. data is marshalled to
// JSON when non-nil.
func (s *NotificationService) CreateNotification(ctx context.Context, userID uuid.UUID, title, body, nType string, data any, imageURL string) (notification.Notification, error) {
	n := notification.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Body:     body,
		Type:     nType,
		ImageURL: imageURL,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return notification.Notification{}, fmt.Errorf("marshal notification data: %w", err)
		}
		n.Data = sql.NullString{String: string(raw), Valid: true}
	}

	if err := s.repo.Create(ctx, &n); err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

// SendPushToUser pushes to every active token of the user. Tokens the
// provider rejects are deactivated. No tokens is not an error.
func (s *NotificationService) SendPushToUser(ctx context.Context, userID uuid.UUID, payload PushPayload) error {
	deviceTokens, err := s.repo.GetActiveDeviceTokens(ctx, userID)
	if err != nil {
		return err
	}
	if len(deviceTokens) == 0 {
		return nil
	}

	tokens := make([]string, len(deviceTokens))
	for i, dt := range deviceTokens {
		tokens[i] = dt.Token
	}

	failed, err := s.push.SendPush(ctx, tokens, payload)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		if err := s.repo.DeactivateDeviceTokens(ctx, failed); err != nil {
			s.log.Warnf("failed to deactivate %d rejected device tokens: %v", len(failed), err)
		}
	}
	return nil
}

// SendTrendingNotifications fans the saved batch out to every subscribed
// user. Per-user failures are logged and skipped; only the subscriber query
// itself can fail the fan-out.
func (s *NotificationService) SendTrendingNotifications(ctx context.Context, outfits []trending.Outfit) error {
	if len(outfits) == 0 {
		return nil
	}

	subscribers, err := s.repo.GetTrendingSubscribers(ctx)
	if err != nil {
		return fmt.Errorf("load trending subscribers: %w", err)
	}
	s.log.Infof("sending trending notifications to %d users", len(subscribers))

	var failures int
	for _, u := range subscribers {
		if err := s.sendTrendingToUser(ctx, u, outfits); err != nil {
			failures++
			s.log.Errorf("trending notification failed for user %s: %v", u.ID, err)
		}
	}
	if failures > 0 {
		s.log.Warnf("trending fan-out completed with %d/%d failures", failures, len(subscribers))
	}
	return nil
}

func (s *NotificationService) sendTrendingToUser(ctx context.Context, u user.User, outfits []trending.Outfit) error {
	prefs, err := s.GetPreferences(ctx, u.ID)
	if err != nil {
		return err
	}
	if !prefs.TrendingOutfits {
		return nil
	}

	title := "New Trending Outfits Just Dropped!"
	body := fmt.Sprintf("Discover %d fresh outfit ideas that are trending right now", len(outfits))

	top := outfits
	if len(top) > 3 {
		top = top[:3]
	}
	n, err := s.CreateNotification(ctx, u.ID, title, body, notification.TypeTrendingOutfits,
		map[string]any{"outfits": trendingPreviews(top)}, outfits[0].ImageURL)
	if err != nil {
		return err
	}

	if prefs.PushNotifications {
		err := s.SendPushToUser(ctx, u.ID, PushPayload{
			Title:    title,
			Body:     body,
			ImageURL: outfits[0].ImageURL,
			Data: map[string]string{
				"notification_id": n.ID.String(),
				"type":            "trending_outfits",
				"outfit_count":    fmt.Sprintf("%d", len(outfits)),
			},
		})
		if err != nil {
			return err
		}
	}

	if prefs.EmailNotifications {
		html := trendingEmailHTML(u.Name, top)
		if err := s.email.SendEmail(ctx, u.Email, title, html); err != nil {
			return err
		}
	}

	if err := s.repo.MarkAsSent(ctx, n.ID); err != nil {
		s.log.Warnf("failed to mark notification %s as sent: %v", n.ID, err)
	}
	return nil
}

type trendingPreview struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Category string `json:"category"`
}

func trendingPreviews(outfits []trending.Outfit) []trendingPreview {
	previews := make([]trendingPreview, len(outfits))
	for i, o := range outfits {
		previews[i] = trendingPreview{
			ID:       o.ID.String(),
			Title:    o.Title,
			ImageURL: o.ImageURL,
			Category: o.Category,
		}
	}
	return previews
}

func trendingEmailHTML(name string, outfits []trending.Outfit) string {
	items := ""
	for _, o := range outfits {
		items += fmt.Sprintf(`<li><strong>%s</strong>: %s</li>`, o.Title, o.Description)
	}
	return fmt.Sprintf(`<html><body>
<h2>Hey %s, new trending looks are in!</h2>
<ul>%s</ul>
<p>Open the app to see the full collection.</p>
</body></html>`, name, items)
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error) {
	if limit <= 0 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetUserNotifications(ctx, userID, limit, offset)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, userID, notificationID)
}

// RegisterDeviceToken upserts by token value so a device moving between
// accounts is reassigned rather than duplicated.
func (s *NotificationService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token, platform string) error {
	if token == "" {
		return stylist_errors.ErrInvalidInput
	}
	return s.repo.UpsertDeviceToken(ctx, &user.DeviceToken{
		ID:         uuid.New(),
		UserID:     userID,
		Token:      token,
		Platform:   platform,
		IsActive:   true,
		LastUsedAt: sql.NullTime{Time: s.now(), Valid: true},
	})
}

// GetPreferences returns stored preferences, or the defaults (everything
// enabled) for users who never saved any.
func (s *NotificationService) GetPreferences(ctx context.Context, userID uuid.UUID) (user.NotificationPreferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, stylist_errors.ErrNotFound) {
			return user.NotificationPreferences{
				UserID:             userID,
				PushNotifications:  true,
				EmailNotifications: true,
				TrendingOutfits:    true,
				StyleSuggestions:   true,
			}, nil
		}
		return user.NotificationPreferences{}, err
	}
	return prefs, nil
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, prefs user.NotificationPreferences) error {
	return s.repo.UpsertPreferences(ctx, &prefs)
}

// PurgeReadNotifications deletes read notifications older than the retention
// window. Called by the weekly cleanup job.
func (s *NotificationService) PurgeReadNotifications(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-notificationRetention)
	count, err := s.repo.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Infof("purged %d read notifications", count)
	return count, nil
}
