package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"stylist-backend/internal/domain/notification"
	"stylist-backend/internal/domain/suggestion"
	"stylist-backend/internal/domain/user"
	stylist_errors "stylist-backend/pkg/errors"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users     map[uuid.UUID]user.User
	profiles  map[uuid.UUID]user.Profile
	photos    map[uuid.UUID]user.Photo
	favorites map[uuid.UUID]user.Favorite
	sessions  map[uuid.UUID]user.UserSession
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[uuid.UUID]user.User),
		profiles:  make(map[uuid.UUID]user.Profile),
		photos:    make(map[uuid.UUID]user.Photo),
		favorites: make(map[uuid.UUID]user.Favorite),
		sessions:  make(map[uuid.UUID]user.UserSession),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, stylist_errors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, stylist_errors.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u user.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return stylist_errors.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return stylist_errors.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetProfile(_ context.Context, userID uuid.UUID) (user.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return user.Profile{}, stylist_errors.ErrNotFound
	}
	return p, nil
}

func (r *fakeUserRepo) UpsertProfile(_ context.Context, p *user.Profile) error {
	r.profiles[p.UserID] = *p
	return nil
}

func (r *fakeUserRepo) AddPhoto(_ context.Context, p *user.Photo) error {
	r.photos[p.ID] = *p
	return nil
}

func (r *fakeUserRepo) GetPhotos(_ context.Context, userID uuid.UUID) ([]user.Photo, error) {
	var out []user.Photo
	for _, p := range r.photos {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) DeactivatePhotosByType(_ context.Context, userID uuid.UUID, photoType string) error {
	for id, p := range r.photos {
		if p.UserID == userID && p.Type == photoType {
			p.IsActive = false
			r.photos[id] = p
		}
	}
	return nil
}

func (r *fakeUserRepo) DeletePhoto(_ context.Context, userID, photoID uuid.UUID) error {
	p, ok := r.photos[photoID]
	if !ok || p.UserID != userID {
		return stylist_errors.ErrNotFound
	}
	delete(r.photos, photoID)
	return nil
}

func (r *fakeUserRepo) GetFavorites(_ context.Context, userID uuid.UUID) ([]user.Favorite, error) {
	var out []user.Favorite
	for _, f := range r.favorites {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetFavoriteByProduct(_ context.Context, userID uuid.UUID, productID, platform string) (user.Favorite, error) {
	for _, f := range r.favorites {
		if f.UserID == userID && f.ProductID == productID && f.Platform == platform {
			return f, nil
		}
	}
	return user.Favorite{}, stylist_errors.ErrNotFound
}

func (r *fakeUserRepo) AddFavorite(_ context.Context, f *user.Favorite) error {
	r.favorites[f.ID] = *f
	return nil
}

func (r *fakeUserRepo) RemoveFavorite(_ context.Context, userID, favoriteID uuid.UUID) error {
	f, ok := r.favorites[favoriteID]
	if !ok || f.UserID != userID {
		return stylist_errors.ErrNotFound
	}
	delete(r.favorites, favoriteID)
	return nil
}

func (r *fakeUserRepo) CreateSession(_ context.Context, s *user.UserSession) error {
	r.sessions[s.ID] = *s
	return nil
}

func (r *fakeUserRepo) GetSessionByID(_ context.Context, sessionID uuid.UUID) (user.UserSession, error) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return user.UserSession{}, stylist_errors.ErrNotFound
	}
	return s, nil
}

func (r *fakeUserRepo) GetUserSessions(_ context.Context, userID uuid.UUID) ([]user.UserSession, error) {
	var out []user.UserSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateSession(_ context.Context, s user.UserSession) error {
	if _, ok := r.sessions[s.ID]; !ok {
		return stylist_errors.ErrNotFound
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeUserRepo) RevokeSession(_ context.Context, sessionID uuid.UUID) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return stylist_errors.ErrNotFound
	}
	s.IsRevoked = true
	r.sessions[sessionID] = s
	return nil
}

func (r *fakeUserRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	for id, s := range r.sessions {
		if s.UserID == userID {
			s.IsRevoked = true
			r.sessions[id] = s
		}
	}
	return nil
}

func (r *fakeUserRepo) CleanExpiredSessions(_ context.Context) error {
	now := time.Now()
	for id, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, id)
		}
	}
	return nil
}

// fakeNotificationRepo is an in-memory NotificationRepository.
type fakeNotificationRepo struct {
	notifications map[uuid.UUID]notification.Notification
	tokens        map[string]user.DeviceToken
	prefs         map[uuid.UUID]user.NotificationPreferences
	subscribers   []user.User

	createErr      error
	subscribersErr error
	sent           []uuid.UUID
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		notifications: make(map[uuid.UUID]notification.Notification),
		tokens:        make(map[string]user.DeviceToken),
		prefs:         make(map[uuid.UUID]user.NotificationPreferences),
	}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.notifications[n.ID] = *n
	return nil
}

func (r *fakeNotificationRepo) GetUserNotifications(_ context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, userID, notificationID uuid.UUID) error {
	n, ok := r.notifications[notificationID]
	if !ok || n.UserID != userID {
		return stylist_errors.ErrNotFound
	}
	n.IsRead = true
	r.notifications[notificationID] = n
	return nil
}

func (r *fakeNotificationRepo) MarkAsSent(_ context.Context, notificationID uuid.UUID) error {
	n, ok := r.notifications[notificationID]
	if !ok {
		return stylist_errors.ErrNotFound
	}
	r.sent = append(r.sent, notificationID)
	r.notifications[notificationID] = n
	return nil
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for id, n := range r.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(r.notifications, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) UpsertDeviceToken(_ context.Context, t *user.DeviceToken) error {
	r.tokens[t.Token] = *t
	return nil
}

func (r *fakeNotificationRepo) GetActiveDeviceTokens(_ context.Context, userID uuid.UUID) ([]user.DeviceToken, error) {
	var out []user.DeviceToken
	for _, t := range r.tokens {
		if t.UserID == userID && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) DeactivateDeviceTokens(_ context.Context, tokens []string) error {
	for _, token := range tokens {
		if t, ok := r.tokens[token]; ok {
			t.IsActive = false
			r.tokens[token] = t
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetPreferences(_ context.Context, userID uuid.UUID) (user.NotificationPreferences, error) {
	p, ok := r.prefs[userID]
	if !ok {
		return user.NotificationPreferences{}, stylist_errors.ErrNotFound
	}
	return p, nil
}

func (r *fakeNotificationRepo) UpsertPreferences(_ context.Context, p *user.NotificationPreferences) error {
	r.prefs[p.UserID] = *p
	return nil
}

func (r *fakeNotificationRepo) GetTrendingSubscribers(_ context.Context) ([]user.User, error) {
	if r.subscribersErr != nil {
		return nil, r.subscribersErr
	}
	return r.subscribers, nil
}

// fakeSuggestionRepo is an in-memory SuggestionRepository.
type fakeSuggestionRepo struct {
	suggestions map[uuid.UUID]suggestion.StyleSuggestion
	feedback    []suggestion.Feedback
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{suggestions: make(map[uuid.UUID]suggestion.StyleSuggestion)}
}

func (r *fakeSuggestionRepo) Create(_ context.Context, s *suggestion.StyleSuggestion) error {
	r.suggestions[s.ID] = *s
	return nil
}

func (r *fakeSuggestionRepo) GetByID(_ context.Context, id uuid.UUID) (suggestion.StyleSuggestion, error) {
	s, ok := r.suggestions[id]
	if !ok {
		return suggestion.StyleSuggestion{}, stylist_errors.ErrNotFound
	}
	return s, nil
}

func (r *fakeSuggestionRepo) GetUserSuggestions(_ context.Context, userID uuid.UUID, limit, offset int) ([]suggestion.StyleSuggestion, int64, error) {
	var out []suggestion.StyleSuggestion
	for _, s := range r.suggestions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeSuggestionRepo) ListCreatedSince(_ context.Context, userID uuid.UUID, since time.Time) ([]suggestion.StyleSuggestion, error) {
	var out []suggestion.StyleSuggestion
	for _, s := range r.suggestions {
		if s.UserID == userID && !s.CreatedAt.Before(since) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSuggestionRepo) AddFeedback(_ context.Context, f *suggestion.Feedback) error {
	r.feedback = append(r.feedback, *f)
	return nil
}

func (r *fakeSuggestionRepo) AverageFeedbackRating(_ context.Context, userID uuid.UUID) (float64, error) {
	var sum, n float64
	for _, f := range r.feedback {
		if f.UserID == userID {
			sum += float64(f.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}
