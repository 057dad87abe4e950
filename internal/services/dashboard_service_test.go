package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylist-backend/internal/domain/suggestion"
	"stylist-backend/internal/domain/user"
	stylist_errors "stylist-backend/pkg/errors"
	"stylist-backend/pkg/logger"
)

// memCache is a storing FeedCache for dashboard tests; fakeCache only tracks
// invalidations.
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) DeletePrefix(_ context.Context, _ string) error { return nil }

type stubAIHealth struct {
	state string
}

func (s stubAIHealth) BreakerState() string { return s.state }

func newTestDashboardService(userRepo *fakeUserRepo, suggestionRepo *fakeSuggestionRepo, cache FeedCache, ai AIHealth, now time.Time) *DashboardService {
	svc := NewDashboardService(userRepo, suggestionRepo, cache, ai, logger.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func seedDashboardUser(repo *fakeUserRepo, createdAt time.Time) uuid.UUID {
	userID := uuid.New()
	repo.users[userID] = user.User{
		ID:        userID,
		Email:     "ria@example.com",
		Name:      "Ria",
		IsActive:  true,
		CreatedAt: createdAt,
	}
	return userID
}

func TestDashboardOverview(t *testing.T) {
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, time.UTC)
	userRepo := newFakeUserRepo()
	suggestionRepo := newFakeSuggestionRepo()
	userID := seedDashboardUser(userRepo, now.AddDate(0, -6, 0))

	userRepo.profiles[userID] = user.Profile{
		UserID:     userID,
		Gender:     "FEMALE",
		BodyType:   sql.NullString{String: "PEAR", Valid: true},
		StyleTypes: []string{"Minimalist", "Streetwear"},
	}
	photoID := uuid.New()
	userRepo.photos[photoID] = user.Photo{ID: photoID, UserID: userID, Type: "FACE", IsActive: true, CreatedAt: now}
	favoriteID := uuid.New()
	userRepo.favorites[favoriteID] = user.Favorite{ID: favoriteID, UserID: userID, ProductID: "p1", CreatedAt: now}
	for i := 0; i < 3; i++ {
		id := uuid.New()
		suggestionRepo.suggestions[id] = suggestion.StyleSuggestion{
			ID: id, UserID: userID, Occasion: "CASUAL", CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		}
	}

	svc := newTestDashboardService(userRepo, suggestionRepo, nil, nil, now)
	overview, err := svc.Overview(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "Ria", overview.User.Name)
	assert.Equal(t, "ria@example.com", overview.User.Email)
	// Gender, body type, styles and a photo: 4 of 8 fields.
	assert.Equal(t, 50, overview.User.ProfileCompletion)
	assert.Equal(t, int64(3), overview.Stats.SuggestionsGenerated)
	assert.Equal(t, 1, overview.Stats.PhotosUploaded)
	assert.Equal(t, 1, overview.Stats.FavoritesSaved)
	assert.Len(t, overview.QuickActions, 4)
	assert.Equal(t, []string{"Minimalist", "Streetwear"}, overview.StyleInsights.PreferredStyles)
	assert.Equal(t, "Summer 2025", overview.StyleInsights.CurrentSeason)
	assert.Equal(t, now, overview.LastUpdated)
}

func TestDashboardOverviewWithoutProfile(t *testing.T) {
	now := time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC)
	userRepo := newFakeUserRepo()
	userID := seedDashboardUser(userRepo, now)

	svc := newTestDashboardService(userRepo, newFakeSuggestionRepo(), nil, nil, now)
	overview, err := svc.Overview(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 0, overview.User.ProfileCompletion)
	assert.Equal(t, "Winter 2025", overview.StyleInsights.CurrentSeason)
	assert.Empty(t, overview.RecentActivity)
}

func TestDashboardMetrics(t *testing.T) {
	now := time.Date(2025, time.July, 10, 15, 0, 0, 0, time.UTC)
	userRepo := newFakeUserRepo()
	suggestionRepo := newFakeSuggestionRepo()
	userID := seedDashboardUser(userRepo, now)

	today := uuid.New()
	suggestionRepo.suggestions[today] = suggestion.StyleSuggestion{ID: today, UserID: userID, CreatedAt: now.Add(-2 * time.Hour)}
	yesterday := uuid.New()
	suggestionRepo.suggestions[yesterday] = suggestion.StyleSuggestion{ID: yesterday, UserID: userID, CreatedAt: now.Add(-26 * time.Hour)}

	photoID := uuid.New()
	userRepo.photos[photoID] = user.Photo{ID: photoID, UserID: userID, CreatedAt: now.Add(-time.Hour)}
	favoriteID := uuid.New()
	userRepo.favorites[favoriteID] = user.Favorite{ID: favoriteID, UserID: userID, CreatedAt: now.Add(-30 * time.Hour)}

	svc := newTestDashboardService(userRepo, suggestionRepo, nil, stubAIHealth{state: "closed"}, now)
	metrics, err := svc.Metrics(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.TodayStats.OutfitsGenerated)
	assert.Equal(t, 1, metrics.TodayStats.PhotosUploaded)
	assert.Equal(t, 0, metrics.TodayStats.FavoritesSaved)
	assert.Equal(t, "healthy", metrics.Health.AIServiceStatus)
}

func TestDashboardMetricsBreakerStates(t *testing.T) {
	now := time.Date(2025, time.July, 10, 15, 0, 0, 0, time.UTC)
	userRepo := newFakeUserRepo()
	userID := seedDashboardUser(userRepo, now)

	cases := []struct {
		state string
		want  string
	}{
		{"closed", "healthy"},
		{"half-open", "degraded"},
		{"open", "unhealthy"},
	}
	for _, tc := range cases {
		svc := newTestDashboardService(userRepo, newFakeSuggestionRepo(), nil, stubAIHealth{state: tc.state}, now)
		metrics, err := svc.Metrics(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, metrics.Health.AIServiceStatus, tc.state)
	}
}

func TestDashboardAnalytics(t *testing.T) {
	now := time.Date(2025, time.July, 10, 18, 0, 0, 0, time.UTC)
	userRepo := newFakeUserRepo()
	suggestionRepo := newFakeSuggestionRepo()
	userID := seedDashboardUser(userRepo, now)

	for i, occasion := range []string{"CASUAL", "CASUAL", "OFFICE"} {
		id := uuid.New()
		suggestionRepo.suggestions[id] = suggestion.StyleSuggestion{
			ID: id, UserID: userID, Occasion: occasion,
			CreatedAt: now.AddDate(0, 0, -i),
		}
	}
	suggestionRepo.feedback = append(suggestionRepo.feedback, suggestion.Feedback{UserID: userID, Rating: 4}, suggestion.Feedback{UserID: userID, Rating: 5})

	favoriteID := uuid.New()
	userRepo.favorites[favoriteID] = user.Favorite{ID: favoriteID, UserID: userID, CreatedAt: now.AddDate(0, 0, -2)}
	oldFavorite := uuid.New()
	userRepo.favorites[oldFavorite] = user.Favorite{ID: oldFavorite, UserID: userID, CreatedAt: now.AddDate(0, 0, -20)}

	svc := newTestDashboardService(userRepo, suggestionRepo, nil, nil, now)
	analytics, err := svc.Analytics(context.Background(), userID, "7d")
	require.NoError(t, err)

	assert.Equal(t, "7d", analytics.TimeRange)
	assert.Len(t, analytics.ChartData, 7)
	assert.Equal(t, 3, analytics.Summary.TotalOutfits)
	assert.Equal(t, 1, analytics.Summary.TotalFavorites)
	assert.InDelta(t, 4.5, analytics.Summary.AverageRating, 1e-9)

	require.Len(t, analytics.TopCategories, 2)
	assert.Equal(t, "CASUAL", analytics.TopCategories[0].Name)
	assert.Equal(t, 2, analytics.TopCategories[0].Count)
	assert.Equal(t, 66, analytics.TopCategories[0].Percentage)

	// Today's suggestion lands in the last bucket.
	last := analytics.ChartData[6]
	assert.Equal(t, "2025-07-10", last.Date)
	assert.Equal(t, 1, last.Outfits)
}

func TestDashboardAnalyticsRangeValidation(t *testing.T) {
	userRepo := newFakeUserRepo()
	userID := seedDashboardUser(userRepo, time.Now())
	svc := newTestDashboardService(userRepo, newFakeSuggestionRepo(), nil, nil, time.Now())

	_, err := svc.Analytics(context.Background(), userID, "365d")
	assert.ErrorIs(t, err, stylist_errors.ErrInvalidInput)

	analytics, err := svc.Analytics(context.Background(), userID, "")
	require.NoError(t, err)
	assert.Equal(t, "7d", analytics.TimeRange)
	assert.Len(t, analytics.ChartData, 7)

	analytics, err = svc.Analytics(context.Background(), userID, "30d")
	require.NoError(t, err)
	assert.Len(t, analytics.ChartData, 30)
}

func TestDashboardAnalyticsCached(t *testing.T) {
	now := time.Date(2025, time.July, 10, 18, 0, 0, 0, time.UTC)
	userRepo := newFakeUserRepo()
	suggestionRepo := newFakeSuggestionRepo()
	userID := seedDashboardUser(userRepo, now)
	cache := newMemCache()

	svc := newTestDashboardService(userRepo, suggestionRepo, cache, nil, now)
	first, err := svc.Analytics(context.Background(), userID, "7d")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Summary.TotalOutfits)
	assert.Contains(t, cache.data, fmt.Sprintf("dashboard:analytics:%s:7d", userID))

	// New rows do not show up until the cache entry expires.
	id := uuid.New()
	suggestionRepo.suggestions[id] = suggestion.StyleSuggestion{ID: id, UserID: userID, Occasion: "CASUAL", CreatedAt: now}

	second, err := svc.Analytics(context.Background(), userID, "7d")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Summary.TotalOutfits)
}

func TestWeatherSuggestionRules(t *testing.T) {
	svc := newTestDashboardService(newFakeUserRepo(), newFakeSuggestionRepo(), nil, nil, time.Now())

	hot := svc.WeatherSuggestionsFor(WeatherInput{TemperatureC: 30, Condition: "sunny", UVIndex: 8})
	require.Len(t, hot.Suggestions, 2)
	assert.Equal(t, "clothing", hot.Suggestions[0].Type)
	assert.Contains(t, hot.Suggestions[0].Items, "Linen pants")
	assert.Equal(t, "protection", hot.Suggestions[1].Type)

	cold := svc.WeatherSuggestionsFor(WeatherInput{TemperatureC: 5, Condition: "rainy", UVIndex: 1})
	require.Len(t, cold.Suggestions, 2)
	assert.Contains(t, cold.Suggestions[0].Items, "Sweaters")
	assert.Equal(t, "accessories", cold.Suggestions[1].Type)

	mild := svc.WeatherSuggestionsFor(WeatherInput{TemperatureC: 20, Condition: "cloudy", UVIndex: 3})
	assert.Empty(t, mild.Suggestions)
}

func TestTrackActivityAndUpdates(t *testing.T) {
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, time.UTC)
	userRepo := newFakeUserRepo()
	userID := seedDashboardUser(userRepo, now)
	cache := newMemCache()

	svc := newTestDashboardService(userRepo, newFakeSuggestionRepo(), cache, nil, now)

	err := svc.TrackActivity(context.Background(), userID, "bad_type", nil)
	assert.ErrorIs(t, err, stylist_errors.ErrInvalidInput)

	require.NoError(t, svc.TrackActivity(context.Background(), userID, "outfit_generated", map[string]string{"occasion": "CASUAL"}))
	svc.now = func() time.Time { return now.Add(time.Hour) }
	require.NoError(t, svc.TrackActivity(context.Background(), userID, "item_favorited", nil))

	all, err := svc.Updates(context.Background(), userID, time.Time{})
	require.NoError(t, err)
	assert.True(t, all.HasUpdates)
	require.Len(t, all.NewActivity, 2)
	assert.Equal(t, "outfit_generated", all.NewActivity[0].Type)

	fresh, err := svc.Updates(context.Background(), userID, now.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, fresh.NewActivity, 1)
	assert.Equal(t, "item_favorited", fresh.NewActivity[0].Type)

	stale, err := svc.Updates(context.Background(), userID, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stale.NewActivity)
	assert.False(t, stale.HasUpdates)
}

func TestTrackActivityCapsLog(t *testing.T) {
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, time.UTC)
	userRepo := newFakeUserRepo()
	userID := seedDashboardUser(userRepo, now)
	cache := newMemCache()

	svc := newTestDashboardService(userRepo, newFakeSuggestionRepo(), cache, nil, now)
	for i := 0; i < maxRecentActivity+5; i++ {
		svc.now = func() time.Time { return now.Add(time.Duration(i) * time.Minute) }
		require.NoError(t, svc.TrackActivity(context.Background(), userID, "profile_updated", nil))
	}

	all, err := svc.Updates(context.Background(), userID, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all.NewActivity, maxRecentActivity)
	// Oldest entries are dropped first.
	assert.Equal(t, now.Add(5*time.Minute), all.NewActivity[0].Timestamp)
}
