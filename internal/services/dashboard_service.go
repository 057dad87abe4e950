package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"stylist-backend/internal/domain/user"
	"stylist-backend/internal/repository"
	stylist_errors "stylist-backend/pkg/errors"
	"stylist-backend/pkg/logger"
)

const (
	analyticsCacheTTL = time.Hour
	activityCacheTTL  = 7 * 24 * time.Hour
	maxRecentActivity = 50
)

var validActivityTypes = map[string]bool{
	"outfit_generated": true,
	"photo_uploaded":   true,
	"item_favorited":   true,
	"profile_updated":  true,
}

// AIHealth exposes the provider circuit state for the metrics panel.
// Satisfied by AIService.
type AIHealth interface {
	BreakerState() string
}

// DashboardService aggregates per-user stats, activity and analytics for the
// home screen. Everything here is read-side except activity tracking, which
// lives in the cache with a short TTL.
type DashboardService struct {
	userRepo       repository.UserRepository
	suggestionRepo repository.SuggestionRepository
	cache          FeedCache
	ai             AIHealth
	log            *logger.Logger

	now func() time.Time
}

func NewDashboardService(
	userRepo repository.UserRepository,
	suggestionRepo repository.SuggestionRepository,
	cache FeedCache,
	ai AIHealth,
	log *logger.Logger,
) *DashboardService {
	return &DashboardService{
		userRepo:       userRepo,
		suggestionRepo: suggestionRepo,
		cache:          cache,
		ai:             ai,
		log:            log,
		now:            time.Now,
	}
}

type DashboardUser struct {
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	MemberSince       time.Time `json:"member_since"`
	ProfileCompletion int       `json:"profile_completion"`
}

type DashboardStats struct {
	SuggestionsGenerated int64 `json:"suggestions_generated"`
	PhotosUploaded       int   `json:"photos_uploaded"`
	FavoritesSaved       int   `json:"favorites_saved"`
}

type QuickAction struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Route       string `json:"route"`
}

type StyleInsights struct {
	PreferredStyles []string `json:"preferred_styles"`
	CurrentSeason   string   `json:"current_season"`
}

type ActivityEvent struct {
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type DashboardOverview struct {
	User           DashboardUser   `json:"user"`
	Stats          DashboardStats  `json:"stats"`
	RecentActivity []ActivityEvent `json:"recent_activity"`
	QuickActions   []QuickAction   `json:"quick_actions"`
	StyleInsights  StyleInsights   `json:"style_insights"`
	LastUpdated    time.Time       `json:"last_updated"`
}

func quickActions() []QuickAction {
	return []QuickAction{
		{ID: "generate_outfit", Title: "Generate Outfit", Description: "Get AI-powered style suggestions", Icon: "flash", Route: "/suggestions"},
		{ID: "take_photo", Title: "Take Photo", Description: "Upload photo for analysis", Icon: "camera", Route: "/camera"},
		{ID: "browse_favorites", Title: "My Favorites", Description: "View saved items", Icon: "heart", Route: "/favorites"},
		{ID: "update_profile", Title: "Update Profile", Description: "Manage your preferences", Icon: "person", Route: "/profile"},
	}
}

func (s *DashboardService) Overview(ctx context.Context, userID uuid.UUID) (DashboardOverview, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return DashboardOverview{}, err
	}

	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, stylist_errors.ErrNotFound) {
		return DashboardOverview{}, err
	}

	photos, err := s.userRepo.GetPhotos(ctx, userID)
	if err != nil {
		return DashboardOverview{}, err
	}
	favorites, err := s.userRepo.GetFavorites(ctx, userID)
	if err != nil {
		return DashboardOverview{}, err
	}
	_, totalSuggestions, err := s.suggestionRepo.GetUserSuggestions(ctx, userID, 1, 0)
	if err != nil {
		return DashboardOverview{}, err
	}

	now := s.now()
	return DashboardOverview{
		User: DashboardUser{
			Name:              u.Name,
			Email:             u.Email,
			MemberSince:       u.CreatedAt,
			ProfileCompletion: profileCompletion(profile, len(photos) > 0),
		},
		Stats: DashboardStats{
			SuggestionsGenerated: totalSuggestions,
			PhotosUploaded:       len(photos),
			FavoritesSaved:       len(favorites),
		},
		RecentActivity: s.recentActivity(ctx, userID),
		QuickActions:   quickActions(),
		StyleInsights: StyleInsights{
			PreferredStyles: profile.StyleTypes,
			CurrentSeason:   fmt.Sprintf("%s %d", seasonFor(now), now.Year()),
		},
		LastUpdated: now,
	}, nil
}

// profileCompletion scores the profile in eighths: seven profile fields plus
// an uploaded photo.
func profileCompletion(p user.Profile, hasPhoto bool) int {
	filled := 0
	for _, set := range []bool{
		p.Gender != "",
		p.HeightCm.Valid,
		p.BodyType.Valid,
		p.FaceShape.Valid,
		p.SkinTone.Valid,
		len(p.StyleTypes) > 0,
		p.BudgetRange.Valid,
		hasPhoto,
	} {
		if set {
			filled++
		}
	}
	return filled * 100 / 8
}

type DashboardMetrics struct {
	Timestamp  time.Time       `json:"timestamp"`
	TodayStats TodayStats      `json:"today_stats"`
	Health     DashboardHealth `json:"system_health"`
}

type TodayStats struct {
	OutfitsGenerated int `json:"outfits_generated"`
	PhotosUploaded   int `json:"photos_uploaded"`
	FavoritesSaved   int `json:"favorites_saved"`
}

type DashboardHealth struct {
	AIServiceStatus string `json:"ai_service_status"`
}

// Metrics reports today's per-user counters plus the AI provider circuit
// state.
func (s *DashboardService) Metrics(ctx context.Context, userID uuid.UUID) (DashboardMetrics, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	suggestions, err := s.suggestionRepo.ListCreatedSince(ctx, userID, midnight)
	if err != nil {
		return DashboardMetrics{}, err
	}
	photos, err := s.userRepo.GetPhotos(ctx, userID)
	if err != nil {
		return DashboardMetrics{}, err
	}
	favorites, err := s.userRepo.GetFavorites(ctx, userID)
	if err != nil {
		return DashboardMetrics{}, err
	}

	photosToday := 0
	for _, p := range photos {
		if !p.CreatedAt.Before(midnight) {
			photosToday++
		}
	}
	favoritesToday := 0
	for _, f := range favorites {
		if !f.CreatedAt.Before(midnight) {
			favoritesToday++
		}
	}

	health := DashboardHealth{AIServiceStatus: "healthy"}
	if s.ai != nil {
		switch s.ai.BreakerState() {
		case "open":
			health.AIServiceStatus = "unhealthy"
		case "half-open":
			health.AIServiceStatus = "degraded"
		}
	}

	return DashboardMetrics{
		Timestamp: now,
		TodayStats: TodayStats{
			OutfitsGenerated: len(suggestions),
			PhotosUploaded:   photosToday,
			FavoritesSaved:   favoritesToday,
		},
		Health: health,
	}, nil
}

type AnalyticsPoint struct {
	Date      string `json:"date"`
	Outfits   int    `json:"outfits"`
	Photos    int    `json:"photos"`
	Favorites int    `json:"favorites"`
}

type AnalyticsSummary struct {
	TotalOutfits   int     `json:"total_outfits"`
	TotalPhotos    int     `json:"total_photos"`
	TotalFavorites int     `json:"total_favorites"`
	AverageRating  float64 `json:"average_rating"`
}

type CategoryShare struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type DashboardAnalytics struct {
	TimeRange     string           `json:"time_range"`
	Summary       AnalyticsSummary `json:"summary"`
	ChartData     []AnalyticsPoint `json:"chart_data"`
	TopCategories []CategoryShare  `json:"top_categories"`
}

// Analytics buckets the user's activity per day over the requested range.
// Results are cached for an hour.
func (s *DashboardService) Analytics(ctx context.Context, userID uuid.UUID, timeRange string) (DashboardAnalytics, error) {
	days := 7
	switch timeRange {
	case "", "7d":
		timeRange = "7d"
	case "30d":
		days = 30
	case "90d":
		days = 90
	default:
		return DashboardAnalytics{}, stylist_errors.ErrInvalidInput
	}

	cacheKey := fmt.Sprintf("dashboard:analytics:%s:%s", userID, timeRange)
	if s.cache != nil {
		var cached DashboardAnalytics
		if ok, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	now := s.now()
	startDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))

	suggestions, err := s.suggestionRepo.ListCreatedSince(ctx, userID, startDay)
	if err != nil {
		return DashboardAnalytics{}, err
	}
	photos, err := s.userRepo.GetPhotos(ctx, userID)
	if err != nil {
		return DashboardAnalytics{}, err
	}
	favorites, err := s.userRepo.GetFavorites(ctx, userID)
	if err != nil {
		return DashboardAnalytics{}, err
	}
	avgRating, err := s.suggestionRepo.AverageFeedbackRating(ctx, userID)
	if err != nil {
		return DashboardAnalytics{}, err
	}

	points := make([]AnalyticsPoint, days)
	index := make(map[string]*AnalyticsPoint, days)
	for i := range points {
		date := startDay.AddDate(0, 0, i).Format("2006-01-02")
		points[i] = AnalyticsPoint{Date: date}
		index[date] = &points[i]
	}

	summary := AnalyticsSummary{AverageRating: avgRating}
	occasionCounts := map[string]int{}
	for _, sg := range suggestions {
		summary.TotalOutfits++
		occasionCounts[sg.Occasion]++
		if p, ok := index[sg.CreatedAt.Format("2006-01-02")]; ok {
			p.Outfits++
		}
	}
	for _, ph := range photos {
		if ph.CreatedAt.Before(startDay) {
			continue
		}
		summary.TotalPhotos++
		if p, ok := index[ph.CreatedAt.Format("2006-01-02")]; ok {
			p.Photos++
		}
	}
	for _, f := range favorites {
		if f.CreatedAt.Before(startDay) {
			continue
		}
		summary.TotalFavorites++
		if p, ok := index[f.CreatedAt.Format("2006-01-02")]; ok {
			p.Favorites++
		}
	}

	analytics := DashboardAnalytics{
		TimeRange:     timeRange,
		Summary:       summary,
		ChartData:     points,
		TopCategories: topCategories(occasionCounts, summary.TotalOutfits),
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, analytics, analyticsCacheTTL); err != nil {
			s.log.Warnf("failed to cache dashboard analytics: %v", err)
		}
	}
	return analytics, nil
}

type WeatherInput struct {
	TemperatureC float64
	Condition    string // sunny, cloudy, rainy, windy
	UVIndex      int
}

type WeatherAdvice struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Items   []string `json:"items"`
}

type WeatherSuggestions struct {
	Temperature float64         `json:"temperature"`
	Condition   string          `json:"condition"`
	UVIndex     int             `json:"uv_index"`
	Suggestions []WeatherAdvice `json:"suggestions"`
}

// WeatherSuggestionsFor maps reported conditions to outfit advice. The
// weather itself comes from the client; there is no weather provider here.
func (s *DashboardService) WeatherSuggestionsFor(in WeatherInput) WeatherSuggestions {
	out := WeatherSuggestions{
		Temperature: in.TemperatureC,
		Condition:   in.Condition,
		UVIndex:     in.UVIndex,
		Suggestions: []WeatherAdvice{},
	}

	if in.TemperatureC > 25 {
		out.Suggestions = append(out.Suggestions, WeatherAdvice{
			Type:    "clothing",
			Message: "Perfect weather for light, breathable fabrics",
			Items:   []string{"Cotton t-shirts", "Linen pants", "Sundresses", "Sandals"},
		})
	} else if in.TemperatureC < 15 {
		out.Suggestions = append(out.Suggestions, WeatherAdvice{
			Type:    "clothing",
			Message: "Layer up with these cozy options",
			Items:   []string{"Sweaters", "Jackets", "Boots", "Scarves"},
		})
	}

	if in.Condition == "rainy" {
		out.Suggestions = append(out.Suggestions, WeatherAdvice{
			Type:    "accessories",
			Message: "Don't forget rain protection",
			Items:   []string{"Umbrella", "Waterproof jacket", "Rain boots"},
		})
	}

	if in.UVIndex > 6 {
		out.Suggestions = append(out.Suggestions, WeatherAdvice{
			Type:    "protection",
			Message: "High UV - protect your skin",
			Items:   []string{"Sunglasses", "Hat", "Long sleeves", "Sunscreen"},
		})
	}

	return out
}

// TrackActivity appends one event to the user's rolling activity log. The
// log lives in the cache only; without a cache, events are dropped.
func (s *DashboardService) TrackActivity(ctx context.Context, userID uuid.UUID, activityType string, metadata map[string]string) error {
	if !validActivityTypes[activityType] {
		return stylist_errors.ErrInvalidInput
	}
	if s.cache == nil {
		return nil
	}

	key := activityKey(userID)
	var events []ActivityEvent
	if _, err := s.cache.GetJSON(ctx, key, &events); err != nil {
		return err
	}

	events = append(events, ActivityEvent{
		Type:      activityType,
		Timestamp: s.now(),
		Metadata:  metadata,
	})
	if len(events) > maxRecentActivity {
		events = events[len(events)-maxRecentActivity:]
	}
	return s.cache.SetJSON(ctx, key, events, activityCacheTTL)
}

type DashboardUpdates struct {
	Timestamp   time.Time       `json:"timestamp"`
	NewActivity []ActivityEvent `json:"new_activity"`
	HasUpdates  bool            `json:"has_updates"`
}

// Updates returns activity recorded after the given instant. A zero since
// returns everything.
func (s *DashboardService) Updates(ctx context.Context, userID uuid.UUID, since time.Time) (DashboardUpdates, error) {
	events := s.recentActivity(ctx, userID)

	fresh := make([]ActivityEvent, 0, len(events))
	for _, e := range events {
		if since.IsZero() || e.Timestamp.After(since) {
			fresh = append(fresh, e)
		}
	}

	return DashboardUpdates{
		Timestamp:   s.now(),
		NewActivity: fresh,
		HasUpdates:  len(fresh) > 0 || since.IsZero(),
	}, nil
}

func (s *DashboardService) recentActivity(ctx context.Context, userID uuid.UUID) []ActivityEvent {
	if s.cache == nil {
		return []ActivityEvent{}
	}
	var events []ActivityEvent
	if _, err := s.cache.GetJSON(ctx, activityKey(userID), &events); err != nil {
		s.log.Warnf("failed to read recent activity: %v", err)
		return []ActivityEvent{}
	}
	if events == nil {
		events = []ActivityEvent{}
	}
	return events
}

func activityKey(userID uuid.UUID) string {
	return "dashboard:activity:" + userID.String()
}

func topCategories(counts map[string]int, total int) []CategoryShare {
	shares := make([]CategoryShare, 0, len(counts))
	for name, count := range counts {
		share := CategoryShare{Name: name, Count: count}
		if total > 0 {
			share.Percentage = count * 100 / total
		}
		shares = append(shares, share)
	}
	sortCategoryShares(shares)
	return shares
}

func sortCategoryShares(shares []CategoryShare) {
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Name < shares[j].Name
	})
}
