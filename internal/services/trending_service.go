package services

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"stylist-backend/internal/domain/trending"
	"stylist-backend/internal/repository"
	stylist_errors "stylist-backend/pkg/errors"
	"stylist-backend/pkg/logger"
)

// Job names and schedules shared between the pipeline and the scheduler.
const (
	JobTrendingOutfits = "trending-outfits"
	JobTrendingScores  = "trending-scores"
	JobWeeklyCleanup   = "weekly-cleanup"

	ScheduleTrendingOutfits = "0 9 */2 * *"
	ScheduleTrendingScores  = "0 6 * * *"
	ScheduleWeeklyCleanup   = "0 2 * * 0"
)

// Pipeline tuning constants.
const (
	initialScoreMax     = 100.0
	featuredProbability = 0.3

	viewWeight         = 1.0
	likeWeight         = 3.0
	shareWeight        = 5.0
	recencyBase        = 100.0
	recencyDecayPerDay = 5.0

	staleOutfitAge  = 30 * 24 * time.Hour
	staleScoreFloor = 10.0

	trendingRunInterval = 48 * time.Hour

	occasionsPerCategory = 2

	defaultFeedLimit   = 20
	maxFeedLimit       = 50
	defaultFeaturedCap = 5

	feedCacheTTL = 10 * time.Minute
)

var trendingCategories = []string{
	"Streetwear",
	"Business Casual",
	"Evening Wear",
	"Athleisure",
	"Minimalist",
}

// The generator only uses the first occasionsPerCategory entries per run.
var trendingOccasions = []string{
	trending.OccasionCasual,
	trending.OccasionOffice,
	trending.OccasionDate,
	trending.OccasionParty,
	trending.OccasionFormalEvent,
}

var categoryTags = map[string][]string{
	"Streetwear":      {"streetstyle", "urban", "casual", "edgy"},
	"Business Casual": {"professional", "workwear", "smart", "elegant"},
	"Evening Wear":    {"formal", "party", "glamorous", "chic"},
	"Athleisure":      {"sporty", "comfortable", "activewear", "modern"},
	"Minimalist":      {"clean", "simple", "timeless", "sophisticated"},
}

var categoryPalettes = map[string][]string{
	"Streetwear":      {"#000000", "#FFFFFF", "#FF6B6B", "#4ECDC4"},
	"Business Casual": {"#2C3E50", "#34495E", "#95A5A6", "#ECF0F1"},
	"Evening Wear":    {"#8E44AD", "#2C3E50", "#F39C12", "#E74C3C"},
	"Athleisure":      {"#3498DB", "#2ECC71", "#95A5A6", "#34495E"},
	"Minimalist":      {"#BDC3C7", "#95A5A6", "#7F8C8D", "#2C3E50"},
}

var defaultPalette = []string{"#2C3E50", "#ECF0F1", "#3498DB"}

var validOccasions = map[string]bool{
	trending.OccasionCasual:      true,
	trending.OccasionOffice:      true,
	trending.OccasionDate:        true,
	trending.OccasionWedding:     true,
	trending.OccasionParty:       true,
	trending.OccasionFormalEvent: true,
	trending.OccasionVacation:    true,
	trending.OccasionWorkout:     true,
	trending.OccasionInterview:   true,
}

// TrendingNotifier receives the freshly saved batch after a refresh run.
// Implementations must tolerate per-user delivery failures internally.
type TrendingNotifier interface {
	SendTrendingNotifications(ctx context.Context, outfits []trending.Outfit) error
}

// FeedCache is the read-side cache for trending feeds. A nil cache is valid
// and simply disables caching.
type FeedCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// TrendingRunResult summarizes one full refresh run.
type TrendingRunResult struct {
	OutfitsGenerated int   `json:"outfits_generated"`
	ScoresUpdated    int   `json:"scores_updated"`
	Deactivated      int64 `json:"deactivated"`
}

// TrendingService owns the trending content refresh pipeline and the
// read-side feed queries. Scores and the active flag are mutated only here;
// view/like/share counters are mutated by the interaction endpoints.
type TrendingService struct {
	repo     repository.TrendingRepository
	cronRepo repository.CronJobRepository
	provider StyleProvider
	notifier TrendingNotifier
	cache    FeedCache
	log      *logger.Logger

	now func() time.Time
	rng *rand.Rand
}

type TrendingOption func(*TrendingService)

// WithClock fixes the time source. Used in tests.
func WithClock(now func() time.Time) TrendingOption {
	return func(s *TrendingService) { s.now = now }
}

// WithRand fixes the random source for initial scores and featured draws.
// Used in tests.
func WithRand(rng *rand.Rand) TrendingOption {
	return func(s *TrendingService) { s.rng = rng }
}

func NewTrendingService(
	repo repository.TrendingRepository,
	cronRepo repository.CronJobRepository,
	provider StyleProvider,
	notifier TrendingNotifier,
	cache FeedCache,
	log *logger.Logger,
	opts ...TrendingOption,
) *TrendingService {
	s := &TrendingService{
		repo:     repo,
		cronRepo: cronRepo,
		provider: provider,
		notifier: notifier,
		cache:    cache,
		log:      log,
		now:      time.Now,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateTrendingOutfits produces one candidate outfit per
// (category, occasion) pair. A provider failure drops only that pair.
func (s *TrendingService) GenerateTrendingOutfits(ctx context.Context) []trending.Outfit {
	now := s.now()
	season := seasonFor(now)
	seasonLabel := fmt.Sprintf("%s %d", season, now.Year())

	candidates := make([]trending.Outfit, 0, len(trendingCategories)*occasionsPerCategory)
	for _, category := range trendingCategories {
		for _, occasion := range trendingOccasions[:occasionsPerCategory] {
			suggestion, err := s.provider.GenerateStyleSuggestion(ctx, StyleSuggestionInput{
				Gender:    "FEMALE",
				Occasion:  occasion,
				BodyType:  "RECTANGLE",
				FaceShape: "OVAL",
				SkinTone:  "MEDIUM",
				Preferences: map[string]string{
					"style":  category,
					"season": season,
					"budget": trending.PriceMidRange,
				},
			})
			if err != nil {
				s.log.Warnf("skipping trending candidate %s/%s: %v", category, occasion, err)
				continue
			}

			occasionText := strings.ToLower(strings.ReplaceAll(occasion, "_", " "))
			description := suggestion.OutfitDesc
			if description == "" {
				description = fmt.Sprintf(
					"Trending %s outfit perfect for %s occasions. Stay stylish with this %s look.",
					strings.ToLower(category), occasionText, strings.ToLower(season),
				)
			}

			candidates = append(candidates, trending.Outfit{
				Title:       fmt.Sprintf("%s %s Look", category, occasionText),
				Description: description,
				ImageURL:    s.outfitImageURL(),
				Category:    category,
				Occasion:    occasion,
				Season:      seasonLabel,
				Tags:        trendingTagsFor(category, occasion, now.Year()),
				Colors:      trendingColorsFor(category),
				PriceRange:  trending.PriceMidRange,
				Items:       outfitItemsFor(category, occasion),
			})
		}
	}

	s.log.Infof("generated %d trending outfit candidates", len(candidates))
	return candidates
}

// SaveTrendingOutfits persists each candidate with its items, assigning the
// initial score and the featured flag. Any write failure fails the run.
func (s *TrendingService) SaveTrendingOutfits(ctx context.Context, candidates []trending.Outfit) ([]trending.Outfit, error) {
	saved := make([]trending.Outfit, 0, len(candidates))
	for i := range candidates {
		outfit := candidates[i]
		outfit.ID = uuid.New()
		outfit.TrendingScore = s.rng.Float64() * initialScoreMax
		outfit.IsFeatured = s.rng.Float64() < featuredProbability
		outfit.IsActive = true
		for j := range outfit.Items {
			outfit.Items[j].ID = uuid.New()
			outfit.Items[j].OutfitID = outfit.ID
		}

		if err := s.repo.CreateOutfit(ctx, &outfit); err != nil {
			return saved, fmt.Errorf("save trending outfit %q: %w", outfit.Title, err)
		}
		saved = append(saved, outfit)
	}

	s.log.Infof("saved %d trending outfits", len(saved))
	return saved, nil
}

// UpdateTrendingScores recomputes the score of every active outfit from its
// counters and age. A single update failure fails the run.
func (s *TrendingService) UpdateTrendingScores(ctx context.Context) (int, error) {
	outfits, err := s.repo.GetActiveOutfits(ctx)
	if err != nil {
		return 0, fmt.Errorf("load active outfits: %w", err)
	}

	now := s.now()
	for _, outfit := range outfits {
		score := trendingScoreAt(outfit, now)
		if err := s.repo.UpdateScore(ctx, outfit.ID, score); err != nil {
			return 0, fmt.Errorf("update score for outfit %s: %w", outfit.ID, err)
		}
	}

	s.log.Infof("updated trending scores for %d outfits", len(outfits))
	return len(outfits), nil
}

// CleanupOldOutfits deactivates outfits older than staleOutfitAge whose score
// fell below staleScoreFloor. Outfits are never deleted or reactivated.
func (s *TrendingService) CleanupOldOutfits(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-staleOutfitAge)
	count, err := s.repo.DeactivateStale(ctx, cutoff, staleScoreFloor)
	if err != nil {
		return 0, fmt.Errorf("deactivate stale outfits: %w", err)
	}

	s.log.Infof("deactivated %d stale trending outfits", count)
	return count, nil
}

// RunTrendingOutfits executes one full refresh: generate, save, rescore,
// sweep, fan out notifications, record the run. Fan-out and bookkeeping
// failures are logged but never fail the run.
func (s *TrendingService) RunTrendingOutfits(ctx context.Context) (TrendingRunResult, error) {
	var result TrendingRunResult

	candidates := s.GenerateTrendingOutfits(ctx)

	saved, err := s.SaveTrendingOutfits(ctx, candidates)
	if err != nil {
		s.recordRun(ctx, false, err)
		return result, err
	}
	result.OutfitsGenerated = len(saved)

	updated, err := s.UpdateTrendingScores(ctx)
	if err != nil {
		s.recordRun(ctx, false, err)
		return result, err
	}
	result.ScoresUpdated = updated

	deactivated, err := s.CleanupOldOutfits(ctx)
	if err != nil {
		s.recordRun(ctx, false, err)
		return result, err
	}
	result.Deactivated = deactivated

	if s.notifier != nil {
		if err := s.notifier.SendTrendingNotifications(ctx, saved); err != nil {
			s.log.Errorf("trending notification fan-out failed: %v", err)
		}
	}

	s.invalidateFeedCache(ctx)
	s.recordRun(ctx, true, nil)
	return result, nil
}

func (s *TrendingService) recordRun(ctx context.Context, success bool, runErr error) {
	lastError := ""
	if runErr != nil {
		lastError = runErr.Error()
	}
	now := s.now()
	err := s.cronRepo.RecordRun(ctx, JobTrendingOutfits, ScheduleTrendingOutfits, now, now.Add(trendingRunInterval), success, lastError)
	if err != nil {
		s.log.Errorf("failed to record %s run: %v", JobTrendingOutfits, err)
	}
}

func (s *TrendingService) invalidateFeedCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, "trending:"); err != nil {
		s.log.Warnf("failed to invalidate trending feed cache: %v", err)
	}
}

// GetTrendingOutfits returns the active feed ordered by score, cached.
func (s *TrendingService) GetTrendingOutfits(ctx context.Context, limit, offset int) ([]trending.Outfit, error) {
	limit = clampFeedLimit(limit)
	if offset < 0 {
		offset = 0
	}

	key := fmt.Sprintf("trending:feed:%d:%d", limit, offset)
	var cached []trending.Outfit
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	outfits, err := s.repo.ListOutfits(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, outfits)
	return outfits, nil
}

func (s *TrendingService) GetFeaturedOutfits(ctx context.Context, limit int) ([]trending.Outfit, error) {
	if limit <= 0 || limit > maxFeedLimit {
		limit = defaultFeaturedCap
	}

	key := fmt.Sprintf("trending:featured:%d", limit)
	var cached []trending.Outfit
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	outfits, err := s.repo.ListFeaturedOutfits(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, outfits)
	return outfits, nil
}

func (s *TrendingService) GetOutfitsByCategory(ctx context.Context, category string, limit, offset int) ([]trending.Outfit, error) {
	return s.repo.ListOutfitsByCategory(ctx, category, clampFeedLimit(limit), max(offset, 0))
}

func (s *TrendingService) GetOutfitsByOccasion(ctx context.Context, occasion string, limit, offset int) ([]trending.Outfit, error) {
	occasion = strings.ToUpper(occasion)
	if !validOccasions[occasion] {
		return nil, stylist_errors.ErrInvalidInput
	}
	return s.repo.ListOutfitsByOccasion(ctx, occasion, clampFeedLimit(limit), max(offset, 0))
}

func (s *TrendingService) GetOutfit(ctx context.Context, id uuid.UUID) (trending.Outfit, error) {
	return s.repo.GetOutfitByID(ctx, id)
}

// RecordView increments the view counter. Called by the detail endpoint.
func (s *TrendingService) RecordView(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementViewCount(ctx, id)
}

// SetLiked adds or removes one like.
func (s *TrendingService) SetLiked(ctx context.Context, id uuid.UUID, liked bool) error {
	delta := 1
	if !liked {
		delta = -1
	}
	return s.repo.IncrementLikeCount(ctx, id, delta)
}

func (s *TrendingService) RecordShare(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementShareCount(ctx, id)
}

func (s *TrendingService) cacheGet(ctx context.Context, key string, dest *[]trending.Outfit) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		s.log.Warnf("trending cache read failed for %s: %v", key, err)
		return false
	}
	return hit
}

func (s *TrendingService) cacheSet(ctx context.Context, key string, outfits []trending.Outfit) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, outfits, feedCacheTTL); err != nil {
		s.log.Warnf("trending cache write failed for %s: %v", key, err)
	}
}

// trendingScoreAt computes the score from counters and age. Age is fractional
// days; recency decays to zero at 20 days and the score is unbounded above.
func trendingScoreAt(o trending.Outfit, now time.Time) float64 {
	ageDays := now.Sub(o.CreatedAt).Hours() / 24
	recency := recencyBase - ageDays*recencyDecayPerDay
	if recency < 0 {
		recency = 0
	}
	interaction := float64(o.ViewCount)*viewWeight +
		float64(o.LikeCount)*likeWeight +
		float64(o.ShareCount)*shareWeight
	return (interaction + recency) / 2
}

func seasonFor(t time.Time) string {
	switch m := t.Month(); {
	case m >= time.March && m <= time.May:
		return "Spring"
	case m >= time.June && m <= time.August:
		return "Summer"
	case m >= time.September && m <= time.November:
		return "Autumn"
	default:
		return "Winter"
	}
}

func trendingTagsFor(category, occasion string, year int) []string {
	tags := []string{"trending", strconv.Itoa(year), "fashion", "style"}
	tags = append(tags, categoryTags[category]...)
	return append(tags, strings.ToLower(occasion))
}

func trendingColorsFor(category string) []string {
	if palette, ok := categoryPalettes[category]; ok {
		return palette
	}
	return defaultPalette
}

func outfitItemsFor(category, occasion string) []trending.OutfitItem {
	lowerCategory := strings.ToLower(category)
	lowerOccasion := strings.ToLower(occasion)

	return []trending.OutfitItem{
		{
			Name:        category + " Top",
			Category:    trending.ItemTop,
			Brand:       "Zara",
			Price:       2499,
			ImageURL:    "https://images.unsplash.com/photo-1571945153237-4929e783af4a?w=300&h=400&fit=crop",
			ProductURL:  "https://www.zara.com/in/",
			Description: nullString(fmt.Sprintf("Trendy %s top perfect for %s", lowerCategory, lowerOccasion)),
			FitAdvice:   nullString("True to size, comfortable fit"),
			StylingTip:  nullString("Pair with high-waisted bottoms for a flattering silhouette"),
		},
		{
			Name:        category + " Bottom",
			Category:    trending.ItemBottom,
			Brand:       "H&M",
			Price:       1999,
			ImageURL:    "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?w=300&h=400&fit=crop",
			ProductURL:  "https://www2.hm.com/en_in/",
			Description: nullString(fmt.Sprintf("Stylish %s bottom", lowerCategory)),
			FitAdvice:   nullString("Size up for a relaxed fit"),
			StylingTip:  nullString("Great for creating a balanced silhouette"),
		},
		{
			Name:        "Trendy Footwear",
			Category:    trending.ItemShoes,
			Brand:       "Nike",
			Price:       7999,
			ImageURL:    "https://images.unsplash.com/photo-1549298916-b41d501d3772?w=300&h=400&fit=crop",
			ProductURL:  "https://www.nike.com/in/",
			Description: nullString("Comfortable and stylish shoes"),
			FitAdvice:   nullString("Half size up recommended"),
			StylingTip:  nullString("Versatile enough for multiple occasions"),
		},
	}
}

func (s *TrendingService) outfitImageURL() string {
	return fmt.Sprintf("https://images.unsplash.com/photo-%d?w=400&h=600&fit=crop&auto=format", s.rng.Intn(1000))
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func clampFeedLimit(limit int) int {
	if limit <= 0 || limit > maxFeedLimit {
		return defaultFeedLimit
	}
	return limit
}
