package services

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"stylist-backend/internal/domain/suggestion"
	"stylist-backend/internal/repository"
	stylist_errors "stylist-backend/pkg/errors"
	"stylist-backend/pkg/logger"
)

const maxRecommendedProducts = 6

// SuggestionService generates style suggestions through the configured
// provider, enriches them with shoppable products and keeps the history.
type SuggestionService struct {
	repo     repository.SuggestionRepository
	userRepo repository.UserRepository
	provider StyleProvider
	products *ProductService
	log      *logger.Logger
}

func NewSuggestionService(
	repo repository.SuggestionRepository,
	userRepo repository.UserRepository,
	provider StyleProvider,
	products *ProductService,
	log *logger.Logger,
) *SuggestionService {
	return &SuggestionService{
		repo:     repo,
		userRepo: userRepo,
		provider: provider,
		products: products,
		log:      log,
	}
}

type GenerateSuggestionInput struct {
	Occasion string
	// Optional overrides; the stored profile fills whatever is missing.
	BodyType  string
	FaceShape string
	SkinTone  string
}

func (s *SuggestionService) Generate(ctx context.Context, userID uuid.UUID, in GenerateSuggestionInput) (suggestion.StyleSuggestion, error) {
	if in.Occasion == "" {
		return suggestion.StyleSuggestion{}, stylist_errors.ErrInvalidInput
	}

	input := StyleSuggestionInput{
		Gender:      "FEMALE",
		Occasion:    in.Occasion,
		BodyType:    in.BodyType,
		FaceShape:   in.FaceShape,
		SkinTone:    in.SkinTone,
		Preferences: map[string]string{},
	}

	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, stylist_errors.ErrNotFound) {
		return suggestion.StyleSuggestion{}, err
	}
	if err == nil {
		if profile.Gender != "" {
			input.Gender = profile.Gender
		}
		if input.BodyType == "" && profile.BodyType.Valid {
			input.BodyType = profile.BodyType.String
		}
		if input.FaceShape == "" && profile.FaceShape.Valid {
			input.FaceShape = profile.FaceShape.String
		}
		if input.SkinTone == "" && profile.SkinTone.Valid {
			input.SkinTone = profile.SkinTone.String
		}
		if profile.BudgetRange.Valid {
			input.Preferences["budget"] = profile.BudgetRange.String
		}
		if len(profile.StyleTypes) > 0 {
			input.Preferences["style"] = profile.StyleTypes[0]
		}
	}
	if input.BodyType == "" {
		input.BodyType = "RECTANGLE"
	}

	out, err := s.provider.GenerateStyleSuggestion(ctx, input)
	if err != nil {
		return suggestion.StyleSuggestion{}, stylist_errors.ErrServiceUnavailable
	}

	record := suggestion.StyleSuggestion{
		ID:          uuid.New(),
		UserID:      userID,
		Occasion:    in.Occasion,
		BodyType:    input.BodyType,
		FaceShape:   nullString(input.FaceShape),
		SkinTone:    nullString(input.SkinTone),
		OutfitDesc:  out.OutfitDesc,
		Hairstyle:   nullString(out.Hairstyle),
		Accessories: nullString(out.Accessories),
		Skincare:    nullString(out.Skincare),
		Colors:      out.Colors,
		Products:    s.recommendProducts(ctx, out),
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return suggestion.StyleSuggestion{}, err
	}
	return record, nil
}

// recommendProducts is best-effort; a failed product search never fails the
// suggestion itself.
func (s *SuggestionService) recommendProducts(ctx context.Context, out StyleSuggestionOutput) []suggestion.ProductRecommendation {
	if s.products == nil {
		return nil
	}

	query := truncateQuery(out.OutfitDesc, 40)
	found, err := s.products.Search(ctx, query, ProductSearchFilters{Limit: maxRecommendedProducts})
	if err != nil {
		s.log.Warnf("product recommendation search failed: %v", err)
		return nil
	}

	recs := make([]suggestion.ProductRecommendation, 0, len(found))
	for _, p := range found {
		recs = append(recs, suggestion.ProductRecommendation{
			ID:         uuid.New(),
			ProductID:  p.ProductID,
			Name:       p.Name,
			Brand:      p.Brand,
			Price:      p.Price,
			Currency:   p.Currency,
			ImageURL:   p.ImageURL,
			ProductURL: p.ProductURL,
			Platform:   p.Platform,
			Category:   p.Category,
			Rating:     sql.NullFloat64{Float64: p.Rating, Valid: p.Rating > 0},
			InStock:    p.InStock,
			CreatedAt:  time.Now(),
		})
	}
	return recs
}

// truncateQuery caps the search query without splitting a multi-byte rune.
func truncateQuery(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func (s *SuggestionService) GetByID(ctx context.Context, userID, suggestionID uuid.UUID) (suggestion.StyleSuggestion, error) {
	record, err := s.repo.GetByID(ctx, suggestionID)
	if err != nil {
		return suggestion.StyleSuggestion{}, err
	}
	if record.UserID != userID {
		return suggestion.StyleSuggestion{}, stylist_errors.ErrForbidden
	}
	return record, nil
}

func (s *SuggestionService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]suggestion.StyleSuggestion, int64, error) {
	if limit <= 0 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetUserSuggestions(ctx, userID, limit, offset)
}

type FeedbackInput struct {
	Rating  int
	Liked   bool
	Comment string
}

func (s *SuggestionService) AddFeedback(ctx context.Context, userID, suggestionID uuid.UUID, in FeedbackInput) (suggestion.Feedback, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return suggestion.Feedback{}, stylist_errors.ErrInvalidInput
	}

	record, err := s.repo.GetByID(ctx, suggestionID)
	if err != nil {
		return suggestion.Feedback{}, err
	}
	if record.UserID != userID {
		return suggestion.Feedback{}, stylist_errors.ErrForbidden
	}

	fb := suggestion.Feedback{
		ID:                uuid.New(),
		StyleSuggestionID: suggestionID,
		UserID:            userID,
		Rating:            in.Rating,
		Liked:             in.Liked,
		Comment:           nullString(in.Comment),
	}
	if err := s.repo.AddFeedback(ctx, &fb); err != nil {
		return suggestion.Feedback{}, err
	}
	return fb, nil
}
