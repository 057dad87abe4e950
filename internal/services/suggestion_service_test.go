package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylist-backend/internal/domain/user"
	stylist_errors "stylist-backend/pkg/errors"
	"stylist-backend/pkg/logger"
)

type stubProvider struct {
	input StyleSuggestionInput
	out   StyleSuggestionOutput
	err   error
}

func (p *stubProvider) GenerateStyleSuggestion(_ context.Context, input StyleSuggestionInput) (StyleSuggestionOutput, error) {
	p.input = input
	return p.out, p.err
}

func TestGenerateSuggestionFromProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	repo := newFakeSuggestionRepo()
	provider := &stubProvider{out: StyleSuggestionOutput{
		OutfitDesc: "Flowy midi dress with a cropped denim jacket",
		Hairstyle:  "Loose waves",
		Colors:     []string{"#FAD02E", "#2C3E50"},
	}}
	svc := NewSuggestionService(repo, userRepo, provider, NewProductService(), logger.NewNop())

	userID := uuid.New()
	userRepo.profiles[userID] = user.Profile{
		UserID:      userID,
		Gender:      "FEMALE",
		BodyType:    sql.NullString{String: "PEAR", Valid: true},
		BudgetRange: sql.NullString{String: "PREMIUM", Valid: true},
		StyleTypes:  []string{"Minimalist"},
	}

	record, err := svc.Generate(context.Background(), userID, GenerateSuggestionInput{Occasion: "DATE"})
	require.NoError(t, err)

	// The stored profile fills everything the request left out.
	assert.Equal(t, "PEAR", provider.input.BodyType)
	assert.Equal(t, "PREMIUM", provider.input.Preferences["budget"])
	assert.Equal(t, "Minimalist", provider.input.Preferences["style"])

	assert.Equal(t, "DATE", record.Occasion)
	assert.Equal(t, "PEAR", record.BodyType)
	assert.Equal(t, provider.out.OutfitDesc, record.OutfitDesc)
	assert.True(t, record.Hairstyle.Valid)
	assert.NotEmpty(t, record.Products)
	assert.LessOrEqual(t, len(record.Products), maxRecommendedProducts)

	// Persisted.
	stored, err := repo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, stored.UserID)
}

func TestGenerateSuggestionWithoutProfile(t *testing.T) {
	provider := &stubProvider{out: StyleSuggestionOutput{OutfitDesc: "Tailored blazer over a white tee"}}
	svc := NewSuggestionService(newFakeSuggestionRepo(), newFakeUserRepo(), provider, nil, logger.NewNop())

	record, err := svc.Generate(context.Background(), uuid.New(), GenerateSuggestionInput{Occasion: "OFFICE"})
	require.NoError(t, err)
	assert.Equal(t, "RECTANGLE", record.BodyType)
	assert.Empty(t, record.Products)
}

func TestGenerateSuggestionValidation(t *testing.T) {
	svc := NewSuggestionService(newFakeSuggestionRepo(), newFakeUserRepo(), &stubProvider{}, nil, logger.NewNop())

	_, err := svc.Generate(context.Background(), uuid.New(), GenerateSuggestionInput{})
	assert.ErrorIs(t, err, stylist_errors.ErrInvalidInput)
}

func TestGenerateSuggestionProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream 500")}
	svc := NewSuggestionService(newFakeSuggestionRepo(), newFakeUserRepo(), provider, nil, logger.NewNop())

	_, err := svc.Generate(context.Background(), uuid.New(), GenerateSuggestionInput{Occasion: "PARTY"})
	assert.ErrorIs(t, err, stylist_errors.ErrServiceUnavailable)
}

func TestSuggestionOwnership(t *testing.T) {
	repo := newFakeSuggestionRepo()
	provider := &stubProvider{out: StyleSuggestionOutput{OutfitDesc: "Look"}}
	svc := NewSuggestionService(repo, newFakeUserRepo(), provider, nil, logger.NewNop())
	ctx := context.Background()

	owner := uuid.New()
	record, err := svc.Generate(ctx, owner, GenerateSuggestionInput{Occasion: "CASUAL"})
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, uuid.New(), record.ID)
	assert.ErrorIs(t, err, stylist_errors.ErrForbidden)

	_, err = svc.AddFeedback(ctx, uuid.New(), record.ID, FeedbackInput{Rating: 5})
	assert.ErrorIs(t, err, stylist_errors.ErrForbidden)

	got, err := svc.GetByID(ctx, owner, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
}

func TestAddFeedback(t *testing.T) {
	repo := newFakeSuggestionRepo()
	provider := &stubProvider{out: StyleSuggestionOutput{OutfitDesc: "Look"}}
	svc := NewSuggestionService(repo, newFakeUserRepo(), provider, nil, logger.NewNop())
	ctx := context.Background()

	owner := uuid.New()
	record, err := svc.Generate(ctx, owner, GenerateSuggestionInput{Occasion: "CASUAL"})
	require.NoError(t, err)

	_, err = svc.AddFeedback(ctx, owner, record.ID, FeedbackInput{Rating: 0})
	assert.ErrorIs(t, err, stylist_errors.ErrInvalidInput)
	_, err = svc.AddFeedback(ctx, owner, record.ID, FeedbackInput{Rating: 6})
	assert.ErrorIs(t, err, stylist_errors.ErrInvalidInput)

	fb, err := svc.AddFeedback(ctx, owner, record.ID, FeedbackInput{Rating: 4, Liked: true, Comment: "spot on"})
	require.NoError(t, err)
	assert.Equal(t, 4, fb.Rating)
	assert.True(t, fb.Liked)
	require.Len(t, repo.feedback, 1)
}

func TestTruncateQueryRuneBoundary(t *testing.T) {
	short := "Linen shirt"
	assert.Equal(t, short, truncateQuery(short, 40))

	exact := strings.Repeat("a", 40)
	assert.Equal(t, exact, truncateQuery(exact, 40))

	// 39 ASCII bytes followed by a 3-byte rune; a byte slice at 40 would
	// split the rune.
	mixed := strings.Repeat("a", 39) + "\u308f\u33a7\u30d4\u30fc\u30b9"
	got := truncateQuery(mixed, 40)
	assert.Equal(t, strings.Repeat("a", 39), got)
	assert.True(t, utf8.ValidString(got))

	allRunes := strings.Repeat("\u30ef", 20) // 60 bytes
	got = truncateQuery(allRunes, 40)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("\u30ef", 13), got)
}
