package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stylist-backend/config"
	stylist_errors "stylist-backend/pkg/errors"

	"github.com/sony/gobreaker/v2"
)

// StyleSuggestionInput is the request contract toward the external
// style-suggestion provider.
type StyleSuggestionInput struct {
	Gender      string            `json:"gender"`
	Occasion    string            `json:"occasion"`
	BodyType    string            `json:"body_type"`
	FaceShape   string            `json:"face_shape,omitempty"`
	SkinTone    string            `json:"skin_tone,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

type StyleSuggestionOutput struct {
	OutfitDesc  string   `json:"outfit_desc"`
	Hairstyle   string   `json:"hairstyle,omitempty"`
	Accessories string   `json:"accessories,omitempty"`
	Skincare    string   `json:"skincare,omitempty"`
	Colors      []string `json:"colors,omitempty"`
}

// StyleProvider produces a textual outfit suggestion. Callers must treat
// failures as recoverable; the trending pipeline drops the affected pair.
type StyleProvider interface {
	GenerateStyleSuggestion(ctx context.Context, input StyleSuggestionInput) (StyleSuggestionOutput, error)
}

// AIService calls the configured provider over HTTP behind a circuit
// breaker. Without a configured provider URL it serves deterministic mock
// suggestions so the rest of the system works in development.
type AIService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[StyleSuggestionOutput]
}

func NewAIService(cfg *config.Config) *AIService {
	st := gobreaker.Settings{
		Name:    "style-provider",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &AIService{
		baseURL: cfg.AIProviderURL,
		apiKey:  cfg.AIProviderAPIKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.AIRequestTimeout) * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker[StyleSuggestionOutput](st),
	}
}

// BreakerState reports the provider circuit: closed, half-open or open.
func (s *AIService) BreakerState() string {
	return s.breaker.State().String()
}

func (s *AIService) GenerateStyleSuggestion(ctx context.Context, input StyleSuggestionInput) (StyleSuggestionOutput, error) {
	if input.Occasion == "" {
		return StyleSuggestionOutput{}, stylist_errors.ErrInvalidInput
	}

	if s.baseURL == "" {
		return s.mockSuggestion(input), nil
	}

	return s.breaker.Execute(func() (StyleSuggestionOutput, error) {
		return s.callProvider(ctx, input)
	})
}

func (s *AIService) callProvider(ctx context.Context, input StyleSuggestionInput) (StyleSuggestionOutput, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return StyleSuggestionOutput{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/style-suggestions", bytes.NewReader(body))
	if err != nil {
		return StyleSuggestionOutput{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return StyleSuggestionOutput{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return StyleSuggestionOutput{}, fmt.Errorf("style provider returned status %d", resp.StatusCode)
	}

	var out StyleSuggestionOutput
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return StyleSuggestionOutput{}, err
	}

	return s.validateOutput(out, input), nil
}

// validateOutput fills gaps the provider left so downstream code always gets
// a usable suggestion.
func (s *AIService) validateOutput(out StyleSuggestionOutput, input StyleSuggestionInput) StyleSuggestionOutput {
	if out.OutfitDesc == "" {
		out.OutfitDesc = s.mockSuggestion(input).OutfitDesc
	}
	if len(out.Colors) == 0 {
		out.Colors = defaultColorsForOccasion(input.Occasion)
	}
	return out
}

func (s *AIService) mockSuggestion(input StyleSuggestionInput) StyleSuggestionOutput {
	style := input.Preferences["style"]
	if style == "" {
		style = "classic"
	}
	occasion := strings.ToLower(strings.ReplaceAll(input.Occasion, "_", " "))

	return StyleSuggestionOutput{
		OutfitDesc:  fmt.Sprintf("A %s look tailored for %s occasions: a well-fitted top paired with complementary bottoms and versatile footwear.", strings.ToLower(style), occasion),
		Hairstyle:   "Soft waves or a sleek low bun depending on the occasion formality",
		Accessories: "Minimal jewelry, a structured bag and a classic watch",
		Skincare:    "Hydrating primer with a natural matte finish",
		Colors:      defaultColorsForOccasion(input.Occasion),
	}
}

func defaultColorsForOccasion(occasion string) []string {
	switch occasion {
	case "OFFICE", "INTERVIEW":
		return []string{"#2C3E50", "#95A5A6", "#ECF0F1"}
	case "PARTY", "DATE":
		return []string{"#8E44AD", "#E74C3C", "#F39C12"}
	case "WEDDING", "FORMAL_EVENT":
		return []string{"#7F1D1D", "#D4AF37", "#F5F5F4"}
	case "WORKOUT":
		return []string{"#3498DB", "#2ECC71", "#34495E"}
	default:
		return []string{"#2C3E50", "#ECF0F1", "#3498DB"}
	}
}
