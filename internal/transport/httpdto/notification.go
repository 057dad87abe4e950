package httpdto

import (
	"encoding/json"
	"time"

	"stylist-backend/internal/domain/notification"
	"stylist-backend/internal/domain/user"
)

// NotificationListResponse is returned when listing notifications
type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
}

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`
	IsRead    bool            `json:"is_read"`
	CreatedAt string          `json:"created_at"`
}

// RegisterDeviceTokenRequest is used for POST /notifications/device-tokens
type RegisterDeviceTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required"` // IOS, ANDROID, WEB
}

// PreferencesDTO represents notification preferences in requests and
// responses. All fields are required on update so that "false" is
// distinguishable from "absent".
type PreferencesDTO struct {
	PushNotifications  bool `json:"push_notifications"`
	EmailNotifications bool `json:"email_notifications"`
	TrendingOutfits    bool `json:"trending_outfits"`
	StyleSuggestions   bool `json:"style_suggestions"`
}

// FromNotification converts a domain notification to NotificationDTO
func FromNotification(n notification.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:        n.ID.String(),
		Title:     n.Title,
		Body:      n.Body,
		Type:      n.Type,
		ImageURL:  n.ImageURL,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.Data.Valid {
		dto.Data = json.RawMessage(n.Data.String)
	}
	return dto
}

// FromNotificationSlice converts a slice of domain notifications to NotificationDTO slice
func FromNotificationSlice(notifications []notification.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = FromNotification(n)
	}
	return dtos
}

// FromPreferences converts domain preferences to PreferencesDTO
func FromPreferences(p user.NotificationPreferences) PreferencesDTO {
	return PreferencesDTO{
		PushNotifications:  p.PushNotifications,
		EmailNotifications: p.EmailNotifications,
		TrendingOutfits:    p.TrendingOutfits,
		StyleSuggestions:   p.StyleSuggestions,
	}
}
