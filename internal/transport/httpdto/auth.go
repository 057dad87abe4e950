package httpdto

// RegisterRequest is used for POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest is used for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest is used for POST /auth/google
type GoogleLoginRequest struct {
	GoogleToken string `json:"google_token" binding:"required"`
}

// RefreshRequest is used for POST /auth/refresh
type RefreshRequest struct {
	SessionID    string `json:"session_id" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest is used for POST /auth/logout
type LogoutRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// SessionsResponse is returned when listing sessions
type SessionsResponse struct {
	Sessions []SessionDTO `json:"sessions"`
}

// SessionDTO represents a user session in API responses
type SessionDTO struct {
	ID        string `json:"id"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
	IsRevoked bool   `json:"is_revoked"`
}
