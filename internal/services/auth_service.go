package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stylist-backend/config"
	"stylist-backend/internal/domain/user"
	"stylist-backend/internal/repository"
	stylist_errors "stylist-backend/pkg/errors"
)

// GoogleIdentity is the verified payload of a Google ID token.
type GoogleIdentity struct {
	Email     string
	Name      string
	AvatarURL string
}

// GoogleVerifier validates a Google ID token and returns the identity it
// asserts. A nil verifier disables Google sign-in.
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (GoogleIdentity, error)
}

type AuthService struct {
	userRepo   repository.UserRepository
	google     GoogleVerifier
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, google GoogleVerifier, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		google:     google,
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  time.Duration(cfg.JWTExpiryMin) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshExpiry) * 24 * time.Hour,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

type RefreshInput struct {
	SessionID    string
	RefreshToken string
}

type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresIn    int64    `json:"expires_in"`
	SessionID    string   `json:"session_id"`
	User         UserInfo `json:"user"`
}

type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type SessionInfo struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	IsRevoked bool      `json:"is_revoked"`
}

type AccessClaims struct {
	UserID    string `json:"sub"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	if err := validateRegister(in); err != nil {
		return AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return AuthResponse{}, stylist_errors.ErrAlreadyExists
	} else if !errors.Is(err, stylist_errors.ErrNotFound) {
		return AuthResponse{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return AuthResponse{}, err
	}

	newUser := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         in.Name,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return AuthResponse{}, err
	}

	return s.issueSession(ctx, *newUser)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return AuthResponse{}, stylist_errors.ErrInvalidInput
	}

	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, stylist_errors.ErrNotFound) {
			return AuthResponse{}, stylist_errors.ErrUnauthorized
		}
		return AuthResponse{}, err
	}

	if !u.IsActive {
		return AuthResponse{}, stylist_errors.ErrForbidden
	}

	if err := comparePassword(u.PasswordHash, in.Password); err != nil {
		return AuthResponse{}, stylist_errors.ErrUnauthorized
	}

	return s.issueSession(ctx, u)
}

// LoginWithGoogle exchanges a verified Google ID token for a session,
// creating the account on first sign-in. Google accounts get an unguessable
// random password so the password login path stays closed for them.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (AuthResponse, error) {
	if s.google == nil {
		return AuthResponse{}, stylist_errors.ErrServiceUnavailable
	}
	if idToken == "" {
		return AuthResponse{}, stylist_errors.ErrInvalidInput
	}

	identity, err := s.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		return AuthResponse{}, stylist_errors.ErrUnauthorized
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return AuthResponse{}, stylist_errors.ErrUnauthorized
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !u.IsActive {
			return AuthResponse{}, stylist_errors.ErrForbidden
		}
		return s.issueSession(ctx, u)
	case errors.Is(err, stylist_errors.ErrNotFound):
	default:
		return AuthResponse{}, err
	}

	randomSecret, err := generateToken(32)
	if err != nil {
		return AuthResponse{}, err
	}
	hash, err := hashPassword(randomSecret)
	if err != nil {
		return AuthResponse{}, err
	}

	name := identity.Name
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		AvatarURL:    identity.AvatarURL,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return AuthResponse{}, err
	}
	return s.issueSession(ctx, *newUser)
}

func (s *AuthService) issueSession(ctx context.Context, u user.User) (AuthResponse, error) {
	refreshToken, err := generateToken(32)
	if err != nil {
		return AuthResponse{}, err
	}

	createdAt := time.Now()
	session := &user.UserSession{
		ID:               uuid.New(),
		UserID:           u.ID,
		RefreshTokenHash: s.hashRefreshToken(refreshToken),
		ExpiresAt:        createdAt.Add(s.refreshTTL),
		CreatedAt:        createdAt,
	}
	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return AuthResponse{}, err
	}

	accessToken, expiresIn, err := s.newAccessToken(u.ID, session.ID)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		SessionID:    session.ID.String(),
		User:         toUserInfo(u),
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, in RefreshInput) (AuthResponse, error) {
	if in.SessionID == "" || in.RefreshToken == "" {
		return AuthResponse{}, stylist_errors.ErrInvalidInput
	}

	sessionID, err := uuid.Parse(in.SessionID)
	if err != nil {
		return AuthResponse{}, stylist_errors.ErrInvalidInput
	}

	session, err := s.userRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return AuthResponse{}, err
	}

	if session.IsRevoked || time.Now().After(session.ExpiresAt) {
		return AuthResponse{}, stylist_errors.ErrUnauthorized
	}

	if !s.compareRefreshToken(session.RefreshTokenHash, in.RefreshToken) {
		// Reuse of a stale refresh token burns the session.
		_ = s.userRepo.RevokeSession(ctx, session.ID)
		return AuthResponse{}, stylist_errors.ErrUnauthorized
	}

	newRefresh, err := generateToken(32)
	if err != nil {
		return AuthResponse{}, err
	}

	session.RefreshTokenHash = s.hashRefreshToken(newRefresh)
	session.ExpiresAt = time.Now().Add(s.refreshTTL)
	if err := s.userRepo.UpdateSession(ctx, session); err != nil {
		return AuthResponse{}, err
	}

	accessToken, expiresIn, err := s.newAccessToken(session.UserID, session.ID)
	if err != nil {
		return AuthResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    expiresIn,
		SessionID:    session.ID.String(),
		User:         toUserInfo(u),
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return stylist_errors.ErrInvalidInput
	}
	parsedID, err := uuid.Parse(sessionID)
	if err != nil {
		return stylist_errors.ErrInvalidInput
	}
	return s.userRepo.RevokeSession(ctx, parsedID)
}

func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.RevokeAllUserSessions(ctx, userID)
}

func (s *AuthService) Sessions(ctx context.Context, userID uuid.UUID) ([]SessionInfo, error) {
	sessions, err := s.userRepo.GetUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, SessionInfo{
			ID:        session.ID.String(),
			ExpiresAt: session.ExpiresAt,
			CreatedAt: session.CreatedAt,
			IsRevoked: session.IsRevoked,
		})
	}
	return result, nil
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, stylist_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, stylist_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, stylist_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, stylist_errors.ErrUnauthorized
	}
	return *claims, nil
}

func (s *AuthService) ValidateSession(ctx context.Context, sessionID, userID uuid.UUID) (user.UserSession, error) {
	session, err := s.userRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return user.UserSession{}, err
	}
	if session.UserID != userID {
		return user.UserSession{}, stylist_errors.ErrUnauthorized
	}
	return session, nil
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, stylist_errors.ErrInvalidInput):
		return 400
	case errors.Is(err, stylist_errors.ErrUnauthorized):
		return 401
	case errors.Is(err, stylist_errors.ErrForbidden):
		return 403
	case errors.Is(err, stylist_errors.ErrNotFound), errors.Is(err, stylist_errors.ErrUnknownJob):
		return 404
	case errors.Is(err, stylist_errors.ErrAlreadyExists), errors.Is(err, stylist_errors.ErrConflict), errors.Is(err, stylist_errors.ErrJobRunning):
		return 409
	case errors.Is(err, stylist_errors.ErrTooLarge):
		return 413
	case errors.Is(err, stylist_errors.ErrRateLimited):
		return 429
	case errors.Is(err, stylist_errors.ErrServiceUnavailable):
		return 503
	default:
		return 500
	}
}

type ctxKey string

var userIDKey ctxKey = "user_id"
var sessionIDKey ctxKey = "session_id"

func WithUserSessionContext(ctx context.Context, userID, sessionID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func SessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(sessionIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	sessionID, ok := value.(uuid.UUID)
	return sessionID, ok
}

func (s *AuthService) newAccessToken(userID, sessionID uuid.UUID) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTTL)

	claims := AccessClaims{
		UserID:    userID.String(),
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.accessTTL.Seconds()), nil
}

func (s *AuthService) hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) compareRefreshToken(hash, token string) bool {
	computed := s.hashRefreshToken(token)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(computed)) == 1
}

func validateRegister(in RegisterInput) error {
	if in.Email == "" || in.Name == "" {
		return stylist_errors.ErrInvalidInput
	}
	if !strings.Contains(in.Email, "@") {
		return stylist_errors.ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return stylist_errors.ErrInvalidInput
	}
	return nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func generateToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func toUserInfo(u user.User) UserInfo {
	return UserInfo{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}
