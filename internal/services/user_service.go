package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"stylist-backend/internal/domain/user"
	"stylist-backend/internal/repository"
	stylist_errors "stylist-backend/pkg/errors"
)

var validPhotoTypes = map[string]bool{
	"FACE":      true,
	"FULL_BODY": true,
}

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return s.repo.GetByID(ctx, userID)
}

type UpdateUserInput struct {
	Name      string
	AvatarURL string
}

func (s *UserService) Update(ctx context.Context, userID uuid.UUID, in UpdateUserInput) (user.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	u.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return user.User{}, err
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.RevokeAllUserSessions(ctx, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}

// GetProfile returns the style profile, or an empty one for users who have
// not completed onboarding yet.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, stylist_errors.ErrNotFound) {
			return user.Profile{UserID: userID}, nil
		}
		return user.Profile{}, err
	}
	return profile, nil
}

func (s *UserService) UpsertProfile(ctx context.Context, userID uuid.UUID, profile user.Profile) (user.Profile, error) {
	if profile.Gender == "" {
		return user.Profile{}, stylist_errors.ErrInvalidInput
	}
	profile.UserID = userID
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.UpdatedAt = time.Now()
	if err := s.repo.UpsertProfile(ctx, &profile); err != nil {
		return user.Profile{}, err
	}
	return s.repo.GetProfile(ctx, userID)
}

// AddPhoto records an uploaded photo. Only one active photo per type is
// kept; older ones of the same type are deactivated.
func (s *UserService) AddPhoto(ctx context.Context, userID uuid.UUID, url, objectKey, photoType string) (user.Photo, error) {
	if url == "" || !validPhotoTypes[photoType] {
		return user.Photo{}, stylist_errors.ErrInvalidInput
	}

	if err := s.repo.DeactivatePhotosByType(ctx, userID, photoType); err != nil {
		return user.Photo{}, err
	}

	photo := user.Photo{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       url,
		ObjectKey: objectKey,
		Type:      photoType,
		IsActive:  true,
	}
	if err := s.repo.AddPhoto(ctx, &photo); err != nil {
		return user.Photo{}, err
	}
	return photo, nil
}

func (s *UserService) GetPhotos(ctx context.Context, userID uuid.UUID) ([]user.Photo, error) {
	return s.repo.GetPhotos(ctx, userID)
}

func (s *UserService) DeletePhoto(ctx context.Context, userID, photoID uuid.UUID) error {
	return s.repo.DeletePhoto(ctx, userID, photoID)
}

func (s *UserService) GetFavorites(ctx context.Context, userID uuid.UUID) ([]user.Favorite, error) {
	return s.repo.GetFavorites(ctx, userID)
}

type AddFavoriteInput struct {
	ProductID  string
	Name       string
	Brand      string
	ImageURL   string
	ProductURL string
	Platform   string
}

func (s *UserService) AddFavorite(ctx context.Context, userID uuid.UUID, in AddFavoriteInput) (user.Favorite, error) {
	if in.ProductID == "" || in.Platform == "" {
		return user.Favorite{}, stylist_errors.ErrInvalidInput
	}

	if existing, err := s.repo.GetFavoriteByProduct(ctx, userID, in.ProductID, in.Platform); err == nil {
		return existing, stylist_errors.ErrAlreadyExists
	} else if !errors.Is(err, stylist_errors.ErrNotFound) {
		return user.Favorite{}, err
	}

	favorite := user.Favorite{
		ID:         uuid.New(),
		UserID:     userID,
		ProductID:  in.ProductID,
		Name:       in.Name,
		Brand:      in.Brand,
		ImageURL:   in.ImageURL,
		ProductURL: in.ProductURL,
		Platform:   in.Platform,
	}
	if err := s.repo.AddFavorite(ctx, &favorite); err != nil {
		return user.Favorite{}, err
	}
	return favorite, nil
}

func (s *UserService) RemoveFavorite(ctx context.Context, userID, favoriteID uuid.UUID) error {
	return s.repo.RemoveFavorite(ctx, userID, favoriteID)
}

// CleanExpiredSessions deletes refresh sessions past their expiry. Called by
// the weekly cleanup job.
func (s *UserService) CleanExpiredSessions(ctx context.Context) error {
	return s.repo.CleanExpiredSessions(ctx)
}
