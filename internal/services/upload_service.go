package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"stylist-backend/internal/domain/user"
	"stylist-backend/internal/storage"
	stylist_errors "stylist-backend/pkg/errors"
)

const maxPhotoSizeBytes = 10 << 20 // 10 MiB

// UploadService issues presigned photo uploads and registers completed
// uploads on the user's profile.
type UploadService struct {
	storage *storage.Client
	users   *UserService
}

func NewUploadService(storage *storage.Client, users *UserService) *UploadService {
	return &UploadService{storage: storage, users: users}
}

type PhotoPresignInput struct {
	UserID      uuid.UUID
	FileName    string
	ContentType string
	FileSize    int64
	PhotoType   string // FACE or FULL_BODY
}

type PhotoPresignResult struct {
	UploadURL string            `json:"upload_url"`
	ObjectKey string            `json:"object_key"`
	Headers   map[string]string `json:"headers"`
}

func (s *UploadService) CreatePresignedUpload(ctx context.Context, in PhotoPresignInput) (PhotoPresignResult, error) {
	if s.storage == nil {
		return PhotoPresignResult{}, errors.New("s3 storage is not configured")
	}
	if in.UserID == uuid.Nil || in.FileName == "" || in.FileSize <= 0 || !validPhotoTypes[in.PhotoType] {
		return PhotoPresignResult{}, stylist_errors.ErrInvalidInput
	}
	if in.FileSize > maxPhotoSizeBytes {
		return PhotoPresignResult{}, stylist_errors.ErrTooLarge
	}
	if err := s.storage.ValidateContentType(in.ContentType); err != nil {
		return PhotoPresignResult{}, stylist_errors.ErrInvalidInput
	}

	key := buildPhotoKey(in.UserID, in.PhotoType, in.FileName)
	uploadURL, headers, err := s.storage.PresignPut(ctx, key, in.ContentType, in.FileSize)
	if err != nil {
		return PhotoPresignResult{}, err
	}

	return PhotoPresignResult{
		UploadURL: uploadURL,
		ObjectKey: key,
		Headers:   headers,
	}, nil
}

// CompleteUpload records the uploaded object as the user's active photo of
// the given type.
func (s *UploadService) CompleteUpload(ctx context.Context, userID uuid.UUID, objectKey, photoType string) (user.Photo, error) {
	if objectKey == "" || !strings.HasPrefix(objectKey, "photos/"+userID.String()+"/") {
		return user.Photo{}, stylist_errors.ErrInvalidInput
	}

	fileURL := s.storage.FileURL(objectKey)
	if fileURL == "" {
		fileURL = objectKey
	}
	return s.users.AddPhoto(ctx, userID, fileURL, objectKey, photoType)
}

func buildPhotoKey(userID uuid.UUID, photoType, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	base := fmt.Sprintf("photos/%s/%s-%s", userID.String(), strings.ToLower(photoType), uuid.New().String())
	if ext == "" {
		return base
	}
	return base + ext
}
