package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stylist-backend/internal/services"
	"stylist-backend/internal/transport/httpdto"
)

type UploadHandler struct {
	service *services.UploadService
}

func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Presign returns a short-lived URL the client PUTs the photo to directly.
// Returns 503 when photo storage is not configured.
func (h *UploadHandler) Presign(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("photo uploads are not configured", "SERVICE_UNAVAILABLE"))
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req httpdto.PhotoPresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	result, err := h.service.CreatePresignedUpload(c.Request.Context(), services.PhotoPresignInput{
		UserID:      userID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		FileSize:    req.FileSize,
		PhotoType:   req.PhotoType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.PhotoPresignResponse{
		UploadURL: result.UploadURL,
		ObjectKey: result.ObjectKey,
		Headers:   result.Headers,
	}))
}

// Complete registers the uploaded object as the user's active photo of its
// type; any previous photo of that type is deactivated.
func (h *UploadHandler) Complete(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("photo uploads are not configured", "SERVICE_UNAVAILABLE"))
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req httpdto.CompleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	photo, err := h.service.CompleteUpload(c.Request.Context(), userID, req.ObjectKey, req.PhotoType)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromPhoto(photo)))
}
