package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stylist-backend/internal/domain/user"
	"stylist-backend/internal/services"
	"stylist-backend/internal/transport/httpdto"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	notifications, err := h.service.ListNotifications(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NotificationListResponse{
		Notifications: httpdto.FromNotificationSlice(notifications),
	}))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), userID, notificationID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *NotificationHandler) RegisterDeviceToken(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req httpdto.RegisterDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.service.RegisterDeviceToken(c.Request.Context(), userID, req.Token, req.Platform); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse[any](nil))
}

func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	prefs, err := h.service.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromPreferences(prefs)))
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req httpdto.PreferencesDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	prefs := user.NotificationPreferences{
		UserID:             userID,
		PushNotifications:  req.PushNotifications,
		EmailNotifications: req.EmailNotifications,
		TrendingOutfits:    req.TrendingOutfits,
		StyleSuggestions:   req.StyleSuggestions,
	}
	if err := h.service.UpdatePreferences(c.Request.Context(), prefs); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromPreferences(prefs)))
}
