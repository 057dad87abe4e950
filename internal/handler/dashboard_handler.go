package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stylist-backend/internal/services"
	"stylist-backend/internal/transport/httpdto"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(overview))
}

func (h *DashboardHandler) Metrics(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	metrics, err := h.service.Metrics(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(metrics))
}

func (h *DashboardHandler) Analytics(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	analytics, err := h.service.Analytics(c.Request.Context(), userID, c.Query("range"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(analytics))
}

// WeatherSuggestions maps client-reported conditions to outfit advice. The
// client owns the weather lookup; only the rules live server-side.
func (h *DashboardHandler) WeatherSuggestions(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	temperature, err := strconv.ParseFloat(c.DefaultQuery("temperature", "20"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid temperature", "INVALID_REQUEST"))
		return
	}
	uvIndex, err := strconv.Atoi(c.DefaultQuery("uv_index", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid uv_index", "INVALID_REQUEST"))
		return
	}

	suggestions := h.service.WeatherSuggestionsFor(services.WeatherInput{
		TemperatureC: temperature,
		Condition:    c.DefaultQuery("condition", "sunny"),
		UVIndex:      uvIndex,
	})
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(suggestions))
}

type trackActivityRequest struct {
	Type     string            `json:"type" binding:"required"`
	Metadata map[string]string `json:"metadata"`
}

func (h *DashboardHandler) TrackActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req trackActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.service.TrackActivity(c.Request.Context(), userID, req.Type, req.Metadata); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *DashboardHandler) Updates(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid since timestamp", "INVALID_REQUEST"))
			return
		}
		since = parsed
	}

	updates, err := h.service.Updates(c.Request.Context(), userID, since)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(updates))
}
