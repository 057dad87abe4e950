package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stylist-backend/internal/services"
	"stylist-backend/internal/transport/httpdto"
)

type SuggestionHandler struct {
	service *services.SuggestionService
}

func NewSuggestionHandler(service *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// Generate asks the AI provider for a style suggestion and persists it
// together with any recommended products.
func (h *SuggestionHandler) Generate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req httpdto.GenerateSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	record, err := h.service.Generate(c.Request.Context(), userID, services.GenerateSuggestionInput{
		Occasion:  req.Occasion,
		BodyType:  req.BodyType,
		FaceShape: req.FaceShape,
		SkinTone:  req.SkinTone,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromSuggestion(record)))
}

func (h *SuggestionHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	suggestions, total, err := h.service.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SuggestionListResponse{
		Suggestions: httpdto.FromSuggestionSlice(suggestions),
		Total:       total,
	}))
}

func (h *SuggestionHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	suggestionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.service.GetByID(c.Request.Context(), userID, suggestionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromSuggestion(record)))
}

func (h *SuggestionHandler) AddFeedback(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	suggestionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req httpdto.SuggestionFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	feedback, err := h.service.AddFeedback(c.Request.Context(), userID, suggestionID, services.FeedbackInput{
		Rating:  req.Rating,
		Liked:   req.Liked,
		Comment: req.Comment,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(gin.H{
		"id":         feedback.ID.String(),
		"rating":     feedback.Rating,
		"liked":      feedback.Liked,
		"created_at": feedback.CreatedAt.Format(time.RFC3339),
	}))
}
