package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stylist-backend/internal/domain/trending"
	"stylist-backend/internal/services"
	"stylist-backend/internal/transport/httpdto"
)

type TrendingHandler struct {
	service *services.TrendingService
}

func NewTrendingHandler(service *services.TrendingService) *TrendingHandler {
	return &TrendingHandler{service: service}
}

// List returns the trending feed ordered by score. Category and occasion
// filters are mutually exclusive; category wins when both are supplied.
func (h *TrendingHandler) List(c *gin.Context) {
	var req httpdto.TrendingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	ctx := c.Request.Context()
	var (
		outfits []trending.Outfit
		err     error
	)
	switch {
	case req.Category != "":
		outfits, err = h.service.GetOutfitsByCategory(ctx, req.Category, req.Limit, req.Offset)
	case req.Occasion != "":
		outfits, err = h.service.GetOutfitsByOccasion(ctx, req.Occasion, req.Limit, req.Offset)
	default:
		outfits, err = h.service.GetTrendingOutfits(ctx, req.Limit, req.Offset)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	dtos := httpdto.FromOutfitSlice(outfits)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.TrendingListResponse{
		Outfits: dtos,
		Count:   len(dtos),
	}))
}

func (h *TrendingHandler) Featured(c *gin.Context) {
	var req httpdto.TrendingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	outfits, err := h.service.GetFeaturedOutfits(c.Request.Context(), req.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	dtos := httpdto.FromOutfitSlice(outfits)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.TrendingListResponse{
		Outfits: dtos,
		Count:   len(dtos),
	}))
}

// Get returns a single outfit and records the view.
func (h *TrendingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	outfit, err := h.service.GetOutfit(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.service.RecordView(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromOutfit(outfit)))
}

func (h *TrendingHandler) Like(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req httpdto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.service.SetLiked(c.Request.Context(), id, req.Liked); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *TrendingHandler) Share(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.RecordShare(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
