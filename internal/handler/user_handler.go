package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stylist-backend/internal/domain/user"
	"stylist-backend/internal/services"
	"stylist-backend/internal/transport/httpdto"
	stylist_errors "stylist-backend/pkg/errors"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromUser(u)))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req httpdto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	u, err := h.service.Update(c.Request.Context(), userID, services.UpdateUserInput{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromUser(u)))
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromProfile(profile)))
}

func (h *UserHandler) UpsertProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req httpdto.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	profile, err := h.service.UpsertProfile(c.Request.Context(), userID, user.Profile{
		Gender:      req.Gender,
		HeightCm:    nullFloat(req.HeightCm),
		WeightKg:    nullFloat(req.WeightKg),
		BodyType:    nullStr(req.BodyType),
		FaceShape:   nullStr(req.FaceShape),
		SkinTone:    nullStr(req.SkinTone),
		StyleTypes:  req.StyleTypes,
		BudgetRange: nullStr(req.BudgetRange),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromProfile(profile)))
}

func (h *UserHandler) ListPhotos(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	photos, err := h.service.GetPhotos(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromPhotoSlice(photos)))
}

func (h *UserHandler) DeletePhoto(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	photoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePhoto(c.Request.Context(), userID, photoID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *UserHandler) ListFavorites(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	favorites, err := h.service.GetFavorites(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromFavoriteSlice(favorites)))
}

func (h *UserHandler) AddFavorite(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req httpdto.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	favorite, err := h.service.AddFavorite(c.Request.Context(), userID, services.AddFavoriteInput{
		ProductID:  req.ProductID,
		Name:       req.Name,
		Brand:      req.Brand,
		ImageURL:   req.ImageURL,
		ProductURL: req.ProductURL,
		Platform:   req.Platform,
	})
	if err != nil {
		// Re-adding an existing favorite is not an error for the client.
		if errors.Is(err, stylist_errors.ErrAlreadyExists) {
			c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromFavorite(favorite)))
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromFavorite(favorite)))
}

func (h *UserHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	favoriteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.RemoveFavorite(c.Request.Context(), userID, favoriteID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func nullStr(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullFloat(v float64) sql.NullFloat64 {
	if v == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
