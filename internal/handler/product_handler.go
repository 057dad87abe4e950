package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stylist-backend/internal/services"
	"stylist-backend/internal/transport/httpdto"
)

type ProductHandler struct {
	service *services.ProductService
}

func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) Search(c *gin.Context) {
	query := c.Query("q")
	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, err := h.service.Search(c.Request.Context(), query, services.ProductSearchFilters{
		Category: c.Query("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Platform: c.Query("platform"),
		Limit:    limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"products": products,
		"count":    len(products),
	}))
}

func (h *ProductHandler) Trending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, err := h.service.GetTrendingProducts(c.Request.Context(), c.Query("category"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"products": products,
		"count":    len(products),
	}))
}

func (h *ProductHandler) Similar(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, err := h.service.GetSimilarProducts(c.Request.Context(), c.Query("platform"), c.Param("id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"products": products,
		"count":    len(products),
	}))
}
