package handler

import (
	"net/http"

	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/request"
	"github.com/fekuna/accountbook-service/internal/pkg/response"
	"github.com/fekuna/accountbook-service/internal/product"
	"github.com/fekuna/accountbook-service/internal/product/dto"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

type productRequest struct {
	Name         string `json:"name" binding:"required,notblank,max=200"`
	ProductCode  string `json:"product_code" binding:"max=64"`
	Category     string `json:"category" binding:"max=100"`
	Unit         string `json:"unit" binding:"max=32"`
	OpeningStock int    `json:"opening_stock" binding:"gte=0"`
	MinimumStock *int   `json:"minimum_stock" binding:"omitempty,gte=0"`
	Location     string `json:"location"`
	Notes        string `json:"notes"`
}

func (h *ProductHandler) Register(r gin.IRouter) {
	g := r.Group("/products")
	g.GET("", h.ListProducts)
	g.POST("", h.CreateProduct)
	g.GET("/:id", h.GetProduct)
	g.PUT("/:id", h.UpdateProduct)
	g.DELETE("/:id", h.DeleteProduct)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		OwnerID:      request.OwnerID(c),
		Name:         req.Name,
		ProductCode:  req.ProductCode,
		Category:     req.Category,
		Unit:         req.Unit,
		OpeningStock: req.OpeningStock,
		MinimumStock: req.MinimumStock,
		Location:     req.Location,
		Notes:        req.Notes,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "product created", p)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), request.OwnerID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", p)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, pageSize := request.Page(c)
	filters := &dto.ProductFilters{
		OwnerID:      request.OwnerID(c),
		Category:     c.Query("category"),
		SearchQuery:  c.Query("search"),
		LowStockOnly: c.Query("low_stock") == "true",
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
		Page:         page,
		PageSize:     pageSize,
	}

	items, total, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, items, total, page, pageSize, nil)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:           c.Param("id"),
		OwnerID:      request.OwnerID(c),
		Name:         req.Name,
		ProductCode:  req.ProductCode,
		Category:     req.Category,
		Unit:         req.Unit,
		MinimumStock: req.MinimumStock,
		Location:     req.Location,
		Notes:        req.Notes,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "product updated", p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), request.OwnerID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "product deleted", nil)
}
