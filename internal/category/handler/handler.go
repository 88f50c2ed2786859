package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/accountbook-service/internal/category"
	"github.com/fekuna/accountbook-service/internal/category/dto"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/request"
	"github.com/fekuna/accountbook-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Register(r gin.IRouter) {
	g := r.Group("/expense-categories")
	g.GET("", h.ListCategories)
	g.POST("", h.CreateCategory)
	g.GET("/:id", h.GetCategory)
	g.PUT("/:id", h.UpdateCategory)
	g.DELETE("/:id", h.DeleteCategory)
}

type categoryRequest struct {
	CategoryName     string `json:"category_name" binding:"required,notblank,max=100"`
	IsSellingExpense bool   `json:"is_selling_expense"`
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{
		OwnerID:          request.OwnerID(c),
		CategoryName:     req.CategoryName,
		IsSellingExpense: req.IsSellingExpense,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "expense category created", cat)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), request.OwnerID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", cat)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	page, pageSize := request.Page(c)
	filters := &dto.CategoryFilters{
		OwnerID:  request.OwnerID(c),
		Page:     page,
		PageSize: pageSize,
	}
	if v := c.Query("selling"); v != "" {
		filters.SellingOnly, _ = strconv.ParseBool(v)
	}

	categories, total, err := h.uc.ListCategories(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, categories, total, page, pageSize, nil)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &dto.UpdateCategoryInput{
		ID:               c.Param("id"),
		OwnerID:          request.OwnerID(c),
		CategoryName:     req.CategoryName,
		IsSellingExpense: req.IsSellingExpense,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "expense category updated", cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), request.OwnerID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "expense category deleted", nil)
}
