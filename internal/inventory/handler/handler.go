package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/accountbook-service/internal/inventory"
	"github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/request"
	"github.com/fekuna/accountbook-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(r gin.IRouter) {
	g := r.Group("/inventory")
	g.GET("/movements", h.ListMovements)
	g.POST("/adjustments", h.AdjustStock)
	g.GET("/products/:id/stock", h.GetProductStock)
	g.GET("/products/:id/audit", h.AuditStock)
	g.POST("/rebuild", h.RebuildStock)
}

type adjustStockRequest struct {
	ProductID    string `json:"product_id" binding:"required,notblank"`
	MovementType string `json:"movement_type" binding:"required,oneof=IN OUT in out"`
	Quantity     int    `json:"quantity" binding:"required,ne=0"`
	Notes        string `json:"notes"`
	MovementDate string `json:"movement_date" binding:"omitempty,datetime=2006-01-02"`
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	var movementDate time.Time
	if req.MovementDate != "" {
		movementDate, _ = request.ParseDate(req.MovementDate)
	}

	outcome, err := h.uc.AdjustStock(c.Request.Context(), &dto.AdjustStockInput{
		OwnerID:      request.OwnerID(c),
		ProductID:    req.ProductID,
		Direction:    req.MovementType,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
		MovementDate: movementDate,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "stock adjusted", outcome)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	page, pageSize := request.Page(c)
	filters := &dto.MovementFilters{
		OwnerID:       request.OwnerID(c),
		ProductID:     c.Query("product_id"),
		Direction:     c.Query("movement_type"),
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		Page:          page,
		PageSize:      pageSize,
	}
	if v := c.Query("date_from"); v != "" {
		from, err := request.ParseDate(v)
		if err != nil {
			response.FromError(c, err)
			return
		}
		filters.StartDate = &from
	}
	if v := c.Query("date_to"); v != "" {
		to, err := request.ParseDate(v)
		if err != nil {
			response.FromError(c, err)
			return
		}
		filters.EndDate = &to
	}

	items, total, err := h.uc.ListMovements(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, items, total, page, pageSize, nil)
}

func (h *InventoryHandler) GetProductStock(c *gin.Context) {
	stock, err := h.uc.GetProductStock(c.Request.Context(), request.OwnerID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", stock)
}

func (h *InventoryHandler) AuditStock(c *gin.Context) {
	audit, err := h.uc.AuditStock(c.Request.Context(), request.OwnerID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", audit)
}

func (h *InventoryHandler) RebuildStock(c *gin.Context) {
	ownerID := request.OwnerID(c)
	fixed, err := h.uc.RebuildStock(c.Request.Context(), ownerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.logger.Info("stock rebuild requested", zap.String("owner_id", ownerID), zap.Int("fixed", len(fixed)))
	response.Success(c, "stock rebuilt", gin.H{"fixed": fixed})
}
