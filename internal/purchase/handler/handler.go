package handler

import (
	"net/http"

	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/request"
	"github.com/fekuna/accountbook-service/internal/pkg/response"
	"github.com/fekuna/accountbook-service/internal/purchase"
	"github.com/fekuna/accountbook-service/internal/purchase/dto"
	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	uc     purchase.UseCase
	logger logger.ZapLogger
}

func NewPurchaseHandler(uc purchase.UseCase, log logger.ZapLogger) *PurchaseHandler {
	return &PurchaseHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *PurchaseHandler) Register(r gin.IRouter) {
	g := r.Group("/purchases")
	g.GET("", h.ListPurchases)
	g.POST("", h.CreatePurchase)
	g.GET("/:id", h.GetPurchase)
	g.PUT("/:id", h.UpdatePurchase)
	g.DELETE("/:id", h.DeletePurchase)
	g.POST("/:id/duplicate", h.DuplicatePurchase)
}

type purchaseRequest struct {
	Date          string  `json:"date" binding:"required,datetime=2006-01-02"`
	InvoiceNumber string  `json:"invoice_number" binding:"max=64"`
	SupplierName  string  `json:"supplier_name" binding:"required,notblank"`
	Category      string  `json:"category"`
	ItemName      string  `json:"item_name" binding:"required,notblank"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice     float64 `json:"unit_price" binding:"gte=0"`
	GSTPercentage float64 `json:"gst_percentage" binding:"gte=0,lte=100"`
	PaymentMethod string  `json:"payment_method"`
	Notes         string  `json:"notes"`
}

func (h *PurchaseHandler) bind(c *gin.Context) (*dto.PurchaseInput, bool) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return nil, false
	}
	date, err := request.ParseDate(req.Date)
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return &dto.PurchaseInput{
		OwnerID:       request.OwnerID(c),
		Date:          date,
		InvoiceNumber: req.InvoiceNumber,
		SupplierName:  req.SupplierName,
		Category:      req.Category,
		ItemName:      req.ItemName,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		GSTPercentage: req.GSTPercentage,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}, true
}

func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.uc.CreatePurchase(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "purchase created", result)
}

func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	p, err := h.uc.GetPurchase(c.Request.Context(), request.OwnerID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", p)
}

func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	period, err := request.Period(c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	page, pageSize := request.Page(c)
	filters := &dto.PurchaseFilters{
		OwnerID:     request.OwnerID(c),
		SearchQuery: c.Query("search"),
		Category:    c.Query("category"),
		Period:      period,
		Page:        page,
		PageSize:    pageSize,
	}

	items, total, summary, err := h.uc.ListPurchases(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, items, total, page, pageSize, summary)
}

func (h *PurchaseHandler) UpdatePurchase(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.uc.UpdatePurchase(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "purchase updated", result)
}

func (h *PurchaseHandler) DeletePurchase(c *gin.Context) {
	if err := h.uc.DeletePurchase(c.Request.Context(), request.OwnerID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "purchase deleted", nil)
}

func (h *PurchaseHandler) DuplicatePurchase(c *gin.Context) {
	result, err := h.uc.DuplicatePurchase(c.Request.Context(), request.OwnerID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "purchase duplicated", result)
}
