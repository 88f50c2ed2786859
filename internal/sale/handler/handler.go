package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/request"
	"github.com/fekuna/accountbook-service/internal/pkg/response"
	"github.com/fekuna/accountbook-service/internal/sale"
	"github.com/fekuna/accountbook-service/internal/sale/dto"
	"github.com/gin-gonic/gin"
)

type SaleHandler struct {
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SaleHandler) Register(r gin.IRouter) {
	g := r.Group("/sales")
	g.GET("", h.ListSales)
	g.POST("", h.CreateSale)
	g.GET("/:id", h.GetSale)
	g.PUT("/:id", h.UpdateSale)
	g.DELETE("/:id", h.DeleteSale)
}

type saleRequest struct {
	Date                   string  `json:"date" binding:"required,datetime=2006-01-02"`
	InvoiceNumber          string  `json:"invoice_number" binding:"max=64"`
	OrderID                string  `json:"order_id" binding:"max=100"`
	CustomerName           string  `json:"customer_name"`
	Platform               string  `json:"platform"`
	ProductName            string  `json:"product_name" binding:"required,notblank"`
	Quantity               int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice              float64 `json:"unit_price" binding:"gte=0"`
	GSTPercentage          float64 `json:"gst_percentage" binding:"gte=0,lte=100"`
	GSTInclusive           bool    `json:"gst_inclusive"`
	CostPrice              float64 `json:"cost_price" binding:"gte=0"`
	AmountReceived         float64 `json:"amount_received" binding:"gte=0"`
	SellingExpenseAmount   float64 `json:"selling_expense_amount" binding:"gte=0"`
	SellingExpenseCategory string  `json:"selling_expense_category"`
	SellingExpenseNotes    string  `json:"selling_expense_notes"`
	PaymentMethod          string  `json:"payment_method"`
	Notes                  string  `json:"notes"`
}

func (h *SaleHandler) bind(c *gin.Context) (*dto.SaleInput, bool) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return nil, false
	}
	date, err := request.ParseDate(req.Date)
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return &dto.SaleInput{
		OwnerID:                request.OwnerID(c),
		Date:                   date,
		InvoiceNumber:          req.InvoiceNumber,
		OrderID:                req.OrderID,
		CustomerName:           req.CustomerName,
		Platform:               req.Platform,
		ProductName:            req.ProductName,
		Quantity:               req.Quantity,
		UnitPrice:              req.UnitPrice,
		GSTPercentage:          req.GSTPercentage,
		GSTInclusive:           req.GSTInclusive,
		CostPrice:              req.CostPrice,
		AmountReceived:         req.AmountReceived,
		SellingExpenseAmount:   req.SellingExpenseAmount,
		SellingExpenseCategory: req.SellingExpenseCategory,
		SellingExpenseNotes:    req.SellingExpenseNotes,
		PaymentMethod:          req.PaymentMethod,
		Notes:                  req.Notes,
	}, true
}

func (h *SaleHandler) CreateSale(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.uc.CreateSale(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "sale created", result)
}

func (h *SaleHandler) GetSale(c *gin.Context) {
	s, err := h.uc.GetSale(c.Request.Context(), request.OwnerID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", s)
}

func (h *SaleHandler) ListSales(c *gin.Context) {
	period, err := request.Period(c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	page, pageSize := request.Page(c)
	filters := &dto.SaleFilters{
		OwnerID:     request.OwnerID(c),
		SearchQuery: c.Query("search"),
		Platform:    c.Query("platform"),
		Period:      period,
		Page:        page,
		PageSize:    pageSize,
	}
	if v := c.Query("returned"); v != "" {
		returned, err := strconv.ParseBool(v)
		if err == nil {
			filters.Returned = &returned
		}
	}

	items, total, summary, err := h.uc.ListSales(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, items, total, page, pageSize, summary)
}

func (h *SaleHandler) UpdateSale(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.uc.UpdateSale(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "sale updated", result)
}

func (h *SaleHandler) DeleteSale(c *gin.Context) {
	if err := h.uc.DeleteSale(c.Request.Context(), request.OwnerID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "sale deleted", nil)
}
