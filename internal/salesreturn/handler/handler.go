package handler

import (
	"net/http"

	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/request"
	"github.com/fekuna/accountbook-service/internal/pkg/response"
	"github.com/fekuna/accountbook-service/internal/salesreturn"
	"github.com/fekuna/accountbook-service/internal/salesreturn/dto"
	"github.com/gin-gonic/gin"
)

type ReturnHandler struct {
	uc     salesreturn.UseCase
	logger logger.ZapLogger
}

func NewReturnHandler(uc salesreturn.UseCase, log logger.ZapLogger) *ReturnHandler {
	return &ReturnHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReturnHandler) Register(r gin.IRouter) {
	g := r.Group("/sales-returns")
	g.GET("", h.ListReturns)
	g.POST("", h.CreateReturn)
	g.GET("/:id", h.GetReturn)
	g.PUT("/:id", h.UpdateReturn)
	g.DELETE("/:id", h.DeleteReturn)
}

type returnRequest struct {
	Date              string   `json:"date" binding:"required,datetime=2006-01-02"`
	OrderID           string   `json:"order_id" binding:"required,notblank,max=100"`
	InvoiceNumber     string   `json:"invoice_number" binding:"max=64"`
	CustomerName      string   `json:"customer_name"`
	Platform          string   `json:"platform"`
	ProductName       string   `json:"product_name"`
	Quantity          int      `json:"quantity" binding:"gte=0"`
	UnitPrice         float64  `json:"unit_price" binding:"gte=0"`
	GSTPercentage     *float64 `json:"gst_percentage" binding:"omitempty,gte=0,lte=100"`
	ReturnShippingFee float64  `json:"return_shipping_fee" binding:"gte=0"`
	ClaimAmount       float64  `json:"claim_amount" binding:"gte=0"`
	ClaimStatus       string   `json:"claim_status" binding:"omitempty,oneof='No Claim' Pending Approved Rejected"`
	Reason            string   `json:"reason"`
	Notes             string   `json:"notes"`
}

func (h *ReturnHandler) bind(c *gin.Context) (*dto.ReturnInput, bool) {
	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return nil, false
	}
	date, err := request.ParseDate(req.Date)
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return &dto.ReturnInput{
		OwnerID:           request.OwnerID(c),
		Date:              date,
		OrderID:           req.OrderID,
		InvoiceNumber:     req.InvoiceNumber,
		CustomerName:      req.CustomerName,
		Platform:          req.Platform,
		ProductName:       req.ProductName,
		Quantity:          req.Quantity,
		UnitPrice:         req.UnitPrice,
		GSTPercentage:     req.GSTPercentage,
		ReturnShippingFee: req.ReturnShippingFee,
		ClaimAmount:       req.ClaimAmount,
		ClaimStatus:       req.ClaimStatus,
		Reason:            req.Reason,
		Notes:             req.Notes,
	}, true
}

func (h *ReturnHandler) CreateReturn(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.uc.CreateReturn(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "sales return created", result)
}

func (h *ReturnHandler) GetReturn(c *gin.Context) {
	r, err := h.uc.GetReturn(c.Request.Context(), request.OwnerID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", r)
}

func (h *ReturnHandler) ListReturns(c *gin.Context) {
	period, err := request.Period(c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	page, pageSize := request.Page(c)
	filters := &dto.ReturnFilters{
		OwnerID:     request.OwnerID(c),
		SearchQuery: c.Query("search"),
		ClaimStatus: c.Query("claim_status"),
		Platform:    c.Query("platform"),
		Period:      period,
		Page:        page,
		PageSize:    pageSize,
	}

	items, total, summary, err := h.uc.ListReturns(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, items, total, page, pageSize, summary)
}

func (h *ReturnHandler) UpdateReturn(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.uc.UpdateReturn(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "sales return updated", result)
}

func (h *ReturnHandler) DeleteReturn(c *gin.Context) {
	if err := h.uc.DeleteReturn(c.Request.Context(), request.OwnerID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "sales return deleted", nil)
}
