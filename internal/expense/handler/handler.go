package handler

import (
	"net/http"

	"github.com/fekuna/accountbook-service/internal/expense"
	"github.com/fekuna/accountbook-service/internal/expense/dto"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/request"
	"github.com/fekuna/accountbook-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	uc     expense.UseCase
	logger logger.ZapLogger
}

func NewExpenseHandler(uc expense.UseCase, log logger.ZapLogger) *ExpenseHandler {
	return &ExpenseHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ExpenseHandler) Register(r gin.IRouter) {
	g := r.Group("/expenses")
	g.GET("", h.ListExpenses)
	g.POST("", h.CreateExpense)
	g.GET("/:id", h.GetExpense)
	g.PUT("/:id", h.UpdateExpense)
	g.DELETE("/:id", h.DeleteExpense)
}

type expenseRequest struct {
	Date          string  `json:"date" binding:"required,datetime=2006-01-02"`
	Category      string  `json:"category"`
	Description   string  `json:"description" binding:"required,notblank"`
	Amount        float64 `json:"amount" binding:"gte=0"`
	PaymentMethod string  `json:"payment_method"`
	Notes         string  `json:"notes"`
}

func (h *ExpenseHandler) bind(c *gin.Context) (*dto.ExpenseInput, bool) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return nil, false
	}
	date, err := request.ParseDate(req.Date)
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return &dto.ExpenseInput{
		OwnerID:       request.OwnerID(c),
		Date:          date,
		Category:      req.Category,
		Description:   req.Description,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}, true
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}
	e, err := h.uc.CreateExpense(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "expense created", e)
}

func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	e, err := h.uc.GetExpense(c.Request.Context(), request.OwnerID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", e)
}

func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	period, err := request.Period(c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	page, pageSize := request.Page(c)
	filters := &dto.ExpenseFilters{
		OwnerID:     request.OwnerID(c),
		SearchQuery: c.Query("search"),
		Category:    c.Query("category"),
		Period:      period,
		Page:        page,
		PageSize:    pageSize,
	}

	items, total, summary, err := h.uc.ListExpenses(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, items, total, page, pageSize, summary)
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}
	e, err := h.uc.UpdateExpense(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "expense updated", e)
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	if err := h.uc.DeleteExpense(c.Request.Context(), request.OwnerID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "expense deleted", nil)
}
