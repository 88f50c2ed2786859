package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/request"
	"github.com/fekuna/accountbook-service/internal/pkg/response"
	"github.com/fekuna/accountbook-service/internal/report"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	uc       report.UseCase
	calendar finance.FYCalendar
	logger   logger.ZapLogger
}

func NewReportHandler(uc report.UseCase, calendar finance.FYCalendar, log logger.ZapLogger) *ReportHandler {
	return &ReportHandler{
		uc:       uc,
		calendar: calendar,
		logger:   log,
	}
}

func (h *ReportHandler) Register(r gin.IRouter) {
	r.GET("/dashboard", h.Dashboard)
	r.GET("/financial-years", h.FinancialYears)

	g := r.Group("/reports")
	g.GET("/profit-loss", h.ProfitAndLoss)
	g.GET("/profit-loss/export", h.ExportProfitAndLoss)
	g.GET("/balance-sheet", h.BalanceSheet)
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.uc.Dashboard(c.Request.Context(), request.OwnerID(c), c.Query("fy"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", d)
}

// FinancialYears lists the selectable years, newest first.
func (h *ReportHandler) FinancialYears(c *gin.Context) {
	now := time.Now()
	response.Success(c, "ok", gin.H{
		"current": h.calendar.Current(now).Label,
		"years":   h.calendar.Recent(now, 5),
	})
}

func (h *ReportHandler) ProfitAndLoss(c *gin.Context) {
	pl, err := h.uc.ProfitAndLoss(c.Request.Context(), request.OwnerID(c), c.Query("fy"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", pl)
}

func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	bs, err := h.uc.BalanceSheet(c.Request.Context(), request.OwnerID(c), c.Query("fy"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", bs)
}

func (h *ReportHandler) ExportProfitAndLoss(c *gin.Context) {
	data, filename, err := h.uc.ExportProfitAndLoss(c.Request.Context(), request.OwnerID(c), c.Query("fy"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}
