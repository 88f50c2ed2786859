package handler

import (
	"net/http"

	"github.com/fekuna/accountbook-service/internal/asset"
	"github.com/fekuna/accountbook-service/internal/asset/dto"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/request"
	"github.com/fekuna/accountbook-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	uc     asset.UseCase
	logger logger.ZapLogger
}

func NewAssetHandler(uc asset.UseCase, log logger.ZapLogger) *AssetHandler {
	return &AssetHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AssetHandler) Register(r gin.IRouter) {
	g := r.Group("/assets")
	g.GET("", h.ListAssets)
	g.POST("", h.CreateAsset)
	g.GET("/:id", h.GetAsset)
	g.PUT("/:id", h.UpdateAsset)
	g.DELETE("/:id", h.DeleteAsset)
}

type assetRequest struct {
	AssetName          string  `json:"asset_name" binding:"required,notblank"`
	Category           string  `json:"category"`
	PurchaseDate       string  `json:"purchase_date" binding:"required,datetime=2006-01-02"`
	PurchasePrice      float64 `json:"purchase_price" binding:"gte=0"`
	GSTPercentage      float64 `json:"gst_percentage" binding:"gte=0,lte=100"`
	DepreciationMethod string  `json:"depreciation_method" binding:"omitempty,oneof='Straight Line' 'Written Down Value'"`
	DepreciationRate   float64 `json:"depreciation_rate" binding:"gte=0,lte=100"`
	UsefulLifeYears    float64 `json:"useful_life_years" binding:"gte=0"`
	Notes              string  `json:"notes"`
}

func (h *AssetHandler) bind(c *gin.Context) (*dto.AssetInput, bool) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return nil, false
	}
	date, err := request.ParseDate(req.PurchaseDate)
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return &dto.AssetInput{
		OwnerID:            request.OwnerID(c),
		AssetName:          req.AssetName,
		Category:           req.Category,
		PurchaseDate:       date,
		PurchasePrice:      req.PurchasePrice,
		GSTPercentage:      req.GSTPercentage,
		DepreciationMethod: req.DepreciationMethod,
		DepreciationRate:   req.DepreciationRate,
		UsefulLifeYears:    req.UsefulLifeYears,
		Notes:              req.Notes,
	}, true
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}
	a, err := h.uc.CreateAsset(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "asset created", a)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	a, err := h.uc.GetAsset(c.Request.Context(), request.OwnerID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "ok", a)
}

func (h *AssetHandler) ListAssets(c *gin.Context) {
	page, pageSize := request.Page(c)
	filters := &dto.AssetFilters{
		OwnerID:     request.OwnerID(c),
		Category:    c.Query("category"),
		SearchQuery: c.Query("search"),
		Page:        page,
		PageSize:    pageSize,
	}

	items, total, summary, err := h.uc.ListAssets(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, items, total, page, pageSize, summary)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}
	a, err := h.uc.UpdateAsset(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "asset updated", a)
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	if err := h.uc.DeleteAsset(c.Request.Context(), request.OwnerID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "asset deleted", nil)
}
