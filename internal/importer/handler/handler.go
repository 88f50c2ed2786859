package handler

import (
	"net/http"

	"github.com/fekuna/accountbook-service/internal/importer"
	"github.com/fekuna/accountbook-service/internal/importer/dto"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/request"
	"github.com/fekuna/accountbook-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ImportHandler struct {
	uc     importer.UseCase
	logger logger.ZapLogger
}

func NewImportHandler(uc importer.UseCase, log logger.ZapLogger) *ImportHandler {
	return &ImportHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ImportHandler) Register(r gin.IRouter) {
	g := r.Group("/import")
	g.POST("/:entity", h.Import)
	g.GET("/:entity/template", h.Template)
}

func (h *ImportHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "file is required", err)
		return
	}
	f, err := file.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.String("filename", file.Filename), zap.Error(err))
		response.Error(c, http.StatusBadRequest, "file could not be opened", nil)
		return
	}
	defer f.Close()

	entity := dto.Entity(c.Param("entity"))
	result, err := h.uc.Import(c.Request.Context(), request.OwnerID(c), entity, file.Filename, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "import complete", result)
}

func (h *ImportHandler) Template(c *gin.Context) {
	filename, data, err := h.uc.Template(dto.Entity(c.Param("entity")))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
