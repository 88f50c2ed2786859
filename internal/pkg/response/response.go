package response

import (
	"errors"
	"net/http"

	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"message": message,
		"data":    data,
	})
}

func Error(c *gin.Context, status int, message string, err error) {
	resp := gin.H{"message": message}
	if err != nil {
		resp["error"] = err.Error()
	}
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		resp["fields"] = fieldErrors(invalid)
	}
	c.JSON(status, resp)
}

// fieldErrors maps each rejected request field to the rule it broke.
func fieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// FromError maps domain errors to a status. Store failures get a generic message;
// the handler is expected to have logged the cause already.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		Error(c, http.StatusBadRequest, "validation failed", err)
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, http.StatusNotFound, "not found", err)
	case errors.Is(err, apperr.ErrConflict):
		Error(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, cache.ErrLockBusy):
		Error(c, http.StatusServiceUnavailable, "busy", err)
	default:
		Error(c, http.StatusInternalServerError, "something went wrong, please try again", nil)
	}
}

// List wraps a page of results with its total and optional aggregate summary.
func List(c *gin.Context, items interface{}, total, page, pageSize int, summary interface{}) {
	data := gin.H{
		"items":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}
	if summary != nil {
		data["summary"] = summary
	}
	Success(c, "ok", data)
}
