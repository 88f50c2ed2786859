package request

import (
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/accountbook-service/internal/auth"
	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
)

const (
	DateLayout      = "2006-01-02"
	defaultPageSize = 50
	maxPageSize     = 500
)

func OwnerID(c *gin.Context) string {
	return auth.GetOwnerID(c.Request.Context())
}

// Page reads ?page and ?page_size. page_size=0 disables paging.
func Page(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// Period reads ?fy, ?date_filter, ?date_from and ?date_to.
func Period(c *gin.Context) (finance.PeriodQuery, error) {
	q := finance.PeriodQuery{
		FinancialYear: c.Query("fy"),
		DateFilter:    c.Query("date_filter"),
	}
	var err error
	if q.DateFrom, err = optionalDate(c.Query("date_from")); err != nil {
		return q, err
	}
	if q.DateTo, err = optionalDate(c.Query("date_to")); err != nil {
		return q, err
	}
	if q.DateFilter == "" && (q.DateFrom != nil || q.DateTo != nil) {
		q.DateFilter = finance.FilterCustom
	}
	return q, nil
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
