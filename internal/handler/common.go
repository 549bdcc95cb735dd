package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/middleware"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/view"
)

// fail writes err to the client. Errors outside the ledger taxonomy are
// logged since the client only sees a generic message.
func fail(c *gin.Context, log *zap.Logger, err error) {
	if !apperr.IsValidation(err) && !apperr.IsNotFound(err) && !apperr.IsInvariant(err) && !apperr.IsConcurrency(err) {
		log.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	util.Fail(c, err)
}

// bind decodes the JSON body into req.
func bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperr.Validation("body", "invalid request body: %v", err)
	}
	return nil
}

func idParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation(name, "%q is not a valid id", raw)
	}
	return uint(id), nil
}

func optionalUint(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation(name, "%q is not a valid id", raw)
	}
	u := uint(v)
	return &u, nil
}

// optionalDate parses a query date. endOfDay moves a bare date to its last
// instant so that an end bound includes the whole day.
func optionalDate(c *gin.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, err := util.ParseDate(name, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay && len(raw) == len("2006-01-02") {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// maxPage bounds the page query parameter so the offset cannot overflow.
const maxPage = 1_000_000

// pagination reads page (from 1) and page_size, clamped by the store.
func pagination(c *gin.Context, s *store.Store) (offset, limit int, err error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 || page > maxPage {
		return 0, 0, apperr.Validation("page", "page must be between 1 and %d", maxPage)
	}
	size, _ := strconv.Atoi(c.Query("page_size"))
	_, limit = s.Window(store.Filter{Limit: size})
	return (page - 1) * limit, limit, nil
}

// filterFromQuery builds a listing filter from query parameters.
func filterFromQuery(c *gin.Context, s *store.Store) (view.Filter, error) {
	var (
		f   view.Filter
		err error
	)
	if f.StartDate, err = optionalDate(c, "start", false); err != nil {
		return f, err
	}
	if f.EndDate, err = optionalDate(c, "end", true); err != nil {
		return f, err
	}
	if f.AccountID, err = optionalUint(c, "account_id"); err != nil {
		return f, err
	}
	if f.CategoryID, err = optionalUint(c, "category_id"); err != nil {
		return f, err
	}
	if raw := c.Query("type"); raw != "" {
		t := models.TxType(raw)
		if !t.Valid() {
			return f, apperr.Validation("type", "unknown type %q", raw)
		}
		f.Type = &t
	}
	if raw := c.Query("amount"); raw != "" {
		cents, err := util.ParseAmount("amount", raw)
		if err != nil {
			return f, err
		}
		f.Amount = &cents
	}
	f.NameContains = c.Query("name")
	f.DescriptionContains = c.Query("description")

	f.Offset, f.Limit, err = pagination(c, s)
	return f, err
}

func amountString(cents int64) string {
	return money.String(cents)
}

var errNoTenant = errors.New("no tenant in request context")

// tenant returns the authenticated tenant; Auth guarantees one is set.
func tenant(c *gin.Context) (string, error) {
	t := middleware.TenantID(c)
	if t == "" {
		return "", errNoTenant
	}
	return t, nil
}
