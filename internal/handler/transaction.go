package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/middleware"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/transfer"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/view"
)

// TransactionHandler serves single transactions and the transaction view.
type TransactionHandler struct {
	Store     *store.Store
	View      *view.Materializer
	Transfers *transfer.Coordinator
	Log       *zap.Logger
}

func NewTransactionHandler(s *store.Store, v *view.Materializer, t *transfer.Coordinator, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{Store: s, View: v, Transfers: t, Log: log}
}

// ---------- requests ----------

type createTransactionReq struct {
	AccountID   uint     `json:"account_id" binding:"required"`
	CategoryID  *uint    `json:"category_id"`
	Amount      string   `json:"amount" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Type        string   `json:"type"`
	IsVoid      bool     `json:"is_void"`
	Payee       string   `json:"payee" binding:"max=128"`
	Description string   `json:"description" binding:"max=255"`
	Notes       string   `json:"notes"`
	Name        string   `json:"name" binding:"max=128"`
	Tags        []string `json:"tags"`
}

type batchReq struct {
	Items []createTransactionReq `json:"items" binding:"required,dive"`
}

type updateTransactionReq struct {
	ID        *uint      `json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	CreatedBy *string    `json:"created_by"`
	TenantID  *string    `json:"tenant_id"`

	AccountID     *uint     `json:"account_id"`
	CategoryID    *uint     `json:"category_id"`
	ClearCategory bool      `json:"clear_category"`
	Amount        *string   `json:"amount"`
	Date          *string   `json:"date"`
	Type          *string   `json:"type"`
	IsVoid        *bool     `json:"is_void"`
	Payee         *string   `json:"payee"`
	Description   *string   `json:"description"`
	Notes         *string   `json:"notes"`
	Name          *string   `json:"name"`
	Tags          *[]string `json:"tags"`
}

// parseType accepts the types a plain transaction may take. Transfers are
// created through their own endpoint so that both legs exist; Initial rows
// come only from account creation.
func parseType(raw string) (models.TxType, error) {
	if raw == "" {
		return "", nil
	}
	t := models.TxType(raw)
	if !t.Valid() {
		return "", apperr.Validation("type", "unknown type %q", raw)
	}
	switch t {
	case models.TxTransfer:
		return "", apperr.Validation("type", "use the transfers endpoint to create transfers")
	case models.TxInitial:
		return "", apperr.Validation("type", "the opening transaction is created with the account")
	}
	return t, nil
}

func (r createTransactionReq) insert(tenantID, createdBy string) (store.Insert, error) {
	in := store.Insert{
		TenantID:    tenantID,
		AccountID:   r.AccountID,
		CategoryID:  r.CategoryID,
		IsVoid:      r.IsVoid,
		Payee:       r.Payee,
		Description: r.Description,
		Notes:       r.Notes,
		Name:        r.Name,
		Tags:        r.Tags,
		CreatedBy:   createdBy,
	}
	cents, err := util.ParseAmount("amount", r.Amount)
	if err != nil {
		return in, err
	}
	in.AmountCent = &cents
	if in.Date, err = util.ParseDate("date", r.Date); err != nil {
		return in, err
	}
	in.Type, err = parseType(r.Type)
	return in, err
}

func (r updateTransactionReq) update() (store.Update, error) {
	u := store.Update{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
		TenantID:      r.TenantID,
		AccountID:     r.AccountID,
		CategoryID:    r.CategoryID,
		ClearCategory: r.ClearCategory,
		IsVoid:        r.IsVoid,
		Payee:         r.Payee,
		Description:   r.Description,
		Notes:         r.Notes,
		Name:          r.Name,
		Tags:          r.Tags,
	}
	if r.Amount != nil {
		cents, err := util.ParseAmount("amount", *r.Amount)
		if err != nil {
			return u, err
		}
		u.AmountCent = &cents
	}
	if r.Date != nil {
		d, err := util.ParseDate("date", *r.Date)
		if err != nil {
			return u, err
		}
		u.Date = &d
	}
	if r.Type != nil {
		t, err := parseType(*r.Type)
		if err != nil {
			return u, err
		}
		u.Type = &t
	}
	return u, nil
}

// row materialises one stored transaction for the response.
func (h *TransactionHandler) row(c *gin.Context, tenantID string, t *models.Transaction) (*view.Row, error) {
	rows, err := h.View.Materialize(c.Request.Context(), tenantID, []models.Transaction{*t})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// ---------- handlers ----------

func (h *TransactionHandler) Create(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	var req createTransactionReq
	if err := bind(c, &req); err != nil {
		fail(c, h.Log, err)
		return
	}
	in, err := req.insert(tenantID, middleware.Subject(c))
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	t, err := h.Store.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	row, err := h.row(c, tenantID, t)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"transaction": row})
}

// CreateBatch stores every item or none.
func (h *TransactionHandler) CreateBatch(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	var req batchReq
	if err := bind(c, &req); err != nil {
		fail(c, h.Log, err)
		return
	}
	ins := make([]store.Insert, 0, len(req.Items))
	for i, item := range req.Items {
		in, err := item.insert(tenantID, middleware.Subject(c))
		if err != nil {
			var v *apperr.ValidationError
			if errors.As(err, &v) {
				err = apperr.Validation(v.Field, "item %d: %s", i, v.Message)
			}
			fail(c, h.Log, err)
			return
		}
		ins = append(ins, in)
	}
	txs, err := h.Store.CreateMultiple(c.Request.Context(), tenantID, ins)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	rows, err := h.View.Materialize(c.Request.Context(), tenantID, txs)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"transactions": rows})
}

func (h *TransactionHandler) List(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	f, err := filterFromQuery(c, h.Store)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	page, err := h.View.ListView(c.Request.Context(), tenantID, f)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"items":  page.Items,
		"total":  page.Total,
		"offset": page.Offset,
		"limit":  page.Limit,
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	t, err := h.Store.FindByID(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	row, err := h.row(c, tenantID, t)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"transaction": row})
}

// Search returns the latest transaction per distinct name matching ?q=.
func (h *TransactionHandler) Search(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	rows, err := h.View.FindByNameContains(c.Request.Context(), tenantID, c.Query("q"))
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"items": rows})
}

// Sibling returns the other leg of a transfer with its running balance.
func (h *TransactionHandler) Sibling(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	row, err := h.Transfers.FindByTransferID(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"transaction": row})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	var req updateTransactionReq
	if err := bind(c, &req); err != nil {
		fail(c, h.Log, err)
		return
	}
	u, err := req.update()
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	t, err := h.Store.Update(c.Request.Context(), tenantID, id, u)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	row, err := h.row(c, tenantID, t)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"transaction": row})
}

// lifecycle runs one of the id-only store mutations.
func (h *TransactionHandler) lifecycle(op func(ctx context.Context, tenantID string, id uint) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, err := tenant(c)
		if err != nil {
			fail(c, h.Log, err)
			return
		}
		id, err := idParam(c, "id")
		if err != nil {
			fail(c, h.Log, err)
			return
		}
		if err := op(c.Request.Context(), tenantID, id); err != nil {
			fail(c, h.Log, err)
			return
		}
		util.Success(c, util.Response{"id": id})
	}
}

// Void, Delete, Restore and Purge also act on the sibling of a transfer leg.
func (h *TransactionHandler) Void() gin.HandlerFunc    { return h.lifecycle(h.Store.Void) }
func (h *TransactionHandler) Delete() gin.HandlerFunc  { return h.lifecycle(h.Store.SoftDelete) }
func (h *TransactionHandler) Restore() gin.HandlerFunc { return h.lifecycle(h.Store.Restore) }
func (h *TransactionHandler) Purge() gin.HandlerFunc   { return h.lifecycle(h.Store.HardDelete) }
