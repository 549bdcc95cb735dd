package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/accounts"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/middleware"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
)

type AccountHandler struct {
	Store    *store.Store
	Accessor *accounts.Accessor
	Log      *zap.Logger
}

func NewAccountHandler(s *store.Store, a *accounts.Accessor, log *zap.Logger) *AccountHandler {
	return &AccountHandler{Store: s, Accessor: a, Log: log}
}

type createAccountReq struct {
	Name           string `json:"name" binding:"required,max=64"`
	Currency       string `json:"currency" binding:"omitempty,len=3"`
	CategoryID     *uint  `json:"category_id"`
	DisplayOrder   int    `json:"display_order"`
	OpeningBalance string `json:"opening_balance"`
	OpeningDate    string `json:"opening_date"`
}

type updateAccountReq struct {
	Name         *string `json:"name" binding:"omitempty,max=64"`
	Currency     *string `json:"currency" binding:"omitempty,len=3"`
	CategoryID   *uint   `json:"category_id"`
	DisplayOrder *int    `json:"display_order"`
}

func (h *AccountHandler) Create(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	var req createAccountReq
	if err := bind(c, &req); err != nil {
		fail(c, h.Log, err)
		return
	}
	in := store.NewAccount{
		TenantID:     tenantID,
		Name:         req.Name,
		Currency:     req.Currency,
		CategoryID:   req.CategoryID,
		DisplayOrder: req.DisplayOrder,
		CreatedBy:    middleware.Subject(c),
	}
	if req.OpeningBalance != "" {
		if in.OpeningCent, err = util.ParseAmount("opening_balance", req.OpeningBalance); err != nil {
			fail(c, h.Log, err)
			return
		}
	}
	if req.OpeningDate != "" {
		if in.OpeningDate, err = util.ParseDate("opening_date", req.OpeningDate); err != nil {
			fail(c, h.Log, err)
			return
		}
	}

	acct, opening, err := h.Store.CreateAccount(c.Request.Context(), in)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"account": acct, "opening": opening})
}

func (h *AccountHandler) List(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	accts, err := h.Store.ListAccounts(c.Request.Context(), tenantID)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"items": accts})
}

func (h *AccountHandler) Get(c *gin.Context) {
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
	acct, err := h.Store.FindAccount(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"account": acct})
}

func (h *AccountHandler) Update(c *gin.Context) {
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
	var req updateAccountReq
	if err := bind(c, &req); err != nil {
		fail(c, h.Log, err)
		return
	}
	acct, err := h.Store.UpdateAccount(c.Request.Context(), tenantID, id, store.AccountChange{
		Name:         req.Name,
		Currency:     req.Currency,
		CategoryID:   req.CategoryID,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"account": acct})
}

func (h *AccountHandler) Delete(c *gin.Context) {
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
	if err := h.Store.DeleteAccount(c.Request.Context(), tenantID, id); err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"id": id})
}

// Balance returns the current balance, or with ?date= the balance at the
// end of that day.
func (h *AccountHandler) Balance(c *gin.Context) {
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
	at, err := optionalDate(c, "date", true)
	if err != nil {
		fail(c, h.Log, err)
		return
	}

	var cents int64
	if at == nil {
		cents, err = h.Accessor.CurrentBalance(c.Request.Context(), tenantID, id)
	} else {
		cents, err = h.Accessor.BalanceAtDate(c.Request.Context(), tenantID, id, *at)
	}
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"account_id":   id,
		"balance":      amountString(cents),
		"balance_cent": cents,
		"date":         at,
	})
}

func (h *AccountHandler) Opening(c *gin.Context) {
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
	t, err := h.Accessor.OpeningTransaction(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"transaction": t})
}

// Total sums current balances per currency.
func (h *AccountHandler) Total(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	totals, err := h.Accessor.TotalBalance(c.Request.Context(), tenantID)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	out := make(map[string]string, len(totals))
	for cur, cents := range totals {
		out[cur] = amountString(cents)
	}
	util.Success(c, util.Response{"totals": out, "totals_cent": totals})
}

func (h *AccountHandler) Verify(c *gin.Context) {
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
	r, err := h.Accessor.Verify(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"report": r})
}

// VerifyAll reports every account; mismatches do not fail the request.
func (h *AccountHandler) VerifyAll(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	reports, err := h.Accessor.VerifyAll(c.Request.Context(), tenantID)
	ok := err == nil
	for _, r := range reports {
		ok = ok && r.OK
	}
	if reports == nil && err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"ok": ok, "reports": reports})
}
