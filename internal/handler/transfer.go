package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/middleware"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/transfer"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
)

type TransferHandler struct {
	Coord *transfer.Coordinator
	Log   *zap.Logger
}

func NewTransferHandler(coord *transfer.Coordinator, log *zap.Logger) *TransferHandler {
	return &TransferHandler{Coord: coord, Log: log}
}

type createTransferReq struct {
	SourceAccountID      uint     `json:"source_account_id" binding:"required"`
	DestinationAccountID uint     `json:"destination_account_id" binding:"required"`
	Amount               string   `json:"amount" binding:"required"`
	Date                 string   `json:"date" binding:"required"`
	CategoryID           *uint    `json:"category_id"`
	Payee                string   `json:"payee" binding:"max=128"`
	Description          string   `json:"description" binding:"max=255"`
	Notes                string   `json:"notes"`
	Name                 string   `json:"name" binding:"max=128"`
	Tags                 []string `json:"tags"`
}

type updateTransferReq struct {
	Amount               *string   `json:"amount"`
	Date                 *string   `json:"date"`
	SourceAccountID      *uint     `json:"source_account_id"`
	DestinationAccountID *uint     `json:"destination_account_id"`
	Payee                *string   `json:"payee"`
	Description          *string   `json:"description"`
	Notes                *string   `json:"notes"`
	Name                 *string   `json:"name"`
	Tags                 *[]string `json:"tags"`
}

func (h *TransferHandler) Create(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	var req createTransferReq
	if err := bind(c, &req); err != nil {
		fail(c, h.Log, err)
		return
	}
	amount, err := util.ParseAmount("amount", req.Amount)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	date, err := util.ParseDate("date", req.Date)
	if err != nil {
		fail(c, h.Log, err)
		return
	}

	src, dst, err := h.Coord.CreateTransfer(c.Request.Context(), transfer.Request{
		TenantID:             tenantID,
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		AmountCent:           amount,
		Date:                 date,
		CategoryID:           req.CategoryID,
		Payee:                req.Payee,
		Description:          req.Description,
		Notes:                req.Notes,
		Name:                 req.Name,
		Tags:                 req.Tags,
		CreatedBy:            middleware.Subject(c),
	})
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"source": src, "destination": dst})
}

// Get returns both legs of the transfer containing :id.
func (h *TransferHandler) Get(c *gin.Context) {
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
	src, dst, err := h.Coord.Pair(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"source": src, "destination": dst})
}

func (h *TransferHandler) Update(c *gin.Context) {
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
	var req updateTransferReq
	if err := bind(c, &req); err != nil {
		fail(c, h.Log, err)
		return
	}

	ch := transfer.Change{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Payee:                req.Payee,
		Description:          req.Description,
		Notes:                req.Notes,
		Name:                 req.Name,
		Tags:                 req.Tags,
	}
	if req.Amount != nil {
		amount, err := util.ParseAmount("amount", *req.Amount)
		if err != nil {
			fail(c, h.Log, err)
			return
		}
		ch.AmountCent = &amount
	}
	if req.Date != nil {
		var date time.Time
		if date, err = util.ParseDate("date", *req.Date); err != nil {
			fail(c, h.Log, err)
			return
		}
		ch.Date = &date
	}

	src, dst, err := h.Coord.UpdateTransfer(c.Request.Context(), tenantID, id, ch)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"source": src, "destination": dst})
}

// Verify reports whether the transfer containing :id is a consistent pair.
func (h *TransferHandler) Verify(c *gin.Context) {
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
	if err := h.Coord.Verify(c.Request.Context(), tenantID, id); err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"id": id, "ok": true})
}
