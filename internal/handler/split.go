package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/middleware"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/split"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
)

type SplitHandler struct {
	Builder *split.Builder
	Log     *zap.Logger
}

func NewSplitHandler(b *split.Builder, log *zap.Logger) *SplitHandler {
	return &SplitHandler{Builder: b, Log: log}
}

type splitLineReq struct {
	Amount     string   `json:"amount" binding:"required"`
	CategoryID *uint    `json:"category_id"`
	Name       string   `json:"name" binding:"max=128"`
	Notes      string   `json:"notes"`
	Tags       []string `json:"tags"`
}

// commitSplitReq is a finished draft. GroupID and Supersedes come from a
// draft loaded with GET /splits/:id/draft.
type commitSplitReq struct {
	AccountID   uint           `json:"account_id" binding:"required"`
	Date        string         `json:"date" binding:"required"`
	Total       string         `json:"total" binding:"required"`
	Type        string         `json:"type"`
	Payee       string         `json:"payee" binding:"max=128"`
	Description string         `json:"description" binding:"max=255"`
	GroupName   string         `json:"group_name" binding:"max=128"`
	GroupIcon   string         `json:"group_icon" binding:"max=32"`
	GroupID     string         `json:"group_id" binding:"omitempty,uuid"`
	Supersedes  []uint         `json:"supersedes"`
	Lines       []splitLineReq `json:"lines" binding:"required,min=1,dive"`
}

type draftLineResp struct {
	ID         int      `json:"id"`
	Amount     string   `json:"amount"`
	AmountCent int64    `json:"amount_cent"`
	Mode       string   `json:"mode"`
	CategoryID *uint    `json:"category_id"`
	Name       string   `json:"name"`
	Notes      string   `json:"notes"`
	Tags       []string `json:"tags"`
}

func (h *SplitHandler) Commit(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	var req commitSplitReq
	if err := bind(c, &req); err != nil {
		fail(c, h.Log, err)
		return
	}
	d, err := req.draft(tenantID)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	d.CreatedBy = middleware.Subject(c)

	txs, err := h.Builder.Commit(c.Request.Context(), d)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"group_id": d.GroupID, "transactions": txs})
}

func (r commitSplitReq) draft(tenantID string) (*split.DraftSplitGroup, error) {
	total, err := util.ParseAmount("total", r.Total)
	if err != nil {
		return nil, err
	}
	date, err := util.ParseDate("date", r.Date)
	if err != nil {
		return nil, err
	}
	t, err := parseType(r.Type)
	if err != nil {
		return nil, err
	}

	lines := make([]split.Line, 0, len(r.Lines))
	for i, l := range r.Lines {
		cents, err := util.ParseAmount("amount", l.Amount)
		if err != nil {
			return nil, apperr.Validation("lines", "line %d: %q is not a valid amount", i+1, l.Amount)
		}
		lines = append(lines, split.Line{
			AmountCent: cents,
			CategoryID: l.CategoryID,
			Name:       l.Name,
			Notes:      l.Notes,
			Tags:       l.Tags,
		})
	}

	d := split.DraftFromLines(tenantID, r.AccountID, date, total, lines)
	d.Type = t
	d.Payee, d.Description = r.Payee, r.Description
	d.GroupName, d.GroupIcon, d.GroupID = r.GroupName, r.GroupIcon, r.GroupID
	d.Supersedes = r.Supersedes
	return d, nil
}

// Draft returns an edit-mode draft of transaction :id or of the group it
// belongs to.
func (h *SplitHandler) Draft(c *gin.Context) {
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
	d, err := h.Builder.LoadDraft(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, h.Log, err)
		return
	}

	lines := make([]draftLineResp, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, draftLineResp{
			ID:         l.ID,
			Amount:     amountString(l.AmountCent),
			AmountCent: l.AmountCent,
			Mode:       l.Mode.String(),
			CategoryID: l.CategoryID,
			Name:       l.Name,
			Notes:      l.Notes,
			Tags:       l.Tags,
		})
	}
	util.Success(c, util.Response{"draft": gin.H{
		"account_id":  d.AccountID,
		"date":        d.Date,
		"type":        string(d.Type),
		"payee":       d.Payee,
		"description": d.Description,
		"group_id":    d.GroupID,
		"group_name":  d.GroupName,
		"group_icon":  d.GroupIcon,
		"total":       amountString(d.Total),
		"total_cent":  d.Total,
		"mode":        d.Mode.String(),
		"remainder":   amountString(d.Remainder()),
		"supersedes":  d.Supersedes,
		"lines":       lines,
	}})
}
