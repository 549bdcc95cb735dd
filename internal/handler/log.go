package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
)

// LogHandler lists the tenant's audit log.
type LogHandler struct {
	DB    *gorm.DB
	Store *store.Store
	Log   *zap.Logger
}

func NewLogHandler(db *gorm.DB, s *store.Store, log *zap.Logger) *LogHandler {
	return &LogHandler{DB: db, Store: s, Log: log}
}

type logResp struct {
	ID        uint      `json:"id"`
	RequestID string    `json:"request_id"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// ListLogs pages through the audit log, newest first. Supports start/end
// dates, ?method= and ?q= (path substring).
func (h *LogHandler) ListLogs(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	start, err := optionalDate(c, "start", false)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	end, err := optionalDate(c, "end", true)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	offset, limit, err := pagination(c, h.Store)
	if err != nil {
		fail(c, h.Log, err)
		return
	}

	base := h.DB.WithContext(c.Request.Context()).Model(&models.AuditLog{}).Where("tenant_id = ?", tenantID)
	if start != nil {
		base = base.Where("created_at >= ?", *start)
	}
	if end != nil {
		base = base.Where("created_at <= ?", *end)
	}
	if m := strings.ToUpper(strings.TrimSpace(c.Query("method"))); m != "" {
		base = base.Where("method = ?", m)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		base = base.Where(`path LIKE ? ESCAPE '\'`, store.LikePattern(q))
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		fail(c, h.Log, err)
		return
	}
	var logs []models.AuditLog
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		fail(c, h.Log, err)
		return
	}

	items := make([]logResp, 0, len(logs))
	for _, l := range logs {
		items = append(items, logResp{
			ID:        l.ID,
			RequestID: l.RequestID,
			Method:    l.Method,
			Path:      l.Path,
			Status:    l.Status,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}
	util.Success(c, util.Response{
		"items":  items,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}
