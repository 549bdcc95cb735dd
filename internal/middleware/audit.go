package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
)

// Audit records every mutating request of an authenticated tenant once
// the handler has run. Bodies are not stored.
func Audit(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		tenant := TenantID(c)
		if tenant == "" {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		entry := models.AuditLog{
			TenantID:  tenant,
			RequestID: GetRequestID(c),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
			log.Warn("write audit log", zap.String("request_id", entry.RequestID), zap.Error(err))
		}
	}
}
