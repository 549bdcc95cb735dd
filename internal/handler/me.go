package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/middleware"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
)

// GetMe echoes the identity carried by the request token.
func GetMe(c *gin.Context) {
	util.Success(c, util.Response{
		"tenant_id":  middleware.TenantID(c),
		"subject":    middleware.Subject(c),
		"request_id": middleware.GetRequestID(c),
	})
}
