package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
)

// Response is the data payload of a successful call.
type Response map[string]interface{}

// Business error codes carried next to the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeInvariant    = 42201
	CodeServerErr    = 50001
)

// Success writes {"code":0,"data":...}.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes {"code":...,"message":...} with the given status.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Fail maps a ledger error to its status and code. Unknown errors are
// reported as a generic server error; the caller logs the detail.
func Fail(c *gin.Context, err error) {
	var (
		validation *apperr.ValidationError
		notFound   *apperr.NotFoundError
		invariant  *apperr.InvariantViolationError
		conflict   *apperr.ConcurrencyError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    CodeInvalidParam,
			"message": validation.Message,
			"field":   validation.Field,
		})
	case errors.As(err, &notFound):
		Error(c, http.StatusNotFound, CodeNotFound, notFound.Error())
	case errors.As(err, &invariant):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":      CodeInvariant,
			"message":   invariant.Message,
			"invariant": invariant.Invariant,
		})
	case errors.As(err, &conflict):
		Error(c, http.StatusConflict, CodeConflict, "the ledger is busy, retry the request")
	default:
		Error(c, http.StatusInternalServerError, CodeServerErr, "internal error")
	}
}
