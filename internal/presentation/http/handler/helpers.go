package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/middleware"
	"github.com/unquiedeveloper/sg-store2/pkg/apperror"
)

// User visible notifications
const (
	MsgFetchFailed    = "Failed to fetch bill data. Please try again."
	MsgInvalidData    = "Invalid data received from server."
	MsgDeleted        = "bill deleted successfully"
	MsgDeleteFailed   = "Failed to delete bill. Please try again."
	MsgCreated        = "bill created successfully"
	MsgCreateFailed   = "Failed to create bill. Please try again."
	MsgPrinted        = "Receipt sent to printer"
	MsgPrintFailed    = "Failed to print receipt. Please try again."
	MsgNoPrinter      = "No receipt printer is configured"
	MsgReceiptFailed  = "Failed to generate receipt. Please try again."
	MsgBillNotFound   = "Bill not found"
	MsgRefreshSuccess = "Bill list refreshed"
)

// GetSessionID extracts the session ID from the Gin context
func GetSessionID(c *gin.Context) string {
	return middleware.GetSessionID(c)
}

// IsAdmin checks the verified role of the caller against adminRole.
func IsAdmin(c *gin.Context, adminRole string) bool {
	role := middleware.GetRole(c)
	return role != "" && role == adminRole
}

// fetchErrorMessage picks the notification for a failed list fetch.
func fetchErrorMessage(err error) string {
	if apperror.KindOf(err) == apperror.KindMalformed {
		return MsgInvalidData
	}
	return MsgFetchFailed
}

func isNotFound(err error) bool {
	return apperror.IsAppError(err) && apperror.GetAppError(err).Code == 404
}
