package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/unquiedeveloper/sg-store2/internal/application/service"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	receiptService *service.ReceiptService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(receiptService *service.ReceiptService) *PrinterHandler {
	return &PrinterHandler{receiptService: receiptService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.receiptService.GetPrinterStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}
