package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unquiedeveloper/sg-store2/internal/application/service"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/dto/request"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/dto/response"
	"github.com/unquiedeveloper/sg-store2/pkg/pagination"
)

// BillAPIHandler handles the JSON bill endpoints
type BillAPIHandler struct {
	bills           *service.BillListService
	receipts        *service.ReceiptService
	receiptFilename string
}

// NewBillAPIHandler creates a new bill API handler
func NewBillAPIHandler(bills *service.BillListService, receipts *service.ReceiptService, receiptFilename string) *BillAPIHandler {
	if receiptFilename == "" {
		receiptFilename = "bill.pdf"
	}
	return &BillAPIHandler{bills: bills, receipts: receipts, receiptFilename: receiptFilename}
}

// List returns one page of the session's bills
func (h *BillAPIHandler) List(c *gin.Context) {
	var req request.ListBillsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	sid := GetSessionID(c)

	v, err := h.bills.Mount(ctx, sid)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.Page > 0 {
		if v, err = h.bills.Show(ctx, sid, req.Page); err != nil {
			response.Error(c, err)
			return
		}
	}

	response.SuccessWithPagination(c, http.StatusOK, "Bills retrieved successfully",
		pagination.NewPaginatedResult(v.Bills, v.Pagination))
}

// Delete removes a bill through the backend
func (h *BillAPIHandler) Delete(c *gin.Context) {
	err := h.bills.Delete(c.Request.Context(), GetSessionID(c), c.Param("id"))
	if err != nil {
		var reloadErr *service.ReloadError
		if errors.As(err, &reloadErr) {
			response.PartialSuccess(c, "Bill deleted but the list could not be refreshed", reloadErr.Err)
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill deleted successfully", nil)
}

// Receipt returns the receipt of a bill as pdf (default), html or escpos.
func (h *BillAPIHandler) Receipt(c *gin.Context) {
	var req request.ReceiptRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	bill, err := h.bills.Find(c.Request.Context(), GetSessionID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	switch req.Format {
	case "html":
		fragment, err := h.receipts.HTML(bill)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
	case "escpos":
		c.Data(http.StatusOK, "application/octet-stream", h.receipts.ESCPOS(bill))
	default:
		data, err := h.receipts.PDF(bill)
		if err != nil {
			response.Error(c, err)
			return
		}
		writePDF(c, h.receiptFilename, data)
	}
}
