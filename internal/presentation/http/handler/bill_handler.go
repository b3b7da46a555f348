package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unquiedeveloper/sg-store2/internal/application/service"
	"github.com/unquiedeveloper/sg-store2/internal/domain/entity"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/dto/request"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/middleware"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/view"
	"github.com/unquiedeveloper/sg-store2/pkg/apperror"
)

const billsPath = "/bills"

// BillPageOptions configures the server rendered pages.
type BillPageOptions struct {
	StoreName       string
	AdminRole       string
	ReceiptFilename string
	// ProductRows is the number of product rows on the create form.
	ProductRows int
}

// BillHandler serves the bill list pages and the receipt downloads.
type BillHandler struct {
	bills    *service.BillListService
	receipts *service.ReceiptService
	opts     BillPageOptions
	logger   *zap.Logger
}

// NewBillHandler creates a new bill handler
func NewBillHandler(
	bills *service.BillListService,
	receipts *service.ReceiptService,
	opts BillPageOptions,
	logger *zap.Logger,
) *BillHandler {
	if opts.ReceiptFilename == "" {
		opts.ReceiptFilename = "bill.pdf"
	}
	if opts.ProductRows < 1 {
		opts.ProductRows = 3
	}
	return &BillHandler{
		bills:    bills,
		receipts: receipts,
		opts:     opts,
		logger:   logger,
	}
}

type billsPage struct {
	Title       string
	StoreName   string
	Flashes     []middleware.Flash
	View        *service.BillListView
	IsAdmin     bool
	ProductRows []int
}

type previewPage struct {
	Title             string
	StoreName         string
	Flashes           []middleware.Flash
	BillID            string
	Receipt           template.HTML
	PrinterConfigured bool
}

func (h *BillHandler) render(c *gin.Context, v *service.BillListView) {
	c.HTML(http.StatusOK, view.BillsPage, billsPage{
		Title:       "Bills",
		StoreName:   h.opts.StoreName,
		Flashes:     middleware.Flashes(c),
		View:        v,
		IsAdmin:     IsAdmin(c, h.opts.AdminRole),
		ProductRows: make([]int, h.opts.ProductRows),
	})
}

func (h *BillHandler) redirectToList(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, billsPath)
}

// fail logs err and falls back to the list page with an error notification.
func (h *BillHandler) fail(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
	middleware.AddFlash(c, middleware.FlashError, msg)
	h.redirectToList(c)
}

// List renders the bill list. The first render of a session fetches the
// bills; ?page=N moves to page N.
func (h *BillHandler) List(c *gin.Context) {
	var req request.ListBillsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.AddFlash(c, middleware.FlashError, "Invalid page number")
	}

	ctx := c.Request.Context()
	sid := GetSessionID(c)

	v, err := h.bills.Mount(ctx, sid)
	if err != nil {
		if v == nil {
			h.logger.Error("failed to load view state", zap.String("session_id", sid), zap.Error(err))
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}
		middleware.AddFlash(c, middleware.FlashError, fetchErrorMessage(err))
	}

	if req.Page > 0 {
		if v, err = h.bills.Show(ctx, sid, req.Page); err != nil {
			h.logger.Error("failed to change page", zap.String("session_id", sid), zap.Error(err))
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	h.render(c, v)
}

// Refresh fetches the bill list again.
func (h *BillHandler) Refresh(c *gin.Context) {
	if err := h.bills.Load(c.Request.Context(), GetSessionID(c)); err != nil {
		middleware.AddFlash(c, middleware.FlashError, fetchErrorMessage(err))
	} else {
		middleware.AddFlash(c, middleware.FlashSuccess, MsgRefreshSuccess)
	}
	h.redirectToList(c)
}

// Create submits the create form to the backend.
func (h *BillHandler) Create(c *gin.Context) {
	var req request.CreateBillRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.AddFlash(c, middleware.FlashError, "Invalid request: "+err.Error())
		h.redirectToList(c)
		return
	}

	bill, fieldErrors := req.ToNewBill()
	if len(fieldErrors) > 0 {
		h.flashFieldErrors(c, fieldErrors)
		h.redirectToList(c)
		return
	}

	err := h.bills.Create(c.Request.Context(), GetSessionID(c), bill)
	var reloadErr *service.ReloadError
	switch {
	case err == nil:
		middleware.AddFlash(c, middleware.FlashSuccess, MsgCreated)
	case errors.As(err, &reloadErr):
		middleware.AddFlash(c, middleware.FlashSuccess, MsgCreated)
		middleware.AddFlash(c, middleware.FlashError, fetchErrorMessage(err))
	case apperror.GetAppError(err).Code == http.StatusUnprocessableEntity:
		h.flashFieldErrors(c, apperror.GetAppError(err).Errors)
	default:
		middleware.AddFlash(c, middleware.FlashError, MsgCreateFailed)
	}
	h.redirectToList(c)
}

func (h *BillHandler) flashFieldErrors(c *gin.Context, errs []apperror.FieldError) {
	for _, fe := range errs {
		middleware.AddFlash(c, middleware.FlashError, fe.Message)
	}
}

// Delete removes a bill. The route is restricted to the admin role.
func (h *BillHandler) Delete(c *gin.Context) {
	err := h.bills.Delete(c.Request.Context(), GetSessionID(c), c.Param("id"))
	var reloadErr *service.ReloadError
	switch {
	case err == nil:
		middleware.AddFlash(c, middleware.FlashSuccess, MsgDeleted)
	case errors.As(err, &reloadErr):
		middleware.AddFlash(c, middleware.FlashSuccess, MsgDeleted)
		middleware.AddFlash(c, middleware.FlashError, fetchErrorMessage(err))
	default:
		middleware.AddFlash(c, middleware.FlashError, MsgDeleteFailed)
	}
	h.redirectToList(c)
}

// ViewBill renders the list with the detail overlay open on one bill.
func (h *BillHandler) ViewBill(c *gin.Context) {
	ctx := c.Request.Context()
	sid := GetSessionID(c)

	if _, err := h.bills.Mount(ctx, sid); err != nil {
		middleware.AddFlash(c, middleware.FlashError, fetchErrorMessage(err))
		h.redirectToList(c)
		return
	}

	v, err := h.bills.View(ctx, sid, c.Param("id"))
	if err != nil {
		if isNotFound(err) {
			middleware.AddFlash(c, middleware.FlashError, MsgBillNotFound)
			h.redirectToList(c)
			return
		}
		h.fail(c, MsgFetchFailed, err)
		return
	}
	h.render(c, v)
}

// CloseModal hides the detail overlay.
func (h *BillHandler) CloseModal(c *gin.Context) {
	if _, err := h.bills.Close(c.Request.Context(), GetSessionID(c)); err != nil {
		h.logger.Error("failed to close bill details", zap.Error(err))
	}
	h.redirectToList(c)
}

// findBill looks a bill up for the receipt routes, redirecting to the list
// when it cannot be found.
func (h *BillHandler) findBill(c *gin.Context) (*entity.Bill, bool) {
	bill, err := h.bills.Find(c.Request.Context(), GetSessionID(c), c.Param("id"))
	if err != nil {
		switch {
		case isNotFound(err):
			middleware.AddFlash(c, middleware.FlashError, MsgBillNotFound)
		default:
			middleware.AddFlash(c, middleware.FlashError, fetchErrorMessage(err))
		}
		h.redirectToList(c)
		return nil, false
	}
	return bill, true
}

// ReceiptPDF downloads the receipt of a bill.
func (h *BillHandler) ReceiptPDF(c *gin.Context) {
	bill, ok := h.findBill(c)
	if !ok {
		return
	}

	data, err := h.receipts.PDF(bill)
	if err != nil {
		h.fail(c, MsgReceiptFailed, err)
		return
	}
	writePDF(c, h.opts.ReceiptFilename, data)
}

// Preview renders the on-screen receipt of a bill.
func (h *BillHandler) Preview(c *gin.Context) {
	bill, ok := h.findBill(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	fragment, err := h.receipts.HTML(bill)
	if err != nil {
		h.fail(c, MsgReceiptFailed, err)
		return
	}

	c.HTML(http.StatusOK, view.PreviewPage, previewPage{
		Title:             "Bill Preview",
		StoreName:         h.opts.StoreName,
		Flashes:           middleware.Flashes(c),
		BillID:            bill.ID,
		Receipt:           fragment,
		PrinterConfigured: h.receipts.GetPrinterStatus(ctx).Configured,
	})
}

// Print sends the receipt of a bill to the thermal printer.
func (h *BillHandler) Print(c *gin.Context) {
	bill, ok := h.findBill(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	switch {
	case !h.receipts.GetPrinterStatus(ctx).Configured:
		middleware.AddFlash(c, middleware.FlashError, MsgNoPrinter)
	case h.receipts.Print(ctx, bill) != nil:
		middleware.AddFlash(c, middleware.FlashError, MsgPrintFailed)
	default:
		middleware.AddFlash(c, middleware.FlashSuccess, MsgPrinted)
	}
	c.Redirect(http.StatusSeeOther, billsPath+"/"+bill.ID+"/preview")
}

func writePDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
