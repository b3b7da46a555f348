package service

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/unquiedeveloper/sg-store2/internal/domain/entity"
	"github.com/unquiedeveloper/sg-store2/pkg/printer"
	"github.com/unquiedeveloper/sg-store2/pkg/receipt"
)

// CreatedAtLayout formats bill timestamps on receipts.
const CreatedAtLayout = "02/01/2006, 3:04:05 pm"

// ReceiptSettings configures the receipts produced by ReceiptService.
type ReceiptSettings struct {
	Store       receipt.Store
	Page        receipt.PageSize
	Overflow    receipt.OverflowPolicy
	Location    *time.Location
	PrinterType string
	CharWidth   int
}

// ReceiptService builds receipts for bills and sends them to the printer.
type ReceiptService struct {
	settings ReceiptSettings
	printer  printer.Printer
	logger   *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(settings ReceiptSettings, p printer.Printer, logger *zap.Logger) *ReceiptService {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if p == nil {
		p = printer.NewNullPrinter()
	}
	return &ReceiptService{
		settings: settings,
		printer:  p,
		logger:   logger,
	}
}

// Document describes bill as a receipt. Absent address and phone stay
// blank; absent amounts read Rs. 0.
func (s *ReceiptService) Document(bill *entity.Bill) *receipt.Document {
	doc := receipt.NewDocument(s.settings.Store)
	doc.AddField("Customer Name", bill.CustomerName).
		AddField("Address", bill.Address).
		AddField("Phone Number", bill.PhoneNumber)
	doc.Fields = append(doc.Fields, receipt.Field{Label: "Transaction ID", Value: bill.ID, PreviewOnly: true})
	doc.AddField("Created At", s.FormatCreatedAt(bill.CreatedAt)).
		AddField("Total Amount", bill.FormattedTotal())

	for i := range bill.Products {
		p := &bill.Products[i]
		doc.AddRow(p.Name, strconv.Itoa(p.Quantity), p.FormattedPrice())
	}
	doc.Total = bill.FormattedTotal()
	return doc
}

// FormatCreatedAt renders t in the receipt time zone; the zero time is blank.
func (s *ReceiptService) FormatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(s.settings.Location).Format(CreatedAtLayout)
}

func (s *ReceiptService) options() receipt.Options {
	opts := receipt.DefaultOptions()
	if s.settings.Page.Width > 0 && s.settings.Page.Height > 0 {
		opts.Page = s.settings.Page
	}
	if s.settings.Overflow != "" {
		opts.Overflow = s.settings.Overflow
	}
	return opts
}

// Layout returns the paginated layout used for the PDF.
func (s *ReceiptService) Layout(bill *entity.Bill) *receipt.Layout {
	return receipt.Compose(s.Document(bill), s.options())
}

// PDF renders bill as a PDF document.
func (s *ReceiptService) PDF(bill *entity.Bill) ([]byte, error) {
	l := s.Layout(bill)
	if l.TableOverflowed {
		s.logger.Debug("receipt table continued on another page",
			zap.String("bill_id", bill.ID),
			zap.Int("pages", len(l.Pages)),
			zap.String("overflow", string(l.Options.Overflow)),
		)
	}

	data, err := receipt.DrawPDF(l)
	if err != nil {
		s.logger.Error("failed to render receipt PDF", zap.String("bill_id", bill.ID), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// HTML renders the on-screen preview of bill.
func (s *ReceiptService) HTML(bill *entity.Bill) (template.HTML, error) {
	return receipt.PreviewHTML(s.Document(bill))
}

// ESCPOS renders bill for the thermal printer.
func (s *ReceiptService) ESCPOS(bill *entity.Bill) []byte {
	return receipt.RenderESCPOS(s.Document(bill), s.settings.CharWidth)
}

// Print sends bill to the configured printer.
func (s *ReceiptService) Print(ctx context.Context, bill *entity.Bill) error {
	if err := s.printer.Print(ctx, s.ESCPOS(bill)); err != nil {
		s.logger.Warn("failed to print receipt", zap.String("bill_id", bill.ID), zap.Error(err))
		return fmt.Errorf("print failed: %w", err)
	}
	s.logger.Info("receipt printed", zap.String("bill_id", bill.ID), zap.String("printer", s.printer.Type()))
	return nil
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetPrinterStatus returns printer connection status.
func (s *ReceiptService) GetPrinterStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.settings.PrinterType != "none" && s.settings.PrinterType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Type(),
	}
}
