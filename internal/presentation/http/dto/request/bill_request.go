package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/unquiedeveloper/sg-store2/internal/domain/entity"
	"github.com/unquiedeveloper/sg-store2/pkg/apperror"
)

// ListBillsRequest represents the list page query
type ListBillsRequest struct {
	Page int `form:"page" binding:"omitempty"`
}

// ReceiptRequest selects the receipt representation
type ReceiptRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=pdf html escpos"`
}

// CreateBillRequest is the create form. Product fields are parallel
// arrays, one entry per form row.
type CreateBillRequest struct {
	CustomerName string   `form:"customerName"`
	Address      string   `form:"address"`
	PhoneNumber  string   `form:"phoneNumber"`
	TotalAmount  string   `form:"totalAmount"`
	ProductName  []string `form:"productname"`
	Quantity     []string `form:"quantity"`
	Price        []string `form:"price"`
}

// ToNewBill converts the form into a bill. Rows with every cell blank are
// skipped. Unparseable numbers are reported as field errors.
func (r *CreateBillRequest) ToNewBill() (*entity.NewBill, []apperror.FieldError) {
	var errs []apperror.FieldError
	bill := &entity.NewBill{
		CustomerName: strings.TrimSpace(r.CustomerName),
		Address:      strings.TrimSpace(r.Address),
		PhoneNumber:  strings.TrimSpace(r.PhoneNumber),
	}

	if s := strings.TrimSpace(r.TotalAmount); s != "" {
		total, err := decimal.NewFromString(s)
		if err != nil {
			errs = append(errs, apperror.FieldError{Field: "totalAmount", Message: "total must be a number"})
		}
		bill.TotalAmount = total
	}

	for i := range r.ProductName {
		name := strings.TrimSpace(r.ProductName[i])
		qtyText := strings.TrimSpace(at(r.Quantity, i))
		priceText := strings.TrimSpace(at(r.Price, i))
		if name == "" && qtyText == "" && priceText == "" {
			continue
		}

		idx := len(bill.Products)
		p := entity.NewProduct{Name: name}
		if qtyText != "" {
			qty, err := strconv.Atoi(qtyText)
			if err != nil {
				errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("products[%d].quantity", idx), Message: "quantity must be a whole number"})
			}
			p.Quantity = qty
		}
		if priceText != "" {
			price, err := decimal.NewFromString(priceText)
			if err != nil {
				errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("products[%d].price", idx), Message: "price must be a number"})
			}
			p.Price = price
		}
		bill.Products = append(bill.Products, p)
	}
	return bill, errs
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
