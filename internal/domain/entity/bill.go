package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is printed in front of every amount shown to the user.
const CurrencyPrefix = "Rs. "

// Bill represents a completed sale as returned by the billing backend.
// Bills are read-only here; every change goes through the backend.
type Bill struct {
	ID           string              `json:"_id"`
	CustomerName string              `json:"customerName"`
	Address      string              `json:"address,omitempty"`
	PhoneNumber  string              `json:"phoneNumber,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	TotalAmount  decimal.NullDecimal `json:"totalAmount"`
	Products     []Product           `json:"products"`
}

// Product is one line item of a bill
type Product struct {
	Name     string              `json:"productname"`
	Quantity int                 `json:"quantity"`
	Price    decimal.NullDecimal `json:"price"`
}

// UnmarshalJSON accepts createdAt as an ISO timestamp, epoch
// milliseconds or null.
func (b *Bill) UnmarshalJSON(data []byte) error {
	type alias Bill
	aux := struct {
		*alias
		CreatedAt json.RawMessage `json:"createdAt"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := parseTimestamp(aux.CreatedAt)
	if err != nil {
		return fmt.Errorf("createdAt: %w", err)
	}
	b.CreatedAt = t
	return nil
}

// UnmarshalJSON accepts quantity as an integer, an integral float such as
// 2.0, a numeric string or null.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		*alias
		Quantity json.RawMessage `json:"quantity"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	q, err := parseQuantity(aux.Quantity)
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	p.Quantity = q
	return nil
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	if isBlank(raw) {
		return time.Time{}, nil
	}
	if raw[0] != '"' {
		ms, err := decimal.NewFromString(string(raw))
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms.IntPart()).UTC(), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

func parseQuantity(raw json.RawMessage) (int, error) {
	if isBlank(raw) {
		return 0, nil
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
	}
	q, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if !q.IsInteger() {
		return 0, fmt.Errorf("%s is not a whole number", q)
	}
	return int(q.IntPart()), nil
}

func isBlank(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// Total returns the bill total, zero when the backend did not send one.
func (b *Bill) Total() decimal.Decimal {
	if !b.TotalAmount.Valid {
		return decimal.Zero
	}
	return b.TotalAmount.Decimal
}

// FormattedTotal returns the total as "Rs. <amount>".
func (b *Bill) FormattedTotal() string {
	return FormatAmount(b.Total())
}

// UnitPrice returns the product price, zero when absent.
func (p *Product) UnitPrice() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

// FormattedPrice returns the price as "Rs. <amount>".
func (p *Product) FormattedPrice() string {
	return FormatAmount(p.UnitPrice())
}

// FormatAmount renders an amount with the currency prefix using the shortest
// decimal representation (10, 10.5, 0).
func FormatAmount(d decimal.Decimal) string {
	return CurrencyPrefix + d.String()
}

// NewBill is the payload sent to the backend when a bill is created.
type NewBill struct {
	CustomerName string          `json:"customerName"`
	Address      string          `json:"address,omitempty"`
	PhoneNumber  string          `json:"phoneNumber,omitempty"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Products     []NewProduct    `json:"products"`
}

// NewProduct is one line item of a NewBill
type NewProduct struct {
	Name     string          `json:"productname"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// LineTotal returns price x quantity.
func (p NewProduct) LineTotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// ComputeTotal sums price x quantity over all products.
func (b *NewBill) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Products {
		total = total.Add(p.LineTotal())
	}
	return total
}
