package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBill_DecodeDefaultsMissingAmounts(t *testing.T) {
	raw := `{"_id":"b1","customerName":"A","products":[{"productname":"X","quantity":2}]}`

	var b Bill
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	assert.Equal(t, "Rs. 0", b.FormattedTotal())
	require.Len(t, b.Products, 1)
	assert.Equal(t, "Rs. 0", b.Products[0].FormattedPrice())
	assert.Equal(t, 2, b.Products[0].Quantity)
}

func TestBill_DecodeNullAmounts(t *testing.T) {
	raw := `{"_id":"b1","customerName":"A","totalAmount":null,"products":[{"productname":"X","quantity":1,"price":null}]}`

	var b Bill
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	assert.True(t, b.Total().IsZero())
	assert.True(t, b.Products[0].UnitPrice().IsZero())
}

func TestBill_DecodeAmounts(t *testing.T) {
	raw := `{"_id":"b1","customerName":"A","totalAmount":10,"createdAt":"2024-03-01T10:15:00.000Z",
		"products":[{"productname":"X","quantity":2,"price":5},{"productname":"Y","quantity":1,"price":"2.5"}]}`

	var b Bill
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	assert.Equal(t, "Rs. 10", b.FormattedTotal())
	assert.Equal(t, "Rs. 5", b.Products[0].FormattedPrice())
	assert.Equal(t, "Rs. 2.5", b.Products[1].FormattedPrice())
	assert.Equal(t, 2024, b.CreatedAt.Year())
}

func TestBill_DecodeLenientFields(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantQty int
		wantAt  time.Time
	}{
		{
			name:    "float quantity",
			raw:     `{"_id":"b1","createdAt":"2024-03-01T10:15:00.000Z","products":[{"productname":"X","quantity":2.0}]}`,
			wantQty: 2,
			wantAt:  time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC),
		},
		{
			name:    "string quantity",
			raw:     `{"_id":"b1","products":[{"productname":"X","quantity":" 3 "}]}`,
			wantQty: 3,
		},
		{
			name:    "epoch milliseconds",
			raw:     `{"_id":"b1","createdAt":1709288100000,"products":[{"productname":"X","quantity":null}]}`,
			wantQty: 0,
			wantAt:  time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC),
		},
		{
			name:    "empty createdAt",
			raw:     `{"_id":"b1","createdAt":"","products":[{"productname":"X","quantity":"1"}]}`,
			wantQty: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Bill
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &b))

			assert.Equal(t, "b1", b.ID)
			require.Len(t, b.Products, 1)
			assert.Equal(t, "X", b.Products[0].Name)
			assert.Equal(t, tt.wantQty, b.Products[0].Quantity)
			assert.True(t, tt.wantAt.Equal(b.CreatedAt), "got %v", b.CreatedAt)
		})
	}
}

func TestBill_DecodeRejectsFractionalQuantity(t *testing.T) {
	var b Bill
	err := json.Unmarshal([]byte(`{"_id":"b1","products":[{"productname":"X","quantity":2.5}]}`), &b)
	assert.Error(t, err)
}

func TestBill_StateRoundTripKeepsCreatedAt(t *testing.T) {
	at := time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC)
	data, err := json.Marshal(Bill{ID: "b1", CreatedAt: at, Products: []Product{{Name: "X", Quantity: 4}}})
	require.NoError(t, err)

	var b Bill
	require.NoError(t, json.Unmarshal(data, &b))
	assert.True(t, at.Equal(b.CreatedAt))
	assert.Equal(t, 4, b.Products[0].Quantity)
}

func TestNewBill_ComputeTotal(t *testing.T) {
	nb := NewBill{
		Products: []NewProduct{
			{Name: "X", Quantity: 2, Price: decimal.NewFromInt(5)},
			{Name: "Y", Quantity: 3, Price: decimal.RequireFromString("1.5")},
		},
	}

	assert.Equal(t, "14.5", nb.ComputeTotal().String())
}

func TestBillListState_FindBill(t *testing.T) {
	s := BillListState{Bills: []Bill{{ID: "a"}, {ID: "b", CustomerName: "B"}}}

	found := s.FindBill("b")
	require.NotNil(t, found)
	assert.Equal(t, "B", found.CustomerName)
	assert.Nil(t, s.FindBill("zzz"))
}
