package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBillRequest_ToNewBill(t *testing.T) {
	r := &CreateBillRequest{
		CustomerName: " A ",
		ProductName:  []string{"X", "", "Y"},
		Quantity:     []string{"2", "", "1"},
		Price:        []string{"5", "", "4.50"},
	}

	bill, errs := r.ToNewBill()
	assert.Empty(t, errs)
	assert.Equal(t, "A", bill.CustomerName)
	require.Len(t, bill.Products, 2)
	assert.Equal(t, "Y", bill.Products[1].Name)
	assert.Equal(t, "4.5", bill.Products[1].Price.String())
	assert.True(t, bill.TotalAmount.IsZero())
}

func TestCreateBillRequest_BadNumbers(t *testing.T) {
	r := &CreateBillRequest{
		CustomerName: "A",
		TotalAmount:  "ten",
		ProductName:  []string{"X"},
		Quantity:     []string{"two"},
		Price:        []string{"5$"},
	}

	_, errs := r.ToNewBill()
	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"totalAmount", "products[0].quantity", "products[0].price"}, fields)
}
