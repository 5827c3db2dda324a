package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	testCases := []struct {
		name             string
		subtotalInCents  int
		expectedShipping int
		expectedTax      int
		expectedGrand    int
	}{
		{
			name:             "Below free-shipping threshold",
			subtotalInCents:  4999,
			expectedShipping: 999,
			expectedTax:      400, // 399.92 rounds half up to 400
			expectedGrand:    6398,
		},
		{
			name:             "Just above free-shipping threshold",
			subtotalInCents:  5001,
			expectedShipping: 0,
			expectedTax:      400,
			expectedGrand:    5401,
		},
		{
			name:             "Exactly at threshold still pays shipping",
			subtotalInCents:  5000,
			expectedShipping: 999,
			expectedTax:      400,
			expectedGrand:    6399,
		},
		{
			name:             "Three items of 20.00",
			subtotalInCents:  6000,
			expectedShipping: 0,
			expectedTax:      480,
			expectedGrand:    6480,
		},
		{
			name:             "Empty cart",
			subtotalInCents:  0,
			expectedShipping: 999,
			expectedTax:      0,
			expectedGrand:    999,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amounts := Calculate(tc.subtotalInCents)
			assert.Equal(t, tc.subtotalInCents, amounts.SubtotalInCents)
			assert.Equal(t, tc.expectedShipping, amounts.ShippingInCents)
			assert.Equal(t, tc.expectedTax, amounts.TaxInCents)
			assert.Equal(t, tc.expectedGrand, amounts.GrandTotalInCents)
		})
	}
}

func TestDisplay(t *testing.T) {
	amounts := Calculate(4999)
	assert.Equal(t, "$49.99", amounts.DisplaySubtotal())
	assert.Equal(t, "$9.99", amounts.DisplayShipping())
	assert.Equal(t, "$4.00", amounts.DisplayTax())
	assert.Equal(t, "$63.98", amounts.DisplayGrandTotal())

	free := Calculate(5001)
	assert.Equal(t, "Free", free.DisplayShipping())
}
