package pricing

import "fmt"

// All amounts are in cents.
const (
	freeShippingThresholdInCents = 5000
	shippingSurchargeInCents     = 999
	taxRateInPercent             = 8
)

type Amounts struct {
	SubtotalInCents   int
	ShippingInCents   int
	TaxInCents        int
	GrandTotalInCents int
}

// Calculate is the single pricing rule of the storefront: every surface that
// displays shipping, tax or a grand total must go through this function.
func Calculate(subtotalInCents int) Amounts {
	shipping := shippingSurchargeInCents
	if subtotalInCents > freeShippingThresholdInCents {
		shipping = 0
	}

	// round half up
	tax := (subtotalInCents*taxRateInPercent + 50) / 100

	return Amounts{
		SubtotalInCents:   subtotalInCents,
		ShippingInCents:   shipping,
		TaxInCents:        tax,
		GrandTotalInCents: subtotalInCents + shipping + tax,
	}
}

func (a Amounts) DisplaySubtotal() string {
	return formatCents(a.SubtotalInCents)
}

func (a Amounts) DisplayShipping() string {
	if a.ShippingInCents == 0 {
		return "Free"
	}
	return formatCents(a.ShippingInCents)
}

func (a Amounts) DisplayTax() string {
	return formatCents(a.TaxInCents)
}

func (a Amounts) DisplayGrandTotal() string {
	return formatCents(a.GrandTotalInCents)
}

func formatCents(amountInCents int) string {
	return fmt.Sprintf("$%d.%02d", amountInCents/100, amountInCents%100)
}
