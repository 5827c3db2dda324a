package catalog

import "fmt"

type Product struct {
	UID                  string
	Name                 string
	Description          string
	PriceInCents         int
	OriginalPriceInCents int // 0 means not discounted
	Category             string
	StockCount           int
	InStock              bool
}

func (p Product) HasDiscount() bool {
	return p.OriginalPriceInCents > p.PriceInCents
}

func (p Product) DisplayPrice() string {
	return formatCents(p.PriceInCents)
}

func (p Product) DisplayOriginalPrice() string {
	return formatCents(p.OriginalPriceInCents)
}

func formatCents(amountInCents int) string {
	return fmt.Sprintf("$%d.%02d", amountInCents/100, amountInCents%100)
}
