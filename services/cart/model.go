package cart

import (
	"time"

	"github.com/MarcGrol/storefront/services/catalog"
	"github.com/MarcGrol/storefront/services/pricing"
)

// CartStorageKey is the fixed key of the single cart: the storefront serves
// one shopper session per deployment.
const CartStorageKey = "cart-storage"

type LineItem struct {
	Product  catalog.Product
	Quantity int
}

func (li LineItem) LineTotalInCents() int {
	return li.Product.PriceInCents * li.Quantity
}

func (li LineItem) DisplayLineTotal() string {
	return pricing.Amounts{SubtotalInCents: li.LineTotalInCents()}.DisplaySubtotal()
}

type Cart struct {
	UID          string
	Items        []LineItem
	LastModified time.Time
}

func (cart Cart) IsEmpty() bool {
	return len(cart.Items) == 0
}

func (cart Cart) ItemCount() int {
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	return count
}

func (cart Cart) SubtotalInCents() int {
	subtotal := 0
	for _, item := range cart.Items {
		subtotal += item.LineTotalInCents()
	}
	return subtotal
}

// SavingsInCents is the sum of discounts over all items in the cart
func (cart Cart) SavingsInCents() int {
	savings := 0
	for _, item := range cart.Items {
		if item.Product.HasDiscount() {
			savings += (item.Product.OriginalPriceInCents - item.Product.PriceInCents) * item.Quantity
		}
	}
	return savings
}

func (cart Cart) Amounts() pricing.Amounts {
	return pricing.Calculate(cart.SubtotalInCents())
}

func (cart Cart) DisplaySavings() string {
	return pricing.Amounts{SubtotalInCents: cart.SavingsInCents()}.DisplaySubtotal()
}
