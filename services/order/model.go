package order

import (
	"fmt"
	"time"

	"github.com/MarcGrol/storefront/services/cart"
	"github.com/MarcGrol/storefront/services/checkout"
	"github.com/MarcGrol/storefront/services/pricing"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusConfirmed  Status = "confirmed"
	StatusFailed     Status = "failed"
)

type Order struct {
	UID            string
	Number         string
	CreatedAt      time.Time
	Status         Status
	Lines          []cart.LineItem
	Amounts        pricing.Amounts
	Shipping       checkout.Address
	Billing        checkout.Address
	PaymentMethod  string
	PaymentOrderID string
}

// newOrderNumber prefers the uid assigned by the payment platform as the
// human-facing order number. Direct payment methods have no such uid: those
// get a timestamp-based fallback.
func newOrderNumber(paymentOrderID string, now time.Time) string {
	if paymentOrderID != "" {
		return paymentOrderID
	}

	return "ORD-" + lastN(fmt.Sprintf("%d", now.UnixMilli()), 6)
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
