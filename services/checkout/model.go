package checkout

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CheckoutStateKey is the fixed key of the single checkout in progress: the
// storefront serves one shopper session per deployment.
const CheckoutStateKey = "checkout-state"

type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

func (s Step) isValid() bool {
	return s == StepShipping || s == StepPayment || s == StepReview
}

// rank orders the steps so that navigation can distinguish going back from
// jumping ahead
func (s Step) rank() int {
	switch s {
	case StepShipping:
		return 0
	case StepPayment:
		return 1
	case StepReview:
		return 2
	}
	return -1
}

const (
	PaymentMethodCard   = "card"
	PaymentMethodPaypal = "paypal"
	PaymentMethodBank   = "bank"
)

func isValidPaymentMethod(method string) bool {
	return method == PaymentMethodCard || method == PaymentMethodPaypal || method == PaymentMethodBank
}

type Address struct {
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	Email     string `form:"email"`
	Phone     string `form:"phone"`
	Street    string `form:"street"`
	City      string `form:"city"`
	State     string `form:"state"`
	Zip       string `form:"zip"`
	Country   string `form:"country"`
}

var (
	zipPattern   = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z -]{2,9}$`)
	phonePattern = regexp.MustCompile(`^[0-9+][0-9() -]{6,19}$`)
)

func (a Address) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", a.FirstName},
		{"lastName", a.LastName},
		{"email", a.Email},
		{"phone", a.Phone},
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zip", a.Zip},
		{"country", a.Country},
	}
	missing := []string{}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if !strings.Contains(a.Email, "@") {
		return fmt.Errorf("invalid email address %s", a.Email)
	}
	if !zipPattern.MatchString(a.Zip) {
		return fmt.Errorf("invalid zip code %s", a.Zip)
	}
	if !phonePattern.MatchString(a.Phone) {
		return fmt.Errorf("invalid phone number %s", a.Phone)
	}

	return nil
}

func (a Address) FullName() string {
	return a.FirstName + " " + a.LastName
}

type CheckoutState struct {
	UID                   string
	CurrentStep           Step
	Shipping              Address
	ShippingCompleted     bool
	Billing               Address
	BillingSameAsShipping bool
	PaymentMethod         string
	PlacementPending      bool
	CreatedAt             time.Time
	LastModified          time.Time
}

// ReadyForReview tells whether the review step may be entered
func (s CheckoutState) ReadyForReview() bool {
	return s.ShippingCompleted && s.PaymentMethod != ""
}
