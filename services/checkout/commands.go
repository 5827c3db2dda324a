package checkout

import (
	"context"
	"fmt"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/services/cart"
	"github.com/MarcGrol/storefront/services/checkout/checkoutevents"
)

// startCheckout loads the checkout in progress or starts a fresh one at the
// shipping step. An empty cart cannot be checked out.
func (s *service) startCheckout(c context.Context) (CheckoutState, cart.Cart, error) {
	s.logger.Log(c, CheckoutStateKey, mylog.SeverityInfo, "Start or resume checkout")

	currentCart, _, err := s.cartStore.Get(c, cart.CartStorageKey)
	if err != nil {
		return CheckoutState{}, cart.Cart{}, myerrors.NewInternalError(err)
	}
	if currentCart.IsEmpty() {
		return CheckoutState{}, currentCart, nil
	}

	state := CheckoutState{}
	err = s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		existing, found, err := s.checkoutStore.Get(c, CheckoutStateKey)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if found {
			state = existing
			return nil
		}

		now := s.nower.Now()
		state = CheckoutState{
			UID:          CheckoutStateKey,
			CurrentStep:  StepShipping,
			CreatedAt:    now,
			LastModified: now,
		}

		err = s.checkoutStore.Put(c, CheckoutStateKey, state)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			CheckoutUID:   state.UID,
			AmountInCents: currentCart.Amounts().GrandTotalInCents,
		})
	})
	if err != nil {
		return CheckoutState{}, cart.Cart{}, err
	}

	return state, currentCart, nil
}

func (s *service) submitShipping(c context.Context, address Address) error {
	s.logger.Log(c, CheckoutStateKey, mylog.SeverityInfo, "Submit shipping address")

	err := address.Validate()
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("invalid shipping address: %s", err))
	}

	return s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		state, found, err := s.checkoutStore.Get(c, CheckoutStateKey)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("no checkout in progress"))
		}

		state.Shipping = address
		state.ShippingCompleted = true
		if state.BillingSameAsShipping {
			// keep billing in sync when shipping is edited afterwards
			state.Billing = address
		}
		state.CurrentStep = StepPayment
		state.LastModified = s.nower.Now()

		return s.store(c, state)
	})
}

func (s *service) submitPayment(c context.Context, method string, billingSameAsShipping bool, billing Address) error {
	s.logger.Log(c, CheckoutStateKey, mylog.SeverityInfo, "Submit payment method %s", method)

	if !isValidPaymentMethod(method) {
		return myerrors.NewInvalidInputErrorf("unknown payment method %s", method)
	}

	return s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		state, found, err := s.checkoutStore.Get(c, CheckoutStateKey)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("no checkout in progress"))
		}
		if !state.ShippingCompleted {
			return myerrors.NewInvalidInputErrorf("shipping step must be completed before payment")
		}

		if billingSameAsShipping {
			billing = state.Shipping
		} else {
			err = billing.Validate()
			if err != nil {
				return myerrors.NewInvalidInputError(fmt.Errorf("invalid billing address: %s", err))
			}
		}

		state.PaymentMethod = method
		state.BillingSameAsShipping = billingSameAsShipping
		state.Billing = billing
		state.CurrentStep = StepReview
		state.LastModified = s.nower.Now()

		return s.store(c, state)
	})
}

// backTo navigates to an earlier step. Jumping ahead is not allowed: later
// steps are only reachable by submitting the step before them.
func (s *service) backTo(c context.Context, step Step) error {
	s.logger.Log(c, CheckoutStateKey, mylog.SeverityInfo, "Navigate back to step %s", step)

	if !step.isValid() {
		return myerrors.NewInvalidInputErrorf("unknown checkout step %s", step)
	}

	return s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		state, found, err := s.checkoutStore.Get(c, CheckoutStateKey)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("no checkout in progress"))
		}
		if step.rank() >= state.CurrentStep.rank() {
			return myerrors.NewInvalidInputErrorf("cannot jump ahead from step %s to step %s", state.CurrentStep, step)
		}

		state.CurrentStep = step
		state.LastModified = s.nower.Now()

		return s.store(c, state)
	})
}

func (s *service) store(c context.Context, state CheckoutState) error {
	err := s.checkoutStore.Put(c, CheckoutStateKey, state)
	if err != nil {
		return myerrors.NewInternalError(err)
	}
	return nil
}
