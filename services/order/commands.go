package order

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/myqueue"
	"github.com/MarcGrol/storefront/services/cart"
	"github.com/MarcGrol/storefront/services/checkout"
	"github.com/MarcGrol/storefront/services/checkout/checkoutevents"
	"github.com/MarcGrol/storefront/services/order/orderevents"
	"github.com/MarcGrol/storefront/services/paypalgateway"
)

// paymentDeadline bounds the entire payment interaction of a single order
// placement, including both gateway calls of the paypal flow
const paymentDeadline = 15 * time.Second

// placeOrder turns the reviewed checkout into an order. On payment failure
// the cart and the checkout are left untouched so that the shopper can retry.
func (s *service) placeOrder(c context.Context) (string, error) {
	s.logger.Log(c, checkout.CheckoutStateKey, mylog.SeverityInfo, "Place order")

	state, currentCart, err := s.markPlacementPending(c)
	if err != nil {
		return "", err
	}

	paymentCtx, cancel := context.WithTimeout(c, paymentDeadline)
	defer cancel()

	paymentOrderID, err := s.processPayment(paymentCtx, state, currentCart)
	if err != nil {
		s.abandonPlacement(c, state, err)
		return "", err
	}

	orderUID, err := s.finalizePlacement(c, state, currentCart, paymentOrderID)
	if err != nil {
		return "", err
	}

	s.metrics.OrdersPlaced.WithLabelValues(state.PaymentMethod).Inc()

	return orderUID, nil
}

// markPlacementPending guards against double submission: a second placement
// is rejected until the first one has finished
func (s *service) markPlacementPending(c context.Context) (checkout.CheckoutState, cart.Cart, error) {
	state := checkout.CheckoutState{}
	currentCart := cart.Cart{}

	err := s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		state, found, err = s.checkoutStore.Get(c, checkout.CheckoutStateKey)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("no checkout in progress"))
		}
		if state.PlacementPending {
			return myerrors.NewInvalidInputErrorf("order placement already in progress")
		}
		if state.CurrentStep != checkout.StepReview || !state.ReadyForReview() {
			return myerrors.NewInvalidInputErrorf("checkout is not ready to be placed")
		}

		currentCart, _, err = s.cartStore.Get(c, cart.CartStorageKey)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if currentCart.IsEmpty() {
			return myerrors.NewInvalidInputErrorf("cannot place an order with an empty cart")
		}

		state.PlacementPending = true
		state.LastModified = s.nower.Now()

		return s.checkoutStore.Put(c, checkout.CheckoutStateKey, state)
	})
	if err != nil {
		return checkout.CheckoutState{}, cart.Cart{}, err
	}

	return state, currentCart, nil
}

func (s *service) processPayment(c context.Context, state checkout.CheckoutState, currentCart cart.Cart) (string, error) {
	if state.PaymentMethod == checkout.PaymentMethodPaypal {
		return s.processPaypalPayment(c, currentCart)
	}

	// card and bank payments are processed directly: simulated with a delay
	select {
	case <-time.After(s.processingDelay):
		return "", nil
	case <-c.Done():
		return "", myerrors.NewUnavailableError(fmt.Errorf("payment processing interrupted: %s", c.Err()))
	}
}

func (s *service) processPaypalPayment(c context.Context, currentCart cart.Cart) (string, error) {
	items := make([]paypalgateway.OrderItem, 0, len(currentCart.Items))
	for _, line := range currentCart.Items {
		items = append(items, paypalgateway.OrderItem{
			Name:        line.Product.Name,
			Description: line.Product.Description,
			UnitPrice:   line.Product.PriceInCents,
			Quantity:    line.Quantity,
		})
	}

	// the payment platform expects the item-sum: shipping and tax are not line items
	paymentOrderID, err := s.payer.CreateOrder(c, items, currentCart.SubtotalInCents())
	if err != nil {
		s.metrics.GatewayFailures.WithLabelValues("create").Inc()
		return "", err
	}

	result, err := s.payer.CaptureOrder(c, paymentOrderID)
	if err != nil {
		s.metrics.GatewayFailures.WithLabelValues("capture").Inc()
		return "", err
	}
	if !result.IsCompleted() {
		s.metrics.GatewayFailures.WithLabelValues("capture").Inc()
		return "", myerrors.NewUnavailableError(fmt.Errorf("payment-order %s was not completed: status %s", paymentOrderID, result.Status))
	}

	return paymentOrderID, nil
}

// abandonPlacement unblocks the checkout after a failed payment
func (s *service) abandonPlacement(c context.Context, state checkout.CheckoutState, cause error) {
	s.logger.Log(c, state.UID, mylog.SeverityWarn, "Abandon order placement: %s", cause)

	err := s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		state, found, err := s.checkoutStore.Get(c, checkout.CheckoutStateKey)
		if err != nil || !found {
			return err
		}

		state.PlacementPending = false
		state.LastModified = s.nower.Now()

		err = s.checkoutStore.Put(c, checkout.CheckoutStateKey, state)
		if err != nil {
			return err
		}

		return s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			CheckoutUID:   state.UID,
			PaymentMethod: state.PaymentMethod,
			Success:       false,
		})
	})
	if err != nil {
		s.logger.Log(c, state.UID, mylog.SeverityError, "Error abandoning order placement: %s", err)
	}
}

// finalizePlacement stores the order, empties the cart and finishes the
// checkout in a single transaction
func (s *service) finalizePlacement(c context.Context, state checkout.CheckoutState, currentCart cart.Cart, paymentOrderID string) (string, error) {
	orderUID := s.uuider.Create()
	now := s.nower.Now()

	newOrder := Order{
		UID:            orderUID,
		Number:         newOrderNumber(paymentOrderID, now),
		CreatedAt:      now,
		Status:         StatusProcessing,
		Lines:          currentCart.Items,
		Amounts:        currentCart.Amounts(),
		Shipping:       state.Shipping,
		Billing:        state.Billing,
		PaymentMethod:  state.PaymentMethod,
		PaymentOrderID: paymentOrderID,
	}

	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		err := s.orderStore.Put(c, orderUID, newOrder)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.cartStore.Delete(c, cart.CartStorageKey)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.checkoutStore.Delete(c, checkout.CheckoutStateKey)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			CheckoutUID:   state.UID,
			PaymentMethod: state.PaymentMethod,
			Success:       true,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		lines := make([]orderevents.OrderLine, 0, len(newOrder.Lines))
		for _, line := range newOrder.Lines {
			lines = append(lines, orderevents.OrderLine{
				ProductUID: line.Product.UID,
				Quantity:   line.Quantity,
			})
		}

		return s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderPlaced{
			OrderUID:      orderUID,
			AmountInCents: newOrder.Amounts.GrandTotalInCents,
			PaymentMethod: newOrder.PaymentMethod,
			Lines:         lines,
		})
	})
	if err != nil {
		return "", err
	}

	// confirmation is delivered asynchronously
	err = s.queuer.Enqueue(c, myqueue.Task{
		UID:            "order-confirm-" + orderUID,
		WebhookURLPath: "/api/order/" + orderUID + "/confirmed",
	})
	if err != nil {
		s.logger.Log(c, orderUID, mylog.SeverityError, "Error enqueuing confirmation of order %s: %s", orderUID, err)
	}

	return orderUID, nil
}

func (s *service) getOrder(c context.Context, orderUID string) (Order, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Fetch details of order %s", orderUID)

	order, found, err := s.orderStore.Get(c, orderUID)
	if err != nil {
		return Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
	}

	return order, nil
}

func (s *service) listOrders(c context.Context) ([]Order, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all orders")

	orders, err := s.orderStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

// confirmOrder is triggered over the task-queue and must be idempotent
// because delivery is at-least-once
func (s *service) confirmOrder(c context.Context, orderUID string) error {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Confirm order %s", orderUID)

	return s.orderStore.RunInTransaction(c, func(c context.Context) error {
		order, found, err := s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
		}
		if order.Status == StatusConfirmed {
			return nil
		}

		order.Status = StatusConfirmed

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
}
