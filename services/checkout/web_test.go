package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/services/cart"
	"github.com/MarcGrol/storefront/services/catalog"
	"github.com/MarcGrol/storefront/services/checkout/checkoutevents"
)

var (
	watch = catalog.Product{UID: "product_smart_watch", Name: "Smart Watch", PriceInCents: 19999, StockCount: 12, InStock: true}

	filledCart = cart.Cart{
		UID:   cart.CartStorageKey,
		Items: []cart.LineItem{{Product: watch, Quantity: 1}},
	}

	shippingAddress = Address{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "+1 555 123 4567",
		Street:    "1 Main Street",
		City:      "Springfield",
		State:     "CA",
		Zip:       "94105",
		Country:   "US",
	}
)

func TestCheckoutService(t *testing.T) {

	t.Run("Checkout with empty cart redirects to cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _ := setup(t, ctrl)

		// when
		response := get(t, router, "/checkout")

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/cart", response.Header().Get("Location"))
	})

	t.Run("Checkout starts at shipping step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, checkoutStore, cartStore, nower, publisher := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart.CartStorageKey, filledCart)
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			CheckoutUID:   CheckoutStateKey,
			AmountInCents: 21599, // 19999 + free shipping + 1600 tax
		}).Return(nil)

		// when
		response := get(t, router, "/checkout")

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "Step 1 of 3: Shipping")
		state, exists, _ := checkoutStore.Get(ctx, CheckoutStateKey)
		assert.True(t, exists)
		assert.Equal(t, StepShipping, state.CurrentStep)
	})

	t.Run("Submit shipping advances to payment step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, checkoutStore, cartStore, nower, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart.CartStorageKey, filledCart)
		checkoutStore.Put(ctx, CheckoutStateKey, CheckoutState{UID: CheckoutStateKey, CurrentStep: StepShipping})
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		response := postForm(t, router, "/checkout/shipping", url.Values{
			"firstName": {shippingAddress.FirstName},
			"lastName":  {shippingAddress.LastName},
			"email":     {shippingAddress.Email},
			"phone":     {shippingAddress.Phone},
			"street":    {shippingAddress.Street},
			"city":      {shippingAddress.City},
			"state":     {shippingAddress.State},
			"zip":       {shippingAddress.Zip},
			"country":   {shippingAddress.Country},
		})

		// then
		assert.Equal(t, 303, response.Code)
		state, _, _ := checkoutStore.Get(ctx, CheckoutStateKey)
		assert.Equal(t, StepPayment, state.CurrentStep)
		assert.True(t, state.ShippingCompleted)
		assert.Equal(t, shippingAddress, state.Shipping)

		// and the payment page is served next
		pageResponse := get(t, router, "/checkout")
		assert.Equal(t, 200, pageResponse.Code)
		assert.Contains(t, pageResponse.Body.String(), "Step 2 of 3: Payment")
	})

	t.Run("Submit incomplete shipping address fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, checkoutStore, cartStore, _, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart.CartStorageKey, filledCart)
		checkoutStore.Put(ctx, CheckoutStateKey, CheckoutState{UID: CheckoutStateKey, CurrentStep: StepShipping})

		// when
		response := postForm(t, router, "/checkout/shipping", url.Values{
			"firstName": {"Jane"},
		})

		// then
		assert.Equal(t, 400, response.Code)
		state, _, _ := checkoutStore.Get(ctx, CheckoutStateKey)
		assert.Equal(t, StepShipping, state.CurrentStep)
		assert.False(t, state.ShippingCompleted)
	})

	t.Run("Submit payment before shipping fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, checkoutStore, cartStore, _, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart.CartStorageKey, filledCart)
		checkoutStore.Put(ctx, CheckoutStateKey, CheckoutState{UID: CheckoutStateKey, CurrentStep: StepShipping})

		// when
		response := postForm(t, router, "/checkout/payment", url.Values{
			"method":                {"card"},
			"billingSameAsShipping": {"true"},
		})

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Submit payment with billing same as shipping", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, checkoutStore, cartStore, nower, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart.CartStorageKey, filledCart)
		checkoutStore.Put(ctx, CheckoutStateKey, CheckoutState{
			UID:               CheckoutStateKey,
			CurrentStep:       StepPayment,
			Shipping:          shippingAddress,
			ShippingCompleted: true,
		})
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		response := postForm(t, router, "/checkout/payment", url.Values{
			"method":                {"paypal"},
			"billingSameAsShipping": {"true"},
		})

		// then
		assert.Equal(t, 303, response.Code)
		state, _, _ := checkoutStore.Get(ctx, CheckoutStateKey)
		assert.Equal(t, StepReview, state.CurrentStep)
		assert.Equal(t, "paypal", state.PaymentMethod)
		assert.True(t, state.BillingSameAsShipping)
		assert.Equal(t, shippingAddress, state.Billing)

		// and the review page is served next
		pageResponse := get(t, router, "/checkout")
		assert.Equal(t, 200, pageResponse.Code)
		assert.Contains(t, pageResponse.Body.String(), "Step 3 of 3: Review your order")
		assert.Contains(t, pageResponse.Body.String(), "Jane Doe")
	})

	t.Run("Submit payment with separate billing address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, checkoutStore, cartStore, nower, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart.CartStorageKey, filledCart)
		checkoutStore.Put(ctx, CheckoutStateKey, CheckoutState{
			UID:               CheckoutStateKey,
			CurrentStep:       StepPayment,
			Shipping:          shippingAddress,
			ShippingCompleted: true,
		})
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		response := postForm(t, router, "/checkout/payment", url.Values{
			"method":            {"card"},
			"billing.firstName": {"John"},
			"billing.lastName":  {"Smith"},
			"billing.email":     {"john@example.com"},
			"billing.phone":     {"+1 555 987 6543"},
			"billing.street":    {"2 Side Street"},
			"billing.city":      {"Shelbyville"},
			"billing.state":     {"CA"},
			"billing.zip":       {"94110"},
			"billing.country":   {"US"},
		})

		// then
		assert.Equal(t, 303, response.Code)
		state, _, _ := checkoutStore.Get(ctx, CheckoutStateKey)
		assert.Equal(t, "card", state.PaymentMethod)
		assert.False(t, state.BillingSameAsShipping)
		assert.Equal(t, "John", state.Billing.FirstName)
		assert.Equal(t, "Shelbyville", state.Billing.City)
	})

	t.Run("Submit payment with incomplete billing address fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, checkoutStore, cartStore, _, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart.CartStorageKey, filledCart)
		checkoutStore.Put(ctx, CheckoutStateKey, CheckoutState{
			UID:               CheckoutStateKey,
			CurrentStep:       StepPayment,
			Shipping:          shippingAddress,
			ShippingCompleted: true,
		})

		// when
		response := postForm(t, router, "/checkout/payment", url.Values{
			"method":            {"card"},
			"billing.firstName": {"John"},
		})

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Review without shipping and payment method is a state error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, checkoutStore, cartStore, _, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart.CartStorageKey, filledCart)
		checkoutStore.Put(ctx, CheckoutStateKey, CheckoutState{UID: CheckoutStateKey, CurrentStep: StepReview})

		// when
		response := get(t, router, "/checkout")

		// then
		assert.Equal(t, 500, response.Code)
	})

	t.Run("Go back from review to shipping", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, checkoutStore, cartStore, nower, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart.CartStorageKey, filledCart)
		checkoutStore.Put(ctx, CheckoutStateKey, CheckoutState{
			UID:               CheckoutStateKey,
			CurrentStep:       StepReview,
			Shipping:          shippingAddress,
			ShippingCompleted: true,
			PaymentMethod:     "card",
		})
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		response := postForm(t, router, "/checkout/back/shipping", url.Values{})

		// then
		assert.Equal(t, 303, response.Code)
		state, _, _ := checkoutStore.Get(ctx, CheckoutStateKey)
		assert.Equal(t, StepShipping, state.CurrentStep)
		// earlier input is kept
		assert.True(t, state.ShippingCompleted)
		assert.Equal(t, "card", state.PaymentMethod)
	})

	t.Run("Jumping ahead is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, checkoutStore, cartStore, _, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart.CartStorageKey, filledCart)
		checkoutStore.Put(ctx, CheckoutStateKey, CheckoutState{UID: CheckoutStateKey, CurrentStep: StepPayment, ShippingCompleted: true, Shipping: shippingAddress})

		// when
		response := postForm(t, router, "/checkout/back/review", url.Values{})

		// then
		assert.Equal(t, 400, response.Code)
		state, _, _ := checkoutStore.Get(ctx, CheckoutStateKey)
		assert.Equal(t, StepPayment, state.CurrentStep)
	})
}

func get(t *testing.T, router *mux.Router, path string) *httptest.ResponseRecorder {
	request, err := http.NewRequest(http.MethodGet, path, nil)
	assert.NoError(t, err)
	request.Host = "localhost:8888"
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func postForm(t *testing.T, router *mux.Router, path string, values url.Values) *httptest.ResponseRecorder {
	request, err := http.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	assert.NoError(t, err)
	request.Host = "localhost:8888"
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[CheckoutState], mystore.Store[cart.Cart], *mytime.MockNower, *mypublisher.MockPublisher) {
	c := context.TODO()
	checkoutStore, _, _ := mystore.New[CheckoutState](c)
	cartStore, _, _ := mystore.New[cart.Cart](c)
	nower := mytime.NewMockNower(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	sut := NewWebService(checkoutStore, cartStore, publisher, nower)
	router := mux.NewRouter()

	// This is called by the following call to RegisterEndpoints()
	publisher.EXPECT().CreateTopic(c, checkoutevents.TopicName).Return(nil)

	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, checkoutStore, cartStore, nower, publisher
}
