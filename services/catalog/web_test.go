package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/storefront/lib/myevents"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mypubsub"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/services/order/orderevents"
)

func TestCatalogService(t *testing.T) {

	t.Run("List products", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodGet, "/products", nil)
		assert.NoError(t, err)
		request.Host = "localhost:8888"
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Wireless Headphones")
		assert.Contains(t, got, "$79.99")
		assert.Contains(t, got, "Water Bottle")
		assert.Contains(t, got, "Out of stock")
	})

	t.Run("Get product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodGet, "/product/product_smart_watch", nil)
		assert.NoError(t, err)
		request.Host = "localhost:8888"
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Smart Watch")
		assert.Contains(t, got, "$249.99") // original price shown next to discounted price
		assert.Contains(t, got, "$199.99")
	})

	t.Run("Get product not exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodGet, "/product/unknown", nil)
		assert.NoError(t, err)
		request.Host = "localhost:8888"
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Handle order placed adjusts stock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/catalog/event", strings.NewReader(createPubsubMessage(
			orderevents.OrderPlaced{
				OrderUID:      "order-123",
				AmountInCents: 19999,
				PaymentMethod: "paypal",
				Lines: []orderevents.OrderLine{
					{ProductUID: "product_smart_watch", Quantity: 12},
				},
			})))
		assert.NoError(t, err)
		request.Host = "localhost:8888"
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		product, exists, _ := storer.Get(ctx, "product_smart_watch")
		assert.True(t, exists)
		assert.Equal(t, 0, product.StockCount)
		assert.False(t, product.InStock)
	})
}

func createPubsubMessage(event orderevents.OrderPlaced) string {
	eventBytes, _ := json.Marshal(event)
	envelope := myevents.EventEnvelope{
		UID:           "123",
		CreatedAt:     mytime.ExampleTime,
		Topic:         "order",
		AggregateUID:  event.OrderUID,
		EventTypeName: "order.placed",
		EventPayload:  string(eventBytes),
	}
	envelopeBytes, _ := json.Marshal(envelope)

	req := myevents.PushRequest{
		Message: myevents.PushMessage{
			Data: envelopeBytes,
		},
		Subscription: "order",
	}

	reqBytes, _ := json.Marshal(req)

	return string(reqBytes)
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[Product]) {
	c := context.TODO()
	storer, _, _ := mystore.New[Product](c)
	subscriber := mypubsub.NewMockPubSub(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	sut := NewWebService(storer, subscriber, publisher)
	router := mux.NewRouter()

	// These are called by the following call to RegisterEndpoints()
	subscriber.EXPECT().CreateTopic(c, orderevents.TopicName).Return(nil)
	subscriber.EXPECT().Subscribe(c, orderevents.TopicName, "http://localhost:8080/api/catalog/event").Return(nil)

	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, storer
}
