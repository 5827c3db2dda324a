package order

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefront/lib/mycontext"
	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttp"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mymetrics"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/myqueue"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/lib/myuuid"
	"github.com/MarcGrol/storefront/services/cart"
	"github.com/MarcGrol/storefront/services/checkout"
	"github.com/MarcGrol/storefront/services/order/orderevents"
	"github.com/MarcGrol/storefront/services/paypalgateway"
)

//go:embed templates
var templateFolder embed.FS
var (
	confirmationPageTemplate *template.Template
	orderListPageTemplate    *template.Template
)

func init() {
	confirmationPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/order_confirmation.html"))
	orderListPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/order_list.html"))
}

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(orderStore mystore.Store[Order], cartStore mystore.Store[cart.Cart], checkoutStore mystore.Store[checkout.CheckoutState], payer paypalgateway.Payer, publisher mypublisher.Publisher, queuer myqueue.TaskQueuer, nower mytime.Nower, uuider myuuid.UUIDer, metrics *mymetrics.Metrics, processingDelay time.Duration) *webService {
	logger := mylog.New("order")

	return &webService{
		logger:  logger,
		service: newService(orderStore, cartStore, checkoutStore, payer, publisher, queuer, nower, uuider, metrics, processingDelay, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	// Endpoints that compose the user-interface
	router.HandleFunc("/checkout/placeorder", s.placeOrderPage()).Methods("POST")
	router.HandleFunc("/order/{orderUID}/confirmation", s.confirmationPage()).Methods("GET")
	router.HandleFunc("/orders", s.orderListPage()).Methods("GET")

	// Triggered over the task-queue after placement
	router.HandleFunc("/api/order/{orderUID}/confirmed", s.confirmOrderWebhook()).Methods("PUT")

	return s.service.publisher.CreateTopic(c, orderevents.TopicName)
}

func (s *webService) placeOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID, err := s.service.placeOrder(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/order/"+orderUID+"/confirmation", http.StatusSeeOther)
	}
}

func (s *webService) confirmationPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		order, err := s.service.getOrder(c, orderUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = confirmationPageTemplate.Execute(w, order)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) orderListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orders, err := s.service.listOrders(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = orderListPageTemplate.Execute(w, orders)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) confirmOrderWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		err := s.service.confirmOrder(c, orderUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{})
	}
}
