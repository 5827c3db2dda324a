package checkout

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefront/lib/mycontext"
	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttp"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/services/cart"
	"github.com/MarcGrol/storefront/services/checkout/checkoutevents"
	"github.com/MarcGrol/storefront/services/pricing"
)

//go:embed templates
var templateFolder embed.FS
var (
	stepTemplates map[Step]*template.Template
)

func init() {
	stepTemplates = map[Step]*template.Template{
		StepShipping: template.Must(template.ParseFS(templateFolder, "templates/checkout_shipping.html")),
		StepPayment:  template.Must(template.ParseFS(templateFolder, "templates/checkout_payment.html")),
		StepReview:   template.Must(template.ParseFS(templateFolder, "templates/checkout_review.html")),
	}
}

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(checkoutStore mystore.Store[CheckoutState], cartStore mystore.Store[cart.Cart], publisher mypublisher.Publisher, nower mytime.Nower) *webService {
	logger := mylog.New("checkout")

	return &webService{
		logger:  logger,
		service: newService(checkoutStore, cartStore, publisher, nower, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	// Endpoints that compose the user-interface
	router.HandleFunc("/checkout", s.checkoutPage()).Methods("GET")
	router.HandleFunc("/checkout/shipping", s.submitShippingPage()).Methods("POST")
	router.HandleFunc("/checkout/payment", s.submitPaymentPage()).Methods("POST")
	router.HandleFunc("/checkout/back/{step}", s.backPage()).Methods("POST")

	return s.service.publisher.CreateTopic(c, checkoutevents.TopicName)
}

type checkoutPageView struct {
	State   CheckoutState
	Items   []cart.LineItem
	Amounts pricing.Amounts
}

// checkoutPage renders the page belonging to the step the shopper is at
func (s *webService) checkoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		state, currentCart, err := s.service.startCheckout(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}
		if currentCart.IsEmpty() {
			http.Redirect(w, r, "/cart", http.StatusSeeOther)
			return
		}

		// review is only reachable by submitting the steps before it
		if state.CurrentStep == StepReview && !state.ReadyForReview() {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(fmt.Errorf("review step reached without shipping address and payment method")))
			return
		}

		pageTemplate, found := stepTemplates[state.CurrentStep]
		if !found {
			errorWriter.WriteError(c, w, 3, myerrors.NewInternalError(fmt.Errorf("no page for step %s", state.CurrentStep)))
			return
		}

		err = pageTemplate.Execute(w, checkoutPageView{
			State:   state,
			Items:   currentCart.Items,
			Amounts: currentCart.Amounts(),
		})
		if err != nil {
			errorWriter.WriteError(c, w, 4, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) submitShippingPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		address := Address{}
		err = formcodec.NewDecoder().Decode(&address, r.Form)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err)))
			return
		}

		err = s.service.submitShipping(c, address)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
	}
}

type paymentForm struct {
	Method                string  `form:"method"`
	BillingSameAsShipping bool    `form:"billingSameAsShipping"`
	Billing               Address `form:"billing"`
}

func (s *webService) submitPaymentPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		form := paymentForm{}
		err = formcodec.NewDecoder().Decode(&form, r.Form)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err)))
			return
		}

		err = s.service.submitPayment(c, form.Method, form.BillingSameAsShipping, form.Billing)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
	}
}

func (s *webService) backPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		step := Step(mux.Vars(r)["step"])

		err := s.service.backTo(c, step)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
	}
}
