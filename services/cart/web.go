package cart

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
	"github.com/MarcGrol/storefront/lib/mymetrics"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/services/cart/cartevents"
	"github.com/MarcGrol/storefront/services/catalog"
	"github.com/MarcGrol/storefront/services/pricing"
)

//go:embed templates
var templateFolder embed.FS
var (
	cartPageTemplate *template.Template
)

func init() {
	cartPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/cart.html"))
}

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(cartStore mystore.Store[Cart], productStore mystore.Store[catalog.Product], publisher mypublisher.Publisher, nower mytime.Nower, metrics *mymetrics.Metrics) *webService {
	logger := mylog.New("cart")

	return &webService{
		logger:  logger,
		service: newService(cartStore, productStore, publisher, nower, metrics, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	// Endpoints that compose the user-interface
	router.HandleFunc("/cart", s.cartPage()).Methods("GET")
	router.HandleFunc("/cart/items", s.addItemPage()).Methods("POST")
	router.HandleFunc("/cart/items/{productUID}", s.updateQuantityPage()).Methods("POST")
	router.HandleFunc("/cart/items/{productUID}/remove", s.removeItemPage()).Methods("POST")
	router.HandleFunc("/cart/clear", s.clearCartPage()).Methods("POST")

	// Machine-readable view on the same cart
	router.HandleFunc("/api/cart", s.getCartAPI()).Methods("GET")

	return s.service.publisher.CreateTopic(c, cartevents.TopicName)
}

type mutationForm struct {
	ProductUID string `form:"productUID"`
	Quantity   int    `form:"quantity"`
}

func parseMutationForm(r *http.Request) (mutationForm, error) {
	err := r.ParseForm()
	if err != nil {
		return mutationForm{}, myerrors.NewInvalidInputError(err)
	}

	form := mutationForm{}
	err = formcodec.NewDecoder().Decode(&form, r.Form)
	if err != nil {
		return mutationForm{}, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}

	return form, nil
}

type cartView struct {
	Items     []LineItem
	ItemCount int
	Savings   int
	Amounts   pricing.Amounts
	IsEmpty   bool
}

func newCartView(cart Cart) cartView {
	return cartView{
		Items:     cart.Items,
		ItemCount: cart.ItemCount(),
		Savings:   cart.SavingsInCents(),
		Amounts:   cart.Amounts(),
		IsEmpty:   cart.IsEmpty(),
	}
}

func (v cartView) DisplaySavings() string {
	return pricing.Amounts{SubtotalInCents: v.Savings}.DisplaySubtotal()
}

func (s *webService) cartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.getCart(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = cartPageTemplate.Execute(w, newCartView(cart))
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) addItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		form, err := parseMutationForm(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = s.service.addItem(c, form.ProductUID, form.Quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) updateQuantityPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		productUID := mux.Vars(r)["productUID"]

		form, err := parseMutationForm(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = s.service.updateQuantity(c, productUID, form.Quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) removeItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		productUID := mux.Vars(r)["productUID"]

		err := s.service.removeItem(c, productUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) clearCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.service.clearCart(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) getCartAPI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.getCart(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, newCartView(cart))
	}
}
