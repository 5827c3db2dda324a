package catalog

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefront/lib/mycontext"
	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttp"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mypubsub"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/services/order/orderevents"
)

//go:embed templates
var templateFolder embed.FS
var (
	productListPageTemplate   *template.Template
	productDetailPageTemplate *template.Template
)

func init() {
	productListPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/product_list.html"))
	productDetailPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/product_detail.html"))
}

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(productStore mystore.Store[Product], subscriber mypubsub.PubSub, publisher mypublisher.Publisher) *webService {
	logger := mylog.New("catalog")

	return &webService{
		logger:  logger,
		service: newService(productStore, subscriber, publisher, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	// Endpoints that compose the user-interface
	router.HandleFunc("/", s.productListPage()).Methods("GET")
	router.HandleFunc("/products", s.productListPage()).Methods("GET")
	router.HandleFunc("/product/{productUID}", s.productDetailPage()).Methods("GET")

	// Async notifications
	router.HandleFunc("/api/catalog/event", s.handleEventEnvelope()).Methods("POST")

	err := s.service.seedProducts(c)
	if err != nil {
		return err
	}

	return s.service.Subscribe(c)
}

func (s *webService) productListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		products, err := s.service.listProducts(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = productListPageTemplate.Execute(w, products)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) productDetailPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		productUID := mux.Vars(r)["productUID"]

		product, err := s.service.getProduct(c, productUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = productDetailPageTemplate.Execute(w, product)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := orderevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{})
	}
}
