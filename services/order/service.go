package order

import (
	"time"

	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mymetrics"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/myqueue"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/lib/myuuid"
	"github.com/MarcGrol/storefront/services/cart"
	"github.com/MarcGrol/storefront/services/checkout"
	"github.com/MarcGrol/storefront/services/paypalgateway"
)

type service struct {
	orderStore      mystore.Store[Order]
	cartStore       mystore.Store[cart.Cart]
	checkoutStore   mystore.Store[checkout.CheckoutState]
	payer           paypalgateway.Payer
	publisher       mypublisher.Publisher
	queuer          myqueue.TaskQueuer
	nower           mytime.Nower
	uuider          myuuid.UUIDer
	metrics         *mymetrics.Metrics
	processingDelay time.Duration
	logger          mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(orderStore mystore.Store[Order], cartStore mystore.Store[cart.Cart], checkoutStore mystore.Store[checkout.CheckoutState], payer paypalgateway.Payer, publisher mypublisher.Publisher, queuer myqueue.TaskQueuer, nower mytime.Nower, uuider myuuid.UUIDer, metrics *mymetrics.Metrics, processingDelay time.Duration, logger mylog.Logger) *service {
	return &service{
		orderStore:      orderStore,
		cartStore:       cartStore,
		checkoutStore:   checkoutStore,
		payer:           payer,
		publisher:       publisher,
		queuer:          queuer,
		nower:           nower,
		uuider:          uuider,
		metrics:         metrics,
		processingDelay: processingDelay,
		logger:          logger,
	}
}
