package cart

import (
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mymetrics"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/services/catalog"
)

type service struct {
	cartStore    mystore.Store[Cart]
	productStore mystore.Store[catalog.Product]
	publisher    mypublisher.Publisher
	nower        mytime.Nower
	metrics      *mymetrics.Metrics
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cartStore mystore.Store[Cart], productStore mystore.Store[catalog.Product], publisher mypublisher.Publisher, nower mytime.Nower, metrics *mymetrics.Metrics, logger mylog.Logger) *service {
	return &service{
		cartStore:    cartStore,
		productStore: productStore,
		publisher:    publisher,
		nower:        nower,
		metrics:      metrics,
		logger:       logger,
	}
}
