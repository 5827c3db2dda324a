package catalog

import (
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mypubsub"
	"github.com/MarcGrol/storefront/lib/mystore"
)

type service struct {
	productStore mystore.Store[Product]
	subscriber   mypubsub.PubSub
	publisher    mypublisher.Publisher
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(productStore mystore.Store[Product], subscriber mypubsub.PubSub, publisher mypublisher.Publisher, logger mylog.Logger) *service {
	return &service{
		productStore: productStore,
		subscriber:   subscriber,
		publisher:    publisher,
		logger:       logger,
	}
}
