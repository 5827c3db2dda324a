package checkout

import (
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/services/cart"
)

type service struct {
	checkoutStore mystore.Store[CheckoutState]
	cartStore     mystore.Store[cart.Cart]
	publisher     mypublisher.Publisher
	nower         mytime.Nower
	logger        mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(checkoutStore mystore.Store[CheckoutState], cartStore mystore.Store[cart.Cart], publisher mypublisher.Publisher, nower mytime.Nower, logger mylog.Logger) *service {
	return &service{
		checkoutStore: checkoutStore,
		cartStore:     cartStore,
		publisher:     publisher,
		nower:         nower,
		logger:        logger,
	}
}
