package catalog

import (
	"context"
	"fmt"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttp"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/services/order/orderevents"
)

func (s *service) Subscribe(c context.Context) error {
	err := s.subscriber.CreateTopic(c, orderevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", orderevents.TopicName, err)
	}

	err = s.subscriber.Subscribe(c, orderevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/catalog/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", orderevents.TopicName, err)
	}

	return nil
}

// OnOrderPlaced adjusts the stock of each ordered product
func (s *service) OnOrderPlaced(c context.Context, topic string, event orderevents.OrderPlaced) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Adjust stock for order %s", event.OrderUID)

	return s.productStore.RunInTransaction(c, func(c context.Context) error {
		for _, line := range event.Lines {
			product, found, err := s.productStore.Get(c, line.ProductUID)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
			if !found {
				s.logger.Log(c, event.OrderUID, mylog.SeverityWarn, "Ordered product %s no longer exists", line.ProductUID)
				continue
			}

			product.StockCount -= line.Quantity
			if product.StockCount < 0 {
				product.StockCount = 0
			}
			product.InStock = product.StockCount > 0

			err = s.productStore.Put(c, product.UID, product)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
		}

		return nil
	})
}
