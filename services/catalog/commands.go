package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/mylog"
)

func (s *service) seedProducts(c context.Context) error {
	return s.productStore.RunInTransaction(c, func(c context.Context) error {
		for _, p := range initialProducts {
			_, exists, err := s.productStore.Get(c, p.UID)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
			if exists {
				// keep adjusted stock counts over restarts
				continue
			}

			err = s.productStore.Put(c, p.UID, p)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
		}

		return nil
	})
}

func (s *service) listProducts(c context.Context) ([]Product, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all products")

	products, err := s.productStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

func (s *service) getProduct(c context.Context, productUID string) (Product, error) {
	s.logger.Log(c, productUID, mylog.SeverityInfo, "Fetch details of product %s", productUID)

	product, found, err := s.productStore.Get(c, productUID)
	if err != nil {
		return Product{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Product{}, myerrors.NewNotFoundError(fmt.Errorf("product with uid %s not found", productUID))
	}

	return product, nil
}
