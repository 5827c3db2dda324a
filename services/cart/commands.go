package cart

import (
	"context"
	"fmt"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/services/cart/cartevents"
)

func (s *service) getCart(c context.Context) (Cart, error) {
	cart, found, err := s.cartStore.Get(c, CartStorageKey)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Cart{UID: CartStorageKey}, nil
	}

	return cart, nil
}

func (s *service) addItem(c context.Context, productUID string, quantity int) error {
	s.logger.Log(c, productUID, mylog.SeverityInfo, "Add %d x %s to cart", quantity, productUID)

	if quantity < 1 {
		return myerrors.NewInvalidInputErrorf("quantity must be at least 1, got %d", quantity)
	}

	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		product, found, err := s.productStore.Get(c, productUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("product with uid %s not found", productUID))
		}
		if !product.InStock {
			return myerrors.NewInvalidInputErrorf("product %s is out of stock", productUID)
		}

		cart, err := s.getCart(c)
		if err != nil {
			return err
		}

		merged := false
		for i, item := range cart.Items {
			if item.Product.UID == productUID {
				if item.Quantity+quantity > product.StockCount {
					return myerrors.NewInvalidInputErrorf("only %d of product %s in stock", product.StockCount, productUID)
				}
				cart.Items[i].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			if quantity > product.StockCount {
				return myerrors.NewInvalidInputErrorf("only %d of product %s in stock", product.StockCount, productUID)
			}
			cart.Items = append(cart.Items, LineItem{Product: product, Quantity: quantity})
		}

		return s.storeAndPublish(c, cart)
	})
	if err != nil {
		return err
	}

	s.metrics.CartMutations.WithLabelValues("add").Inc()

	return nil
}

func (s *service) updateQuantity(c context.Context, productUID string, quantity int) error {
	s.logger.Log(c, productUID, mylog.SeverityInfo, "Set quantity of %s to %d", productUID, quantity)

	if quantity <= 0 {
		// setting to zero means removal
		return s.removeItem(c, productUID)
	}

	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		cart, err := s.getCart(c)
		if err != nil {
			return err
		}

		for i, item := range cart.Items {
			if item.Product.UID == productUID {
				if quantity > item.Product.StockCount {
					return myerrors.NewInvalidInputErrorf("only %d of product %s in stock", item.Product.StockCount, productUID)
				}
				cart.Items[i].Quantity = quantity
				return s.storeAndPublish(c, cart)
			}
		}

		// absent item is not an error
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.CartMutations.WithLabelValues("update").Inc()

	return nil
}

func (s *service) removeItem(c context.Context, productUID string) error {
	s.logger.Log(c, productUID, mylog.SeverityInfo, "Remove %s from cart", productUID)

	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		cart, err := s.getCart(c)
		if err != nil {
			return err
		}

		for i, item := range cart.Items {
			if item.Product.UID == productUID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return s.storeAndPublish(c, cart)
			}
		}

		// absent item is not an error
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.CartMutations.WithLabelValues("remove").Inc()

	return nil
}

func (s *service) clearCart(c context.Context) error {
	s.logger.Log(c, CartStorageKey, mylog.SeverityInfo, "Clear cart")

	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		cart, err := s.getCart(c)
		if err != nil {
			return err
		}

		cart.Items = nil

		return s.storeAndPublish(c, cart)
	})
	if err != nil {
		return err
	}

	s.metrics.CartMutations.WithLabelValues("clear").Inc()

	return nil
}

func (s *service) storeAndPublish(c context.Context, cart Cart) error {
	cart.UID = CartStorageKey
	cart.LastModified = s.nower.Now()

	err := s.cartStore.Put(c, CartStorageKey, cart)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartModified{
		CartUID:      cart.UID,
		TotalInCents: cart.SubtotalInCents(),
		ItemCount:    cart.ItemCount(),
	})
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}
