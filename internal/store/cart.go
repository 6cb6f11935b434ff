// internal/store/cart.go
package store

import (
	"github.com/quangvu/bmarket/internal/models"
	"github.com/quangvu/bmarket/internal/storage"
	"github.com/quangvu/bmarket/internal/utils"
)

// Carts live under a per-user gateway key and are loaded on demand
// rather than held in the store; a cart is only ever touched by its
// owner, so there is no cross-collection invariant to guard.

func (s *Store) loadCart(userID string) []*models.CartItem {
	var items []*models.CartItem
	s.gw.Read(storage.CartKeyPrefix+userID, &items)
	if items == nil {
		items = []*models.CartItem{}
	}
	return items
}

func (s *Store) saveCart(userID string, items []*models.CartItem) {
	s.gw.Write(storage.CartKeyPrefix+userID, items)
}

func (s *Store) GetCart(userID string) ([]*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	return s.loadCart(userID), nil
}

type AddToCartRequest struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	VariantID string `json:"variantId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// AddToCart merges quantity into an existing line for the same
// product+variant instead of adding a duplicate line.
func (s *Store) AddToCart(req *AddToCartRequest) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidation("validation failed", err)
	}
	product, _ := s.findProduct(req.ProductID)
	if product == nil || !product.Visible() {
		return nil, models.NewNotFound("product", req.ProductID)
	}
	variantOK := false
	for _, v := range product.Variants {
		if v.ID == req.VariantID {
			variantOK = true
			break
		}
	}
	if !variantOK {
		return nil, models.NewNotFound("variant", req.VariantID)
	}

	items := s.loadCart(req.UserID)
	for _, item := range items {
		if item.ProductID == req.ProductID && item.VariantID == req.VariantID {
			item.Quantity += req.Quantity
			s.saveCart(req.UserID, items)
			return item, nil
		}
	}

	item := &models.CartItem{
		ID:        s.nextCartItemID(),
		UserID:    req.UserID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		AddedAt:   s.now(),
	}
	items = append(items, item)
	s.saveCart(req.UserID, items)
	return item, nil
}

// UpdateCartItemQuantity sets the line's quantity; anything below one
// removes the line.
func (s *Store) UpdateCartItemQuantity(userID, itemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	items := s.loadCart(userID)
	for i, item := range items {
		if item.ID != itemID {
			continue
		}
		if quantity < 1 {
			items = append(items[:i], items[i+1:]...)
		} else {
			item.Quantity = quantity
		}
		s.saveCart(userID, items)
		return nil
	}
	return models.NewNotFound("cart item", itemID)
}

func (s *Store) RemoveCartItem(userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	items := s.loadCart(userID)
	for i, item := range items {
		if item.ID == itemID {
			items = append(items[:i], items[i+1:]...)
			s.saveCart(userID, items)
			return nil
		}
	}
	return models.NewNotFound("cart item", itemID)
}

func (s *Store) ClearCart(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	s.saveCart(userID, []*models.CartItem{})
	return nil
}

// CartCount is the sum of line quantities, not the line count.
func (s *Store) CartCount(userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	n := 0
	for _, item := range s.loadCart(userID) {
		n += item.Quantity
	}
	return n, nil
}
