// internal/store/cart_test.go
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangvu/bmarket/internal/models"
)

func cartFixture(t *testing.T) (*Store, *models.AuthUser, *models.Product) {
	t.Helper()
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	buyer := register(t, s, "buyer@x.com", "Buyer")
	p := createProduct(t, s, seller.ID, "Gạo", 20000)
	return s, buyer, p
}

func TestAddToCartMergesSameVariant(t *testing.T) {
	s, buyer, p := cartFixture(t)
	variantID := p.Variants[0].ID

	_, err := s.AddToCart(&AddToCartRequest{UserID: buyer.ID, ProductID: p.ID, VariantID: variantID, Quantity: 2})
	require.NoError(t, err)
	item, err := s.AddToCart(&AddToCartRequest{UserID: buyer.ID, ProductID: p.ID, VariantID: variantID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	cart, err := s.GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Len(t, cart, 1, "same product+variant merges into one line")

	count, err := s.CartCount(buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count, "count sums quantities, not lines")
}

func TestAddToCartValidatesTarget(t *testing.T) {
	s, buyer, p := cartFixture(t)

	_, err := s.AddToCart(&AddToCartRequest{UserID: buyer.ID, ProductID: "p-404", VariantID: "v-1", Quantity: 1})
	assert.True(t, models.IsNotFound(err))

	_, err = s.AddToCart(&AddToCartRequest{UserID: buyer.ID, ProductID: p.ID, VariantID: "v-404", Quantity: 1})
	assert.True(t, models.IsNotFound(err))

	_, err = s.AddToCart(&AddToCartRequest{UserID: buyer.ID, ProductID: p.ID, VariantID: p.Variants[0].ID, Quantity: 0})
	assert.True(t, models.IsValidation(err))
}

func TestUpdateCartQuantityBelowOneRemoves(t *testing.T) {
	s, buyer, p := cartFixture(t)
	item, err := s.AddToCart(&AddToCartRequest{UserID: buyer.ID, ProductID: p.ID, VariantID: p.Variants[0].ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, s.UpdateCartItemQuantity(buyer.ID, item.ID, 7))
	cart, err := s.GetCart(buyer.ID)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 7, cart[0].Quantity)

	require.NoError(t, s.UpdateCartItemQuantity(buyer.ID, item.ID, 0))
	cart, err = s.GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	err = s.UpdateCartItemQuantity(buyer.ID, item.ID, 1)
	assert.True(t, models.IsNotFound(err))
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	s, buyer, p := cartFixture(t)
	other := register(t, s, "other@x.com", "Other")

	_, err := s.AddToCart(&AddToCartRequest{UserID: buyer.ID, ProductID: p.ID, VariantID: p.Variants[0].ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := s.GetCart(other.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	require.NoError(t, s.ClearCart(buyer.ID))
	count, err := s.CartCount(buyer.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCartSurvivesReload(t *testing.T) {
	s, kv := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	buyer := register(t, s, "buyer@x.com", "Buyer")
	p := createProduct(t, s, seller.ID, "Gạo", 20000)

	_, err := s.AddToCart(&AddToCartRequest{UserID: buyer.ID, ProductID: p.ID, VariantID: p.Variants[0].ID, Quantity: 4})
	require.NoError(t, err)

	s2 := reopenStore(t, kv)
	cart, err := s2.GetCart(buyer.ID)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 4, cart[0].Quantity)
}

func TestRemoveCartItem(t *testing.T) {
	s, buyer, p := cartFixture(t)
	item, err := s.AddToCart(&AddToCartRequest{UserID: buyer.ID, ProductID: p.ID, VariantID: p.Variants[0].ID, Quantity: 1})
	require.NoError(t, err)

	err = s.RemoveCartItem(buyer.ID, "ci-404")
	assert.True(t, models.IsNotFound(err))

	require.NoError(t, s.RemoveCartItem(buyer.ID, item.ID))
	cart, err := s.GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}
