// internal/store/products_test.go
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangvu/bmarket/internal/models"
)

func TestCreateProductSingleVariant(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")

	p, err := s.CreateProduct(&CreateProductRequest{
		SellerID:  seller.ID,
		Name:      "Gạo ST25",
		Unit:      "kg",
		UnitPrice: 35000,
		Stock:     50,
	})
	require.NoError(t, err)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "kg", p.Variants[0].Name)
	assert.Equal(t, "kg", p.Variants[0].Attributes["unit"])
	assert.Equal(t, models.MoneyVND(35000), p.MinPrice())
	assert.NotNil(t, p.ImageURLs, "image list defaults to empty, not null")
	assert.Equal(t, "v-1000", p.Variants[0].ID, "variant ids start at the 1000 floor")
}

func TestCreateProductGatedBySetting(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	admin := register(t, s, "admin@x.com", "Admin")
	makeAdmin(t, s, admin.ID)

	off := false
	_, err := s.UpdateSettings(admin.ID, &UpdateSettingsRequest{EnableNewProductListing: &off})
	require.NoError(t, err)

	_, err = s.CreateProduct(&CreateProductRequest{
		SellerID: seller.ID, Name: "Gạo", Unit: "kg", UnitPrice: 1000,
	})
	assert.True(t, models.IsFeatureDisabled(err))
}

func TestSearchProductsVisibilityAndSort(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	cheap := createProduct(t, s, seller.ID, "Rau muống tươi", 8000)
	pricey := createProduct(t, s, seller.ID, "Rau cải hữu cơ", 25000)
	hidden := createProduct(t, s, seller.ID, "Rau bína", 12000)

	admin := register(t, s, "admin@x.com", "Admin")
	makeAdmin(t, s, admin.ID)
	hiddenStatus := models.ContentStatusHidden
	_, err := s.AdminUpdateProduct(admin.ID, hidden.ID, &AdminUpdateProductRequest{Status: &hiddenStatus})
	require.NoError(t, err)

	results, err := s.SearchProducts(SearchProductsParams{Query: "rau", Sort: SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, results, 2, "hidden products never surface in search")
	assert.Equal(t, cheap.ID, results[0].ID)
	assert.Equal(t, pricey.ID, results[1].ID)
}

func TestSearchMatchesTagsAndCategory(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	p, err := s.CreateProduct(&CreateProductRequest{
		SellerID: seller.ID, Name: "Trứng gà", Unit: "chục", UnitPrice: 30000,
		Category: "Thực phẩm", Tags: []string{"hữu cơ", "gà ta"},
	})
	require.NoError(t, err)

	byTag, err := s.SearchProducts(SearchProductsParams{Query: "hữu cơ"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, p.ID, byTag[0].ID)

	byCategory, err := s.SearchProducts(SearchProductsParams{Category: "thực phẩm"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 1, "category matches ignore case")

	none, err := s.SearchProducts(SearchProductsParams{Category: "Đồ gia dụng"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetProductHiddenIsNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	p := createProduct(t, s, seller.ID, "Gạo", 20000)

	admin := register(t, s, "admin@x.com", "Admin")
	makeAdmin(t, s, admin.ID)
	hiddenStatus := models.ContentStatusHidden
	_, err := s.AdminUpdateProduct(admin.ID, p.ID, &AdminUpdateProductRequest{Status: &hiddenStatus})
	require.NoError(t, err)

	_, err = s.GetProductByID(p.ID)
	assert.True(t, models.IsNotFound(err), "hidden reads as missing, not as forbidden")
}

func TestDeleteProductCascadesReviews(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	buyer := register(t, s, "buyer@x.com", "Buyer")
	p := createProduct(t, s, seller.ID, "Gạo", 20000)

	_, err := s.AddReview(&AddReviewRequest{ProductID: p.ID, UserID: buyer.ID, Rating: 5})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(p.ID, seller.ID))

	reviews, err := s.ListReviewsByProduct(p.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestDeleteProductUnauthorizedLeavesStateUnchanged(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	stranger := register(t, s, "other@x.com", "Other")
	p := createProduct(t, s, seller.ID, "Gạo", 20000)

	err := s.DeleteProduct(p.ID, stranger.ID)
	assert.True(t, models.IsUnauthorized(err))

	got, err := s.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestRatingAggregateRounding(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	a := register(t, s, "a@x.com", "A")
	b := register(t, s, "b@x.com", "B")
	c := register(t, s, "c@x.com", "C")
	p := createProduct(t, s, seller.ID, "Gạo", 20000)

	for _, rev := range []struct {
		user   string
		rating float64
	}{{a.ID, 5}, {b.ID, 4}, {c.ID, 4}} {
		_, err := s.AddReview(&AddReviewRequest{ProductID: p.ID, UserID: rev.user, Rating: rev.rating})
		require.NoError(t, err)
	}

	got, err := s.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, got.AvgRating, "mean 4.333 rounds to one decimal")
	assert.Equal(t, 3, got.ReviewCount)
}

func TestReviewRatingClamped(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	buyer := register(t, s, "buyer@x.com", "Buyer")
	p := createProduct(t, s, seller.ID, "Gạo", 20000)

	review, err := s.AddReview(&AddReviewRequest{ProductID: p.ID, UserID: buyer.ID, Rating: 11})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
}

func TestReviewOnMissingProductMutatesNothing(t *testing.T) {
	s, _ := newTestStore(t)
	buyer := register(t, s, "buyer@x.com", "Buyer")

	_, err := s.AddReview(&AddReviewRequest{ProductID: "p-404", UserID: buyer.ID, Rating: 5})
	assert.True(t, models.IsNotFound(err))

	notes, err := s.ListNotifications(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestReviewNotifiesSellerNotSelf(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	buyer := register(t, s, "buyer@x.com", "Buyer")
	p := createProduct(t, s, seller.ID, "Gạo", 20000)

	// The seller reviewing their own product produces no notification.
	_, err := s.AddReview(&AddReviewRequest{ProductID: p.ID, UserID: seller.ID, Rating: 5})
	require.NoError(t, err)
	notes, err := s.ListNotifications(seller.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)

	_, err = s.AddReview(&AddReviewRequest{ProductID: p.ID, UserID: buyer.ID, Rating: 4})
	require.NoError(t, err)
	notes, err = s.ListNotifications(seller.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationProductReviewed, notes[0].Type)
	assert.Equal(t, buyer.ID, notes[0].ActorID)
}

func TestTagSuggestions(t *testing.T) {
	s, _ := newTestStore(t)
	seller := register(t, s, "seller@x.com", "Seller")
	_, err := s.CreateProduct(&CreateProductRequest{
		SellerID: seller.ID, Name: "A", Unit: "kg", UnitPrice: 1,
		Category: "Rau củ", Tags: []string{"sạch", "organic"},
	})
	require.NoError(t, err)
	_, err = s.CreateProduct(&CreateProductRequest{
		SellerID: seller.ID, Name: "B", Unit: "kg", UnitPrice: 1,
		Category: "Trái cây", Tags: []string{"organic"},
	})
	require.NoError(t, err)

	got := s.GetTagSuggestions()
	assert.Equal(t, []string{"organic", "sạch"}, got.Tags)
	assert.Equal(t, []string{"Rau củ", "Trái cây"}, got.Categories)
}
