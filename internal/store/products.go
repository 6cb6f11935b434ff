// internal/store/products.go
package store

import (
	"sort"
	"strings"

	"github.com/quangvu/bmarket/internal/models"
	"github.com/quangvu/bmarket/internal/utils"
)

type CreateProductRequest struct {
	SellerID    string          `json:"sellerId" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	ImageURLs   []string        `json:"imageUrls"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags"`
	Unit        string          `json:"unit" validate:"required"`
	UnitPrice   models.MoneyVND `json:"unitPrice" validate:"min=0"`
	Stock       int             `json:"stock" validate:"min=0"`
}

// CreateProduct lists a product with a single variant named after the
// selling unit. Refused with FeatureDisabled while new listings are
// switched off in the admin settings.
func (s *Store) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if !s.settings.EnableNewProductListing {
		return nil, models.NewFeatureDisabled("new product listing")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidation("validation failed", err)
	}
	if s.findUser(req.SellerID) == nil {
		return nil, models.NewNotFound("user", req.SellerID)
	}

	now := s.now()
	variant := models.ProductVariant{
		ID:         s.nextVariantID(),
		Name:       req.Unit,
		Attributes: map[string]string{"unit": req.Unit},
		UnitPrice:  req.UnitPrice,
		Stock:      req.Stock,
	}
	product := &models.Product{
		ID:          s.nextProductID(),
		Name:        req.Name,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
		Variants:    []models.ProductVariant{variant},
		Category:    req.Category,
		Tags:        req.Tags,
		Unit:        req.Unit,
		SellerID:    req.SellerID,
		Status:      models.ContentStatusActive,
	}
	if product.ImageURLs == nil {
		product.ImageURLs = []string{}
	}
	product.Touch(now)

	s.products = append(s.products, product)
	s.saveProducts()
	return product, nil
}

type ProductSort string

const (
	SortPriceAsc   ProductSort = "priceAsc"
	SortPriceDesc  ProductSort = "priceDesc"
	SortRatingDesc ProductSort = "ratingDesc"
)

type SearchProductsParams struct {
	Query    string      `json:"q,omitempty"`
	Category string      `json:"category,omitempty"`
	Sort     ProductSort `json:"sort,omitempty"`
}

// SearchProducts matches the query as a case-insensitive substring of
// name, description or any tag, and the category exactly (ignoring
// case). Hidden and deleted products never appear.
func (s *Store) SearchProducts(params SearchProductsParams) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	result := make([]*models.Product, 0)
	for _, p := range s.products {
		if !p.Visible() {
			continue
		}
		if params.Category != "" && !strings.EqualFold(p.Category, params.Category) {
			continue
		}
		if params.Query != "" && !productMatches(p, params.Query) {
			continue
		}
		result = append(result, p)
	}

	switch params.Sort {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].MinPrice() < result[j].MinPrice()
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].MinPrice() > result[j].MinPrice()
		})
	case SortRatingDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].AvgRating > result[j].AvgRating
		})
	}
	return result, nil
}

func productMatches(p *models.Product, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func (s *Store) GetProductByID(productID string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	p, _ := s.findProduct(productID)
	if p == nil || !p.Visible() {
		return nil, models.NewNotFound("product", productID)
	}
	return p, nil
}

// ListProductsBySeller returns the seller's visible listings.
func (s *Store) ListProductsBySeller(sellerID string) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	result := make([]*models.Product, 0)
	for _, p := range s.products {
		if p.SellerID == sellerID && p.Visible() {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *Store) ListProductsByCategory(category string) ([]*models.Product, error) {
	return s.SearchProducts(SearchProductsParams{Category: category})
}

// NewestProducts returns up to limit visible products, newest first.
func (s *Store) NewestProducts(limit int) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	result := make([]*models.Product, 0)
	for _, p := range s.products {
		if p.Visible() {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// DeleteProduct hard-removes the product and every review referencing
// it. Only the owning seller may delete; an ownership violation leaves
// all state unchanged. This is a permanent removal, unlike the
// moderation path which only flips status.
func (s *Store) DeleteProduct(productID, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	p, idx := s.findProduct(productID)
	if p == nil {
		return models.NewNotFound("product", productID)
	}
	if p.SellerID != actorID {
		return models.NewUnauthorized("not authorized to delete this product")
	}

	s.products = append(s.products[:idx], s.products[idx+1:]...)

	kept := s.reviews[:0]
	for _, r := range s.reviews {
		if r.ProductID != productID {
			kept = append(kept, r)
		}
	}
	s.reviews = kept

	s.saveProducts()
	s.saveReviews()
	return nil
}

type TagSuggestions struct {
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
}

// GetTagSuggestions collects the distinct tags and categories across all
// products, sorted, for composer autocomplete.
func (s *Store) GetTagSuggestions() TagSuggestions {
	s.mu.Lock()
	defer s.mu.Unlock()

	tagSet := make(map[string]struct{})
	categorySet := make(map[string]struct{})
	for _, p := range s.products {
		if p.Category != "" {
			categorySet[p.Category] = struct{}{}
		}
		for _, t := range p.Tags {
			tagSet[t] = struct{}{}
		}
	}

	out := TagSuggestions{Tags: make([]string, 0, len(tagSet)), Categories: make([]string, 0, len(categorySet))}
	for t := range tagSet {
		out.Tags = append(out.Tags, t)
	}
	for c := range categorySet {
		out.Categories = append(out.Categories, c)
	}
	sort.Strings(out.Tags)
	sort.Strings(out.Categories)
	return out
}
