// internal/store/reviews.go
package store

import (
	"fmt"
	"math"
	"strings"

	"github.com/quangvu/bmarket/internal/models"
	"github.com/quangvu/bmarket/internal/utils"
)

type AddReviewRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	UserID    string  `json:"userId" validate:"required"`
	Rating    float64 `json:"rating" validate:"required"`
	Title     string  `json:"title,omitempty"`
	Body      string  `json:"body,omitempty"`
}

// AddReview stores the review with the rating rounded and clamped into
// [1,5], recomputes the product aggregate and notifies the seller unless
// the reviewer is the seller.
func (s *Store) AddReview(req *AddReviewRequest) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidation("validation failed", err)
	}

	product, _ := s.findProduct(req.ProductID)
	if product == nil {
		return nil, models.NewNotFound("product", req.ProductID)
	}

	rating := int(math.Round(req.Rating))
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}

	review := &models.Review{
		ID:        s.nextReviewID(),
		ProductID: req.ProductID,
		UserID:    req.UserID,
		Rating:    rating,
		Title:     strings.TrimSpace(req.Title),
		Body:      strings.TrimSpace(req.Body),
		Status:    models.ContentStatusActive,
	}
	review.Touch(s.now())
	s.reviews = append(s.reviews, review)

	s.recomputeProductRating(product)

	if product.SellerID != "" && product.SellerID != req.UserID {
		s.notify(&models.Notification{
			UserID:    product.SellerID,
			ActorID:   req.UserID,
			Type:      models.NotificationProductReviewed,
			ProductID: product.ID,
			Title:     "New review",
			Body:      fmt.Sprintf("%s reviewed your product: %s (%d★)", s.displayName(req.UserID), product.Name, rating),
		})
	}

	s.saveReviews()
	s.saveProducts()
	return review, nil
}

// recomputeProductRating rewrites the cached aggregate from the visible
// reviews. Zero visible reviews resets both fields to 0; otherwise the
// average is rounded to one decimal.
func (s *Store) recomputeProductRating(product *models.Product) {
	sum, n := 0, 0
	for _, r := range s.reviews {
		if r.ProductID == product.ID && r.Visible() {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		product.AvgRating = 0
		product.ReviewCount = 0
		return
	}
	product.AvgRating = math.Round(float64(sum)/float64(n)*10) / 10
	product.ReviewCount = n
}

func (s *Store) ListReviewsByProduct(productID string) ([]*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	result := make([]*models.Review, 0)
	for _, r := range s.reviews {
		if r.ProductID == productID && r.Visible() {
			result = append(result, r)
		}
	}
	return result, nil
}

// ListReviewsForSeller returns the visible reviews received across all
// of the seller's products, for the seller profile page.
func (s *Store) ListReviewsForSeller(sellerID string) ([]*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	productIDs := make(map[string]struct{})
	for _, p := range s.products {
		if p.SellerID == sellerID {
			productIDs[p.ID] = struct{}{}
		}
	}

	result := make([]*models.Review, 0)
	for _, r := range s.reviews {
		if _, ok := productIDs[r.ProductID]; ok && r.Visible() {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *Store) displayName(userID string) string {
	if u := s.findUser(userID); u != nil {
		return u.DisplayName
	}
	return "Someone"
}
