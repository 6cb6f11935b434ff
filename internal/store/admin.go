// internal/store/admin.go
package store

import (
	"sort"
	"strings"
	"time"

	"github.com/quangvu/bmarket/internal/models"
	"github.com/quangvu/bmarket/internal/utils"
)

// Admin surface. Every operation here takes the acting user's id and
// rejects non-admins before reading anything. Admin list views see
// hidden content; deleted records stay out unless a filter names the
// deleted status explicitly.

func (s *Store) requireAdmin(actorID string) error {
	if !s.isAdmin(actorID) {
		return models.NewUnauthorized("admin access required")
	}
	return nil
}

// adminVisible implements the list-view default described above.
func adminVisible(status models.ContentStatus, filter models.ContentStatus) bool {
	status = status.Normalized()
	if filter != "" {
		return status == filter
	}
	return status != models.ContentStatusDeleted
}

// Users

type AdminUserFilter struct {
	Query  string            `json:"q,omitempty"`
	Status models.UserStatus `json:"status,omitempty"`
	Role   models.UserRole   `json:"role,omitempty"`
}

func (s *Store) AdminListUsers(actorID string, filter AdminUserFilter) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	result := make([]*models.User, 0)
	for _, u := range s.users {
		if filter.Status != "" {
			if u.Status != filter.Status {
				continue
			}
		} else if u.Status == models.UserStatusDeleted {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(u.DisplayName), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) &&
			!strings.Contains(strings.ToLower(u.ID), q) {
			continue
		}
		result = append(result, u)
	}
	return result, nil
}

type AdminUpdateUserRequest struct {
	Role      *models.UserRole   `json:"role,omitempty"`
	Status    *models.UserStatus `json:"status,omitempty"`
	AvatarURL *string            `json:"avatarUrl,omitempty"`
}

func (s *Store) AdminUpdateUser(actorID, userID string, req *AdminUpdateUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	user := s.findUser(userID)
	if user == nil {
		return nil, models.NewNotFound("user", userID)
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, models.NewValidation("invalid role", nil)
		}
		user.Role = *req.Role
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, models.NewValidation("invalid status", nil)
		}
		user.Status = *req.Status
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	user.Touch(s.now())
	s.saveUsers()
	s.saveUserProfile(user)
	return user, nil
}

// Products

type AdminProductFilter struct {
	Category  string               `json:"category,omitempty"`
	SellerID  string               `json:"sellerId,omitempty"`
	Status    models.ContentStatus `json:"status,omitempty"`
	MinRating float64              `json:"minRating,omitempty"`
}

func (s *Store) AdminListProducts(actorID string, filter AdminProductFilter) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	result := make([]*models.Product, 0)
	for _, p := range s.products {
		if !adminVisible(p.Status, filter.Status) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.SellerID != "" && p.SellerID != filter.SellerID {
			continue
		}
		if filter.MinRating > 0 && p.AvgRating < filter.MinRating {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

type AdminUpdateProductRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Category    *string                 `json:"category,omitempty"`
	Tags        *[]string               `json:"tags,omitempty"`
	ImageURLs   *[]string               `json:"imageUrls,omitempty"`
	Variants    []models.ProductVariant `json:"variants,omitempty"`
	Status      *models.ContentStatus   `json:"status,omitempty"`
}

func (s *Store) AdminUpdateProduct(actorID, productID string, req *AdminUpdateProductRequest) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	product, _ := s.findProduct(productID)
	if product == nil {
		return nil, models.NewNotFound("product", productID)
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, models.NewValidation("invalid status", nil)
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}
	if req.ImageURLs != nil {
		product.ImageURLs = *req.ImageURLs
	}
	if len(req.Variants) > 0 {
		for i := range req.Variants {
			if req.Variants[i].ID == "" {
				req.Variants[i].ID = s.nextVariantID()
			}
		}
		product.Variants = req.Variants
	}
	if req.Status != nil {
		product.Status = *req.Status
	}
	product.Touch(s.now())
	s.saveProducts()
	return product, nil
}

// Posts and comments

type AdminPostFilter struct {
	AuthorID string               `json:"authorId,omitempty"`
	Status   models.ContentStatus `json:"status,omitempty"`
	HasMedia *bool                `json:"hasMedia,omitempty"`
}

func (s *Store) AdminListPosts(actorID string, filter AdminPostFilter) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	result := make([]*models.Post, 0)
	for _, p := range s.posts {
		if !adminVisible(p.Status, filter.Status) {
			continue
		}
		if filter.AuthorID != "" && p.UserID != filter.AuthorID {
			continue
		}
		if filter.HasMedia != nil && (len(p.ImageURLs) > 0) != *filter.HasMedia {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

type AdminUpdatePostRequest struct {
	Content *string               `json:"content,omitempty"`
	Status  *models.ContentStatus `json:"status,omitempty"`
}

func (s *Store) AdminUpdatePost(actorID, postID string, req *AdminUpdatePostRequest) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	post, _ := s.findPost(postID)
	if post == nil {
		return nil, models.NewNotFound("post", postID)
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, models.NewValidation("invalid status", nil)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Status != nil {
		post.Status = *req.Status
	}
	post.Touch(s.now())
	s.savePosts()
	return post, nil
}

// AdminListCommentsByPost returns all of a post's comments regardless
// of post visibility; moderators review comments on hidden posts too.
func (s *Store) AdminListCommentsByPost(actorID, postID string, statusFilter models.ContentStatus) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	result := make([]*models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID != postID {
			continue
		}
		if !adminVisible(c.Status, statusFilter) {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

type AdminUpdateCommentRequest struct {
	Content *string               `json:"content,omitempty"`
	Status  *models.ContentStatus `json:"status,omitempty"`
}

func (s *Store) AdminUpdateComment(actorID, commentID string, req *AdminUpdateCommentRequest) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	comment, _ := s.findComment(commentID)
	if comment == nil {
		return nil, models.NewNotFound("comment", commentID)
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, models.NewValidation("invalid status", nil)
	}
	if req.Content != nil {
		comment.Content = *req.Content
	}
	if req.Status != nil {
		comment.Status = *req.Status
	}
	comment.Touch(s.now())
	s.saveComments()

	// A status change alters the parent's active-comment count.
	if post, _ := s.findPost(comment.PostID); post != nil {
		post.CommentCount = s.activeCommentCount(post.ID)
		s.savePosts()
	}
	return comment, nil
}

// Reviews

type AdminReviewFilter struct {
	ProductID string               `json:"productId,omitempty"`
	MinRating int                  `json:"minRating,omitempty"`
	Status    models.ContentStatus `json:"status,omitempty"`
}

func (s *Store) AdminListReviews(actorID string, filter AdminReviewFilter) ([]*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	result := make([]*models.Review, 0)
	for _, r := range s.reviews {
		if !adminVisible(r.Status, filter.Status) {
			continue
		}
		if filter.ProductID != "" && r.ProductID != filter.ProductID {
			continue
		}
		if filter.MinRating > 0 && r.Rating < filter.MinRating {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

type AdminUpdateReviewRequest struct {
	Status *models.ContentStatus `json:"status,omitempty"`
}

func (s *Store) AdminUpdateReview(actorID, reviewID string, req *AdminUpdateReviewRequest) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	review := s.findReview(reviewID)
	if review == nil {
		return nil, models.NewNotFound("review", reviewID)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, models.NewValidation("invalid status", nil)
		}
		review.Status = *req.Status
	}
	review.Touch(s.now())
	s.saveReviews()

	// Hiding or restoring a review moves the product aggregate.
	if product, _ := s.findProduct(review.ProductID); product != nil {
		s.recomputeProductRating(product)
		s.saveProducts()
	}
	return review, nil
}

// Reports

type CreateReportRequest struct {
	Type       models.ReportTargetType `json:"type" validate:"required"`
	TargetID   string                  `json:"targetId" validate:"required"`
	Reason     string                  `json:"reason" validate:"required"`
	ReporterID string                  `json:"reporterId" validate:"required"`
}

// CreateReport is open to any user, not just admins.
func (s *Store) CreateReport(req *CreateReportRequest) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidation("validation failed", err)
	}
	if !req.Type.Valid() {
		return nil, models.NewValidation("invalid report target type", nil)
	}
	if s.findUser(req.ReporterID) == nil {
		return nil, models.NewNotFound("user", req.ReporterID)
	}

	report := &models.Report{
		ID:         s.nextReportID(),
		Type:       req.Type,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		ReporterID: req.ReporterID,
		Status:     models.ReportStatusOpen,
		CreatedAt:  s.now(),
	}
	s.reports = append(s.reports, report)
	s.saveReports()
	return report, nil
}

type AdminReportFilter struct {
	Status models.ReportStatus     `json:"status,omitempty"`
	Type   models.ReportTargetType `json:"type,omitempty"`
}

func (s *Store) AdminListReports(actorID string, filter AdminReportFilter) ([]*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	result := make([]*models.Report, 0)
	for _, r := range s.reports {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		result = append(result, r)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

type ResolveReportRequest struct {
	// Status must be a terminal state: resolved or dismissed.
	Status models.ReportStatus `json:"status" validate:"required"`
	Note   string              `json:"note,omitempty"`
	// HideTarget also hides (or suspends, for users) the reported thing.
	HideTarget bool `json:"hideTarget,omitempty"`
}

// AdminResolveReport moves an open report to a terminal state. Closed
// reports are immutable; re-resolving is a validation error, not a
// silent overwrite. HideTarget takes effect only on a resolved outcome:
// dismissing a report leaves the target alone regardless of the flag.
// A target that has since disappeared does not fail the resolution.
func (s *Store) AdminResolveReport(actorID, reportID string, req *ResolveReportRequest) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	report := s.findReport(reportID)
	if report == nil {
		return nil, models.NewNotFound("report", reportID)
	}
	if report.Status.Closed() {
		return nil, models.NewValidation("report already "+string(report.Status), nil)
	}
	if !req.Status.Closed() {
		return nil, models.NewValidation("resolution status must be resolved or dismissed", nil)
	}

	report.Status = req.Status
	report.ResolutionNote = req.Note
	now := s.now()
	report.ResolvedAt = &now

	if req.HideTarget && req.Status == models.ReportStatusResolved {
		s.hideReportTarget(report)
	}

	s.saveReports()
	return report, nil
}

func (s *Store) hideReportTarget(report *models.Report) {
	switch report.Type {
	case models.ReportTargetProduct:
		if p, _ := s.findProduct(report.TargetID); p != nil {
			p.Status = models.ContentStatusHidden
			p.Touch(s.now())
			s.saveProducts()
		}
	case models.ReportTargetPost:
		if p, _ := s.findPost(report.TargetID); p != nil {
			p.Status = models.ContentStatusHidden
			p.Touch(s.now())
			s.savePosts()
		}
	case models.ReportTargetComment:
		if c, _ := s.findComment(report.TargetID); c != nil {
			c.Status = models.ContentStatusHidden
			c.Touch(s.now())
			s.saveComments()
			if post, _ := s.findPost(c.PostID); post != nil {
				post.CommentCount = s.activeCommentCount(post.ID)
				s.savePosts()
			}
		}
	case models.ReportTargetReview:
		if r := s.findReview(report.TargetID); r != nil {
			r.Status = models.ContentStatusHidden
			r.Touch(s.now())
			s.saveReviews()
			if product, _ := s.findProduct(r.ProductID); product != nil {
				s.recomputeProductRating(product)
				s.saveProducts()
			}
		}
	case models.ReportTargetUser:
		if u := s.findUser(report.TargetID); u != nil {
			u.Status = models.UserStatusSuspended
			u.Touch(s.now())
			s.saveUsers()
		}
	}
}

// Activity feed

// ActivityItem is one row of the admin dashboard's recent-activity
// panel, a flattened view over several collections.
type ActivityItem struct {
	Kind      string    `json:"kind"` // "user", "product", "post", "review", "report"
	ID        string    `json:"id"`
	ActorID   string    `json:"actorId,omitempty"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Store) GetRecentActivity(actorID string, limit int) ([]ActivityItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	items := make([]ActivityItem, 0)
	for _, u := range s.users {
		items = append(items, ActivityItem{
			Kind: "user", ID: u.ID, ActorID: u.ID,
			Summary:   u.DisplayName + " joined",
			CreatedAt: u.CreatedAt,
		})
	}
	for _, p := range s.products {
		items = append(items, ActivityItem{
			Kind: "product", ID: p.ID, ActorID: p.SellerID,
			Summary:   "listed " + p.Name,
			CreatedAt: p.CreatedAt,
		})
	}
	for _, p := range s.posts {
		items = append(items, ActivityItem{
			Kind: "post", ID: p.ID, ActorID: p.UserID,
			Summary:   "published a post",
			CreatedAt: p.CreatedAt,
		})
	}
	for _, r := range s.reviews {
		items = append(items, ActivityItem{
			Kind: "review", ID: r.ID, ActorID: r.UserID,
			Summary:   "reviewed a product",
			CreatedAt: r.CreatedAt,
		})
	}
	for _, r := range s.reports {
		items = append(items, ActivityItem{
			Kind: "report", ID: r.ID, ActorID: r.ReporterID,
			Summary:   "reported a " + string(r.Type),
			CreatedAt: r.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Settings

// GetSettings is unauthenticated: every surface needs the feature
// toggles and the marketplace name.
func (s *Store) GetSettings() (models.AdminSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	return s.settings, nil
}

type UpdateSettingsRequest struct {
	MarketplaceName         *string  `json:"marketplaceName,omitempty"`
	FeePercentage           *float64 `json:"feePercentage,omitempty"`
	MaxUploadSizeMB         *float64 `json:"maxUploadSizeMb,omitempty"`
	EnableNewPost           *bool    `json:"enableNewPost,omitempty"`
	EnableNewProductListing *bool    `json:"enableNewProductListing,omitempty"`
}

func (s *Store) UpdateSettings(actorID string, req *UpdateSettingsRequest) (models.AdminSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := s.requireAdmin(actorID); err != nil {
		return models.AdminSettings{}, err
	}

	next := s.settings
	if req.MarketplaceName != nil {
		name := strings.TrimSpace(*req.MarketplaceName)
		if name == "" {
			return models.AdminSettings{}, models.NewValidation("marketplace name cannot be empty", nil)
		}
		next.MarketplaceName = name
	}
	if req.FeePercentage != nil {
		if *req.FeePercentage < 0 || *req.FeePercentage > 100 {
			return models.AdminSettings{}, models.NewValidation("fee percentage must be between 0 and 100", nil)
		}
		next.FeePercentage = *req.FeePercentage
	}
	if req.MaxUploadSizeMB != nil {
		if *req.MaxUploadSizeMB < 0.5 || *req.MaxUploadSizeMB > 20 {
			return models.AdminSettings{}, models.NewValidation("max upload size must be between 0.5 and 20 MB", nil)
		}
		next.MaxUploadSizeMB = *req.MaxUploadSizeMB
	}
	if req.EnableNewPost != nil {
		next.EnableNewPost = *req.EnableNewPost
	}
	if req.EnableNewProductListing != nil {
		next.EnableNewProductListing = *req.EnableNewProductListing
	}

	s.settings = next
	s.saveSettings()
	return s.settings, nil
}
