// internal/models/admin.go
package models

import "time"

// Notification is append-only; only ReadAt ever changes after creation.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"` // recipient
	ActorID   string           `json:"actorId"`
	Type      NotificationType `json:"type"`
	PostID    string           `json:"postId,omitempty"`
	ProductID string           `json:"productId,omitempty"`
	CommentID string           `json:"commentId,omitempty"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"createdAt"`
	ReadAt    *time.Time       `json:"readAt"`
}

type Report struct {
	ID             string           `json:"id"`
	Type           ReportTargetType `json:"type"`
	TargetID       string           `json:"targetId"`
	Reason         string           `json:"reason"`
	ReporterID     string           `json:"reporterId"`
	Status         ReportStatus     `json:"status"`
	ResolutionNote string           `json:"resolutionNote,omitempty"`
	ResolvedAt     *time.Time       `json:"resolvedAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// AdminSettings is a process-wide singleton: loaded once at boot, written
// through on every update.
type AdminSettings struct {
	MarketplaceName         string  `json:"marketplaceName"`
	FeePercentage           float64 `json:"feePercentage"`
	MaxUploadSizeMB         float64 `json:"maxUploadSizeMb"`
	EnableNewPost           bool    `json:"enableNewPost"`
	EnableNewProductListing bool    `json:"enableNewProductListing"`
}

func DefaultAdminSettings() AdminSettings {
	return AdminSettings{
		MarketplaceName:         "B Market",
		FeePercentage:           0,
		MaxUploadSizeMB:         2,
		EnableNewPost:           true,
		EnableNewProductListing: true,
	}
}

type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	VariantID string    `json:"variantId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}
