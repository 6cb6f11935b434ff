// internal/models/common.go
package models

import "time"

// Enums

type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDeleted   UserStatus = "deleted"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusDeleted:
		return true
	}
	return false
}

// ContentStatus is the moderation state of a product, post, comment or
// review. Statuses are normalized at write time so every stored record
// carries an explicit value; read paths never apply a default.
type ContentStatus string

const (
	ContentStatusActive  ContentStatus = "active"
	ContentStatusHidden  ContentStatus = "hidden"
	ContentStatusDeleted ContentStatus = "deleted"
)

func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusActive, ContentStatusHidden, ContentStatusDeleted:
		return true
	}
	return false
}

// Normalized maps the empty status carried by legacy records to active.
func (s ContentStatus) Normalized() ContentStatus {
	if s == "" {
		return ContentStatusActive
	}
	return s
}

type NotificationType string

const (
	NotificationPostLiked       NotificationType = "POST_LIKED"
	NotificationPostCommented   NotificationType = "POST_COMMENTED"
	NotificationProductReviewed NotificationType = "PRODUCT_REVIEWED"
)

type ReportTargetType string

const (
	ReportTargetProduct ReportTargetType = "product"
	ReportTargetPost    ReportTargetType = "post"
	ReportTargetComment ReportTargetType = "comment"
	ReportTargetReview  ReportTargetType = "review"
	ReportTargetUser    ReportTargetType = "user"
)

func (t ReportTargetType) Valid() bool {
	switch t {
	case ReportTargetProduct, ReportTargetPost, ReportTargetComment, ReportTargetReview, ReportTargetUser:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportStatusOpen      ReportStatus = "open"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Closed reports whether the report reached a terminal state.
func (s ReportStatus) Closed() bool {
	return s == ReportStatusResolved || s == ReportStatusDismissed
}

// MoneyVND is an integer amount of Vietnamese Dong (no decimals).
type MoneyVND int64

// Timestamps is embedded by every persisted entity.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Touch sets CreatedAt on first write and refreshes UpdatedAt.
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
