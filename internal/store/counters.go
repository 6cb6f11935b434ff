// internal/store/counters.go
package store

import (
	"fmt"

	"github.com/quangvu/bmarket/internal/storage"
)

// counters holds one monotonic sequence per entity type. The persisted
// value is reconciled at boot to max(persisted, liveCount+1) so that an
// out-of-band import can never make the next allocation collide.
type counters struct {
	User         int `json:"userCounter"`
	Product      int `json:"productCounter"`
	Variant      int `json:"variantCounter"`
	Review       int `json:"reviewCounter"`
	Post         int `json:"postCounter"`
	Comment      int `json:"commentCounter"`
	Notification int `json:"notificationCounter"`
	Report       int `json:"reportCounter"`
	CartItem     int `json:"cartItemCounter"`
}

func (s *Store) loadCounters() {
	s.gw.Read(storage.KeyCounters, &s.counters)

	s.counters.User = reconcile(s.counters.User, len(s.users), 1)
	s.counters.Product = reconcile(s.counters.Product, len(s.products), 1)
	s.counters.Review = reconcile(s.counters.Review, len(s.reviews), 1)
	s.counters.Post = reconcile(s.counters.Post, len(s.posts), 100)
	s.counters.Comment = reconcile(s.counters.Comment, len(s.comments), 1)
	s.counters.Notification = reconcile(s.counters.Notification, len(s.notifications), 1)
	s.counters.Report = reconcile(s.counters.Report, len(s.reports), 1)
	// Variants have no collection of their own; they live inside products.
	s.counters.Variant = reconcile(s.counters.Variant, 0, 1000)
	s.counters.CartItem = reconcile(s.counters.CartItem, 0, 1)
}

func reconcile(persisted, liveCount, floor int) int {
	next := liveCount + 1
	if persisted > next {
		next = persisted
	}
	if next < floor {
		next = floor
	}
	return next
}

func (s *Store) saveCounters() {
	s.gw.Write(storage.KeyCounters, s.counters)
}

// nextID allocates the next prefixed sequential id for one entity type
// and writes the counters through.
func (s *Store) nextID(c *int, prefix string) string {
	id := fmt.Sprintf("%s%d", prefix, *c)
	*c++
	s.saveCounters()
	return id
}

func (s *Store) nextUserID() string         { return s.nextID(&s.counters.User, "u-") }
func (s *Store) nextProductID() string      { return s.nextID(&s.counters.Product, "p-") }
func (s *Store) nextVariantID() string      { return s.nextID(&s.counters.Variant, "v-") }
func (s *Store) nextReviewID() string       { return s.nextID(&s.counters.Review, "r-") }
func (s *Store) nextPostID() string         { return s.nextID(&s.counters.Post, "post-") }
func (s *Store) nextCommentID() string      { return s.nextID(&s.counters.Comment, "c-") }
func (s *Store) nextNotificationID() string { return s.nextID(&s.counters.Notification, "n-") }
func (s *Store) nextReportID() string       { return s.nextID(&s.counters.Report, "rep-") }
func (s *Store) nextCartItemID() string     { return s.nextID(&s.counters.CartItem, "ci-") }
