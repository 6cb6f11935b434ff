// internal/store/notifications.go
package store

import (
	"sort"

	"github.com/quangvu/bmarket/internal/models"
)

// notify records an event for its recipient. Events where the actor is
// the recipient are dropped: users never hear about their own actions.
// Caller holds the store lock and fills every field except ID and
// CreatedAt.
func (s *Store) notify(n *models.Notification) {
	if n.UserID == "" || n.UserID == n.ActorID {
		return
	}
	n.ID = s.nextNotificationID()
	n.CreatedAt = s.now()
	n.ReadAt = nil
	s.notifications = append(s.notifications, n)
	s.saveNotifications()
}

// ListNotifications returns the user's notifications, newest first.
func (s *Store) ListNotifications(userID string) ([]*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	result := make([]*models.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) UnreadNotificationCount(userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	n := 0
	for _, note := range s.notifications {
		if note.UserID == userID && note.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

// MarkNotificationRead stamps ReadAt, recipient only. Re-reading an
// already-read notification is a no-op that keeps the original stamp.
func (s *Store) MarkNotificationRead(notificationID, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	for _, n := range s.notifications {
		if n.ID != notificationID {
			continue
		}
		if n.UserID != actorID {
			return models.NewUnauthorized("not your notification")
		}
		if n.ReadAt == nil {
			now := s.now()
			n.ReadAt = &now
			s.saveNotifications()
		}
		return nil
	}
	return models.NewNotFound("notification", notificationID)
}

func (s *Store) MarkAllNotificationsRead(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	now := s.now()
	changed := false
	for _, n := range s.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &now
			changed = true
		}
	}
	if changed {
		s.saveNotifications()
	}
	return nil
}

// ClearNotification removes a notification from the recipient's feed.
func (s *Store) ClearNotification(notificationID, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	for i, n := range s.notifications {
		if n.ID != notificationID {
			continue
		}
		if n.UserID != actorID {
			return models.NewUnauthorized("not your notification")
		}
		s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
		s.saveNotifications()
		return nil
	}
	return models.NewNotFound("notification", notificationID)
}
