// internal/store/store.go

// Package store holds the in-memory entity collections and the facade
// every caller goes through. The store is the exclusive owner of all
// collections and the only writer; the persistence gateway below it has
// no knowledge of entity semantics.
package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quangvu/bmarket/internal/config"
	"github.com/quangvu/bmarket/internal/models"
	"github.com/quangvu/bmarket/internal/storage"
)

type likeEntry struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

type followEntry struct {
	FollowerID  string `json:"followerId"`
	FollowingID string `json:"followingId"`
}

// Store is the domain data store. Operations are synchronous and run to
// completion under one coarse mutex, because invariants span several
// collections at once (a like toggle touches the like-set, the post's
// cached counter and the notification list as one unit). Reads share the
// same mutex; nothing here is cancellable.
type Store struct {
	mu  sync.Mutex
	gw  *storage.Gateway
	cfg *config.Config
	log *logrus.Logger

	// sleep simulates network latency before an operation returns. It is
	// stubbed to a no-op in tests.
	sleep func()

	users         []*models.User
	products      []*models.Product
	posts         []*models.Post
	comments      []*models.Comment
	reviews       []*models.Review
	reports       []*models.Report
	notifications []*models.Notification

	// postLikes and follows are authoritative relation sets; the cached
	// counters on posts are re-derived from postLikes, never the reverse.
	postLikes map[string]map[string]struct{}
	follows   map[string]map[string]struct{}

	settings models.AdminSettings
	counters counters
}

type Option func(*Store)

func WithLogger(log *logrus.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithoutLatency disables the simulated latency; used by tests and the
// operator CLI.
func WithoutLatency() Option {
	return func(s *Store) { s.sleep = func() {} }
}

// New loads every collection through the gateway, runs the one-shot key
// migration, normalizes statuses, hydrates per-user profiles and
// reconciles the id counters against live collection sizes.
func New(gw *storage.Gateway, cfg *config.Config, opts ...Option) *Store {
	s := &Store{
		gw:        gw,
		cfg:       cfg,
		log:       logrus.StandardLogger(),
		postLikes: make(map[string]map[string]struct{}),
		follows:   make(map[string]map[string]struct{}),
		settings:  models.DefaultAdminSettings(),
	}

	if cfg.Latency.Disabled {
		s.sleep = func() {}
	} else {
		min := time.Duration(cfg.Latency.MinMS) * time.Millisecond
		span := time.Duration(cfg.Latency.MaxMS-cfg.Latency.MinMS) * time.Millisecond
		s.sleep = func() {
			d := min
			if span > 0 {
				d += time.Duration(rand.Int63n(int64(span)))
			}
			time.Sleep(d)
		}
	}

	for _, opt := range opts {
		opt(s)
	}

	gw.Migrate()

	gw.Read(storage.KeyUsers, &s.users)
	gw.Read(storage.KeyProducts, &s.products)
	gw.Read(storage.KeyPosts, &s.posts)
	gw.Read(storage.KeyComments, &s.comments)
	gw.Read(storage.KeyReviews, &s.reviews)
	gw.Read(storage.KeyReports, &s.reports)
	gw.Read(storage.KeyNotifications, &s.notifications)
	gw.Read(storage.KeyAdminSettings, &s.settings)

	var likes []likeEntry
	gw.Read(storage.KeyPostLikes, &likes)
	for _, e := range likes {
		s.likeSet(e.PostID)[e.UserID] = struct{}{}
	}

	var follows []followEntry
	gw.Read(storage.KeyFollows, &follows)
	for _, e := range follows {
		s.followSet(e.FollowerID)[e.FollowingID] = struct{}{}
	}

	s.normalize()
	s.hydrateProfiles()
	s.loadCounters()

	s.log.WithFields(logrus.Fields{
		"users":    len(s.users),
		"products": len(s.products),
		"posts":    len(s.posts),
	}).Debug("store loaded")

	return s
}

// normalize gives every record an explicit status so read paths never
// have to default one.
func (s *Store) normalize() {
	for _, u := range s.users {
		if u.Status == "" {
			u.Status = models.UserStatusActive
		}
		if u.Role == "" {
			u.Role = models.RoleUser
		}
	}
	for _, p := range s.products {
		p.Status = p.Status.Normalized()
	}
	for _, p := range s.posts {
		p.Status = p.Status.Normalized()
	}
	for _, c := range s.comments {
		c.Status = c.Status.Normalized()
	}
	for _, r := range s.reviews {
		r.Status = r.Status.Normalized()
	}
}

// hydrateProfiles overlays the per-user profile keys onto the user list.
// The profile key is the source of truth for avatar and profile fields.
func (s *Store) hydrateProfiles() {
	for _, u := range s.users {
		var p models.UserProfile
		if !s.gw.Read(storage.UserKeyPrefix+u.ID, &p) {
			continue
		}
		if p.DisplayName != "" {
			u.DisplayName = p.DisplayName
		}
		if p.AvatarURL != "" {
			u.AvatarURL = p.AvatarURL
		}
		if p.Bio != "" {
			u.Bio = p.Bio
		}
		if p.Location != "" {
			u.Location = p.Location
		}
		if p.Phone != "" {
			u.Phone = p.Phone
		}
		if p.SocialLinks != nil && !p.SocialLinks.Empty() {
			u.SocialLinks = p.SocialLinks
		}
	}
}

// pause runs the simulated latency. Called while still holding the
// mutex so a second mutating call can never interleave.
func (s *Store) pause() {
	s.sleep()
}

func (s *Store) now() time.Time {
	return time.Now().UTC()
}

// Persistence write-through helpers. All best-effort via the gateway.

func (s *Store) saveUsers() { s.gw.Write(storage.KeyUsers, s.users) }

func (s *Store) saveUserProfile(u *models.User) {
	s.gw.Write(storage.UserKeyPrefix+u.ID, u.Profile())
}

func (s *Store) saveProducts()      { s.gw.Write(storage.KeyProducts, s.products) }
func (s *Store) savePosts()         { s.gw.Write(storage.KeyPosts, s.posts) }
func (s *Store) saveComments()      { s.gw.Write(storage.KeyComments, s.comments) }
func (s *Store) saveReviews()       { s.gw.Write(storage.KeyReviews, s.reviews) }
func (s *Store) saveReports()       { s.gw.Write(storage.KeyReports, s.reports) }
func (s *Store) saveNotifications() { s.gw.Write(storage.KeyNotifications, s.notifications) }
func (s *Store) saveSettings()      { s.gw.Write(storage.KeyAdminSettings, s.settings) }

func (s *Store) saveLikes() {
	entries := make([]likeEntry, 0)
	for postID, set := range s.postLikes {
		for userID := range set {
			entries = append(entries, likeEntry{PostID: postID, UserID: userID})
		}
	}
	s.gw.Write(storage.KeyPostLikes, entries)
}

func (s *Store) saveFollows() {
	entries := make([]followEntry, 0)
	for followerID, set := range s.follows {
		for followingID := range set {
			entries = append(entries, followEntry{FollowerID: followerID, FollowingID: followingID})
		}
	}
	s.gw.Write(storage.KeyFollows, entries)
}

// Relation set accessors, creating on demand.

func (s *Store) likeSet(postID string) map[string]struct{} {
	set, ok := s.postLikes[postID]
	if !ok {
		set = make(map[string]struct{})
		s.postLikes[postID] = set
	}
	return set
}

func (s *Store) followSet(followerID string) map[string]struct{} {
	set, ok := s.follows[followerID]
	if !ok {
		set = make(map[string]struct{})
		s.follows[followerID] = set
	}
	return set
}

// Lookup helpers. Index-returning variants exist where the caller needs
// to splice the backing slice.

func (s *Store) findUser(id string) *models.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) findProduct(id string) (*models.Product, int) {
	for i, p := range s.products {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

func (s *Store) findPost(id string) (*models.Post, int) {
	for i, p := range s.posts {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

func (s *Store) findComment(id string) (*models.Comment, int) {
	for i, c := range s.comments {
		if c.ID == id {
			return c, i
		}
	}
	return nil, -1
}

func (s *Store) findReview(id string) *models.Review {
	for _, r := range s.reviews {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *Store) findReport(id string) *models.Report {
	for _, r := range s.reports {
		if r.ID == id {
			return r
		}
	}
	return nil
}
