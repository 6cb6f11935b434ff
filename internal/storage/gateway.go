// internal/storage/gateway.go
package storage

import (
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"
)

// Base key names under the versioned prefix.
const (
	KeyUsers         = "users"
	KeyProducts      = "products"
	KeyPosts         = "posts"
	KeyComments      = "comments"
	KeyReviews       = "reviews"
	KeyPostLikes     = "postLikes"
	KeyFollows       = "follows"
	KeyReports       = "reports"
	KeyNotifications = "notifications"
	KeyAdminSettings = "adminSettings"
	KeyCounters      = "counters"
	KeyCurrentUser   = "currentUserId"

	// UserKeyPrefix namespaces the per-user profile keys ("user:<id>").
	UserKeyPrefix = "user:"
	// CartKeyPrefix namespaces per-user cart keys ("cart:<id>").
	CartKeyPrefix = "cart:"
)

// legacyKey maps a versioned base key to its unprefixed predecessors, in
// priority order. The first populated candidate wins during migration.
var legacyKeys = map[string][]string{
	KeyUsers:         {"bmarket_users"},
	KeyProducts:      {"bmarket_products"},
	KeyPosts:         {"bmarket_posts"},
	KeyComments:      {"bmarket_comments"},
	KeyReviews:       {"bmarket_reviews"},
	KeyPostLikes:     {"bmarket_postLikes"},
	KeyFollows:       {"bmarket_follows"},
	KeyReports:       {"bmarket_reports"},
	KeyAdminSettings: {"bmarket_adminSettings"},
	KeyCounters:      {"bmarket_counters"},
	KeyCurrentUser:   {"bmarket:currentUserId", "bmarket_currentUserId"},
}

// legacyUserKeyPrefix is the unprefixed form of the per-user profile keys.
const legacyUserKeyPrefix = "bmarket:user:"

// Gateway is the persistence gateway: JSON values over a KV substrate,
// namespaced by a schema version prefix. Reads never fail (a corrupt or
// missing blob yields the caller's default) and writes are best-effort;
// faults are logged, never surfaced to store callers.
type Gateway struct {
	kv     KV
	prefix string
	log    *logrus.Logger
}

func NewGateway(kv KV, prefix string, log *logrus.Logger) *Gateway {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Gateway{kv: kv, prefix: prefix, log: log}
}

func (g *Gateway) key(name string) string {
	return g.prefix + name
}

// Read unmarshals the blob under name into out. It returns false and
// leaves out untouched when the key is missing or the blob is corrupt,
// so out keeps whatever default the caller seeded it with.
func (g *Gateway) Read(name string, out interface{}) bool {
	raw, ok, err := g.kv.Get(g.key(name))
	if err != nil {
		g.log.WithError(err).WithField("key", name).Warn("storage read failed, using default")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		g.log.WithError(err).WithField("key", name).Warn("corrupt blob, using default")
		return false
	}
	return true
}

// Write marshals v under name. Faults are swallowed after logging: this
// layer favors availability over durability.
func (g *Gateway) Write(name string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		g.log.WithError(err).WithField("key", name).Warn("storage encode failed, value dropped")
		return
	}
	if err := g.kv.Set(g.key(name), raw); err != nil {
		g.log.WithError(err).WithField("key", name).Warn("storage write failed, value dropped")
	}
}

func (g *Gateway) Remove(name string) {
	if err := g.kv.Delete(g.key(name)); err != nil {
		g.log.WithError(err).WithField("key", name).Warn("storage delete failed")
	}
}

func (g *Gateway) Has(name string) bool {
	_, ok, err := g.kv.Get(g.key(name))
	return err == nil && ok
}

// UserKeys lists the per-user profile key names currently stored, without
// the schema prefix.
func (g *Gateway) UserKeys() []string {
	keys, err := g.kv.Keys(g.key(UserKeyPrefix))
	if err != nil {
		g.log.WithError(err).Warn("storage key scan failed")
		return nil
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, g.prefix))
	}
	return out
}

// normalizeLegacy re-encodes a bare-string legacy blob as a JSON string
// so Read can decode it after migration; the old storage held some
// scalar values (currentUserId) unquoted. Valid JSON passes through.
func normalizeLegacy(raw []byte) []byte {
	if json.Valid(raw) {
		return raw
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}

// Migrate copies legacy unprefixed keys into their versioned form, first
// populated candidate per key. A versioned key that already exists is
// never touched, which makes the migration idempotent without any extra
// process flag; legacy keys are read once and never written back.
func (g *Gateway) Migrate() {
	migrated := 0
	for name, candidates := range legacyKeys {
		if g.Has(name) {
			continue
		}
		for _, legacy := range candidates {
			raw, ok, err := g.kv.Get(legacy)
			if err != nil || !ok || len(raw) == 0 {
				continue
			}
			if err := g.kv.Set(g.key(name), normalizeLegacy(raw)); err != nil {
				g.log.WithError(err).WithField("key", name).Warn("legacy migration write failed")
				break
			}
			migrated++
			break
		}
	}

	// Per-user profile keys migrate by scan; same presence rule per key.
	legacy, err := g.kv.Keys(legacyUserKeyPrefix)
	if err != nil {
		g.log.WithError(err).Warn("legacy user key scan failed")
	}
	for _, k := range legacy {
		name := UserKeyPrefix + strings.TrimPrefix(k, legacyUserKeyPrefix)
		if g.Has(name) {
			continue
		}
		raw, ok, err := g.kv.Get(k)
		if err != nil || !ok || len(raw) == 0 {
			continue
		}
		if err := g.kv.Set(g.key(name), normalizeLegacy(raw)); err != nil {
			g.log.WithError(err).WithField("key", name).Warn("legacy migration write failed")
			continue
		}
		migrated++
	}

	if migrated > 0 {
		g.log.WithField("keys", migrated).Info("migrated legacy storage keys")
	}
}
