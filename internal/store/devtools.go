// internal/store/devtools.go
package store

import (
	"encoding/json"

	"github.com/quangvu/bmarket/internal/models"
	"github.com/quangvu/bmarket/internal/storage"
)

// Operator import/export. Both are gated behind the dev-tools config
// flag; the CLI in cmd/bmarketctl is the intended caller.

// ExportUsers returns the user collection as pretty-printed JSON.
// Password hashes are included so credentials survive a round trip
// through import.
func (s *Store) ExportUsers() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if !s.cfg.DevTools {
		return nil, models.NewFeatureDisabled("dev tools")
	}

	export := make([]*models.User, len(s.users))
	copy(export, s.users)
	return json.MarshalIndent(export, "", "  ")
}

// ImportUsers merges a JSON user dump into the persisted snapshot.
// The merge runs against the stored collection and writes straight
// back through the gateway; the live in-memory collections are left
// untouched, so the import only becomes visible after a reload.
func (s *Store) ImportUsers(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if !s.cfg.DevTools {
		return 0, models.NewFeatureDisabled("dev tools")
	}

	var incoming []models.User
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, models.NewValidation("invalid user dump", err)
	}

	var existing []models.User
	s.gw.Read(storage.KeyUsers, &existing)

	merged := storage.MergeUsers(existing, incoming, s.now())
	s.gw.Write(storage.KeyUsers, merged)

	s.log.WithField("count", len(merged)).Info("user import merged; reload to pick up changes")
	return len(merged), nil
}
