// internal/storage/merge_test.go
package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangvu/bmarket/internal/models"
)

func TestMergeUsersNonEmptyFieldsWin(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	existing := []models.User{{
		ID:          "u-1",
		Email:       "a@x.com",
		DisplayName: "An",
		Bio:         "original bio",
	}}
	incoming := []models.User{{
		ID:    "u-1",
		Email: "a@x.com",
		// DisplayName and Bio intentionally empty.
		Location: "Hà Nội",
	}}

	merged := MergeUsers(existing, incoming, now)

	require.Len(t, merged, 1)
	assert.Equal(t, "An", merged[0].DisplayName, "blank import field must not erase stored data")
	assert.Equal(t, "original bio", merged[0].Bio)
	assert.Equal(t, "Hà Nội", merged[0].Location)
	assert.Equal(t, now, merged[0].UpdatedAt)
}

func TestMergeUsersMatchesByEmailCaseInsensitive(t *testing.T) {
	now := time.Now().UTC()
	existing := []models.User{{ID: "u-1", Email: "a@x.com", DisplayName: "An"}}
	incoming := []models.User{{ID: "u-other", Email: "A@X.COM", Bio: "imported"}}

	merged := MergeUsers(existing, incoming, now)

	require.Len(t, merged, 1, "email match must update, not insert")
	assert.Equal(t, "u-1", merged[0].ID, "existing id survives an email match")
	assert.Equal(t, "imported", merged[0].Bio)
}

func TestMergeUsersInsertsUnmatched(t *testing.T) {
	now := time.Now().UTC()
	existing := []models.User{{ID: "u-1", Email: "a@x.com"}}
	incoming := []models.User{{ID: "u-2", Email: "B@Y.com", DisplayName: "Binh"}}

	merged := MergeUsers(existing, incoming, now)

	require.Len(t, merged, 2)
	assert.Equal(t, "u-1", merged[0].ID, "existing order preserved, inserts appended")
	assert.Equal(t, "b@y.com", merged[1].Email, "inserted email is lower-cased")
	assert.Equal(t, now, merged[1].CreatedAt)
	assert.Equal(t, now, merged[1].UpdatedAt)
}

func TestMergeUsersSkipsRecordsMissingIdentity(t *testing.T) {
	now := time.Now().UTC()
	existing := []models.User{{ID: "u-1", Email: "a@x.com"}}
	incoming := []models.User{
		{ID: "", Email: "x@x.com"},
		{ID: "u-3", Email: ""},
	}

	merged := MergeUsers(existing, incoming, now)
	assert.Len(t, merged, 1)
}
