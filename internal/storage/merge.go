// internal/storage/merge.go
package storage

import (
	"strings"
	"time"

	"github.com/quangvu/bmarket/internal/models"
)

// MergeUsers reconciles a bulk import against the existing user list.
// Each incoming record matches an existing one by id first, then by
// case-insensitive email. On a match only non-empty incoming fields are
// copied, so a blank import field never erases stored data; matched
// records get a fresh UpdatedAt. Unmatched records are inserted with a
// lower-cased email and defaulted timestamps. The result preserves the
// existing order, with inserts appended.
func MergeUsers(existing, incoming []models.User, now time.Time) []models.User {
	result := make([]models.User, len(existing))
	copy(result, existing)

	byID := make(map[string]int, len(result))
	byEmail := make(map[string]int, len(result))
	for i, u := range result {
		byID[u.ID] = i
		byEmail[strings.ToLower(u.Email)] = i
	}

	for _, in := range incoming {
		if in.ID == "" || in.Email == "" {
			continue
		}
		idx, ok := byID[in.ID]
		if !ok {
			idx, ok = byEmail[strings.ToLower(in.Email)]
		}
		if ok {
			merged := mergeUserFields(result[idx], in)
			merged.UpdatedAt = now
			result[idx] = merged
			byID[merged.ID] = idx
			byEmail[strings.ToLower(merged.Email)] = idx
			continue
		}

		in.Email = strings.ToLower(in.Email)
		if in.CreatedAt.IsZero() {
			in.CreatedAt = now
		}
		if in.UpdatedAt.IsZero() {
			in.UpdatedAt = now
		}
		result = append(result, in)
		byID[in.ID] = len(result) - 1
		byEmail[in.Email] = len(result) - 1
	}

	return result
}

// mergeUserFields copies every non-empty field of in over base.
func mergeUserFields(base, in models.User) models.User {
	if in.Email != "" {
		base.Email = strings.ToLower(in.Email)
	}
	if in.DisplayName != "" {
		base.DisplayName = in.DisplayName
	}
	if in.AvatarURL != "" {
		base.AvatarURL = in.AvatarURL
	}
	if in.Role != "" {
		base.Role = in.Role
	}
	if in.Status != "" {
		base.Status = in.Status
	}
	if in.PasswordHash != "" {
		base.PasswordHash = in.PasswordHash
	}
	if in.Bio != "" {
		base.Bio = in.Bio
	}
	if in.Location != "" {
		base.Location = in.Location
	}
	if in.Phone != "" {
		base.Phone = in.Phone
	}
	if in.SocialLinks != nil && !in.SocialLinks.Empty() {
		base.SocialLinks = in.SocialLinks
	}
	if !in.CreatedAt.IsZero() {
		base.CreatedAt = in.CreatedAt
	}
	return base
}
