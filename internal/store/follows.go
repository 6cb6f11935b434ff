// internal/store/follows.go
package store

// Follow makes follower follow target. Following yourself, or someone
// you already follow, is a silent no-op.
func (s *Store) Follow(followerID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if followerID == targetID {
		return nil
	}
	set := s.followSet(followerID)
	if _, ok := set[targetID]; ok {
		return nil
	}
	set[targetID] = struct{}{}
	s.saveFollows()
	return nil
}

func (s *Store) Unfollow(followerID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	set, ok := s.follows[followerID]
	if !ok {
		return nil
	}
	if _, ok := set[targetID]; !ok {
		return nil
	}
	delete(set, targetID)
	s.saveFollows()
	return nil
}

func (s *Store) IsFollowing(followerID, targetID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	_, ok := s.follows[followerID][targetID]
	return ok, nil
}

// Following returns the ids the user follows.
func (s *Store) Following(userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	result := make([]string, 0, len(s.follows[userID]))
	for id := range s.follows[userID] {
		result = append(result, id)
	}
	return result, nil
}

// Followers scans every follow-set for the target. The edge map is
// keyed by follower, so the reverse direction is a full scan.
func (s *Store) Followers(userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	result := make([]string, 0)
	for follower, set := range s.follows {
		if _, ok := set[userID]; ok {
			result = append(result, follower)
		}
	}
	return result, nil
}

func (s *Store) FollowerCount(userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	n := 0
	for _, set := range s.follows {
		if _, ok := set[userID]; ok {
			n++
		}
	}
	return n, nil
}
