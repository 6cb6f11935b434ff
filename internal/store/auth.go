// internal/store/auth.go
package store

import (
	"fmt"
	"strings"

	"github.com/quangvu/bmarket/internal/models"
	"github.com/quangvu/bmarket/internal/storage"
	"github.com/quangvu/bmarket/internal/utils"
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful register or login.
type Session struct {
	User  *models.AuthUser `json:"user"`
	Token string           `json:"token"`
}

func (s *Store) Register(req *RegisterRequest) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidation("validation failed", err)
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, models.NewValidation("display name is required", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return nil, models.NewValidation("email already registered", nil)
		}
	}

	user := &models.User{
		ID:          s.nextUserID(),
		Email:       email,
		DisplayName: displayName,
		Role:        models.RoleUser,
		Status:      models.UserStatusActive,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Touch(s.now())

	s.users = append(s.users, user)
	s.saveUsers()
	s.saveUserProfile(user)

	return s.openSession(user)
}

func (s *Store) Login(req *LoginRequest) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidation("validation failed", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user *models.User
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			user = u
			break
		}
	}
	if user == nil {
		return nil, models.NewUnauthorized("invalid email or password")
	}
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, models.NewUnauthorized("invalid email or password")
	}

	switch user.Status {
	case models.UserStatusDeleted:
		return nil, models.NewUnauthorized("account has been deleted")
	case models.UserStatusSuspended:
		return nil, models.NewUnauthorized("account is suspended")
	}

	return s.openSession(user)
}

func (s *Store) openSession(user *models.User) (*Session, error) {
	token, err := utils.GenerateSessionToken(
		[]byte(s.cfg.JWT.SecretKey), user.ID, string(user.Role), s.cfg.JWT.TTLHours)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	s.gw.Write(storage.KeyCurrentUser, user.ID)
	return &Session{User: user.Auth(), Token: token}, nil
}

// GetCurrentUser resolves a session token to its user. Soft-deleted
// users yield NotFound even with a valid token.
func (s *Store) GetCurrentUser(token string) (*models.AuthUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	claims, err := utils.ValidateSessionToken([]byte(s.cfg.JWT.SecretKey), token)
	if err != nil {
		return nil, models.NewUnauthorized("invalid session")
	}

	user := s.findUser(claims.UserID)
	if user == nil || user.Status == models.UserStatusDeleted {
		return nil, models.NewNotFound("user", claims.UserID)
	}
	return user.Auth(), nil
}

func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gw.Remove(storage.KeyCurrentUser)
}

func (s *Store) GetUserByID(userID string) (*models.AuthUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	user := s.findUser(userID)
	if user == nil || !user.Visible() {
		return nil, models.NewNotFound("user", userID)
	}
	return user.Auth(), nil
}

// GetPublicUser returns the profile shown to other users (no email).
func (s *Store) GetPublicUser(userID string) (*models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	user := s.findUser(userID)
	if user == nil || !user.Visible() {
		return nil, models.NewNotFound("user", userID)
	}
	return user.Public(), nil
}

type UpdateProfileRequest struct {
	DisplayName *string             `json:"displayName,omitempty"`
	AvatarURL   *string             `json:"avatarUrl,omitempty"`
	Bio         *string             `json:"bio,omitempty"`
	Location    *string             `json:"location,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	SocialLinks *models.SocialLinks `json:"socialLinks,omitempty"`
}

// UpdateProfile applies the non-nil fields of req. The per-user profile
// key is written alongside the main list so profiles survive a partial
// import of the user collection.
func (s *Store) UpdateProfile(userID string, req *UpdateProfileRequest) (*models.AuthUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	user := s.findUser(userID)
	if user == nil {
		return nil, models.NewNotFound("user", userID)
	}

	if req.DisplayName != nil {
		if trimmed := strings.TrimSpace(*req.DisplayName); trimmed != "" {
			user.DisplayName = trimmed
		}
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Location != nil {
		user.Location = strings.TrimSpace(*req.Location)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.SocialLinks != nil {
		user.SocialLinks = req.SocialLinks
	}
	user.Touch(s.now())

	s.saveUsers()
	s.saveUserProfile(user)
	return user.Auth(), nil
}

func (s *Store) UpdateAvatar(userID, dataURL string) (*models.AuthUser, error) {
	return s.UpdateProfile(userID, &UpdateProfileRequest{AvatarURL: &dataURL})
}

func (s *Store) isAdmin(userID string) bool {
	u := s.findUser(userID)
	return u != nil && u.Status != models.UserStatusDeleted && u.Role == models.RoleAdmin
}

// IsAdmin reports whether the user exists, is not deleted and holds the
// admin role.
func (s *Store) IsAdmin(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAdmin(userID)
}

// Seed inserts the admin/seller/demo accounts when their emails are
// missing. It never overwrites existing users.
func (s *Store) Seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seeds := []struct {
		id          string
		email       string
		displayName string
		role        models.UserRole
		password    string
	}{
		{"u-admin", "admin@bmarket.local", "Admin", models.RoleAdmin, "admin123"},
		{"u-seller", "seller@bmarket.local", "Người bán", models.RoleSeller, "seller123"},
		{"u-demo", "demo@bmarket.local", "Người dùng demo", models.RoleUser, "demo123"},
	}

	inserted := 0
	for _, seed := range seeds {
		exists := false
		for _, u := range s.users {
			if strings.EqualFold(u.Email, seed.email) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		user := &models.User{
			ID:          seed.id,
			Email:       seed.email,
			DisplayName: seed.displayName,
			Role:        seed.role,
			Status:      models.UserStatusActive,
		}
		if err := user.SetPassword(seed.password); err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		user.Touch(s.now())
		s.users = append(s.users, user)
		s.saveUserProfile(user)
		inserted++
	}

	if inserted > 0 {
		s.saveUsers()
		s.counters.User = reconcile(s.counters.User, len(s.users), 1)
		s.saveCounters()
		s.log.WithField("users", inserted).Info("seeded default accounts")
	}
	return nil
}
