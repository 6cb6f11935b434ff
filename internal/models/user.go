// internal/models/user.go
package models

import "golang.org/x/crypto/bcrypt"

type SocialLinks struct {
	Facebook string `json:"facebook,omitempty"`
	Zalo     string `json:"zalo,omitempty"`
	Website  string `json:"website,omitempty"`
}

func (l SocialLinks) Empty() bool {
	return l == SocialLinks{}
}

type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	DisplayName  string       `json:"displayName"`
	AvatarURL    string       `json:"avatarUrl,omitempty"`
	Role         UserRole     `json:"role"`
	Status       UserStatus   `json:"status"`
	PasswordHash string       `json:"passwordHash,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Location     string       `json:"location,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	SocialLinks  *SocialLinks `json:"socialLinks,omitempty"`
	Timestamps
}

func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// Visible reports whether the user appears in public reads. Soft-deleted
// users are hidden but their ids stay valid as foreign references.
func (u *User) Visible() bool {
	return u.Status != UserStatusDeleted
}

// AuthUser is the session payload: the user minus credentials and
// moderation fields.
type AuthUser struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	Role        UserRole `json:"role"`
}

func (u *User) Auth() *AuthUser {
	return &AuthUser{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
	}
}

// PublicUser is the profile shown to other users (no email).
type PublicUser struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"displayName"`
	AvatarURL   string       `json:"avatarUrl,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	Location    string       `json:"location,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
	CreatedAt   string       `json:"createdAt"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		Location:    u.Location,
		Phone:       u.Phone,
		SocialLinks: u.SocialLinks,
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// UserProfile is the per-user storage record (one key per user id),
// independent of the main user list so profiles survive partial imports.
type UserProfile struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	DisplayName string       `json:"displayName"`
	AvatarURL   string       `json:"avatarUrl,omitempty"`
	Role        UserRole     `json:"role"`
	Bio         string       `json:"bio,omitempty"`
	Location    string       `json:"location,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
		Bio:         u.Bio,
		Location:    u.Location,
		Phone:       u.Phone,
		SocialLinks: u.SocialLinks,
	}
}
