package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/talent-identity/internal/domain/profile"
)

type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleProvider Role = "provider"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSeeker, RoleProvider:
		return true
	}
	return false
}

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type User struct {
	ID           uuid.UUID       `json:"_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PhoneNumber  string          `json:"phoneNumber"`
	PasswordHash string          `json:"-"`
	Role         Role            `json:"role"`
	Profile      profile.Profile `json:"profile"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// View is the sanitized projection of a User that is safe to return to callers.
type View struct {
	ID          uuid.UUID       `json:"_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	Role        Role            `json:"role"`
	Profile     profile.Profile `json:"profile"`
}

func (u *User) Sanitize() View {
	return View{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Profile:     u.Profile.Clone(),
	}
}

// Repository stores accounts keyed by a unique email.
// Create and Save return ErrDuplicateEmail when the email is taken by
// another account; lookups and Save return ErrUserNotFound when nothing matches.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
}
