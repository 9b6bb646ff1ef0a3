package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is what a verified bearer token vouches for.
type Identity struct {
	UserID string
	Email  string
}

// AuthSession is the result of a successful login.
type AuthSession struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*AuthSession, error)
	Authenticate(ctx context.Context, token string) (*Identity, error)
}
