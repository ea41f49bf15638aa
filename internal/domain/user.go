package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        *string   `json:"phone"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName returns "First Last".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Password  string
}

// SessionClaims are the verified contents of a session token.
type SessionClaims struct {
	UserID    int64
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues session tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, email string, expiry time.Duration) (token string, claims *SessionClaims, err error)
}

// TokenVerifier verifies a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*SessionClaims, error)
}

// TokenRevoker keeps the ids of logged-out tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// UserService defines registration and session management.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	// Authenticate verifies a session token and returns the user id it carries.
	Authenticate(ctx context.Context, token string) (int64, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
