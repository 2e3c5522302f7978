package domain

import (
	"context"
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	University   *string   `json:"university"`
	Activated    bool      `json:"activated"`
	Locked       bool      `json:"locked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
	RequestID string
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// TokenIssuer signs and verifies the bearer tokens handed out at login.
type TokenIssuer interface {
	Issue(user *User) (string, time.Time, error)
	Parse(token string) (*Principal, error)
}

// LoginGuard tracks failed logins and blocks repeat offenders.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email, ip string) (bool, error)
	RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error)
	ClearAttempts(ctx context.Context, email, ip string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) error
	Activate(ctx context.Context, token string) error
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	GetCurrentUser(ctx context.Context, id int64) (*User, error)
	PurgeStaleTokens(ctx context.Context) (int64, error)
}
