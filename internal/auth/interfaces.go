package auth

import (
	"context"
	"time"

	"github.com/Chrix-Dev/To-do-app/internal/user"
)

// TokenService defines the interface for token creation and validation.
type TokenService interface {
	CreateToken(subject string, ttl time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// UserRepository defines the user persistence operations the auth
// package depends on.
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}
