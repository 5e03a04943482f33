package service

import (
	"time"

	"github.com/google/uuid"
)

// PasswordHasher is the one-way credential primitive. Plaintext never leaves it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

// TokenIssuer signs session tokens carrying the account id.
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID) (string, error)
	Lifespan() time.Duration
}
