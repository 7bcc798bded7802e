package domain

import "context"

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/Fakhir-Israr-200219/auth-service/internal/auth/domain UserRepository,PasswordHasher

// UserRepository is the persistence contract for user records. Lookups return
// (nil, nil) when no row matches; the caller decides whether that is an error.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

// PasswordHasher is the pluggable credential-hashing policy. Verify must
// compare in constant time.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
