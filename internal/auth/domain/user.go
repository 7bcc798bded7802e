package domain

import "time"

// User is the identity record persisted in the users table. RefreshTokenHash
// and RefreshTokenExpiresAt hold the SHA-256 digest of the single active
// refresh token and its expiry; both are nil when no session is active.
type User struct {
	ID                    string
	Email                 string
	Username              string
	PasswordHash          string
	FirstName             string
	LastName              string
	Gender                string
	RefreshTokenHash      *string
	RefreshTokenExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SetRefreshToken records the hash and expiry of a freshly issued refresh
// token. Both fields are always written together.
func (u *User) SetRefreshToken(hash string, expiresAt time.Time) {
	u.RefreshTokenHash = &hash
	u.RefreshTokenExpiresAt = &expiresAt
}

// ClearRefreshToken drops the active refresh token, returning the user to the
// no-session state.
func (u *User) ClearRefreshToken() {
	u.RefreshTokenHash = nil
	u.RefreshTokenExpiresAt = nil
}
