package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/Fakhir-Israr-200219/auth-service/internal/auth/service TokenGenerator

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/Fakhir-Israr-200219/auth-service/config"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/domain"
	"github.com/golang-jwt/jwt/v5"
)

const refreshTokenBytes = 64

// ErrMissingSigningKey is fatal at startup: the service cannot issue or
// verify tokens without a key.
var ErrMissingSigningKey = errors.New("jwt signing key is not configured")

// TokenGenerator issues and verifies the credentials used by the auth flows.
type TokenGenerator interface {
	IssueAccessToken(user *domain.User) (string, error)
	IssueRefreshToken() (string, error)
	HashRefreshToken(token string) string
	VerifyAccessToken(tokenString string) (*AccessTokenClaims, error)
	RefreshTokenTTL() time.Duration
}

// AccessTokenClaims carries the identity and profile assertions embedded in
// an access token.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Name      string `json:"name"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
}

// TokenService signs access tokens with a symmetric key and mints opaque
// refresh tokens. It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	key             []byte
	validIssuer     string
	validAudience   string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	if cfg.Key == "" {
		return nil, ErrMissingSigningKey
	}

	return &TokenService{
		key:             []byte(cfg.Key),
		validIssuer:     cfg.ValidIssuer,
		validAudience:   cfg.ValidAudience,
		accessTokenTTL:  time.Duration(cfg.ExpiresMin) * time.Minute,
		refreshTokenTTL: time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
	}, nil
}

// IssueAccessToken builds an HS256-signed token carrying the user's identity
// and profile claims.
func (ts *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	now := time.Now()

	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    ts.validIssuer,
			Audience:  jwt.ClaimStrings{ts.validAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTokenTTL)),
		},
		Name:      user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Gender:    user.Gender,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return token, nil
}

// IssueRefreshToken returns a fresh opaque token built from 64 bytes of
// crypto/rand entropy. Linking it to a user is the caller's job.
func (ts *TokenService) IssueRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// HashRefreshToken produces the digest persisted in place of the cleartext
// token: SHA-256, base64 encoded.
func (ts *TokenService) HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyAccessToken parses and validates signature, lifetime, issuer and
// audience of the given token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.key, nil
	}, jwt.WithIssuer(ts.validIssuer), jwt.WithAudience(ts.validAudience))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (ts *TokenService) RefreshTokenTTL() time.Duration {
	return ts.refreshTokenTTL
}
