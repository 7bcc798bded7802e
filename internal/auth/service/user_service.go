package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/domain"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/dto"
	autherror "github.com/Fakhir-Israr-200219/auth-service/internal/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// createRetries bounds the insert attempts when a concurrent registration
// grabs the derived username between the pre-check and the insert.
const createRetries = 3

// UserService orchestrates registration, login and the refresh-token
// lifecycle. It is stateless between calls; all state lives in the repository.
type UserService struct {
	repo   domain.UserRepository
	tokens TokenGenerator
	hasher domain.PasswordHasher
	log    *zap.Logger
}

func NewUserService(repo domain.UserRepository, tokens TokenGenerator, hasher domain.PasswordHasher, log *zap.Logger) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		log:    log,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.UserOutput, error) {
	email := strings.ToLower(input.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Gender:       input.Gender,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The username pre-check and the insert are not atomic; the unique
	// constraint is authoritative and a conflicting insert re-derives.
	for attempt := 0; ; attempt++ {
		user.Username, err = s.deriveUsername(ctx, input.FirstName, input.LastName)
		if err != nil {
			return nil, err
		}

		err = s.repo.Create(ctx, user)
		if err == nil {
			break
		}
		if errors.Is(err, autherror.ErrUsernameTaken) && attempt < createRetries {
			continue
		}

		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))

	out := dto.NewUserOutput(user)

	return &out, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginOutput, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		return nil, err
	}

	if user == nil || !s.hasher.Verify(user.PasswordHash, input.Password) {
		s.log.Warn("login failed", zap.String("operation", "login"))
		return nil, autherror.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.IssueRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.SetRefreshToken(s.tokens.HashRefreshToken(refreshToken), now.Add(s.tokens.RefreshTokenTTL()))
	user.UpdatedAt = now

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID))

	return &dto.LoginOutput{
		User:         dto.NewUserOutput(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *UserService) RefreshToken(ctx context.Context, input dto.RefreshTokenInput) (*dto.RefreshTokenOutput, error) {
	user, err := s.lookupByRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}

	// Issue a new access token only; the stored refresh token keeps its
	// original expiry (no rotation).
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("access token refreshed", zap.String("user_id", user.ID))

	return &dto.RefreshTokenOutput{
		User:        dto.NewUserOutput(user),
		AccessToken: accessToken,
	}, nil
}

func (s *UserService) RevokeRefreshToken(ctx context.Context, input dto.RefreshTokenInput) (*dto.RevokeOutput, error) {
	user, err := s.lookupByRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}

	user.ClearRefreshToken()
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		s.log.Error("failed to revoke refresh token", zap.String("user_id", user.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	s.log.Info("refresh token revoked", zap.String("user_id", user.ID))

	return &dto.RevokeOutput{Message: "refresh token revoked successfully"}, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	out := dto.NewUserOutput(user)

	return &out, nil
}

// GetCurrentUser resolves the caller from the user ID extracted at the API
// boundary; an empty ID means the request carried no valid identity.
func (s *UserService) GetCurrentUser(ctx context.Context, callerID string) (*dto.UserOutput, error) {
	if callerID == "" {
		return nil, autherror.ErrUnauthenticated
	}

	return s.GetByID(ctx, callerID)
}

func (s *UserService) Update(ctx context.Context, id string, input dto.UpdateUserInput) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	user.Email = strings.ToLower(input.Email)
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Gender = input.Gender
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user updated", zap.String("user_id", user.ID))

	out := dto.NewUserOutput(user)

	return &out, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("user deleted", zap.String("user_id", id))

	return nil
}

// lookupByRefreshToken hashes the cleartext token, finds its owner and
// validates the stored expiry. Expiry is inclusive: a token is dead the
// instant now reaches it.
func (s *UserService) lookupByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	hash := s.tokens.HashRefreshToken(token)

	user, err := s.repo.GetByRefreshTokenHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshTokenExpiresAt == nil {
		return nil, autherror.ErrInvalidRefreshToken
	}

	if !time.Now().Before(*user.RefreshTokenExpiresAt) {
		s.log.Warn("refresh token expired", zap.String("user_id", user.ID))
		return nil, autherror.ErrRefreshTokenExpired
	}

	return user, nil
}

// deriveUsername lowercases first+last and appends an incrementing numeric
// suffix until the result is unused.
func (s *UserService) deriveUsername(ctx context.Context, firstName, lastName string) (string, error) {
	base := strings.ToLower(firstName + lastName)
	username := base

	for count := 1; ; count++ {
		taken, err := s.repo.UsernameExists(ctx, username)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}

		username = fmt.Sprintf("%s%d", base, count)
	}
}
