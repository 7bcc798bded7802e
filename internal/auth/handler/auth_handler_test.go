package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Fakhir-Israr-200219/auth-service/config"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/domain"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/dto"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/handler"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/service"
	"github.com/Fakhir-Israr-200219/auth-service/internal/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type handlerFixture struct {
	app    *fiber.App
	repo   *mocks.MockUserRepository
	tokens *service.TokenService
	hasher *service.BcryptHasher
}

func newFixture(t *testing.T) *handlerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	tokens, err := service.NewTokenService(config.JWTConfig{
		Key:            "handler-test-key",
		ValidIssuer:    "auth-service",
		ValidAudience:  "auth-service",
		ExpiresMin:     15,
		RefreshTTLDays: 7,
	})
	require.NoError(t, err)

	repo := mocks.NewMockUserRepository(ctrl)
	hasher := service.NewBcryptHasher()
	userService := service.NewUserService(repo, tokens, hasher, zap.NewNop())
	authHandler := handler.NewAuthHandler(userService, tokens)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	return &handlerFixture{app: app, repo: repo, tokens: tokens, hasher: hasher}
}

func (f *handlerFixture) request(t *testing.T, method, path string, body any, bearer string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func (f *handlerFixture) accessTokenFor(t *testing.T, user *domain.User) string {
	t.Helper()

	token, err := f.tokens.IssueAccessToken(user)
	require.NoError(t, err)

	return token
}

func TestRegisterEndpoint(t *testing.T) {
	input := dto.RegisterInput{
		Email:     "alice@x.com",
		Password:  "Password1",
		FirstName: "Alice",
		LastName:  "Smith",
		Gender:    "female",
	}

	t.Run("created", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetByEmail(gomock.Any(), "alice@x.com").Return(nil, nil)
		f.repo.EXPECT().UsernameExists(gomock.Any(), "alicesmith").Return(false, nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp := f.request(t, http.MethodPost, "/api/register", input, "")
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var out dto.UserOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "alicesmith", out.Username)
	})

	t.Run("invalid body", func(t *testing.T) {
		f := newFixture(t)

		resp := f.request(t, http.MethodPost, "/api/register", dto.RegisterInput{Email: "not-an-email"}, "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetByEmail(gomock.Any(), "alice@x.com").
			Return(&domain.User{ID: "existing"}, nil)

		resp := f.request(t, http.MethodPost, "/api/register", input, "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("success returns both tokens", func(t *testing.T) {
		f := newFixture(t)

		passwordHash, err := f.hasher.Hash("Password1")
		require.NoError(t, err)

		user := &domain.User{
			ID:           "user-123",
			Email:        "alice@x.com",
			Username:     "alicesmith",
			PasswordHash: passwordHash,
		}

		f.repo.EXPECT().GetByEmail(gomock.Any(), "alice@x.com").Return(user, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		resp := f.request(t, http.MethodPost, "/api/login",
			dto.LoginInput{Email: "alice@x.com", Password: "Password1"}, "")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out dto.LoginOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.NotEmpty(t, out.AccessToken)
		assert.GreaterOrEqual(t, len(out.RefreshToken), 88)
		assert.Equal(t, "user-123", out.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)

		passwordHash, err := f.hasher.Hash("Password1")
		require.NoError(t, err)

		f.repo.EXPECT().GetByEmail(gomock.Any(), "alice@x.com").
			Return(&domain.User{ID: "user-123", PasswordHash: passwordHash}, nil)

		resp := f.request(t, http.MethodPost, "/api/login",
			dto.LoginInput{Email: "alice@x.com", Password: "wrong"}, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/api/current-user", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "message")

	resp = f.request(t, http.MethodGet, "/api/current-user", nil, "not-a-valid-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetCurrentUserEndpoint(t *testing.T) {
	f := newFixture(t)

	user := &domain.User{ID: "user-123", Email: "alice@x.com", Username: "alicesmith"}

	f.repo.EXPECT().GetByID(gomock.Any(), "user-123").Return(user, nil)

	resp := f.request(t, http.MethodGet, "/api/current-user", nil, f.accessTokenFor(t, user))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out dto.UserOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "user-123", out.ID)
}

func TestRefreshTokenEndpoint(t *testing.T) {
	f := newFixture(t)

	refreshToken, err := f.tokens.IssueRefreshToken()
	require.NoError(t, err)

	hash := f.tokens.HashRefreshToken(refreshToken)
	expires := time.Now().Add(time.Hour)
	user := &domain.User{
		ID:                    "user-123",
		Email:                 "alice@x.com",
		Username:              "alicesmith",
		RefreshTokenHash:      &hash,
		RefreshTokenExpiresAt: &expires,
	}

	f.repo.EXPECT().GetByRefreshTokenHash(gomock.Any(), hash).Return(user, nil)

	resp := f.request(t, http.MethodPost, "/api/refresh-token",
		dto.RefreshTokenInput{RefreshToken: refreshToken}, f.accessTokenFor(t, user))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out dto.RefreshTokenOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.AccessToken)
}

func TestRevokeRefreshTokenEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)

		refreshToken, err := f.tokens.IssueRefreshToken()
		require.NoError(t, err)

		hash := f.tokens.HashRefreshToken(refreshToken)
		expires := time.Now().Add(time.Hour)
		user := &domain.User{
			ID:                    "user-123",
			RefreshTokenHash:      &hash,
			RefreshTokenExpiresAt: &expires,
		}

		f.repo.EXPECT().GetByRefreshTokenHash(gomock.Any(), hash).Return(user, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, u *domain.User) error {
				assert.Nil(t, u.RefreshTokenHash)
				return nil
			})

		resp := f.request(t, http.MethodPost, "/api/revoke-refresh-token",
			dto.RefreshTokenInput{RefreshToken: refreshToken}, f.accessTokenFor(t, user))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out dto.RevokeOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.NotEmpty(t, out.Message)
	})

	t.Run("unknown token returns 400", func(t *testing.T) {
		f := newFixture(t)

		user := &domain.User{ID: "user-123"}

		f.repo.EXPECT().GetByRefreshTokenHash(gomock.Any(), gomock.Any()).Return(nil, nil)

		resp := f.request(t, http.MethodPost, "/api/revoke-refresh-token",
			dto.RefreshTokenInput{RefreshToken: "already-revoked"}, f.accessTokenFor(t, user))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetByIDEndpoint(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)

		caller := &domain.User{ID: "caller-1"}
		user := &domain.User{ID: "user-123", Username: "alicesmith"}

		f.repo.EXPECT().GetByID(gomock.Any(), "user-123").Return(user, nil)

		resp := f.request(t, http.MethodGet, "/api/user/user-123", nil, f.accessTokenFor(t, caller))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		caller := &domain.User{ID: "caller-1"}

		f.repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, nil)

		resp := f.request(t, http.MethodGet, "/api/user/missing", nil, f.accessTokenFor(t, caller))
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteEndpoint(t *testing.T) {
	f := newFixture(t)

	caller := &domain.User{ID: "caller-1"}

	f.repo.EXPECT().GetByID(gomock.Any(), "user-123").Return(&domain.User{ID: "user-123"}, nil)
	f.repo.EXPECT().Delete(gomock.Any(), "user-123").Return(nil)

	resp := f.request(t, http.MethodDelete, "/api/user/user-123", nil, f.accessTokenFor(t, caller))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
