package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Fakhir-Israr-200219/auth-service/config"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/handler"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/service"
	"github.com/Fakhir-Israr-200219/auth-service/internal/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestRegisterRoutes verifies every route is mounted: nothing should come
// back as a 404 or 405.
func TestRegisterRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokens, err := service.NewTokenService(config.JWTConfig{
		Key:            "routes-test-key",
		ValidIssuer:    "auth-service",
		ValidAudience:  "auth-service",
		ExpiresMin:     15,
		RefreshTTLDays: 7,
	})
	require.NoError(t, err)

	mockRepo := mocks.NewMockUserRepository(ctrl)
	userService := service.NewUserService(mockRepo, tokens, service.NewBcryptHasher(), zap.NewNop())
	authHandler := handler.NewAuthHandler(userService, tokens)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/register"},
		{http.MethodPost, "/api/login"},
		{http.MethodGet, "/api/user/some-id"},
		{http.MethodPut, "/api/user/some-id"},
		{http.MethodDelete, "/api/user/some-id"},
		{http.MethodPost, "/api/refresh-token"},
		{http.MethodPost, "/api/revoke-refresh-token"},
		{http.MethodGet, "/api/current-user"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.NotEqual(t, fiber.StatusNotFound, resp.StatusCode)
			assert.NotEqual(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
		})
	}
}
