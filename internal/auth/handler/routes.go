package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	api := app.Group("/api")

	api.Post("/register", h.Register)
	api.Post("/login", h.Login)

	protected := api.Group("", RequireAuth(h.tokenService))
	protected.Get("/user/:id", h.GetByID)
	protected.Put("/user/:id", h.Update)
	protected.Delete("/user/:id", h.Delete)
	protected.Post("/refresh-token", h.RefreshToken)
	protected.Post("/revoke-refresh-token", h.RevokeRefreshToken)
	protected.Get("/current-user", h.GetCurrentUser)
}
