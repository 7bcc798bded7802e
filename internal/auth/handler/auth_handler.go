package handler

import (
	"errors"

	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/dto"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/service"
	autherror "github.com/Fakhir-Israr-200219/auth-service/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{userService: userService, tokenService: tokenService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if !parseBody(c, &input) {
		return nil
	}

	user, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if !parseBody(c, &input) {
		return nil
	}

	out, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *AuthHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.userService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input dto.RefreshTokenInput
	if !parseBody(c, &input) {
		return nil
	}

	out, err := h.userService.RefreshToken(c.UserContext(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *AuthHandler) RevokeRefreshToken(c *fiber.Ctx) error {
	var input dto.RefreshTokenInput
	if !parseBody(c, &input) {
		return nil
	}

	out, err := h.userService.RevokeRefreshToken(c.UserContext(), input)
	if err != nil {
		// Revocation failures surface as 400 regardless of cause so the
		// caller can distinguish them from an expired bearer token.
		if errors.Is(err, autherror.ErrInvalidRefreshToken) || errors.Is(err, autherror.ErrRefreshTokenExpired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

// GetCurrentUser reads the caller identity resolved by the auth middleware
// and hands it to the service explicitly.
func (h *AuthHandler) GetCurrentUser(c *fiber.Ctx) error {
	user, err := h.userService.GetCurrentUser(c.UserContext(), CurrentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *AuthHandler) Update(c *fiber.Ctx) error {
	var input dto.UpdateUserInput
	if !parseBody(c, &input) {
		return nil
	}

	user, err := h.userService.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *AuthHandler) Delete(c *fiber.Ctx) error {
	if err := h.userService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseBody decodes and validates the request body. On failure it writes the
// 400 response itself and reports false.
func parseBody(c *fiber.Ctx, input any) bool {
	if err := c.BodyParser(input); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
		return false
	}

	if err := validate.Struct(input); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		return false
	}

	return true
}

// errorResponse maps domain errors onto HTTP statuses. Messages never carry
// hashes or internals; unexpected errors collapse to a generic 500.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrInvalidCredentials),
		errors.Is(err, autherror.ErrInvalidRefreshToken),
		errors.Is(err, autherror.ErrRefreshTokenExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, autherror.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
