package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/pkg/utils"
)

type accountApplicationService interface {
	Register(ctx context.Context, username, password string, role models.Role) (*models.User, *models.Profile, error)
	Login(ctx context.Context, username, password string) (*models.User, *models.Profile, error)
	Account(ctx context.Context, userID int64) (*models.User, *models.Profile, error)
}

type AuthHandler struct {
	service   accountApplicationService
	jwtSecret string
}

func NewAuthHandler(service accountApplicationService, jwtSecret string) *AuthHandler {
	return &AuthHandler{service: service, jwtSecret: jwtSecret}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, profile, err := h.service.Register(c.Context(), req.Username, req.Password, models.Role(req.Role))
	if err != nil {
		return mapServiceError(c, err)
	}

	return h.tokenResponse(c, user, profile)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, profile, err := h.service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return mapServiceError(c, err)
	}

	return h.tokenResponse(c, user, profile)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, profile, err := h.service.Account(c.Context(), identity.UserID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"profile": profile,
	})
}

func (h *AuthHandler) tokenResponse(c *fiber.Ctx, user *models.User, profile *models.Profile) error {
	token, err := utils.GenerateToken(
		strconv.FormatInt(user.ID, 10),
		string(profile.Role),
		user.IsAdmin,
		h.jwtSecret,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     profile.Role,
		},
	})
}
