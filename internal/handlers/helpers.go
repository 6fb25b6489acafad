package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/services"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// errMissingIdentity marks a request whose locals carry no usable caller
// identity. Handlers map it to 401.
var errMissingIdentity = errors.New("missing identity")

// identityFromCtx rebuilds the caller's identity from the locals set by the
// auth middleware. Role branching everywhere else goes through this single
// typed value.
func identityFromCtx(c *fiber.Ctx) (services.Identity, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return services.Identity{}, errMissingIdentity
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return services.Identity{}, errMissingIdentity
	}

	role, _ := c.Locals("role").(string)
	admin, _ := c.Locals("admin").(bool)

	identity := services.Identity{
		UserID: userID,
		Role:   models.Role(role),
		Admin:  admin,
	}
	if !identity.Role.Valid() && !identity.Admin {
		return services.Identity{}, errMissingIdentity
	}

	return identity, nil
}

// optionalIdentityFromCtx returns nil for anonymous callers.
func optionalIdentityFromCtx(c *fiber.Ctx) *services.Identity {
	identity, err := identityFromCtx(c)
	if err != nil {
		return nil
	}
	return &identity
}

func parsePositiveInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSkipped):
		// Silent skip: empty submissions are dropped, not rejected.
		return c.JSON(fiber.Map{"skipped": true})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrInvalidParticipants):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	case errors.Is(err, services.ErrUsernameTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already exists"})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process request"})
	}
}
