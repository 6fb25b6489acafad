package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/services"
)

type userDirectory interface {
	ListByRole(ctx context.Context, role models.Role) ([]models.UserSummary, error)
}

type conversationLister interface {
	ListForIdentity(ctx context.Context, actor services.Identity) ([]models.ConversationSummary, error)
}

type DashboardHandler struct {
	directory     userDirectory
	conversations conversationLister
}

func NewDashboardHandler(directory userDirectory, conversations conversationLister) *DashboardHandler {
	return &DashboardHandler{directory: directory, conversations: conversations}
}

// Dashboard is the role-dependent landing projection: athletes browse the
// coach directory, coaches their athletes, both with their conversations.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversations, err := h.conversations.ListForIdentity(c.Context(), identity)
	if err != nil {
		return mapServiceError(c, err)
	}

	switch identity.Role {
	case models.RoleCoach:
		athletes, err := h.directory.ListByRole(c.Context(), models.RoleAthlete)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"athletes":      athletes,
			"conversations": conversations,
		})
	default:
		coaches, err := h.directory.ListByRole(c.Context(), models.RoleCoach)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"coaches":       coaches,
			"conversations": conversations,
		})
	}
}
