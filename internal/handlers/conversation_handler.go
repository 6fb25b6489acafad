package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/services"
)

type conversationApplicationService interface {
	ListForIdentity(ctx context.Context, actor services.Identity) ([]models.ConversationSummary, error)
	Resolve(ctx context.Context, actor services.Identity, targetID int64) (*models.Conversation, error)
	GetThread(ctx context.Context, actor services.Identity, conversationID int64, page, limit int) (*models.Conversation, []models.Message, int, error)
}

type threadComposer interface {
	PostToConversation(ctx context.Context, actor services.Identity, conversationID int64, text string, videoURL *string) (*models.Message, error)
}

type ConversationHandler struct {
	service  conversationApplicationService
	composer threadComposer
}

func NewConversationHandler(service conversationApplicationService, composer threadComposer) *ConversationHandler {
	return &ConversationHandler{service: service, composer: composer}
}

func (h *ConversationHandler) List(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversations, err := h.service.ListForIdentity(c.Context(), identity)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"conversations": conversations})
}

// Start resolves or creates the thread with the target user and returns it,
// whichever side initiates.
func (h *ConversationHandler) Start(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	targetID, err := strconv.ParseInt(c.Params("userID"), 10, 64)
	if err != nil || targetID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	conversation, err := h.service.Resolve(c.Context(), identity, targetID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"conversation": conversation})
}

func (h *ConversationHandler) GetThread(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversationID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	conversation, messages, total, err := h.service.GetThread(c.Context(), identity, conversationID, page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"conversation": conversation,
		"messages":     messages,
		"pagination":   buildPaginationMeta(page, limit, total),
	})
}

type postMessageRequest struct {
	Text     string  `json:"text"`
	VideoURL *string `json:"video_url"`
}

func (h *ConversationHandler) PostMessage(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversationID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}

	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	message, err := h.composer.PostToConversation(c.Context(), identity, conversationID, req.Text, req.VideoURL)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}
