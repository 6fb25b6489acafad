package handlers

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/services"
)

const maxVideoSizeBytes = 100 * 1024 * 1024

type messageApplicationService interface {
	SubmitStandalone(ctx context.Context, input services.SubmitInput) (*models.Message, error)
	Inbox(ctx context.Context, actor services.Identity) (*services.InboxView, error)
	GetMessage(ctx context.Context, messageID int64) (*models.Message, []models.Response, error)
	Respond(ctx context.Context, actor services.Identity, messageID int64, text string, videoURL *string) (*models.Response, error)
}

type MessageHandler struct {
	service messageApplicationService
	storage services.StorageService
}

func NewMessageHandler(service messageApplicationService, storage services.StorageService) *MessageHandler {
	return &MessageHandler{service: service, storage: storage}
}

// Submit accepts the standalone submission form: optional sender identity,
// optional coach target, optional video upload.
func (h *MessageHandler) Submit(c *fiber.Ctx) error {
	input := services.SubmitInput{
		SenderName:  c.FormValue("sender_name"),
		SenderEmail: c.FormValue("sender_email"),
		Text:        c.FormValue("text"),
		Sender:      optionalIdentityFromCtx(c),
	}

	if coachValue := strings.TrimSpace(c.FormValue("coach")); coachValue != "" {
		coachID, err := strconv.ParseInt(coachValue, 10, 64)
		if err != nil || coachID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
		}
		input.CoachID = &coachID
	}

	videoURL, status, uploadErr := h.uploadVideo(c)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": uploadErr})
	}
	input.VideoURL = videoURL

	message, err := h.service.SubmitStandalone(c.Context(), input)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}

func (h *MessageHandler) Inbox(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	view, err := h.service.Inbox(c.Context(), identity)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(view)
}

func (h *MessageHandler) GetMessage(c *fiber.Ctx) error {
	messageID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || messageID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid message id"})
	}

	message, responses, err := h.service.GetMessage(c.Context(), messageID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   message,
		"responses": responses,
	})
}

func (h *MessageHandler) Respond(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	messageID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || messageID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid message id"})
	}

	videoURL, status, uploadErr := h.uploadVideo(c)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": uploadErr})
	}

	response, err := h.service.Respond(c.Context(), identity, messageID, c.FormValue("text"), videoURL)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"response": response})
}

// uploadVideo stores an attached "video" form file and returns its public
// URL, or nil when the form has no video. A non-zero status means the
// upload was rejected and describes why.
func (h *MessageHandler) uploadVideo(c *fiber.Ctx) (*string, int, string) {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		return nil, 0, ""
	}
	if fileHeader.Size <= 0 {
		return nil, fiber.StatusBadRequest, "video file is empty"
	}
	if fileHeader.Size > maxVideoSizeBytes {
		return nil, fiber.StatusBadRequest, "video file exceeds 100MB limit"
	}
	if h.storage == nil {
		return nil, fiber.StatusServiceUnavailable, "Storage service is not configured"
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".mp4", ".mov", ".webm", ".mkv":
	default:
		return nil, fiber.StatusBadRequest, "video must be an mp4, mov, webm, or mkv file"
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.StatusInternalServerError, "Failed to open video file"
	}
	defer file.Close()

	filename := uuid.NewString() + ext
	videoURL, err := h.storage.UploadFile(c.Context(), file, filename, "uploads")
	if err != nil {
		return nil, fiber.StatusInternalServerError, "Failed to upload video"
	}

	return &videoURL, 0, ""
}
