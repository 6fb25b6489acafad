package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/services"
)

type progressApplicationService interface {
	LogRound(ctx context.Context, actor services.Identity, input services.LogRoundInput) (*models.RoundResult, error)
	Report(ctx context.Context, actor services.Identity, athleteID int64, courseFilter string) (*models.ProgressReport, error)
}

type ProgressHandler struct {
	service progressApplicationService
}

func NewProgressHandler(service progressApplicationService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// GetProgress returns the aggregate report: athletes for themselves,
// coaches for any athlete via ?athlete_id.
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var athleteID int64
	if value := c.Query("athlete_id"); value != "" {
		athleteID, err = strconv.ParseInt(value, 10, 64)
		if err != nil || athleteID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete id"})
		}
	}

	report, err := h.service.Report(c.Context(), identity, athleteID, c.Query("course"))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"report": report})
}

type logRoundRequest struct {
	CourseName    string `json:"course_name"`
	ScoreRelative int    `json:"score_relative"`
	PlayedOn      string `json:"played_on"`
	Notes         string `json:"notes"`
}

func (h *ProgressHandler) LogRound(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req logRoundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	playedOn, err := time.Parse("2006-01-02", req.PlayedOn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "played_on must be a YYYY-MM-DD date"})
	}

	round, err := h.service.LogRound(c.Context(), identity, services.LogRoundInput{
		CourseName:    req.CourseName,
		ScoreRelative: req.ScoreRelative,
		PlayedOn:      playedOn,
		Notes:         req.Notes,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"round": round})
}
