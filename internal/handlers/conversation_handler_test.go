package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/services"
)

type stubConversationService struct {
	conversation *models.Conversation
	summaries    []models.ConversationSummary
	messages     []models.Message
	total        int
	err          error

	lastActor    services.Identity
	lastTargetID int64
	lastConvID   int64
	lastPage     int
	lastLimit    int
}

func (s *stubConversationService) ListForIdentity(_ context.Context, actor services.Identity) ([]models.ConversationSummary, error) {
	s.lastActor = actor
	return s.summaries, s.err
}

func (s *stubConversationService) Resolve(_ context.Context, actor services.Identity, targetID int64) (*models.Conversation, error) {
	s.lastActor = actor
	s.lastTargetID = targetID
	return s.conversation, s.err
}

func (s *stubConversationService) GetThread(_ context.Context, actor services.Identity, conversationID int64, page, limit int) (*models.Conversation, []models.Message, int, error) {
	s.lastActor = actor
	s.lastConvID = conversationID
	s.lastPage = page
	s.lastLimit = limit
	return s.conversation, s.messages, s.total, s.err
}

type stubComposer struct {
	message  *models.Message
	err      error
	lastText string
	lastID   int64
}

func (s *stubComposer) PostToConversation(_ context.Context, _ services.Identity, conversationID int64, text string, _ *string) (*models.Message, error) {
	s.lastID = conversationID
	s.lastText = text
	return s.message, s.err
}

func authedApp(userID, role string, admin bool) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", role)
		c.Locals("admin", admin)
		return c.Next()
	})
	return app
}

func decodeBody(t *testing.T, resp io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestStartCreatesConversation(t *testing.T) {
	service := &stubConversationService{conversation: &models.Conversation{ID: 7, AthleteID: 10, CoachID: 20}}
	handler := NewConversationHandler(service, &stubComposer{})

	app := authedApp("10", "athlete", false)
	app.Post("/conversations/start/:userID", handler.Start)

	resp, err := app.Test(httptest.NewRequest("POST", "/conversations/start/20", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastActor.UserID != 10 || service.lastTargetID != 20 {
		t.Fatalf("expected resolve for (10, 20), got (%d, %d)", service.lastActor.UserID, service.lastTargetID)
	}
}

func TestStartForbiddenMapsTo403(t *testing.T) {
	service := &stubConversationService{err: services.ErrInvalidParticipants}
	handler := NewConversationHandler(service, &stubComposer{})

	app := authedApp("10", "athlete", false)
	app.Post("/conversations/start/:userID", handler.Start)

	resp, err := app.Test(httptest.NewRequest("POST", "/conversations/start/10", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestStartRejectsBadUserID(t *testing.T) {
	handler := NewConversationHandler(&stubConversationService{}, &stubComposer{})

	app := authedApp("10", "athlete", false)
	app.Post("/conversations/start/:userID", handler.Start)

	resp, err := app.Test(httptest.NewRequest("POST", "/conversations/start/abc", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetThreadClampsLimit(t *testing.T) {
	service := &stubConversationService{conversation: &models.Conversation{ID: 5, AthleteID: 10, CoachID: 20}, total: 3}
	handler := NewConversationHandler(service, &stubComposer{})

	app := authedApp("10", "athlete", false)
	app.Get("/conversations/:id", handler.GetThread)

	resp, err := app.Test(httptest.NewRequest("GET", "/conversations/5?page=2&limit=500", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastPage != 2 || service.lastLimit != maxPageLimit {
		t.Fatalf("expected page 2 limit %d, got page %d limit %d", maxPageLimit, service.lastPage, service.lastLimit)
	}
}

func TestGetThreadForbiddenForOutsider(t *testing.T) {
	service := &stubConversationService{err: services.ErrForbidden}
	handler := NewConversationHandler(service, &stubComposer{})

	app := authedApp("30", "athlete", false)
	app.Get("/conversations/:id", handler.GetThread)

	resp, err := app.Test(httptest.NewRequest("GET", "/conversations/5", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestPostMessageReturnsCreated(t *testing.T) {
	composer := &stubComposer{message: &models.Message{ID: 3, Text: "hi"}}
	handler := NewConversationHandler(&stubConversationService{}, composer)

	app := authedApp("10", "athlete", false)
	app.Post("/conversations/:id/messages", handler.PostMessage)

	req := httptest.NewRequest("POST", "/conversations/5/messages", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if composer.lastID != 5 || composer.lastText != "hi" {
		t.Fatalf("expected post to conversation 5 with text hi, got (%d, %q)", composer.lastID, composer.lastText)
	}
}

func TestPostMessageSkippedReturnsOK(t *testing.T) {
	composer := &stubComposer{err: services.ErrSkipped}
	handler := NewConversationHandler(&stubConversationService{}, composer)

	app := authedApp("10", "athlete", false)
	app.Post("/conversations/:id/messages", handler.PostMessage)

	req := httptest.NewRequest("POST", "/conversations/5/messages", strings.NewReader(`{"text":"   "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	if skipped, _ := body["skipped"].(bool); !skipped {
		t.Fatalf("expected skipped flag, got %v", body)
	}
}

func TestListRejectsUnknownRole(t *testing.T) {
	handler := NewConversationHandler(&stubConversationService{}, &stubComposer{})

	app := authedApp("10", "wizard", false)
	app.Get("/conversations", handler.List)

	resp, err := app.Test(httptest.NewRequest("GET", "/conversations", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unusable identity, got %d", resp.StatusCode)
	}
}

func TestListRequiresIdentity(t *testing.T) {
	handler := NewConversationHandler(&stubConversationService{}, &stubComposer{})

	app := fiber.New()
	app.Get("/conversations", handler.List)

	resp, err := app.Test(httptest.NewRequest("GET", "/conversations", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
