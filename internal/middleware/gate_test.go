package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/F0gboy/DiscGolfCoachingSite/pkg/utils"
)

const testSecret = "gate-test-secret"

func gatedApp() *fiber.App {
	app := fiber.New()
	app.Use(LoginGate(testSecret, "/login", []string{"/api/auth", "/api/submit", "/health"}))
	app.All("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestLoginGateRedirectsAnonymousRequests(t *testing.T) {
	app := gatedApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/dashboard", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if location := resp.Header.Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
}

func TestLoginGateAllowsExemptPrefixes(t *testing.T) {
	app := gatedApp()

	for _, path := range []string{"/", "/login", "/api/auth/login", "/api/submit", "/health"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("app.Test %s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected %s to pass the gate, got %d", path, resp.StatusCode)
		}
	}
}

func TestLoginGateAllowsAuthenticatedRequests(t *testing.T) {
	token, err := utils.GenerateToken("10", "athlete", false, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	app := gatedApp()

	req := httptest.NewRequest("GET", "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredStoresClaims(t *testing.T) {
	token, err := utils.GenerateToken("10", "athlete", true, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	app := fiber.New()
	app.Use(AuthRequired(testSecret))
	app.Get("/probe", func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		role, _ := c.Locals("role").(string)
		admin, _ := c.Locals("admin").(bool)
		if userID != "10" || role != "athlete" || !admin {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected stored claims, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	app := fiber.New()
	app.Use(AuthRequired(testSecret))
	app.Get("/probe", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
