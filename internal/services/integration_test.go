package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/repository"
)

var (
	testPoolOnce sync.Once
	testPool     *pgxpool.Pool
	testPoolErr  error
)

// integrationPool connects once per test binary. Tests that need the
// database skip when DB_URL is unset so the unit suite stays self-contained.
func integrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		t.Skipf("DB_URL not set, skipping database integration test")
	}

	testPoolOnce.Do(func() {
		testPool, testPoolErr = pgxpool.New(context.Background(), dbURL)
	})
	if testPoolErr != nil {
		t.Fatalf("connect to test database: %v", testPoolErr)
	}

	return testPool
}

func uniqueUsername(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func registerTestUser(t *testing.T, pool *pgxpool.Pool, role models.Role) (*models.User, *models.Profile) {
	t.Helper()

	accounts := NewAccountService(pool)
	user, profile, err := accounts.Register(context.Background(), uniqueUsername(string(role)), "password123", role)
	if err != nil {
		t.Fatalf("register %s: %v", role, err)
	}
	return user, profile
}

func newConversationService(pool *pgxpool.Pool) *ConversationService {
	return NewConversationService(
		repository.NewConversationRepository(pool),
		repository.NewProfileRepository(pool),
		repository.NewMessageRepository(pool),
	)
}

func TestRegisterCreatesProfileWithDefaultRole(t *testing.T) {
	pool := integrationPool(t)

	accounts := NewAccountService(pool)
	user, profile, err := accounts.Register(context.Background(), uniqueUsername("newcomer"), "password123", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if profile == nil || profile.UserID != user.ID {
		t.Fatalf("expected profile for user %d, got %+v", user.ID, profile)
	}
	if profile.Role != models.RoleAthlete {
		t.Fatalf("expected default athlete role, got %q", profile.Role)
	}
}

func TestResolveIsIdempotentPerPair(t *testing.T) {
	pool := integrationPool(t)

	athlete, _ := registerTestUser(t, pool, models.RoleAthlete)
	coach, _ := registerTestUser(t, pool, models.RoleCoach)

	conversations := newConversationService(pool)
	actorAthlete := Identity{UserID: athlete.ID, Role: models.RoleAthlete}
	actorCoach := Identity{UserID: coach.ID, Role: models.RoleCoach}

	first, err := conversations.Resolve(context.Background(), actorAthlete, coach.ID)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}

	second, err := conversations.Resolve(context.Background(), actorAthlete, coach.ID)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same conversation, got %d then %d", first.ID, second.ID)
	}

	// The coach initiating resolves to the very same thread.
	reversed, err := conversations.Resolve(context.Background(), actorCoach, athlete.ID)
	if err != nil {
		t.Fatalf("reversed Resolve: %v", err)
	}
	if reversed.ID != first.ID {
		t.Fatalf("expected same conversation from either side, got %d and %d", first.ID, reversed.ID)
	}
}

func TestSubmitWithCoachAttachesToConversation(t *testing.T) {
	pool := integrationPool(t)

	athlete, _ := registerTestUser(t, pool, models.RoleAthlete)
	coach, _ := registerTestUser(t, pool, models.RoleCoach)

	conversations := newConversationService(pool)
	messages := NewMessageService(
		pool,
		repository.NewConversationRepository(pool),
		repository.NewMessageRepository(pool),
		repository.NewResponseRepository(pool),
		conversations,
	)

	sender := Identity{UserID: athlete.ID, Role: models.RoleAthlete}
	message, err := messages.SubmitStandalone(context.Background(), SubmitInput{
		Text:    "  Check my backhand drive  ",
		Sender:  &sender,
		CoachID: &coach.ID,
	})
	if err != nil {
		t.Fatalf("SubmitStandalone: %v", err)
	}

	if message.Text != "Check my backhand drive" {
		t.Fatalf("expected trimmed text, got %q", message.Text)
	}
	if message.ConversationID == nil {
		t.Fatal("expected message attached to a conversation")
	}

	conversation, page, total, err := conversations.GetThread(context.Background(), sender, *message.ConversationID, 1, 10)
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if conversation.AthleteID != athlete.ID || conversation.CoachID != coach.ID {
		t.Fatalf("unexpected pair: %+v", conversation)
	}
	if total < 1 || len(page) < 1 {
		t.Fatalf("expected the submitted message in the thread, got %d", total)
	}
}

func TestRoundLoggingFeedsReport(t *testing.T) {
	pool := integrationPool(t)

	athlete, _ := registerTestUser(t, pool, models.RoleAthlete)
	progress := NewProgressService(repository.NewRoundRepository(pool))
	actor := Identity{UserID: athlete.ID, Role: models.RoleAthlete}

	logged := []struct {
		score    int
		playedOn time.Time
	}{
		{2, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{-3, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, round := range logged {
		_, err := progress.LogRound(context.Background(), actor, LogRoundInput{
			CourseName:    "Integration Park",
			ScoreRelative: round.score,
			PlayedOn:      round.playedOn,
		})
		if err != nil {
			t.Fatalf("LogRound: %v", err)
		}
	}

	report, err := progress.Report(context.Background(), actor, 0, "Integration Park")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.Filtered == nil || report.Filtered.Count != 2 {
		t.Fatalf("expected 2 rounds, got %+v", report.Filtered)
	}
	if report.Filtered.Average != -0.5 {
		t.Fatalf("expected average -0.5, got %v", report.Filtered.Average)
	}

	if len(report.RecentRounds) != 2 {
		t.Fatalf("expected 2 recent rounds, got %d", len(report.RecentRounds))
	}
	if !report.RecentRounds[0].PlayedOn.After(report.RecentRounds[1].PlayedOn) {
		t.Fatalf("expected newest round first, got %v then %v",
			report.RecentRounds[0].PlayedOn, report.RecentRounds[1].PlayedOn)
	}
}
