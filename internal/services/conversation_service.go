package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
)

var (
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidParticipants = errors.New("invalid participants")
	ErrUserNotFound        = errors.New("user not found")
)

// Identity is the authenticated caller, resolved once per request from the
// token claims. Admin is orthogonal to Role.
type Identity struct {
	UserID int64
	Role   models.Role
	Admin  bool
}

type conversationStore interface {
	CreateOrGet(ctx context.Context, athleteID, coachID int64) (*models.Conversation, error)
	GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error)
	ListForParticipant(ctx context.Context, participantID int64) ([]models.ConversationSummary, error)
}

type profileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

type threadMessageLister interface {
	ListByConversation(ctx context.Context, conversationID int64, limit, offset int) ([]models.Message, int, error)
}

type ConversationService struct {
	conversationRepo conversationStore
	profileRepo      profileReader
	messageRepo      threadMessageLister
}

func NewConversationService(
	conversationRepo conversationStore,
	profileRepo profileReader,
	messageRepo threadMessageLister,
) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		profileRepo:      profileRepo,
		messageRepo:      messageRepo,
	}
}

// Authorize allows only the conversation's two participants, or an admin,
// to touch its contents.
func Authorize(conversation *models.Conversation, actor Identity) error {
	if actor.Admin {
		return nil
	}
	if actor.UserID == conversation.AthleteID || actor.UserID == conversation.CoachID {
		return nil
	}
	return ErrForbidden
}

// Resolve finds or creates the single thread between the actor and the
// target. Either side may initiate; the pair is normalized into the same
// (athlete, coach) key before the atomic find-or-create.
func (s *ConversationService) Resolve(
	ctx context.Context,
	actor Identity,
	targetID int64,
) (*models.Conversation, error) {
	if targetID <= 0 {
		return nil, ErrInvalidInput
	}
	if targetID == actor.UserID {
		return nil, ErrInvalidParticipants
	}

	targetProfile, err := s.profileRepo.GetByUserID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var athleteID, coachID int64
	switch {
	case actor.Role == models.RoleAthlete && targetProfile.Role == models.RoleCoach:
		athleteID, coachID = actor.UserID, targetID
	case actor.Role == models.RoleCoach && targetProfile.Role == models.RoleAthlete:
		athleteID, coachID = targetID, actor.UserID
	default:
		return nil, ErrInvalidParticipants
	}

	return s.conversationRepo.CreateOrGet(ctx, athleteID, coachID)
}

func (s *ConversationService) ListForIdentity(
	ctx context.Context,
	actor Identity,
) ([]models.ConversationSummary, error) {
	return s.conversationRepo.ListForParticipant(ctx, actor.UserID)
}

// GetThread returns the conversation and a page of its messages after the
// access guard has passed.
func (s *ConversationService) GetThread(
	ctx context.Context,
	actor Identity,
	conversationID int64,
	page int,
	limit int,
) (*models.Conversation, []models.Message, int, error) {
	if conversationID <= 0 || page <= 0 || limit <= 0 {
		return nil, nil, 0, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, nil, 0, err
	}

	if err := Authorize(conversation, actor); err != nil {
		return nil, nil, 0, err
	}

	messages, total, err := s.messageRepo.ListByConversation(ctx, conversationID, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, 0, err
	}

	return conversation, messages, total, nil
}
