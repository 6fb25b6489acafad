package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/repository"
)

// ErrSkipped marks an empty submission that is silently dropped instead of
// surfacing a validation error. Nothing is persisted when it is returned.
var ErrSkipped = errors.New("empty submission skipped")

type conversationResolver interface {
	Resolve(ctx context.Context, actor Identity, targetID int64) (*models.Conversation, error)
}

type conversationReader interface {
	GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error)
	ListForParticipant(ctx context.Context, participantID int64) ([]models.ConversationSummary, error)
}

type messageStore interface {
	Create(ctx context.Context, input repository.CreateMessageInput) (*models.Message, error)
	GetByID(ctx context.Context, messageID int64) (*models.Message, error)
	ListStandalone(ctx context.Context) ([]models.Message, error)
}

type responseLister interface {
	ListByMessage(ctx context.Context, messageID int64) ([]models.Response, error)
}

type MessageService struct {
	db               *pgxpool.Pool
	conversationRepo conversationReader
	messageRepo      messageStore
	responseRepo     responseLister
	resolver         conversationResolver
}

func NewMessageService(
	db *pgxpool.Pool,
	conversationRepo conversationReader,
	messageRepo messageStore,
	responseRepo responseLister,
	resolver conversationResolver,
) *MessageService {
	return &MessageService{
		db:               db,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		responseRepo:     responseRepo,
		resolver:         resolver,
	}
}

// normalizeSubmission trims the text and reports whether the submission is
// empty (no text after trimming and no video), in which case it is skipped.
func normalizeSubmission(text string, videoURL *string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" && (videoURL == nil || *videoURL == "") {
		return "", true
	}
	return trimmed, false
}

type SubmitInput struct {
	SenderName  string
	SenderEmail string
	Text        string
	VideoURL    *string
	Sender      *Identity
	CoachID     *int64
}

// SubmitStandalone handles the public submission form. A whitespace-only,
// video-less submission returns ErrSkipped without any write. When the
// sender is authenticated and targets a coach, the conversation for the
// pair is resolved (or created) and the message attached to it.
func (s *MessageService) SubmitStandalone(ctx context.Context, input SubmitInput) (*models.Message, error) {
	trimmed, skip := normalizeSubmission(input.Text, input.VideoURL)
	if skip {
		return nil, ErrSkipped
	}

	create := repository.CreateMessageInput{
		SenderName:  strings.TrimSpace(input.SenderName),
		SenderEmail: strings.TrimSpace(input.SenderEmail),
		Text:        trimmed,
		VideoURL:    input.VideoURL,
	}
	if input.Sender != nil {
		senderID := input.Sender.UserID
		create.SenderID = &senderID
	}

	if input.CoachID != nil && input.Sender != nil {
		conversation, err := s.resolver.Resolve(ctx, *input.Sender, *input.CoachID)
		if err != nil {
			return nil, err
		}
		create.ConversationID = &conversation.ID
		return s.createWithTouch(ctx, create)
	}

	return s.messageRepo.Create(ctx, create)
}

// PostToConversation composes a message inside an existing thread. The
// participant guard runs before any write; a degenerate self-pair thread is
// rejected outright even though the resolver never creates one.
func (s *MessageService) PostToConversation(
	ctx context.Context,
	actor Identity,
	conversationID int64,
	text string,
	videoURL *string,
) (*models.Message, error) {
	if conversationID <= 0 {
		return nil, ErrInvalidInput
	}

	trimmed, skip := normalizeSubmission(text, videoURL)
	if skip {
		return nil, ErrSkipped
	}

	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.AthleteID == conversation.CoachID {
		return nil, ErrForbidden
	}
	if err := Authorize(conversation, actor); err != nil {
		return nil, err
	}

	senderID := actor.UserID
	return s.createWithTouch(ctx, repository.CreateMessageInput{
		ConversationID: &conversation.ID,
		SenderID:       &senderID,
		Text:           trimmed,
		VideoURL:       videoURL,
	})
}

// createWithTouch persists the message and bumps the owning conversation's
// updated_at in one transaction.
func (s *MessageService) createWithTouch(
	ctx context.Context,
	input repository.CreateMessageInput,
) (*models.Message, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)

	message, err := txMessageRepo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	if input.ConversationID != nil {
		if err := txConversationRepo.Touch(ctx, *input.ConversationID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return message, nil
}

type InboxView struct {
	Conversations []models.ConversationSummary `json:"conversations"`
	Messages      []models.Message             `json:"messages,omitempty"`
}

// Inbox lists the caller's conversations; coaches additionally see the
// standalone submissions awaiting review.
func (s *MessageService) Inbox(ctx context.Context, actor Identity) (*InboxView, error) {
	conversations, err := s.conversationRepo.ListForParticipant(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	view := &InboxView{Conversations: conversations}
	if actor.Role == models.RoleCoach || actor.Admin {
		messages, err := s.messageRepo.ListStandalone(ctx)
		if err != nil {
			return nil, err
		}
		view.Messages = messages
	}

	return view, nil
}

func (s *MessageService) GetMessage(
	ctx context.Context,
	messageID int64,
) (*models.Message, []models.Response, error) {
	if messageID <= 0 {
		return nil, nil, ErrInvalidInput
	}

	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, nil, err
	}

	responses, err := s.responseRepo.ListByMessage(ctx, messageID)
	if err != nil {
		return nil, nil, err
	}

	return message, responses, nil
}

// Respond records a coach's response to a message and flips its responded
// flag. Unlike the composer's silent skip, an empty response is a plain
// validation error.
func (s *MessageService) Respond(
	ctx context.Context,
	actor Identity,
	messageID int64,
	text string,
	videoURL *string,
) (*models.Response, error) {
	if actor.Role != models.RoleCoach && !actor.Admin {
		return nil, ErrForbidden
	}
	if messageID <= 0 {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" && (videoURL == nil || *videoURL == "") {
		return nil, ErrInvalidInput
	}

	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txResponseRepo := repository.NewResponseRepository(tx)
	txMessageRepo := repository.NewMessageRepository(tx)

	response, err := txResponseRepo.Create(ctx, message.ID, trimmed, videoURL)
	if err != nil {
		return nil, err
	}

	if err := txMessageRepo.MarkResponded(ctx, message.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return response, nil
}
