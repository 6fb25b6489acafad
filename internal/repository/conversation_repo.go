package repository

import (
	"context"
	"database/sql"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// CreateOrGet finds or creates the single thread for an (athlete, coach)
// pair. The unique constraint on the pair makes the operation atomic: a
// concurrent loser re-reads the winner's row instead of erroring.
func (r *ConversationRepository) CreateOrGet(
	ctx context.Context,
	athleteID int64,
	coachID int64,
) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (athlete_id, coach_id)
		VALUES ($1, $2)
		ON CONFLICT (athlete_id, coach_id)
		DO UPDATE SET updated_at = conversations.updated_at
		RETURNING id, athlete_id, coach_id, subject, created_at, updated_at
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, athleteID, coachID).Scan(
		&conversation.ID,
		&conversation.AthleteID,
		&conversation.CoachID,
		&conversation.Subject,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error) {
	query := `
		SELECT id, athlete_id, coach_id, subject, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, conversationID).Scan(
		&conversation.ID,
		&conversation.AthleteID,
		&conversation.CoachID,
		&conversation.Subject,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) ListForParticipant(
	ctx context.Context,
	participantID int64,
) ([]models.ConversationSummary, error) {
	query := `
		SELECT
			c.id,
			c.athlete_id,
			c.coach_id,
			c.subject,
			c.created_at,
			c.updated_at,
			lm.id,
			lm.conversation_id,
			lm.sender_id,
			lm.text,
			lm.video_url,
			lm.created_at
		FROM conversations c
		LEFT JOIN LATERAL (
			SELECT id, conversation_id, sender_id, text, video_url, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON TRUE
		WHERE c.athlete_id = $1 OR c.coach_id = $1
		ORDER BY c.updated_at DESC, c.id DESC
	`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var summary models.ConversationSummary
		var messageID sql.NullInt64
		var messageConversationID sql.NullInt64
		var messageSenderID sql.NullInt64
		var messageText sql.NullString
		var messageVideoURL *string
		var messageCreatedAt sql.NullTime

		if err := rows.Scan(
			&summary.ID,
			&summary.AthleteID,
			&summary.CoachID,
			&summary.Subject,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&messageID,
			&messageConversationID,
			&messageSenderID,
			&messageText,
			&messageVideoURL,
			&messageCreatedAt,
		); err != nil {
			return nil, err
		}

		if messageID.Valid {
			conversationID := messageConversationID.Int64
			lastMessage := &models.Message{
				ID:             messageID.Int64,
				ConversationID: &conversationID,
				Text:           messageText.String,
				VideoURL:       messageVideoURL,
				CreatedAt:      messageCreatedAt.Time,
			}
			if messageSenderID.Valid {
				senderID := messageSenderID.Int64
				lastMessage.SenderID = &senderID
			}
			summary.LastMessage = lastMessage
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// Touch moves updated_at forward so the thread sorts to the top of listings
// after a new message.
func (r *ConversationRepository) Touch(ctx context.Context, conversationID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE conversations
		SET updated_at = NOW()
		WHERE id = $1
	`, conversationID)
	return err
}
