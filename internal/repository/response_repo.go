package repository

import (
	"context"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
)

type ResponseRepository struct {
	db DBTX
}

func NewResponseRepository(db DBTX) *ResponseRepository {
	return &ResponseRepository{db: db}
}

func (r *ResponseRepository) Create(
	ctx context.Context,
	messageID int64,
	text string,
	videoURL *string,
) (*models.Response, error) {
	query := `
		INSERT INTO responses (message_id, text, video_url)
		VALUES ($1, $2, $3)
		RETURNING id, message_id, text, video_url, created_at
	`

	var response models.Response
	err := r.db.QueryRow(ctx, query, messageID, text, videoURL).Scan(
		&response.ID,
		&response.MessageID,
		&response.Text,
		&response.VideoURL,
		&response.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &response, nil
}

func (r *ResponseRepository) ListByMessage(ctx context.Context, messageID int64) ([]models.Response, error) {
	query := `
		SELECT id, message_id, text, video_url, created_at
		FROM responses
		WHERE message_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := make([]models.Response, 0)
	for rows.Next() {
		var response models.Response
		if err := rows.Scan(
			&response.ID,
			&response.MessageID,
			&response.Text,
			&response.VideoURL,
			&response.CreatedAt,
		); err != nil {
			return nil, err
		}

		responses = append(responses, response)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
