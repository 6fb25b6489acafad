package repository

import (
	"context"
	"time"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
)

type RoundRepository struct {
	db DBTX
}

func NewRoundRepository(db DBTX) *RoundRepository {
	return &RoundRepository{db: db}
}

type CreateRoundInput struct {
	AthleteID     int64
	CourseName    string
	ScoreRelative int
	PlayedOn      time.Time
	Notes         string
}

func (r *RoundRepository) Create(ctx context.Context, input CreateRoundInput) (*models.RoundResult, error) {
	query := `
		INSERT INTO round_results (athlete_id, course_name, score_relative, played_on, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, athlete_id, course_name, score_relative, played_on, notes, created_at
	`

	var round models.RoundResult
	err := r.db.QueryRow(ctx, query,
		input.AthleteID,
		input.CourseName,
		input.ScoreRelative,
		input.PlayedOn,
		input.Notes,
	).Scan(
		&round.ID,
		&round.AthleteID,
		&round.CourseName,
		&round.ScoreRelative,
		&round.PlayedOn,
		&round.Notes,
		&round.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &round, nil
}

// ListByAthlete returns the athlete's full round history, most recent round
// first (played_on, then creation time for same-day rounds).
func (r *RoundRepository) ListByAthlete(ctx context.Context, athleteID int64) ([]models.RoundResult, error) {
	query := `
		SELECT id, athlete_id, course_name, score_relative, played_on, notes, created_at
		FROM round_results
		WHERE athlete_id = $1
		ORDER BY played_on DESC, created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]models.RoundResult, 0)
	for rows.Next() {
		var round models.RoundResult
		if err := rows.Scan(
			&round.ID,
			&round.AthleteID,
			&round.CourseName,
			&round.ScoreRelative,
			&round.PlayedOn,
			&round.Notes,
			&round.CreatedAt,
		); err != nil {
			return nil, err
		}

		rounds = append(rounds, round)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rounds, nil
}
