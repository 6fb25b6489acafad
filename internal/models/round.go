package models

import (
	"fmt"
	"time"
)

// RoundResult is one logged round for an athlete. ScoreRelative is relative
// to par, negative meaning under par.
type RoundResult struct {
	ID            int64     `json:"id"`
	AthleteID     int64     `json:"athlete_id"`
	CourseName    string    `json:"course_name"`
	ScoreRelative int       `json:"score_relative"`
	PlayedOn      time.Time `json:"played_on"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScoreDisplay renders the relative score with an explicit sign, e.g. "+5"
// or "-2".
func (r RoundResult) ScoreDisplay() string {
	return FormatScore(r.ScoreRelative)
}

func FormatScore(scoreRelative int) string {
	return fmt.Sprintf("%+d", scoreRelative)
}
