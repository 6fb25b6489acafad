package models

import "time"

// CourseStats summarizes one course group of an athlete's rounds. Average
// is only meaningful when Count > 0; an empty group is represented by an
// absent CourseStats, never by zeroes.
type CourseStats struct {
	Course  string  `json:"course"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Best    int     `json:"best"`
	Worst   int     `json:"worst"`
}

// ScorePoint is one entry of the chart series, ascending by played date.
type ScorePoint struct {
	Date         time.Time `json:"date"`
	Label        string    `json:"label"`
	Score        int       `json:"score"`
	ScoreDisplay string    `json:"score_display"`
}

type ProgressReport struct {
	PerCourse []CourseStats `json:"per_course"`
	Filtered  *CourseStats  `json:"filtered,omitempty"`
	// RecentRounds keeps the storage order: newest played date first,
	// most recently logged first on ties.
	RecentRounds []RoundResult `json:"recent_rounds"`
	Series       []ScorePoint  `json:"series"`
	Suggestions  []string      `json:"suggestions"`
}
