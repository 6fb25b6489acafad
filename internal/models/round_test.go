package models

import "testing"

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{2, "+2"},
		{-3, "-3"},
		{0, "+0"},
		{18, "+18"},
	}

	for _, tt := range tests {
		if got := FormatScore(tt.score); got != tt.want {
			t.Errorf("FormatScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScoreDisplay(t *testing.T) {
	round := RoundResult{ScoreRelative: -2}
	if got := round.ScoreDisplay(); got != "-2" {
		t.Fatalf("ScoreDisplay() = %q, want -2", got)
	}
}
