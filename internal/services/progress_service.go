package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/repository"
)

// CourseUnspecified is the sentinel group for rounds logged without a
// course name. It is selectable as a filter like any named course.
const CourseUnspecified = "Unspecified"

type roundStore interface {
	Create(ctx context.Context, input repository.CreateRoundInput) (*models.RoundResult, error)
	ListByAthlete(ctx context.Context, athleteID int64) ([]models.RoundResult, error)
}

type ProgressService struct {
	roundRepo roundStore
}

func NewProgressService(roundRepo roundStore) *ProgressService {
	return &ProgressService{roundRepo: roundRepo}
}

type LogRoundInput struct {
	CourseName    string
	ScoreRelative int
	PlayedOn      time.Time
	Notes         string
}

// LogRound appends a round for the acting athlete. Coaches review stats,
// they do not log rounds.
func (s *ProgressService) LogRound(ctx context.Context, actor Identity, input LogRoundInput) (*models.RoundResult, error) {
	if actor.Role != models.RoleAthlete {
		return nil, ErrForbidden
	}
	if input.PlayedOn.IsZero() {
		return nil, ErrInvalidInput
	}

	return s.roundRepo.Create(ctx, repository.CreateRoundInput{
		AthleteID:     actor.UserID,
		CourseName:    strings.TrimSpace(input.CourseName),
		ScoreRelative: input.ScoreRelative,
		PlayedOn:      input.PlayedOn,
		Notes:         strings.TrimSpace(input.Notes),
	})
}

// Report aggregates an athlete's rounds. Athletes see their own history;
// coaches and admins may review any athlete's.
func (s *ProgressService) Report(
	ctx context.Context,
	actor Identity,
	athleteID int64,
	courseFilter string,
) (*models.ProgressReport, error) {
	if athleteID == 0 {
		athleteID = actor.UserID
	}
	if athleteID != actor.UserID && actor.Role != models.RoleCoach && !actor.Admin {
		return nil, ErrForbidden
	}

	rounds, err := s.roundRepo.ListByAthlete(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	report := BuildProgressReport(rounds, courseFilter)
	return &report, nil
}

func courseKey(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return CourseUnspecified
	}
	return trimmed
}

// BuildProgressReport groups rounds by course, computes per-group and
// filtered statistics, the chronological chart series over the filtered
// subset, and course-name suggestions over the full history. The course
// filter matches group names case-insensitively; the filtered stats carry
// the canonical (as-logged) name. RecentRounds keeps the input order, so
// callers passing storage order get the newest round first.
func BuildProgressReport(rounds []models.RoundResult, courseFilter string) models.ProgressReport {
	groups := make(map[string][]models.RoundResult)
	for _, round := range rounds {
		key := courseKey(round.CourseName)
		groups[key] = append(groups[key], round)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})

	perCourse := make([]models.CourseStats, 0, len(keys))
	for _, key := range keys {
		perCourse = append(perCourse, computeStats(key, groups[key]))
	}

	filter := strings.TrimSpace(courseFilter)
	subset := rounds
	filteredCourse := ""
	if filter != "" {
		want := courseKey(filter)
		subset = nil
		for _, key := range keys {
			if strings.EqualFold(key, want) {
				subset = groups[key]
				filteredCourse = key
				break
			}
		}
	}

	var filtered *models.CourseStats
	if len(subset) > 0 {
		stats := computeStats(filteredCourse, subset)
		filtered = &stats
	}

	suggestions := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != CourseUnspecified {
			suggestions = append(suggestions, key)
		}
	}

	return models.ProgressReport{
		PerCourse:    perCourse,
		Filtered:     filtered,
		RecentRounds: subset,
		Series:       buildSeries(subset),
		Suggestions:  suggestions,
	}
}

func computeStats(course string, rounds []models.RoundResult) models.CourseStats {
	stats := models.CourseStats{Course: course, Count: len(rounds)}

	sum := 0
	for i, round := range rounds {
		sum += round.ScoreRelative
		if i == 0 || round.ScoreRelative < stats.Best {
			stats.Best = round.ScoreRelative
		}
		if i == 0 || round.ScoreRelative > stats.Worst {
			stats.Worst = round.ScoreRelative
		}
	}
	stats.Average = float64(sum) / float64(len(rounds))

	return stats
}

func buildSeries(rounds []models.RoundResult) []models.ScorePoint {
	ordered := make([]models.RoundResult, len(rounds))
	copy(ordered, rounds)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].PlayedOn.Equal(ordered[j].PlayedOn) {
			return ordered[i].PlayedOn.Before(ordered[j].PlayedOn)
		}
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	series := make([]models.ScorePoint, 0, len(ordered))
	for _, round := range ordered {
		series = append(series, models.ScorePoint{
			Date:         round.PlayedOn,
			Label:        round.PlayedOn.Format("Jan 2, 2006"),
			Score:        round.ScoreRelative,
			ScoreDisplay: round.ScoreDisplay(),
		})
	}

	return series
}
