package prs

import (
	"context"
	"sort"
	"time"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

// PersonalRecord is a derived view, never stored: the heaviest set a user
// ever logged for one exercise.
type PersonalRecord struct {
	ExerciseID string    `json:"exercise_id"`
	BestWeight float64   `json:"best_weight"`
	DateSet    time.Time `json:"date_set"`
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=prs_test

type workoutsLister interface {
	ListForUser(ctx context.Context, userID string) ([]workouts.Workout, error)
}

type Analyzer struct {
	repo workoutsLister
}

func NewAnalyzer(repo workoutsLister) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// ComputePRs rescans the user's entire workout history and reduces it to one
// record per exercise: the maximum weight across all sets. On equal weights
// the earliest workout date wins, so a record keeps the day it was first set.
// A user with no workouts yields an empty collection, not an error.
func (a *Analyzer) ComputePRs(ctx context.Context, userID string) (_ []PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.prs.compute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	workoutHistory, err := a.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	best := make(map[string]PersonalRecord)
	for _, workout := range workoutHistory {
		for _, exercise := range workout.Exercises {
			for _, set := range exercise.Sets {
				weight := float64(set.Weight)
				current, seen := best[exercise.ExerciseID]
				switch {
				case !seen,
					weight > current.BestWeight,
					weight == current.BestWeight && workout.Date.Before(current.DateSet):
					best[exercise.ExerciseID] = PersonalRecord{
						ExerciseID: exercise.ExerciseID,
						BestWeight: weight,
						DateSet:    workout.Date,
					}
				}
			}
		}
	}

	records := make([]PersonalRecord, 0, len(best))
	for _, record := range best {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ExerciseID < records[j].ExerciseID
	})

	span.SetAttributes(attribute.Int("prs.count", len(records)))
	return records, nil
}
