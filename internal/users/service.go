package users

import (
	"context"
	"fmt"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id string) error
}

// purgers remove everything a user owns: logged workouts, plus the user's
// custom exercises and templates (deleting a user deletes the whole account,
// global collections stay untouched).
type workoutsPurger interface {
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
}

type exercisesPurger interface {
	DeleteAllCustomForUser(ctx context.Context, userID string) (int, error)
}

type templatesPurger interface {
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
}

// prInvalidator drops any cached PR view for a user after their workout
// history changes. The cascade wipes the whole history, so the cached
// entry has to go too.
type prInvalidator interface {
	InvalidatePRs(ctx context.Context, userID string) error
}

type Service struct {
	repo        usersRepo
	workouts    workoutsPurger
	exercises   exercisesPurger
	templates   templatesPurger
	invalidator prInvalidator
}

func NewService(
	repo usersRepo,
	workouts workoutsPurger,
	exercises exercisesPurger,
	templates templatesPurger,
	invalidator prInvalidator,
) *Service {
	return &Service{
		repo:        repo,
		workouts:    workouts,
		exercises:   exercises,
		templates:   templates,
		invalidator: invalidator,
	}
}

// Delete removes the user together with all owned data. Personal records are
// derived from workout history on read, only their cached view needs dropping.
func (s *Service) Delete(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var cascadeErr error

	workoutsDeleted, err := s.workouts.DeleteAllForUser(ctx, id)
	cascadeErr = multierr.Append(cascadeErr, err)

	customExercisesDeleted, err := s.exercises.DeleteAllCustomForUser(ctx, id)
	cascadeErr = multierr.Append(cascadeErr, err)

	templatesDeleted, err := s.templates.DeleteAllForUser(ctx, id)
	cascadeErr = multierr.Append(cascadeErr, err)

	if cascadeErr != nil {
		return nil, fmt.Errorf("cascade delete for user %s: %w", id, cascadeErr)
	}

	log.Debugf(
		"user %s cascade: %d workouts, %d custom exercises, %d templates deleted",
		id, workoutsDeleted, customExercisesDeleted, templatesDeleted,
	)

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete user %s: %w", id, err)
	}

	if err := s.invalidator.InvalidatePRs(ctx, id); err != nil {
		// cached PRs expire on their own, stale reads are short-lived
		log.Warnf("failed to invalidate prs for deleted user %s: %s", id, err)
	}

	return user, nil
}
