package exercises

import (
	"context"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type exercisesRepo interface {
	AddGlobal(ctx context.Context, exercise Exercise) (*Exercise, error)
	AddCustom(ctx context.Context, userID string, exercise Exercise) (*Exercise, error)
	ListGlobal(ctx context.Context) ([]Exercise, error)
	ListCustomForUser(ctx context.Context, userID string) ([]Exercise, error)
	DeleteGlobal(ctx context.Context, exerciseID string) error
	DeleteCustom(ctx context.Context, userID, exerciseID string) error
}

// Resolver produces the merged exercise library a user can pick from:
// everything global plus everything the user defined themselves.
type Resolver struct {
	repo exercisesRepo
}

func NewResolver(repo exercisesRepo) *Resolver {
	return &Resolver{
		repo: repo,
	}
}

func (res *Resolver) ExerciseLibrary(ctx context.Context, userID string) (_ *Library, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "resolver.exercises.library")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	global, err := res.repo.ListGlobal(ctx)
	if err != nil {
		return nil, err
	}

	custom, err := res.repo.ListCustomForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return BuildLibrary(global, custom), nil
}
