package templates

import (
	"context"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type templatesRepo interface {
	Add(ctx context.Context, template Template) (*Template, error)
	Get(ctx context.Context, id string) (*Template, error)
	ListGlobal(ctx context.Context) ([]Template, error)
	ListForUser(ctx context.Context, userID string) ([]Template, error)
	Delete(ctx context.Context, id string) error
}

// Resolver produces the template library a user can start a workout from:
// global templates plus the user's own.
type Resolver struct {
	repo templatesRepo
}

func NewResolver(repo templatesRepo) *Resolver {
	return &Resolver{
		repo: repo,
	}
}

func (res *Resolver) TemplateLibrary(ctx context.Context, userID string) (_ *Library, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "resolver.templates.library")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	global, err := res.repo.ListGlobal(ctx)
	if err != nil {
		return nil, err
	}

	custom, err := res.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return BuildLibrary(global, custom), nil
}
