package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrOwnerNotFound    = errors.New("template owner not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, template Template) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	if template.CreatedAt.IsZero() {
		template.CreatedAt = time.Now()
	}

	span.SetAttributes(attribute.String("template.id", template.ID))

	exercisesJson, err := json.Marshal(template.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal template exercises: %w", err)
	}

	var userID *string
	if !template.IsGlobal {
		userID = &template.UserID
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO template
				(id, name, exercises, is_global, user_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6);`,
		template.ID, template.Name, exercisesJson, template.IsGlobal, userID, template.CreatedAt,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("insert template: %w", err)
	}

	return &template, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", id))

	row := r.db.QueryRow(
		ctx,
		`SELECT id, name, exercises, is_global, user_id, created_at
			FROM template WHERE id = $1;`,
		id,
	)

	template, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	return template, nil
}

func (r *Repo) ListGlobal(ctx context.Context) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.listglobal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, exercises, is_global, user_id, created_at
			FROM template
			WHERE is_global = TRUE
			ORDER BY name ASC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query global templates: %w", err)
	}

	return rows2templates(rows)
}

func (r *Repo) ListForUser(ctx context.Context, userID string) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.listforuser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, exercises, is_global, user_id, created_at
			FROM template
			WHERE is_global = FALSE AND user_id = $1
			ORDER BY name ASC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query user templates: %w", err)
	}

	return rows2templates(rows)
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM template WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// DeleteAllForUser removes every template owned by the user and reports how
// many were removed. Global templates are never touched.
func (r *Repo) DeleteAllForUser(ctx context.Context, userID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.deleteallforuser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM template WHERE is_global = FALSE AND user_id = $1;`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete user templates: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func scanTemplate(row pgx.Row) (*Template, error) {
	var template Template
	var exercisesJson []byte
	var userID *string
	if err := row.Scan(
		&template.ID,
		&template.Name,
		&exercisesJson,
		&template.IsGlobal,
		&userID,
		&template.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(exercisesJson, &template.Exercises); err != nil {
		return nil, fmt.Errorf("unmarshal template exercises: %w", err)
	}
	if userID != nil {
		template.UserID = *userID
	}

	return &template, nil
}

func rows2templates(rows pgx.Rows) ([]Template, error) {
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template row: %w", err)
		}
		templates = append(templates, *template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("template rows: %w", err)
	}

	return templates, nil
}
