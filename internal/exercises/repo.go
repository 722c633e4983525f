package exercises

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrExerciseExists   = errors.New("exercise already exists")
	ErrOwnerNotFound    = errors.New("exercise owner not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// AddGlobal inserts into the global collection. The exercise id must be
// unique among global exercises.
func (r *Repo) AddGlobal(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.addglobal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_id", exercise.ExerciseID))

	exercise.UserID = ""
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now()
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO exercise
				(exercise_id, name, type, muscle_groups, user_id, created_at)
				VALUES ($1, $2, $3, $4, NULL, $5);`,
		exercise.ExerciseID, exercise.Name, exercise.Type, exercise.MuscleGroups, exercise.CreatedAt,
	)
	if pkg.IsUniqueViolationError(err) {
		return nil, ErrExerciseExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert global exercise: %w", err)
	}

	return &exercise, nil
}

// AddCustom inserts into the given user's custom collection. The exercise id
// must be unique among that user's custom exercises only.
func (r *Repo) AddCustom(ctx context.Context, userID string, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.addcustom")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_id", exercise.ExerciseID))
	span.SetAttributes(attribute.String("user.id", userID))

	exercise.UserID = userID
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now()
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO exercise
				(exercise_id, name, type, muscle_groups, user_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6);`,
		exercise.ExerciseID, exercise.Name, exercise.Type, exercise.MuscleGroups, userID, exercise.CreatedAt,
	)
	if pkg.IsUniqueViolationError(err) {
		return nil, ErrExerciseExists
	}
	if pkg.IsForeignKeyViolationError(err) {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert custom exercise: %w", err)
	}

	return &exercise, nil
}

// ListGlobal returns all global exercises ordered by name.
func (r *Repo) ListGlobal(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.listglobal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT exercise_id, name, type, muscle_groups, created_at
			FROM exercise
			WHERE user_id IS NULL
			ORDER BY name ASC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query global exercises: %w", err)
	}
	defer rows.Close()

	return r.rows2exercises(rows, "")
}

// ListCustomForUser returns the user's custom exercises ordered by name.
func (r *Repo) ListCustomForUser(ctx context.Context, userID string) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.listcustom")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT exercise_id, name, type, muscle_groups, created_at
			FROM exercise
			WHERE user_id = $1
			ORDER BY name ASC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query custom exercises: %w", err)
	}
	defer rows.Close()

	return r.rows2exercises(rows, userID)
}

func (r *Repo) DeleteGlobal(ctx context.Context, exerciseID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.deleteglobal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_id", exerciseID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM exercise WHERE exercise_id = $1 AND user_id IS NULL;`,
		exerciseID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (r *Repo) DeleteCustom(ctx context.Context, userID, exerciseID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.deletecustom")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_id", exerciseID))
	span.SetAttributes(attribute.String("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM exercise WHERE exercise_id = $1 AND user_id = $2;`,
		exerciseID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

// DeleteAllCustomForUser removes every custom exercise the user owns,
// part of the user deletion cascade.
func (r *Repo) DeleteAllCustomForUser(ctx context.Context, userID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.deleteallcustom")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM exercise WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *Repo) rows2exercises(rows pgx.Rows, userID string) ([]Exercise, error) {
	exercises := make([]Exercise, 0)
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ExerciseID, &e.Name, &e.Type, &e.MuscleGroups, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		e.UserID = userID
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return exercises, nil
}
