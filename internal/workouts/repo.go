package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	span.SetAttributes(
		attribute.String("workout.id", workout.ID),
		attribute.String("user.id", workout.UserID),
	)

	exercisesJson, err := workout.MarshalExercises()
	if err != nil {
		return nil, fmt.Errorf("marshal workout exercises: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout
				(id, user_id, date, total_time_minutes, exercises)
				VALUES ($1, $2, $3, $4, $5);`,
		workout.ID, workout.UserID, workout.Date, int(workout.TotalTimeMinutes), exercisesJson,
	)
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	return &workout, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	row := r.db.QueryRow(
		ctx,
		`SELECT id, user_id, date, total_time_minutes, exercises
			FROM workout WHERE id = $1;`,
		id,
	)

	workout, err := scanWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}

	return workout, nil
}

// ListForUser returns the user's full workout history, newest first.
func (r *Repo) ListForUser(ctx context.Context, userID string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listforuser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, date, total_time_minutes, exercises
			FROM workout
			WHERE user_id = $1
			ORDER BY date DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout row: %w", err)
		}
		workouts = append(workouts, *workout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workout rows: %w", err)
	}

	return workouts, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}

func (r *Repo) DeleteAllForUser(ctx context.Context, userID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteallforuser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout WHERE user_id = $1;`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user workouts: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func scanWorkout(row pgx.Row) (*Workout, error) {
	var workout Workout
	var exercisesJson []byte
	var totalTimeMinutes int
	if err := row.Scan(
		&workout.ID,
		&workout.UserID,
		&workout.Date,
		&totalTimeMinutes,
		&exercisesJson,
	); err != nil {
		return nil, err
	}

	workout.TotalTimeMinutes = Integer(totalTimeMinutes)
	if err := json.Unmarshal(exercisesJson, &workout.Exercises); err != nil {
		return nil, fmt.Errorf("unmarshal workout exercises: %w", err)
	}

	return &workout, nil
}
