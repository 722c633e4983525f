package workouts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Number is a float64 that tolerates sloppy boundary input: JSON numbers,
// numeric strings, and null all decode; anything unparseable becomes 0
// rather than rejecting the whole workout.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(coerceFloat(data))
	return nil
}

// Integer is the int counterpart of Number, with the same lenient decoding.
type Integer int

func (i *Integer) UnmarshalJSON(data []byte) error {
	*i = Integer(coerceFloat(data))
	return nil
}

func coerceFloat(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

type Set struct {
	SetID      int     `json:"set_id"`
	Weight     Number  `json:"weight"`
	Reps       Integer `json:"reps"`
	Difficulty Integer `json:"difficulty"`
}

// WorkoutExercise carries a denormalized snapshot of the exercise name and
// origin at log time, so later library edits never rewrite history.
type WorkoutExercise struct {
	ExerciseID string `json:"exercise_id"`
	Name       string `json:"name"`
	IsCustom   bool   `json:"is_custom"`
	Sets       []Set  `json:"sets"`
}

type Workout struct {
	ID               string            `json:"id"`
	UserID           string            `json:"user_id"`
	Date             time.Time         `json:"date"`
	TotalTimeMinutes Integer           `json:"total_time_minutes"`
	Exercises        []WorkoutExercise `json:"exercises"`
}

var (
	ErrNoExercises   = errors.New("workout has no exercises")
	ErrMissingUserID = errors.New("workout user id empty")
)

// Validate rejects the whole workout if any exercise entry is incomplete.
// Numeric set fields are never a reason to reject, they were coerced on
// decode.
func (w *Workout) Validate() error {
	if w.UserID == "" {
		return ErrMissingUserID
	}
	if len(w.Exercises) == 0 {
		return ErrNoExercises
	}
	for i, ex := range w.Exercises {
		if ex.ExerciseID == "" || ex.Name == "" {
			return fmt.Errorf("exercise entry %d: id or name empty", i)
		}
		if len(ex.Sets) == 0 {
			return fmt.Errorf("exercise entry %d [%s]: no sets", i, ex.ExerciseID)
		}
	}
	return nil
}

// Normalize fills in ingestion-time defaults: the date when absent, set ids
// by position within each exercise, and clamps negative weights to 0.
func (w *Workout) Normalize(now time.Time) {
	if w.Date.IsZero() {
		w.Date = now
	}
	for i := range w.Exercises {
		for j := range w.Exercises[i].Sets {
			w.Exercises[i].Sets[j].SetID = j + 1
			if w.Exercises[i].Sets[j].Weight < 0 {
				w.Exercises[i].Sets[j].Weight = 0
			}
			if w.Exercises[i].Sets[j].Reps < 0 {
				w.Exercises[i].Sets[j].Reps = 0
			}
		}
	}
}

func (w *Workout) MarshalExercises() ([]byte, error) {
	return json.Marshal(w.Exercises)
}
