package test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/exercises"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/prs"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/templates"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/users"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestHealth() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, respBytes := s.get(ctx, "/health")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(respBytes), "ok")
}

func (s *IntegrationTestSuite) TestUserWorkoutPRLifecycle() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	aliceID := s.createUser(ctx, "Alice", uniqueEmail("alice"))

	// fresh user, no workouts, no PRs
	status, respBytes := s.get(ctx, "/prs/"+aliceID)
	require.Equal(t, http.StatusOK, status)
	var records []prs.PersonalRecord
	require.NoError(t, json.Unmarshal(respBytes, &records))
	assert.Empty(t, records)

	status, respBytes = s.postJSON(ctx, "/workouts", map[string]any{
		"user_id":            aliceID,
		"total_time_minutes": 45,
		"exercises": []map[string]any{
			{
				"exercise_id": "bench_press",
				"name":        "Bench Press",
				"is_custom":   false,
				"sets": []map[string]any{
					{"weight": 100, "reps": 10, "difficulty": 7},
					{"weight": 110, "reps": 8, "difficulty": 8},
				},
			},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(respBytes))
	var logged workouts.Workout
	require.NoError(t, json.Unmarshal(respBytes, &logged))
	require.NotEmpty(t, logged.ID)

	status, respBytes = s.get(ctx, "/prs/"+aliceID)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(respBytes, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "bench_press", records[0].ExerciseID)
	assert.Equal(t, float64(110), records[0].BestWeight)

	// a second read comes from the cache and is identical
	status, respBytes = s.get(ctx, "/prs/"+aliceID)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(respBytes, &records))
	require.Len(t, records, 1)
	assert.Equal(t, float64(110), records[0].BestWeight)

	// deleting the user takes the workouts with it
	status, respBytes = s.delete(ctx, "/users/"+aliceID)
	require.Equal(t, http.StatusOK, status, string(respBytes))
	var deleteResp users.DeleteUserResponse
	require.NoError(t, json.Unmarshal(respBytes, &deleteResp))
	require.NotNil(t, deleteResp.User)
	assert.Equal(t, aliceID, deleteResp.User.ID)

	status, respBytes = s.get(ctx, "/workouts/"+aliceID)
	require.Equal(t, http.StatusOK, status)
	var history []workouts.Workout
	require.NoError(t, json.Unmarshal(respBytes, &history))
	assert.Empty(t, history)

	// and the cached PR view: the warmed cache must not outlive the user
	status, respBytes = s.get(ctx, "/prs/"+aliceID)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(respBytes, &records))
	assert.Empty(t, records)

	status, _ = s.get(ctx, "/users/"+aliceID)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestExerciseLibraryScopes() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	bobID := s.createUser(ctx, "Bob", uniqueEmail("bob"))

	status, respBytes := s.postJSON(ctx, "/exercises", map[string]any{
		"exercise_id":   "squat",
		"name":          "Squat",
		"type":          "Strength",
		"muscle_groups": "quads, glutes",
	})
	require.Equal(t, http.StatusCreated, status, string(respBytes))

	// duplicate global id is a conflict
	status, respBytes = s.postJSON(ctx, "/exercises", map[string]any{
		"exercise_id": "squat",
		"name":        "Squat Again",
		"type":        "Strength",
	})
	require.Equal(t, http.StatusConflict, status, string(respBytes))

	// the same id in Bob's scope is fine
	status, respBytes = s.postJSON(ctx, "/exercises/custom/"+bobID, map[string]any{
		"exercise_id": "squat",
		"name":        "Pause Squat",
	})
	require.Equal(t, http.StatusCreated, status, string(respBytes))

	// auto-saving it again is swallowed, not surfaced as an error
	status, respBytes = s.postJSON(ctx, "/exercises/custom/"+bobID, map[string]any{
		"exercise_id": "squat",
		"name":        "Pause Squat",
	})
	require.Equal(t, http.StatusOK, status, string(respBytes))
	var autoSaveResp exercises.AutoSaveResponse
	require.NoError(t, json.Unmarshal(respBytes, &autoSaveResp))
	assert.Equal(t, "already_exists", autoSaveResp.Status)

	status, respBytes = s.get(ctx, "/exercises/library/"+bobID)
	require.Equal(t, http.StatusOK, status)
	var library exercises.Library
	require.NoError(t, json.Unmarshal(respBytes, &library))
	require.Len(t, library.Combined, len(library.Global)+len(library.Custom))

	squatEntries := 0
	for _, entry := range library.Combined {
		if entry.ExerciseID == "squat" {
			squatEntries++
		}
	}
	assert.Equal(t, 2, squatEntries)
}

func (s *IntegrationTestSuite) TestTemplates() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	carolID := s.createUser(ctx, "Carol", uniqueEmail("carol"))

	// global flag wins over a supplied owner
	status, respBytes := s.postJSON(ctx, "/templates", map[string]any{
		"name":      "Starting Strength A",
		"is_global": true,
		"user_id":   carolID,
		"exercises": []map[string]any{
			{"exercise_id": "squat", "order": 99},
			{"exercise_id": "bench_press"},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(respBytes))
	var globalTemplate templates.Template
	require.NoError(t, json.Unmarshal(respBytes, &globalTemplate))
	assert.True(t, globalTemplate.IsGlobal)
	assert.Empty(t, globalTemplate.UserID)
	require.Len(t, globalTemplate.Exercises, 2)
	assert.Equal(t, 1, globalTemplate.Exercises[0].Order)
	assert.Equal(t, 2, globalTemplate.Exercises[1].Order)

	// non-global without an owner fails validation
	status, _ = s.postJSON(ctx, "/templates", map[string]any{
		"name":      "Orphan Plan",
		"exercises": []map[string]any{{"exercise_id": "squat"}},
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, respBytes = s.postJSON(ctx, "/templates", map[string]any{
		"name":    "Carol Pull Day",
		"user_id": carolID,
		"exercises": []map[string]any{
			{"exercise_id": "deadlift"},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(respBytes))
	var carolTemplate templates.Template
	require.NoError(t, json.Unmarshal(respBytes, &carolTemplate))

	status, respBytes = s.get(ctx, "/templates/library/"+carolID)
	require.Equal(t, http.StatusOK, status)
	var library templates.Library
	require.NoError(t, json.Unmarshal(respBytes, &library))
	assert.Len(t, library.Combined, len(library.Global)+len(library.Custom))
	require.NotEmpty(t, library.Custom)
	assert.Equal(t, "Carol Pull Day", library.Custom[0].Name)

	status, respBytes = s.get(ctx, "/templates/byid/"+carolTemplate.ID)
	require.Equal(t, http.StatusOK, status)
	var gotten templates.Template
	require.NoError(t, json.Unmarshal(respBytes, &gotten))
	assert.Equal(t, carolTemplate.ID, gotten.ID)

	status, _ = s.delete(ctx, "/templates/"+carolTemplate.ID)
	require.Equal(t, http.StatusOK, status)

	// repeated delete is NotFound, not silent success
	status, _ = s.delete(ctx, "/templates/"+carolTemplate.ID)
	require.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestWorkoutValidationAndDeletes() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	daveID := s.createUser(ctx, "Dave", uniqueEmail("dave"))

	// unknown user is rejected before anything is written
	status, _ := s.postJSON(ctx, "/workouts", map[string]any{
		"user_id": "no-such-user",
		"exercises": []map[string]any{
			{"exercise_id": "squat", "name": "Squat", "sets": []map[string]any{{"weight": 100}}},
		},
	})
	require.Equal(t, http.StatusBadRequest, status)

	// sloppy numeric input is coerced, not rejected
	status, respBytes := s.postJSON(ctx, "/workouts", map[string]any{
		"user_id": daveID,
		"exercises": []map[string]any{
			{
				"exercise_id": "squat",
				"name":        "Squat",
				"sets": []map[string]any{
					{"weight": "185", "reps": "5", "difficulty": "not a number"},
				},
			},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(respBytes))
	var logged workouts.Workout
	require.NoError(t, json.Unmarshal(respBytes, &logged))
	require.Len(t, logged.Exercises, 1)
	require.Len(t, logged.Exercises[0].Sets, 1)
	assert.Equal(t, workouts.Number(185), logged.Exercises[0].Sets[0].Weight)
	assert.Equal(t, workouts.Integer(0), logged.Exercises[0].Sets[0].Difficulty)

	status, _ = s.delete(ctx, "/workouts/byid/"+logged.ID)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.delete(ctx, "/workouts/byid/"+logged.ID)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = s.delete(ctx, "/workouts/byid/never-existed")
	require.Equal(t, http.StatusNotFound, status)
}
