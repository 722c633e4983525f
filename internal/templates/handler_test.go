package templates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/pkg"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*Handler, *repoMock) {
	repo := NewMockTemplatesRepo()
	return NewHandler(repo), repo
}

func postTemplate(t *testing.T, handler *Handler, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest("POST", "/templates", strings.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.HandleCreate(rr, req)
	return rr
}

func TestHandler_Create(t *testing.T) {
	handler, _ := newTestHandler()

	rr := postTemplate(t, handler, `{
		"name": "Push Day",
		"user_id": "u1",
		"exercises": [
			{"exercise_id": "bench-press", "order": 99},
			{"exercise_id": "dips"}
		]
	}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created Template
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.False(t, created.IsGlobal)
	require.Len(t, created.Exercises, 2)
	assert.Equal(t, 1, created.Exercises[0].Order)
	assert.Equal(t, 2, created.Exercises[1].Order)
}

// A template flagged global keeps no owner even when the caller supplies one.
func TestHandler_Create_globalWinsOverUserID(t *testing.T) {
	handler, _ := newTestHandler()

	rr := postTemplate(t, handler, `{
		"name": "Starting Strength A",
		"is_global": true,
		"user_id": "u1",
		"exercises": [{"exercise_id": "squat"}]
	}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created Template
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.True(t, created.IsGlobal)
	assert.Empty(t, created.UserID)
}

func TestHandler_Create_invalid(t *testing.T) {
	handler, _ := newTestHandler()

	testCases := []struct {
		name    string
		payload string
	}{
		{name: "missing name", payload: `{"user_id": "u1", "exercises": [{"exercise_id": "squat"}]}`},
		{name: "empty exercises", payload: `{"name": "Push Day", "user_id": "u1", "exercises": []}`},
		{name: "non-global without owner", payload: `{"name": "Push Day", "exercises": [{"exercise_id": "squat"}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := postTemplate(t, handler, tc.payload)
			require.Equal(t, http.StatusBadRequest, rr.Code)

			var errResp pkg.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
			assert.Equal(t, pkg.ErrKindValidation, errResp.Error)
		})
	}
}

func TestHandler_Library(t *testing.T) {
	handler, repo := newTestHandler()
	ctx := context.Background()
	_, err := repo.Add(ctx, Template{Name: "Starting Strength A", IsGlobal: true, Exercises: []TemplateExercise{{ExerciseID: "squat", Order: 1}}})
	require.NoError(t, err)
	_, err = repo.Add(ctx, Template{Name: "My Push Day", UserID: "u1", Exercises: []TemplateExercise{{ExerciseID: "bench-press", Order: 1}}})
	require.NoError(t, err)
	_, err = repo.Add(ctx, Template{Name: "Not Yours", UserID: "u2", Exercises: []TemplateExercise{{ExerciseID: "deadlift", Order: 1}}})
	require.NoError(t, err)

	req, err := http.NewRequest("GET", "/templates/library/u1", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"userId": "u1"})

	rr := httptest.NewRecorder()
	handler.HandleLibrary(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var library Library
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &library))
	assert.Len(t, library.Global, 1)
	require.Len(t, library.Custom, 1)
	assert.Equal(t, "My Push Day", library.Custom[0].Name)
	assert.Len(t, library.Combined, 2)
}

func TestHandler_GetAndDelete(t *testing.T) {
	handler, repo := newTestHandler()
	added, err := repo.Add(context.Background(), Template{
		Name:      "Push Day",
		UserID:    "u1",
		Exercises: []TemplateExercise{{ExerciseID: "bench-press", Order: 1}},
	})
	require.NoError(t, err)

	req, err := http.NewRequest("GET", "/templates/byid/"+added.ID, nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"id": added.ID})
	rr := httptest.NewRecorder()
	handler.HandleGet(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req, err = http.NewRequest("DELETE", "/templates/"+added.ID, nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"id": added.ID})
	rr = httptest.NewRecorder()
	handler.HandleDelete(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var deleteResp DeleteTemplateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &deleteResp))
	require.NotNil(t, deleteResp.Template)
	assert.Equal(t, added.ID, deleteResp.Template.ID)

	// second delete is NotFound, not silent success
	rr = httptest.NewRecorder()
	handler.HandleDelete(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)

	var errResp pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	assert.Equal(t, pkg.ErrKindNotFound, errResp.Error)
}

func TestHandler_ListForUser(t *testing.T) {
	handler, repo := newTestHandler()
	ctx := context.Background()
	_, err := repo.Add(ctx, Template{Name: "Global One", IsGlobal: true, Exercises: []TemplateExercise{{ExerciseID: "squat", Order: 1}}})
	require.NoError(t, err)
	_, err = repo.Add(ctx, Template{Name: "Mine", UserID: "u1", Exercises: []TemplateExercise{{ExerciseID: "curl", Order: 1}}})
	require.NoError(t, err)

	req, err := http.NewRequest("GET", "/templates/u1", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"userId": "u1"})

	rr := httptest.NewRecorder()
	handler.HandleListForUser(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var templates []Template
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &templates))
	require.Len(t, templates, 1)
	assert.Equal(t, "Mine", templates[0].Name)
}
