package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/metrics"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type workoutsRepo interface {
	Add(ctx context.Context, workout Workout) (*Workout, error)
	Get(ctx context.Context, id string) (*Workout, error)
	ListForUser(ctx context.Context, userID string) ([]Workout, error)
	Delete(ctx context.Context, id string) error
}

type userChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// prInvalidator drops any cached PR view for a user after their workout
// history changes.
type prInvalidator interface {
	InvalidatePRs(ctx context.Context, userID string) error
}

type DeleteWorkoutResponse struct {
	Message string   `json:"message"`
	Workout *Workout `json:"workout"`
}

type Handler struct {
	repo        workoutsRepo
	users       userChecker
	invalidator prInvalidator
	metrics     *metrics.Manager
}

func NewHandler(
	repo workoutsRepo,
	users userChecker,
	invalidator prInvalidator,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:        repo,
		users:       users,
		invalidator: invalidator,
		metrics:     metricsManager,
	}
}

func (handler *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.log")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		pkg.WriteError(w, pkg.ErrKindValidation, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		pkg.WriteError(w, pkg.ErrKindValidation, "invalid workout payload", http.StatusBadRequest)
		return
	}

	if err := workout.Validate(); err != nil {
		pkg.WriteError(w, pkg.ErrKindValidation, err.Error(), http.StatusBadRequest)
		return
	}

	exists, err := handler.users.Exists(ctx, workout.UserID)
	if err != nil {
		log.Errorf("failed to check user %s exists: %s", workout.UserID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to log workout", http.StatusInternalServerError)
		return
	}
	if !exists {
		pkg.WriteError(w, pkg.ErrKindValidation, "user does not exist", http.StatusBadRequest)
		return
	}

	workout.Normalize(time.Now())

	addedWorkout, err := handler.repo.Add(ctx, workout)
	if err != nil {
		log.Errorf("failed to log workout for user %s: %s", workout.UserID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to log workout", http.StatusInternalServerError)
		return
	}

	if err := handler.invalidator.InvalidatePRs(ctx, workout.UserID); err != nil {
		// cached PRs expire on their own, stale reads are short-lived
		log.Warnf("failed to invalidate prs for user %s: %s", workout.UserID, err)
	}

	handler.metrics.CounterWorkoutsLogged.Inc()

	addedWorkoutJson, err := json.Marshal(addedWorkout)
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to log workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout logged for user %s: %s", addedWorkout.UserID, addedWorkout.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedWorkoutJson, http.StatusCreated)
}

func (handler *Handler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.listforuser")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, user id empty", http.StatusBadRequest)
		return
	}

	workouts, err := handler.repo.ListForUser(ctx, userID)
	if err != nil {
		log.Errorf("failed to list workouts for user %s: %s", userID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to get workouts", http.StatusInternalServerError)
		return
	}
	if workouts == nil {
		workouts = []Workout{}
	}

	workoutsJson, err := json.Marshal(workouts)
	if err != nil {
		log.Errorf("marshal workouts error: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, workoutsJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	vars := mux.Vars(r)
	workoutID := vars["id"]
	if workoutID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, workout id empty", http.StatusBadRequest)
		return
	}

	// fetch first: the owner is needed for PR cache invalidation and the
	// delete response returns the removed entity
	workout, err := handler.repo.Get(ctx, workoutID)
	if errors.Is(err, ErrWorkoutNotFound) {
		pkg.WriteError(w, pkg.ErrKindNotFound, "workout not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to get workout %s before delete: %s", workoutID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "workout not deleted", http.StatusInternalServerError)
		return
	}

	if err := handler.repo.Delete(ctx, workoutID); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			pkg.WriteError(w, pkg.ErrKindNotFound, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %s: %s", workoutID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "workout not deleted", http.StatusInternalServerError)
		return
	}

	if err := handler.invalidator.InvalidatePRs(ctx, workout.UserID); err != nil {
		log.Warnf("failed to invalidate prs for user %s: %s", workout.UserID, err)
	}

	deleteRespJson, err := json.Marshal(DeleteWorkoutResponse{
		Message: "workout deleted",
		Workout: workout,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}
