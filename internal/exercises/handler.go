package exercises

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// AddExerciseRequest is the boundary form of an exercise: muscle groups
// arrive as one comma-separated string.
type AddExerciseRequest struct {
	ExerciseID   string `json:"exercise_id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	MuscleGroups string `json:"muscle_groups"`
}

type DeleteExerciseResponse struct {
	DeletedID string `json:"deleted_id"`
}

type AutoSaveResponse struct {
	Status     string `json:"status"`
	ExerciseID string `json:"exercise_id"`
}

type Handler struct {
	repo     exercisesRepo
	resolver *Resolver
}

func NewHandler(repo exercisesRepo) *Handler {
	return &Handler{
		repo:     repo,
		resolver: NewResolver(repo),
	}
}

func (handler *Handler) decodeExercise(w http.ResponseWriter, r *http.Request) (*Exercise, bool) {
	if r.Header.Get("Content-Type") != "application/json" {
		pkg.WriteError(w, pkg.ErrKindValidation, "invalid content type", http.StatusBadRequest)
		return nil, false
	}

	var req AddExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new exercise, unmarshal json params: %s", err)
		pkg.WriteError(w, pkg.ErrKindValidation, "invalid exercise payload", http.StatusBadRequest)
		return nil, false
	}

	if req.ExerciseID == "" || req.Name == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, exercise id or name empty", http.StatusBadRequest)
		return nil, false
	}

	exerciseType, err := ParseType(req.Type)
	if err != nil {
		pkg.WriteError(w, pkg.ErrKindValidation, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	return &Exercise{
		ExerciseID:   req.ExerciseID,
		Name:         req.Name,
		Type:         exerciseType,
		MuscleGroups: ParseMuscleGroups(req.MuscleGroups),
	}, true
}

func (handler *Handler) HandleListGlobal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.listglobal")
	defer span.End()

	exercises, err := handler.repo.ListGlobal(ctx)
	if err != nil {
		log.Errorf("list global exercises error: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to get exercises", http.StatusInternalServerError)
		return
	}

	exercisesJson, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("marshal exercises error: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, exercisesJson)
}

func (handler *Handler) HandleAddGlobal(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.addglobal")
	defer span.End()

	exercise, ok := handler.decodeExercise(w, r)
	if !ok {
		return
	}

	addedExercise, err := handler.repo.AddGlobal(ctx, *exercise)
	if errors.Is(err, ErrExerciseExists) {
		pkg.WriteError(w, pkg.ErrKindConflict, "exercise id already exists", http.StatusConflict)
		return
	}
	if err != nil {
		log.Errorf("failed to add global exercise [%s]: %s", exercise.ExerciseID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to add new exercise", http.StatusInternalServerError)
		return
	}

	addedExJson, err := json.Marshal(addedExercise)
	if err != nil {
		log.Errorf("failed to marshal new exercise: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to add new exercise", http.StatusInternalServerError)
		return
	}

	log.Debugf("new global exercise added: %s", addedExercise.ExerciseID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedExJson, http.StatusCreated)
}

func (handler *Handler) HandleDeleteGlobal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.deleteglobal")
	defer span.End()

	vars := mux.Vars(r)
	exerciseID := vars["id"]
	if exerciseID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteGlobal(ctx, exerciseID); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteError(w, pkg.ErrKindNotFound, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete global exercise %s: %s", exerciseID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "exercise not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteExerciseResponse{
		DeletedID: exerciseID,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.library")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, user id empty", http.StatusBadRequest)
		return
	}

	library, err := handler.resolver.ExerciseLibrary(ctx, userID)
	if err != nil {
		log.Errorf("failed to resolve exercise library for user %s: %s", userID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to get exercise library", http.StatusInternalServerError)
		return
	}

	libraryJson, err := json.Marshal(library)
	if err != nil {
		log.Errorf("failed to marshal exercise library: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal exercise library", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, libraryJson)
}

// HandleAddCustom is the auto-save path, hit while a user is typing a new
// exercise name. A duplicate id within the user's scope is not an error here:
// it is answered with an "exists" status so the client keeps going.
func (handler *Handler) HandleAddCustom(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.addcustom")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, user id empty", http.StatusBadRequest)
		return
	}

	exercise, ok := handler.decodeExercise(w, r)
	if !ok {
		return
	}

	addedExercise, err := handler.repo.AddCustom(ctx, userID, *exercise)
	if errors.Is(err, ErrExerciseExists) {
		log.Debugf("custom exercise %s for user %s already exists, ignoring", exercise.ExerciseID, userID)
		existsRespJson, err := json.Marshal(AutoSaveResponse{
			Status:     "already_exists",
			ExerciseID: exercise.ExerciseID,
		})
		if err != nil {
			log.Errorf("failed to marshal auto-save response: %s", err)
			pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal auto-save response", http.StatusInternalServerError)
			return
		}
		pkg.WriteJSONResponseOK(w, string(existsRespJson))
		return
	}
	if errors.Is(err, ErrOwnerNotFound) {
		pkg.WriteError(w, pkg.ErrKindValidation, "user does not exist", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("failed to add custom exercise [%s] for user %s: %s", exercise.ExerciseID, userID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to add custom exercise", http.StatusInternalServerError)
		return
	}

	addedExJson, err := json.Marshal(addedExercise)
	if err != nil {
		log.Errorf("failed to marshal custom exercise: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to add custom exercise", http.StatusInternalServerError)
		return
	}

	log.Debugf("new custom exercise added for user %s: %s", userID, addedExercise.ExerciseID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedExJson, http.StatusCreated)
}

func (handler *Handler) HandleDeleteCustom(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.deletecustom")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	exerciseID := vars["exerciseId"]
	if userID == "" || exerciseID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, user id or exercise id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteCustom(ctx, userID, exerciseID); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteError(w, pkg.ErrKindNotFound, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete custom exercise %s for user %s: %s", exerciseID, userID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "exercise not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteExerciseResponse{
		DeletedID: exerciseID,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}
