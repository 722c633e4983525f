package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/metrics"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type userDeleter interface {
	Delete(ctx context.Context, id string) (*User, error)
}

type DeleteUserResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type Handler struct {
	repo    usersRepo
	deleter userDeleter
	metrics *metrics.Manager
}

func NewHandler(repo usersRepo, deleter userDeleter, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		deleter: deleter,
		metrics: metricsManager,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.list")
	defer span.End()

	users, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list users error: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to get users", http.StatusInternalServerError)
		return
	}

	usersJson, err := json.Marshal(users)
	if err != nil {
		log.Errorf("marshal users error: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, usersJson)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		pkg.WriteError(w, pkg.ErrKindValidation, "invalid content type", http.StatusBadRequest)
		return
	}

	var user User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.Tracef("new user, unmarshal json params: %s", err)
		pkg.WriteError(w, pkg.ErrKindValidation, "invalid user payload", http.StatusBadRequest)
		return
	}

	if user.Name == "" || user.Email == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, user name or email empty", http.StatusBadRequest)
		return
	}

	addedUser, err := handler.repo.Add(ctx, user)
	if err != nil {
		log.Errorf("failed to add new user [%s]: %s", user.Email, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to add new user", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterUsersCreated.Inc()

	addedUserJson, err := json.Marshal(addedUser)
	if err != nil {
		log.Errorf("failed to marshal new user: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to add new user", http.StatusInternalServerError)
		return
	}

	log.Debugf("new user added: %s [%s]", addedUser.ID, addedUser.Email)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedUserJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, id empty", http.StatusBadRequest)
		return
	}

	user, err := handler.repo.Get(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		pkg.WriteError(w, pkg.ErrKindNotFound, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to get user %s: %s", id, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to get user", http.StatusInternalServerError)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("failed to marshal user: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal user", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, userJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.delete")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, id empty", http.StatusBadRequest)
		return
	}

	deletedUser, err := handler.deleter.Delete(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		log.Debugf("user %s not found", id)
		pkg.WriteError(w, pkg.ErrKindNotFound, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to delete user %s: %s", id, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "user not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteUserResponse{
		Message: fmt.Sprintf("user %s deleted successfully", id),
		User:    deletedUser,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}
