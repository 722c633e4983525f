package templates

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type CreateTemplateRequest struct {
	Name      string             `json:"name"`
	Exercises []TemplateExercise `json:"exercises"`
	IsGlobal  bool               `json:"is_global"`
	UserID    string             `json:"user_id"`
}

type DeleteTemplateResponse struct {
	Message  string    `json:"message"`
	Template *Template `json:"template"`
}

type Handler struct {
	repo     templatesRepo
	resolver *Resolver
}

func NewHandler(repo templatesRepo) *Handler {
	return &Handler{
		repo:     repo,
		resolver: NewResolver(repo),
	}
}

func (handler *Handler) HandleListGlobal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.listglobal")
	defer span.End()

	templates, err := handler.repo.ListGlobal(ctx)
	if err != nil {
		log.Errorf("list global templates error: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to get templates", http.StatusInternalServerError)
		return
	}

	templatesJson, err := json.Marshal(templates)
	if err != nil {
		log.Errorf("marshal templates error: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, templatesJson)
}

func (handler *Handler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.library")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, user id empty", http.StatusBadRequest)
		return
	}

	library, err := handler.resolver.TemplateLibrary(ctx, userID)
	if err != nil {
		log.Errorf("failed to resolve template library for user %s: %s", userID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to get template library", http.StatusInternalServerError)
		return
	}

	libraryJson, err := json.Marshal(library)
	if err != nil {
		log.Errorf("failed to marshal template library: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal template library", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, libraryJson)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.get")
	defer span.End()

	vars := mux.Vars(r)
	templateID := vars["id"]
	if templateID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, template id empty", http.StatusBadRequest)
		return
	}

	template, err := handler.repo.Get(ctx, templateID)
	if errors.Is(err, ErrTemplateNotFound) {
		pkg.WriteError(w, pkg.ErrKindNotFound, "template not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to get template %s: %s", templateID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to get template", http.StatusInternalServerError)
		return
	}

	templateJson, err := json.Marshal(template)
	if err != nil {
		log.Errorf("failed to marshal template: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal template", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, templateJson)
}

// HandleListForUser serves the user's own templates only, without the global
// set. The merged view is HandleLibrary.
func (handler *Handler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.listforuser")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, user id empty", http.StatusBadRequest)
		return
	}

	templates, err := handler.repo.ListForUser(ctx, userID)
	if err != nil {
		log.Errorf("failed to list templates for user %s: %s", userID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to get templates", http.StatusInternalServerError)
		return
	}

	templatesJson, err := json.Marshal(templates)
	if err != nil {
		log.Errorf("marshal templates error: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, templatesJson)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.create")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		pkg.WriteError(w, pkg.ErrKindValidation, "invalid content type", http.StatusBadRequest)
		return
	}

	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new template, unmarshal json params: %s", err)
		pkg.WriteError(w, pkg.ErrKindValidation, "invalid template payload", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, template name empty", http.StatusBadRequest)
		return
	}
	if len(req.Exercises) == 0 {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, template exercises empty", http.StatusBadRequest)
		return
	}
	if !req.IsGlobal && req.UserID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, user id required for non-global template", http.StatusBadRequest)
		return
	}

	template := Template{
		Name:      req.Name,
		Exercises: req.Exercises,
		IsGlobal:  req.IsGlobal,
		UserID:    req.UserID,
	}
	template.Normalize()

	addedTemplate, err := handler.repo.Add(ctx, template)
	if errors.Is(err, ErrOwnerNotFound) {
		pkg.WriteError(w, pkg.ErrKindValidation, "user does not exist", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("failed to add template [%s]: %s", req.Name, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to add new template", http.StatusInternalServerError)
		return
	}

	addedTemplateJson, err := json.Marshal(addedTemplate)
	if err != nil {
		log.Errorf("failed to marshal new template: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "error, failed to add new template", http.StatusInternalServerError)
		return
	}

	log.Debugf("new template added: %s [global: %t]", addedTemplate.ID, addedTemplate.IsGlobal)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedTemplateJson, http.StatusCreated)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.delete")
	defer span.End()

	vars := mux.Vars(r)
	templateID := vars["id"]
	if templateID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, template id empty", http.StatusBadRequest)
		return
	}

	template, err := handler.repo.Get(ctx, templateID)
	if errors.Is(err, ErrTemplateNotFound) {
		pkg.WriteError(w, pkg.ErrKindNotFound, "template not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to get template %s before delete: %s", templateID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "template not deleted", http.StatusInternalServerError)
		return
	}

	if err := handler.repo.Delete(ctx, templateID); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			pkg.WriteError(w, pkg.ErrKindNotFound, "template not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete template %s: %s", templateID, err)
		pkg.WriteError(w, pkg.ErrKindStorage, "template not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteTemplateResponse{
		Message:  "template deleted",
		Template: template,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}
