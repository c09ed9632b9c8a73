package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"showcase/internal/api/middleware"
	"showcase/internal/app/service"
	"showcase/internal/common"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	commentService *service.CommentService
	logger         *slog.Logger
}

func NewProjectHandler(ps *service.ProjectService, cs *service.CommentService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: ps, commentService: cs, logger: logger}
}

func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProjects)          // GET /api/projects?category=&search=&sort=&order=&limit=&offset=
	r.Get("/{projectID}", h.getProject) // GET /api/projects/42
	r.Post("/", h.createProject)        // anonymous submissions are allowed

	r.With(middleware.Authenticator).Post("/{projectID}/comments", h.createComment)
}

func (h *ProjectHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projects, err := h.projectService.List(r.Context(), service.ListProjectsRequest{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
		Limit:    intQuery(r, "limit", 0),
		Offset:   intQuery(r, "offset", 0),
	})
	if err != nil {
		common.RespondWithDomainError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "projectID")
	if !ok {
		common.RespondWithError(w, http.StatusNotFound, "Project not found")
		return
	}

	project, err := h.projectService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.RespondWithError(w, http.StatusNotFound, "Project not found")
			return
		}
		common.RespondWithDomainError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) createProject(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.projectService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *ProjectHandler) createComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	projectID, ok := idParam(r, "projectID")
	if !ok {
		common.RespondWithError(w, http.StatusNotFound, "Project not found")
		return
	}

	var req service.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.commentService.Create(r.Context(), identity, projectID, req)
	if err != nil {
		common.RespondWithDomainError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}
