package handler

import (
	"net/http"
	"time"

	"showcase/internal/common"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type InfoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}

// InfoHandler serves the health check and the API index.
type InfoHandler struct {
	version string
	now     func() time.Time
}

func NewInfoHandler(version string) *InfoHandler {
	return &InfoHandler{version: version, now: time.Now}
}

func (h *InfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Timestamp: h.now().UTC()})
}

func (h *InfoHandler) Info(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, InfoResponse{
		Name:        "Showcase API",
		Version:     h.version,
		Description: "Community project showcase",
		Endpoints: map[string]string{
			"POST /api/auth/register":          "Create an account",
			"POST /api/auth/login":             "Log in and receive a token",
			"GET /api/auth/profile":            "Current user (bearer token)",
			"GET /api/projects":                "List projects",
			"GET /api/projects/{id}":           "Project with comments",
			"POST /api/projects":               "Submit a project",
			"POST /api/projects/{id}/comments": "Comment on a project (bearer token)",
			"GET /health":                      "Health check",
		},
	})
}

// NotFound is the JSON fallback for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	common.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}
