package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"showcase/internal/api/handler"
	"showcase/internal/api/middleware"
	"showcase/internal/app/service"
	"showcase/internal/common/security"
)

const Version = "1.0.0"

type Dependencies struct {
	Tokens         *security.TokenService
	AuthService    *service.AuthService
	ProjectService *service.ProjectService
	CommentService *service.CommentService
	Logger         *slog.Logger
	// RequestLogging enables chi's request logger; tests leave it off.
	RequestLogging bool
}

func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	if deps.RequestLogging {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Resolves "Authorization: <scheme> <token>" for every request; routes that
	// require a caller add middleware.Authenticator.
	r.Use(jwtauth.Verify(deps.Tokens.Auth(), middleware.TokenFromAuthorization))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.NotFound)

	infoHandler := handler.NewInfoHandler(Version)
	r.Get("/health", infoHandler.Health)

	r.Route("/api", func(api chi.Router) {
		api.Get("/", infoHandler.Info)

		authHandler := handler.NewAuthHandler(deps.AuthService, logger)
		api.Route("/auth", authHandler.RegisterRoutes)

		projectHandler := handler.NewProjectHandler(deps.ProjectService, deps.CommentService, logger)
		api.Route("/projects", projectHandler.RegisterRoutes)
	})

	return r
}
