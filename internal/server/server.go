package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog_api/internal/config"
	"blog_api/internal/handlers"
	"blog_api/internal/metrics"
	"blog_api/internal/middlewares"
	"blog_api/internal/routes"
	"blog_api/internal/services"
)

// Deps are the process-wide resources created in main and injected here.
// Revocations may be nil when no Redis is configured.
type Deps struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Users       services.UserRepository
	Posts       services.PostRepository
	Pinger      handlers.Pinger
	Verifier    middlewares.TokenVerifier
	Revocations middlewares.RevocationChecker
}

func NewRouter(deps Deps) *gin.Engine {
	// Dependency injection
	userService := services.NewUserService(deps.Users, deps.Posts)
	postService := services.NewPostService(deps.Posts, deps.Users)

	h := routes.Handlers{
		Users:   handlers.NewUserHandler(userService),
		Posts:   handlers.NewPostHandler(postService),
		Profile: handlers.NewProfileHandler(),
		Health:  handlers.NewHealthHandler(deps.Pinger),
	}

	router := gin.New()
	router.Use(
		middlewares.RequestLogger(deps.Logger),
		middlewares.ErrorBoundary(),
		metrics.Middleware(),
		cors.New(corsConfig(deps.Config.CORSAllowedOrigins)),
	)

	gate := middlewares.Authenticate(deps.Verifier, deps.Revocations)
	routes.RegisterRoutes(router, gate, h)

	return router
}

// New creates and configures the HTTP server.
func New(deps Deps) *http.Server {
	return &http.Server{
		Addr:         deps.Config.Addr(),
		Handler:      NewRouter(deps),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders: []string{middlewares.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
