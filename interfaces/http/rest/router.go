package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"bookshelf-backend/application/csrf"
	"bookshelf-backend/application/ports"
	"bookshelf-backend/application/session"
	"bookshelf-backend/infrastructure/config"
	"bookshelf-backend/interfaces/http/rest/handlers"
	"bookshelf-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	authors   ports.AuthorRepository
	books     ports.BookRepository
	users     ports.UserRepository
	sessions  *session.Handler
	csrfStore *csrf.Store
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	authors ports.AuthorRepository,
	books ports.BookRepository,
	users ports.UserRepository,
	sessions *session.Handler,
	csrfStore *csrf.Store,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		authors:   authors,
		books:     books,
		users:     users,
		sessions:  sessions,
		csrfStore: csrfStore,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", middleware.CSRFTokenIDHeader, middleware.CSRFTokenHeader},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	sessionManager := middleware.NewSessionManager(
		rt.sessions,
		rt.cfg.SessionCookieName,
		rt.cfg.SessionTTL,
		rt.cfg.IsProduction(),
		rt.logger,
	)

	router.Route("/api", func(r chi.Router) {
		// Every API request runs inside a session; state-changing
		// requests additionally need a valid CSRF token
		r.Use(sessionManager.Middleware)
		r.Use(middleware.CSRF(rt.csrfStore, rt.logger))

		authHandler := handlers.NewAuthHandler(rt.users, rt.csrfStore, rt.logger)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/csrf", authHandler.IssueCSRFToken)

		// Author endpoints
		r.Route("/authors", func(r chi.Router) {
			authorHandler := handlers.NewAuthorHandler(rt.authors, rt.logger)
			r.Get("/", authorHandler.List)
			r.Get("/stats", authorHandler.Stats)
			r.Get("/{authorID}", authorHandler.Get)

			// Mutations need a logged-in user
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser())
				r.Post("/", authorHandler.Create)
				r.Delete("/{authorID}", authorHandler.Delete)
			})
		})

		// Book endpoints
		r.Route("/books", func(r chi.Router) {
			bookHandler := handlers.NewBookHandler(rt.books, rt.logger)
			r.Get("/", bookHandler.List)
			r.Get("/latest", bookHandler.Latest)
			r.Get("/by-author", bookHandler.ByAuthor)
			r.Get("/{bookID}", bookHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser())
				r.Post("/", bookHandler.Create)
				r.Delete("/{bookID}", bookHandler.Delete)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
