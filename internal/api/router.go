package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/shreyannandanwar/CrewAI/internal/api/handlers"
	"github.com/shreyannandanwar/CrewAI/internal/api/respond"
	"github.com/shreyannandanwar/CrewAI/internal/auth"
	"github.com/shreyannandanwar/CrewAI/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(authService services.AuthServiceProvider, tokens *auth.TokenService) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokens)

	r.Get("/health", health)

	r.Route("/api/auth", func(r chi.Router) {
		// Public routes
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens, authService))
			r.Get("/profile", authHandler.GetProfile)
			r.Put("/profile", authHandler.UpdateProfile)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusNotFound, "Route not found", nil)
	})

	return r
}

// health reports liveness.
func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"OK","timestamp":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
}

// recoverer converts handler panics into the generic 500 envelope.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.Error().Interface("panic", rvr).Str("path", r.URL.Path).Msg("Unhandled panic in request handler")
				respond.InternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
