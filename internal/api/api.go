package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MediSynth-io/todos/internal/config"
	"github.com/MediSynth-io/todos/internal/logging"
	"github.com/MediSynth-io/todos/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Api struct {
	Config  *config.Config
	Router  *chi.Mux
	auth    *services.AuthService
	users   *services.UserService
	todos   *services.TodoService
	sweeper *services.SessionSweeper
	logger  logging.Logger
}

func NewApi(
	cfg *config.Config,
	authSvc *services.AuthService,
	userSvc *services.UserService,
	todoSvc *services.TodoService,
	sweeper *services.SessionSweeper,
	logger logging.Logger,
) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, errors.New("Must have at least a port to start API")
	}

	api := &Api{
		Config:  cfg,
		Router:  chi.NewRouter(),
		auth:    authSvc,
		users:   userSvc,
		todos:   todoSvc,
		sweeper: sweeper,
		logger:  logger.With("component", "api"),
	}

	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/heartbeat"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.writeStatus(w, r, http.StatusNotFound, fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.writeStatus(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", api.RegisterHandler)
		r.Post("/login", api.LoginHandler)

		r.Group(func(r chi.Router) {
			r.Use(api.AuthMiddleware)
			r.Post("/logout", api.LogoutHandler)
			r.Get("/me", api.MeHandler)
			r.Get("/profile", api.ProfileHandler)
		})
	})

	r.Route("/todos", func(r chi.Router) {
		r.Use(api.AuthMiddleware)
		r.Post("/", api.CreateTodoHandler)
		r.Get("/", api.ListTodosHandler)
		r.Get("/{id}", api.GetTodoHandler)
		r.Patch("/{id}", api.UpdateTodoHandler)
		r.Delete("/{id}", api.DeleteTodoHandler)
	})
}

// Serve listens on the configured port until ctx is cancelled, then shuts
// down gracefully. The session sweeper runs for the lifetime of the server.
func (api *Api) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort),
		Handler:           api.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if api.sweeper != nil {
		go api.sweeper.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		api.logger.Info(ctx, "starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	api.logger.Info(ctx, "shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), api.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}

// requestLogger logs one line per request through the service logger.
func (api *Api) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		api.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
		)
	})
}
