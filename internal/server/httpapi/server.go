// Package httpapi exposes the services over HTTP/JSON with chi.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/flatfinder/internal/logging"
	"github.com/dmitrijs2005/flatfinder/internal/server/auth"
	"github.com/dmitrijs2005/flatfinder/internal/server/policy"
	"github.com/dmitrijs2005/flatfinder/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Config struct {
	Address        string
	RequestTimeout time.Duration
	CORSOrigins    []string
}

type Server struct {
	cfg      Config
	creds    *auth.Credentials
	users    *services.UserService
	flats    *services.FlatService
	messages *services.MessageService
	// photos is nil when object storage is not configured.
	photos *services.PhotoService
	logger logging.Logger
}

func NewServer(cfg Config, l logging.Logger, creds *auth.Credentials, us *services.UserService,
	fs *services.FlatService, ms *services.MessageService, ps *services.PhotoService) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Server{
		cfg:      cfg,
		creds:    creds,
		users:    us,
		flats:    fs,
		messages: ms,
		photos:   ps,
		logger:   l.With("module", "http_server"),
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Post("/users/register", s.register)
	r.Post("/users/login", s.login)

	ownerOnly := s.require(policy.FlatOwnerOnly(s.flats, "id"))
	adminOnly := s.require(policy.AdminOnly())
	adminOrSelf := s.require(policy.AdminOrSelf("id"))

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Use(s.require(policy.Authenticated()))

		r.With(adminOnly).Get("/users", s.listUsers)
		r.Get("/users/{id}", s.getUser)
		r.With(adminOrSelf).Patch("/users/{id}", s.updateUser)
		r.With(adminOrSelf).Delete("/users/{id}", s.deleteUser)
		r.Get("/users/{id}/flats", s.listUserFlats)
		r.With(adminOrSelf).Get("/users/{id}/messages", s.listUserMessages)
		r.With(adminOrSelf).Post("/users/{id}/favourites/{flatId}", s.addFavourite)
		r.With(adminOrSelf).Delete("/users/{id}/favourites/{flatId}", s.removeFavourite)

		r.Get("/flats", s.listFlats)
		r.Post("/flats", s.createFlat)
		r.Get("/flats/{id}", s.getFlat)
		r.With(ownerOnly).Patch("/flats/{id}", s.updateFlat)
		r.With(ownerOnly).Delete("/flats/{id}", s.deleteFlat)

		r.With(ownerOnly).Get("/flats/{id}/messages", s.listFlatMessages)
		r.With(s.require(policy.MessageSenderOnly("senderId"))).Get("/flats/{id}/messages/{senderId}", s.listSenderMessages)
		r.Post("/flats/{id}/messages", s.createMessage)
		r.With(ownerOnly).Get("/flats/{id}/senders", s.listSenders)
		r.With(s.require(policy.ConversationParty(s.flats, "id", "userId"))).Get("/flats/{id}/conversations/{userId}", s.conversation)

		if s.photos != nil {
			r.With(ownerOnly).Post("/flats/{id}/photos", s.uploadPhoto)
			r.Get("/flats/{id}/photos", s.listPhotos)
		}

		r.With(adminOnly).Get("/messages/{id}", s.getMessage)
		r.With(adminOnly).Delete("/messages/{id}", s.deleteMessage)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.cfg.Address)
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

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
