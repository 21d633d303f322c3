package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/apolion-games/mentorhub/config"
	"github.com/apolion-games/mentorhub/internal/db"
	"github.com/apolion-games/mentorhub/internal/handlers"
	"github.com/apolion-games/mentorhub/internal/mq"
	"github.com/apolion-games/mentorhub/internal/password"
	"github.com/apolion-games/mentorhub/internal/services"
	"github.com/apolion-games/mentorhub/internal/storage"
	"github.com/apolion-games/mentorhub/internal/store"
	"github.com/apolion-games/mentorhub/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	bus        *mq.Bus
}

// New constructs a Server with the full request pipeline wired in.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(cfg.Auth.JWTSecret)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("JWT_SECRET is required: %w", err)
	}

	verifier := password.NewVerifier()
	accountRepo := store.NewAccountRepository(dbConn)
	registrationStore := store.NewRegistrationStore(dbConn)
	personRepo := store.NewPersonRepository(dbConn)

	bus, err := mq.NewBusFromConfig(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	avatars, err := newAvatarStorage(ctx, cfg.Storage)
	if err != nil {
		if bus != nil {
			_ = bus.Close()
		}
		_ = dbConn.Close()
		return nil, err
	}

	accountService := services.NewAccountService(accountRepo, verifier)
	personService := services.NewPersonService(personRepo)

	var events services.EventPublisher
	if bus != nil {
		events = bus
	}
	registrationService := services.NewRegistrationService(registrationStore, verifier, events)

	pipeline := handlers.NewPipeline(codec, accountService, slog.Default())

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(pipeline.Stages()...)

	router.Get("/healthz", handlers.Healthz)
	router.Get("/", handlers.Root)
	router.Route("/public/app/v1", func(r chi.Router) {
		handlers.PublicRouter(r, registrationService, accountService)
	})
	router.Route("/app/v1", func(r chi.Router) {
		handlers.UserRouter(r, accountService, avatars)
		handlers.PersonRouter(r, personService)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		bus:        bus,
	}, nil
}

func newAvatarStorage(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStorage, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("minio bucket: %w", err)
		}
		return client, nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("gcs bucket: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.bus != nil {
		_ = s.bus.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
