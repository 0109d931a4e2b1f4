package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/crewclock/apiserver/config"
	"github.com/crewclock/apiserver/internal/handlers"
	"github.com/crewclock/apiserver/internal/logging"
	"github.com/crewclock/apiserver/internal/mq"
	"github.com/crewclock/apiserver/internal/services"
	"github.com/crewclock/apiserver/internal/sheets"
	"github.com/crewclock/apiserver/internal/storage"
	"github.com/crewclock/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	mq         *mq.MQ
	logger     *slog.Logger
}

// New connects to the configured spreadsheet and constructs a Server.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	backend, err := sheets.NewGoogleClient(ctx, cfg.Sheets)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(ctx, cfg, backend)
}

// NewWithBackend constructs a Server on top of an existing sheets backend.
// Table headers are validated here; a missing column fails startup.
func NewWithBackend(ctx context.Context, cfg config.Config, backend sheets.Backend) (*Server, error) {
	secret := strings.TrimSpace(cfg.SessionSecret)
	if secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	logger := logging.New(cfg.LogLevel)

	floor, err := services.ParseTimeOfDay(cfg.ClockInFloor)
	if err != nil {
		return nil, fmt.Errorf("CLOCK_IN_FLOOR: %w", err)
	}
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}

	repos, err := store.Open(ctx, backend, cfg.Sheets)
	if err != nil {
		return nil, err
	}

	archive, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	broker, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		return nil, err
	}

	opts := services.Options{
		Location: location,
		Events:   services.NewEventPublisher(broker),
		Logger:   logger,
	}
	svc := handlers.Services{
		Employees:  services.NewEmployeeService(repos.Employees),
		Shifts:     services.NewShiftService(repos.Shifts, floor, opts),
		Onboarding: services.NewOnboardingService(repos.Onboarding, repos.Employees, opts),
		Payroll:    services.NewPayrollService(repos.Shifts, repos.Payroll, archive, opts),
	}
	if missing := svc.Onboarding.UnmappedColumns(); len(missing) > 0 {
		logger.WarnContext(ctx, "onboarding sheet lacks form columns; their values will be dropped",
			"sheet", cfg.Sheets.OnboardingTable,
			"columns", missing,
		)
	}

	auth := handlers.NewAuthHandler(svc.Employees, secret, cfg.SecureCookies)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logging.Middleware(logger),
		middleware.Timeout(60*time.Second),
	)
	handlers.Mount(router, svc, auth)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		mq:         broker,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.mq != nil {
		_ = s.mq.Close()
	}
	return s.httpServer.Close()
}
