package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/leadline/crm-server/internal/auth"
	"github.com/leadline/crm-server/internal/config"
	"github.com/leadline/crm-server/internal/database"
	"github.com/leadline/crm-server/internal/handler"
	"github.com/leadline/crm-server/internal/jobs"
	"github.com/leadline/crm-server/internal/middleware"
	"github.com/leadline/crm-server/internal/redis"
	"github.com/leadline/crm-server/internal/repository"
	"github.com/leadline/crm-server/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), config.DBMigrateTimeout)
		if err := db.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		cancel()
		log.Info().Msg("migrations applied")
	}

	redisClient, err := redis.NewClient(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	var loginLimiter middleware.LoginLimiter
	if redisClient != nil {
		log.Info().Msg("redis connected, login throttling is shared")
		loginLimiter = middleware.NewRedisLoginLimiter(redisClient.Client, config.LoginMaxAttempts, config.LoginWindow)
	} else {
		loginLimiter = middleware.NewMemoryLoginLimiter(config.LoginMaxAttempts, config.LoginWindow)
	}

	userRepo := repository.NewUserRepository(db.DB)
	employeeRepo := repository.NewEmployeeRepository(db.DB)
	contactRepo := repository.NewContactRepository(db.DB)
	leadRepo := repository.NewLeadRepository(db.DB)
	clientRepo := repository.NewClientRepository(db.DB)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())

	authService := service.NewAuthService(userRepo, tokens)
	leadService := service.NewLeadService(db, leadRepo, clientRepo, contactRepo, employeeRepo)
	clientService := service.NewClientService(clientRepo, contactRepo)
	contactService := service.NewContactService(contactRepo, leadRepo, clientRepo)
	employeeService := service.NewEmployeeService(employeeRepo)

	isProduction := cfg.IsProduction()
	sessionGate := middleware.NewSessionGate(tokens)
	loginThrottle := middleware.NewLoginThrottle(loginLimiter)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService, loginThrottle.Handler, isProduction)
	leadHandler := handler.NewLeadHandler(leadService)
	clientHandler := handler.NewClientHandler(clientService)
	contactHandler := handler.NewContactHandler(contactService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)
	r.Use(sessionGate.Handler)

	r.Get("/health", handler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())
		r.Get("/session", authHandler.Session)
		r.Mount("/leads", leadHandler.Routes())
		r.Mount("/clients", clientHandler.Routes())
		r.Mount("/contacts", contactHandler.Routes())
		r.Get("/employees", employeeHandler.List)
	})

	r.NotFound(handler.NewSPAHandler(cfg.StaticDir).ServeHTTP)

	sweepJob := jobs.NewSessionSweepJob(userRepo, config.SessionSweepInterval)
	sweepJob.Start()
	defer sweepJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.AppEnv).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
