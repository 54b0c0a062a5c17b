// @title                       Personal Finance API
// @version                     1.0
// @description                 Accounts and a per-user ledger of income and expense transactions.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sohhamm/personal-finance-app/internal/api"
	"github.com/sohhamm/personal-finance-app/internal/api/handler"
	"github.com/sohhamm/personal-finance-app/internal/api/middleware"
	"github.com/sohhamm/personal-finance-app/internal/core/service"
	mongodb "github.com/sohhamm/personal-finance-app/internal/infrastructure/db/mongo"
	"github.com/sohhamm/personal-finance-app/internal/infrastructure/db/postgres"
	redisdb "github.com/sohhamm/personal-finance-app/internal/infrastructure/db/redis"
	"github.com/sohhamm/personal-finance-app/internal/infrastructure/queue"
	"github.com/sohhamm/personal-finance-app/internal/pkg/config"
	"github.com/sohhamm/personal-finance-app/internal/pkg/password"
	"github.com/sohhamm/personal-finance-app/internal/pkg/token"
	"github.com/sohhamm/personal-finance-app/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// Init is a no-op when run got far enough to configure the logger.
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context) error {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "personal-finance-api",
	})

	// --- Postgres ---
	if err := postgres.RunMigrations(cfg.Postgres.URL); err != nil {
		return err
	}
	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info().Int32("max_conns", cfg.Postgres.MaxConns).Msg("postgres connected")

	checks := []handler.DependencyCheck{{Name: "postgres", Ping: pool.Ping}}
	var txOpts []service.TransactionOption

	// --- Redis (optional) ---
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Open(ctx, redisdb.Config{
			Addr:           cfg.Redis.Addr,
			DB:             cfg.Redis.DB,
			IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks = append(checks, handler.DependencyCheck{Name: "redis", Ping: rdb.Ping})
		txOpts = append(txOpts, service.WithIdempotencyStore(rdb.Idempotency()))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected, idempotent creates enabled")
	}

	// --- Mongo (optional) ---
	var dispatcher *queue.Dispatcher
	if cfg.Mongo.URI != "" {
		mdb, err := mongodb.Open(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := mdb.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect failed")
			}
		}()
		if err := mdb.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure audit indexes")
		}

		dispatcher = queue.NewDispatcher(cfg.Mongo.AuditWorkers, mdb.Audit(), log)
		dispatcher.Start(ctx)
		checks = append(checks, handler.DependencyCheck{Name: "mongodb", Ping: mdb.Ping})
		txOpts = append(txOpts, service.WithAuditRecorder(dispatcher))
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected, audit trail enabled")
	}

	// --- Services ---
	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService, err := service.NewAuthService(
		postgres.NewUserRepository(pool),
		password.NewHasher(password.DefaultParams),
		tokens,
		log.With().Str("component", "auth").Logger(),
	)
	if err != nil {
		return err
	}
	txRepo := postgres.NewTransactionRepository(pool)
	txService := service.NewTransactionService(
		txRepo,
		log.With().Str("component", "transactions").Logger(),
		txOpts...,
	)
	overviewService := service.NewOverviewService(
		postgres.NewOverviewRepository(pool),
		txRepo,
		log.With().Str("component", "overview").Logger(),
	)

	e := api.NewRouter(api.RouterDeps{
		AuthService:        authService,
		TransactionService: txService,
		OverviewService:    overviewService,
		Gate:               middleware.NewGate(tokens, log),
		Checks:             checks,
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		Logger:             log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(log, cfg, e.Shutdown, dispatcher)
	})

	return g.Wait()
}

// shutdown stops accepting requests, lets in-flight ones finish, then drains
// the audit queue. Both steps share cfg.ShutdownTimeout.
func shutdown(log zerolog.Logger, cfg *config.Config, stopHTTP func(context.Context) error, dispatcher *queue.Dispatcher) error {
	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := stopHTTP(ctx); err != nil {
		errs = append(errs, err)
	}
	if dispatcher != nil {
		if err := dispatcher.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
