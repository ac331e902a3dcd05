package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gobudget/internal/adapter/http"
	"github.com/iho/gobudget/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gobudget/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobudget/internal/adapter/repository/redis"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	"github.com/iho/gobudget/internal/infrastructure/config"
	"github.com/iho/gobudget/internal/infrastructure/logger"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
	"github.com/iho/gobudget/internal/infrastructure/postgres"
	"github.com/iho/gobudget/internal/infrastructure/redis"
	"github.com/iho/gobudget/internal/infrastructure/retry"
	"github.com/iho/gobudget/internal/usecase"
)

const limiterIdleTimeout = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gobudget: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var idempotencyStore usecase.IdempotencyStore
	if cfg.IdempotencyEnabled {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL, 5*time.Second)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		store.checks["redis"] = redisCheck(redisClient)
	}

	idGen := postgresRepo.NewULIDGenerator()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	budgetUC := usecase.NewBudgetUseCase(
		store.txManager, store.budgets, store.entries, store.users,
		idGen, retry.New(retrierConfig(cfg)), m,
	)
	userUC := usecase.NewUserUseCase(store.users, idGen)
	reconcileUC := usecase.NewReconciliationUseCase(store.budgets, store.entries, m)

	limiter := apimiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go cleanupLimiter(ctx, limiter, log)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:           handler.NewAuthHandler(userUC, jwtManager, m),
		BudgetHandler:         handler.NewBudgetHandler(budgetUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconcileUC),
		HealthHandler:         handler.NewHealthHandler(store.checks),
		TokenVerifier:         jwtManager,
		Metrics:               m,
		Gatherer:              reg,
		Logger:                log,
		RateLimiter:           limiter,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// storage bundles the repositories for the configured driver.
type storage struct {
	txManager usecase.TransactionManager
	budgets   usecase.BudgetRepository
	entries   usecase.EntryRepository
	users     usecase.UserRepository
	checks    map[string]handler.HealthCheck
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")

		store := memory.NewStore()
		return &storage{
			txManager: memory.NewTxManager(store),
			budgets:   memory.NewBudgetRepository(store),
			entries:   memory.NewEntryRepository(store),
			users:     memory.NewUserRepository(store),
			checks:    map[string]handler.HealthCheck{},
			close:     func() {},
		}, nil
	}

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &storage{
		txManager: postgresRepo.NewTxManager(pool),
		budgets:   postgresRepo.NewBudgetRepository(pool),
		entries:   postgresRepo.NewEntryRepository(pool),
		users:     postgresRepo.NewUserRepository(pool),
		checks: map[string]handler.HealthCheck{
			"postgres": pool.Ping,
		},
		close: pool.Close,
	}, nil
}

func retrierConfig(cfg *config.Config) retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.LedgerMaxRetries
	return rc
}

func redisCheck(client *goredis.Client) handler.HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func cleanupLimiter(ctx context.Context, limiter *apimiddleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Cleanup(limiterIdleTimeout); n > 0 {
				log.Debug().Int("removed", n).Msg("dropped idle rate limiters")
			}
		}
	}
}
