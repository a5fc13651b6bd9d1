package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tradebook-api/internal/application/service"
	"github.com/sangkips/tradebook-api/internal/config"
	domainRepo "github.com/sangkips/tradebook-api/internal/domain/repository"
	"github.com/sangkips/tradebook-api/internal/infrastructure/cache"
	"github.com/sangkips/tradebook-api/internal/infrastructure/database"
	"github.com/sangkips/tradebook-api/internal/infrastructure/events"
	"github.com/sangkips/tradebook-api/internal/infrastructure/repository"
	"github.com/sangkips/tradebook-api/internal/infrastructure/store/memory"
	"github.com/sangkips/tradebook-api/internal/presentation/http/handler"
	"github.com/sangkips/tradebook-api/internal/presentation/http/middleware"
	"github.com/sangkips/tradebook-api/internal/presentation/http/routes"
	"github.com/sangkips/tradebook-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// stores are the repositories behind the services, from postgres or memory
type stores struct {
	entries        domainRepo.LedgerEntryRepository
	counterparties domainRepo.CounterpartyRepository
	idempotency    domainRepo.IdempotencyRepository
	checks         map[string]handler.Pinger
	close          func()
}

func main() {
	cfg := config.Load()

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	if cfg.EnvFileErr != nil {
		log.Debug("no .env file, using environment only", zap.Error(cfg.EnvFileErr))
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	// amounts leave the API as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg, log)
	if err != nil {
		log.Fatal("failed to open ledger store", zap.Error(err))
	}
	defer st.close()

	var ledgerCache domainRepo.LedgerCache = cache.Noop{}
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, ledger cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			ledgerCache = cache.NewRedisCache(client, cfg.Redis.TTL)
			st.checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
			log.Info("ledger cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
		}
	}

	var publisher domainRepo.PaymentEventPublisher = events.Noop{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.PaymentTopic, log)
		log.Info("payment events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.PaymentTopic))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("closing event publisher", zap.Error(err))
		}
	}()

	ledgerService := service.NewLedgerService(st.entries, st.counterparties, ledgerCache, log, service.LedgerOptions{
		FetchLimit: cfg.Ledger.FetchLimit,
		Location:   cfg.Ledger.Location(),
	})
	paymentService := service.NewPaymentService(st.entries, st.counterparties, ledgerService, ledgerCache, publisher, log)
	counterpartyService := service.NewCounterpartyService(st.counterparties)

	rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	go rateLimiter.Run(ctx)
	go purgeIdempotencyKeys(ctx, st.idempotency, log)

	router := routes.Setup(&routes.Handlers{
		Health:       handler.NewHealthHandler(cfg.App.Name, st.checks),
		Ledger:       handler.NewLedgerHandler(ledgerService, paymentService),
		Counterparty: handler.NewCounterpartyHandler(counterpartyService),
	}, &routes.Deps{
		JWTManager:      utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiryHours),
		Cfg:             cfg,
		IdempotencyRepo: st.idempotency,
		RateLimiter:     rateLimiter,
		Log:             log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("ledger_store", cfg.Ledger.Store),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if cfg.App.Debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log.With(zap.String("service", cfg.App.Name))
}

func openStores(cfg *config.Config, log *zap.Logger) (*stores, error) {
	if cfg.Ledger.Store == "memory" {
		mem := memory.NewStore()
		if cfg.Ledger.SeedFile != "" {
			if err := mem.LoadSeedFile(cfg.Ledger.SeedFile); err != nil {
				return nil, err
			}
			log.Info("memory ledger seeded", zap.String("file", cfg.Ledger.SeedFile))
		}
		log.Warn("using the in-memory ledger store, entries are lost on restart")
		return &stores{
			entries:        mem,
			counterparties: mem.Counterparties(),
			idempotency:    mem.IdempotencyKeys(),
			checks:         map[string]handler.Pinger{},
			close:          func() {},
		}, nil
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db, log); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	return &stores{
		entries:        repository.NewLedgerEntryRepository(db, repository.NewReferenceRepository(db)),
		counterparties: repository.NewCounterpartyRepository(db),
		idempotency:    repository.NewIdempotencyRepository(db),
		checks:         map[string]handler.Pinger{"postgres": handler.PingFunc(sqlDB.PingContext)},
		close: func() {
			if err := sqlDB.Close(); err != nil {
				log.Warn("closing database", zap.Error(err))
			}
		},
	}, nil
}

// purgeIdempotencyKeys drops expired keys once an hour
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Warn("purging idempotency keys", zap.Error(err))
			}
		}
	}
}
