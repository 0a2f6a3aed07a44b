package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
	healthcheck "github.com/mbarhoumi/agil-backoffice/internal/health"
	"github.com/mbarhoumi/agil-backoffice/internal/httpx"
	"github.com/mbarhoumi/agil-backoffice/internal/metrics"
	"github.com/mbarhoumi/agil-backoffice/internal/notify"
	"github.com/mbarhoumi/agil-backoffice/internal/service/complaints"
	"github.com/mbarhoumi/agil-backoffice/internal/service/orders"
	"github.com/mbarhoumi/agil-backoffice/internal/storage/memory"
	"github.com/mbarhoumi/agil-backoffice/internal/storage/postgres"
	"github.com/mbarhoumi/agil-backoffice/internal/version"
)

// repositories groups the storage ports behind one driver choice.
type repositories struct {
	orders     domain.OrderRepository
	products   domain.ProductRepository
	complaints domain.ComplaintRepository
	stations   domain.StationRepository
	users      domain.UserRepository
}

// Run starts the back office and blocks until ctx is cancelled or a server
// fails.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	healthHandler := healthcheck.NewHandler(version.GetVersion())

	repos, store, err := openStorage(ctx, cfg, logger, healthHandler)
	if err != nil {
		return err
	}
	defer func() {
		if store != nil {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("close postgres store")
			}
		}
	}()

	if cfg.StorageDriver == StorageMemory && cfg.SeedDemoData {
		if err := seedDemoData(ctx, repos); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		logger.Info("demo data seeded")
	}

	orderMetrics := metrics.NewOrderMetrics()
	hub := notify.NewHub(nil)

	// Notification targets. With Redis enabled the local hub is fed through
	// the pub/sub bridge instead of directly, so every instance sees every
	// event exactly once.
	var targets []domain.OrderNotifier

	kafkaProducer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err != nil {
		logger.WithError(err).Warn("continuing without kafka")
	}
	if kafkaProducer != nil {
		defer closeKafka(kafkaProducer, logger)
		targets = append(targets, notify.NewKafkaNotifier(kafkaProducer))
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = redisClient.Close() }()

		targets = append(targets, notify.NewRedisNotifier(redisClient))
		go notify.RunBridge(ctx, redisClient, hub, nil)

		healthHandler.RegisterChecker("redis", healthcheck.NewSimpleChecker("redis", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx).Err()
		}))
		logger.WithField("addr", cfg.RedisAddr).Info("redis notifier enabled")
	} else {
		targets = append(targets, hub)
	}

	notifier := notify.NewFanout(nil, orderMetrics.RecordNotifyFailure, targets...)

	ordersSvc := orders.New(repos.orders, notifier, nil, orderMetrics)
	complaintsSvc := complaints.New(repos.complaints, nil)

	issuer := httpx.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	router := httpx.NewRouter(issuer, httpx.Handlers{
		Auth:       httpx.NewAuthHandler(repos.users, issuer, nil),
		Orders:     httpx.NewOrdersHandler(ordersSvc),
		Complaints: httpx.NewComplaintsHandler(complaintsSvc),
		Catalog:    httpx.NewCatalogHandler(repos.products, repos.stations),
		Stream:     httpx.NewStreamHandler(hub, orderMetrics, nil),
	})

	opsSrv := startOpsServer(ctx, cfg.OpsAddr, logger, healthHandler)
	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("api server listening on %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping servers")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(opsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(opsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// openStorage builds the repository set for the configured driver. The
// returned store is nil for memory storage.
func openStorage(ctx context.Context, cfg Config, logger *log.Entry, healthHandler *healthcheck.Handler) (repositories, *postgres.Store, error) {
	switch cfg.StorageDriver {
	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return repositories{}, nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.AutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return repositories{}, nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("schema migrations applied")
		}
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		}))
		logger.Info("postgres storage ready")
		return repositories{
			orders:     postgres.NewOrderRepository(store),
			products:   postgres.NewProductRepository(store),
			complaints: postgres.NewComplaintRepository(store),
			stations:   postgres.NewStationRepository(store),
			users:      postgres.NewUserRepository(store),
		}, store, nil

	default:
		products := memory.NewProductRepository()
		logger.Info("in-memory storage ready")
		return repositories{
			orders:     memory.NewOrderRepository(products),
			products:   products,
			complaints: memory.NewComplaintRepository(),
			stations:   memory.NewStationRepository(),
			users:      memory.NewUserRepository(),
		}, nil, nil
	}
}

// startOpsServer serves prometheus metrics and health probes on a second
// listener so the API surface stays clean.
func startOpsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("ops server listening on %s (/metrics, /healthz, /livez, /readyz)", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
