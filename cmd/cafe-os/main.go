package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/codebyom2309/Zenith-cafe-os/internal/admin"
	"github.com/codebyom2309/Zenith-cafe-os/internal/cart"
	"github.com/codebyom2309/Zenith-cafe-os/internal/catalog"
	"github.com/codebyom2309/Zenith-cafe-os/internal/config"
	"github.com/codebyom2309/Zenith-cafe-os/internal/connections/database"
	"github.com/codebyom2309/Zenith-cafe-os/internal/connections/rabbitmq"
	"github.com/codebyom2309/Zenith-cafe-os/internal/connections/redisconn"
	"github.com/codebyom2309/Zenith-cafe-os/internal/customer"
	"github.com/codebyom2309/Zenith-cafe-os/internal/store"
	"github.com/codebyom2309/Zenith-cafe-os/pkg/httpx"
	"github.com/codebyom2309/Zenith-cafe-os/pkg/logger"
)

func main() {
	mode := flag.String("mode", "", "customer-service | admin-service | all")
	cfgPath := flag.String("config", "", "path to YAML config (default: ./config.yaml)")
	port := flag.Int("port", 0, "override the listen port for the selected service")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "customer-service":
		if *port != 0 {
			cfg.Customer.Port = *port
		}
		run(ctx, logger.New("customer-service", cfg.Log.Level, cfg.Log.Format), cfg, runCustomer)
	case "admin-service":
		if *port != 0 {
			cfg.Admin.Port = *port
		}
		run(ctx, logger.New("admin-service", cfg.Log.Level, cfg.Log.Format), cfg, runAdmin)
	case "all":
		run(ctx, logger.New("cafe-os", cfg.Log.Level, cfg.Log.Format), cfg, runAll)
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: customer-service | admin-service | all")
		os.Exit(2)
	}
}

func run(ctx context.Context, lg *zap.Logger, cfg *config.Config, fn func(context.Context, *zap.Logger, *config.Config) error) {
	defer func() { _ = lg.Sync() }()
	lg.Info("service_started")
	if err := fn(ctx, lg, cfg); err != nil {
		lg.Error("fatal", zap.Error(err))
		os.Exit(1)
	}
	lg.Info("service_stopped")
}

// buildStore wires the configured order store and its change publisher.
// The returned cleanup closes whatever connections were opened.
func buildStore(ctx context.Context, lg *zap.Logger, cfg *config.Config) (store.Store, func(), error) {
	cleanup := func() {}

	var pub store.Publisher = store.NopPublisher{}
	if cfg.Store.Feed == config.FeedBroker {
		mq, err := rabbitmq.Dial(cfg.Rabbit)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq: %w", err)
		}
		bp, err := store.NewBrokerPublisher(mq)
		if err != nil {
			mq.Close()
			return nil, nil, err
		}
		pub = bp
		cleanup = mq.Close
		lg.Info("rabbitmq_connected", zap.String("host", cfg.Rabbit.Host))
	}

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		pg := store.NewPostgres(db, pub, lg)
		if err := pg.Migrate(); err != nil {
			_ = db.Close()
			cleanup()
			return nil, nil, err
		}
		lg.Info("postgres_connected", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Database))
		prev := cleanup
		return pg, func() { _ = db.Close(); prev() }, nil
	default:
		return store.NewMemory(pub, lg), cleanup, nil
	}
}

func buildFeed(lg *zap.Logger, cfg *config.Config) (store.Feed, func(), error) {
	if cfg.Store.Feed == config.FeedBroker {
		mq, err := rabbitmq.Dial(cfg.Rabbit)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return store.NewBrokerFeed(mq, lg), mq.Close, nil
	}
	return store.NewPollFeed(cfg.Store.PollInterval), func() {}, nil
}

func buildCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Menu.File != "" {
		return catalog.LoadFile(cfg.Menu.File)
	}
	return catalog.Default(), nil
}

func buildCartRepo(ctx context.Context, lg *zap.Logger, cfg *config.Config) (cart.Repository, func(), error) {
	if cfg.Cart.Backend == config.BackendRedis {
		client, err := redisconn.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		lg.Info("redis_connected", zap.String("host", cfg.Redis.Host))
		return cart.NewRedisRepository(client, cfg.Cart.TTL), func() { _ = client.Close() }, nil
	}
	return cart.NewMemoryRepository(), func() {}, nil
}

func runCustomer(ctx context.Context, lg *zap.Logger, cfg *config.Config) error {
	orders, closeStore, err := buildStore(ctx, lg, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cat, err := buildCatalog(cfg)
	if err != nil {
		return err
	}
	repo, closeCarts, err := buildCartRepo(ctx, lg, cfg)
	if err != nil {
		return err
	}
	defer closeCarts()

	svc := customer.NewService(cat, cart.NewService(repo, cat, lg), orders, lg)
	srv := httpx.New(":"+strconv.Itoa(cfg.Customer.Port), customer.NewHandler(svc, lg).Router())
	lg.Info("http_listening", zap.Int("port", cfg.Customer.Port))
	return srv.Run(ctx)
}

func runAdmin(ctx context.Context, lg *zap.Logger, cfg *config.Config) error {
	orders, closeStore, err := buildStore(ctx, lg, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	feed, closeFeed, err := buildFeed(lg, cfg)
	if err != nil {
		return err
	}
	defer closeFeed()

	ctrl := admin.NewController(orders, feed, lg)
	go func() {
		if err := ctrl.Run(ctx); err != nil {
			lg.Error("controller_stopped", zap.Error(err))
		}
	}()

	srv := httpx.New(":"+strconv.Itoa(cfg.Admin.Port), admin.NewHandler(ctrl).Router())
	lg.Info("http_listening", zap.Int("port", cfg.Admin.Port))
	return srv.Run(ctx)
}

// runAll hosts both sides in one process over one store, which is the
// only meaningful shape for the in-memory backend.
func runAll(ctx context.Context, lg *zap.Logger, cfg *config.Config) error {
	orders, closeStore, err := buildStore(ctx, lg, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cat, err := buildCatalog(cfg)
	if err != nil {
		return err
	}
	repo, closeCarts, err := buildCartRepo(ctx, lg, cfg)
	if err != nil {
		return err
	}
	defer closeCarts()

	feed, closeFeed, err := buildFeed(lg, cfg)
	if err != nil {
		return err
	}
	defer closeFeed()

	svc := customer.NewService(cat, cart.NewService(repo, cat, lg), orders, lg)
	ctrl := admin.NewController(orders, feed, lg)
	go func() {
		if err := ctrl.Run(ctx); err != nil {
			lg.Error("controller_stopped", zap.Error(err))
		}
	}()

	errCh := make(chan error, 2)
	customerSrv := httpx.New(":"+strconv.Itoa(cfg.Customer.Port), customer.NewHandler(svc, lg).Router())
	adminSrv := httpx.New(":"+strconv.Itoa(cfg.Admin.Port), admin.NewHandler(ctrl).Router())
	go func() { errCh <- customerSrv.Run(ctx) }()
	go func() { errCh <- adminSrv.Run(ctx) }()
	lg.Info("http_listening", zap.Int("customer_port", cfg.Customer.Port), zap.Int("admin_port", cfg.Admin.Port))

	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			return err
		}
	}
	return nil
}
