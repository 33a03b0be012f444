package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/cache"
	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/adapter/memory"
	"github.com/Lofienjoyerr/CafeProject/internal/adapter/postgres"
	"github.com/Lofienjoyerr/CafeProject/internal/adapter/rabbitmq"
	"github.com/Lofienjoyerr/CafeProject/internal/adapter/telemetry"
	"github.com/Lofienjoyerr/CafeProject/internal/app/item"
	"github.com/Lofienjoyerr/CafeProject/internal/app/order"
	"github.com/Lofienjoyerr/CafeProject/internal/config"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"

	amqpAdapter "github.com/Lofienjoyerr/CafeProject/internal/adapter/amqp"
	httpAdapter "github.com/Lofienjoyerr/CafeProject/internal/adapter/http"
	redisAdapter "github.com/Lofienjoyerr/CafeProject/internal/adapter/redis"
)

const (
	modeCafeService            = "cafe-service"
	modeNotificationSubscriber = "notification-subscriber"

	telemetryShutdownTimeout = 5 * time.Second
)

func main() {
	mode := flag.String("mode", modeCafeService, "Service mode: cafe-service, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	port := flag.Int("port", 0, "HTTP port, overrides http.port")
	prefetch := flag.Int("prefetch", 10, "RabbitMQ prefetch count (for notification-subscriber)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	lgr := logger.New(*mode, logger.WithLevel(logger.ParseLevel(cfg.Log.Level)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = *mode
	}
	provider, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		lgr.Error("telemetry_failed", "Failed to set up tracing", "startup", nil, err)
		os.Exit(1)
	}
	if provider.Enabled() {
		lgr.Info("telemetry_enabled", "Tracing enabled", "startup", map[string]interface{}{
			"exporter":     cfg.Telemetry.Exporter,
			"service_name": cfg.Telemetry.ServiceName,
			"sample_ratio": cfg.Telemetry.SampleRatio,
		})
	}

	switch *mode {
	case modeCafeService:
		err = runCafeService(ctx, cfg, lgr)
	case modeNotificationSubscriber:
		err = runNotificationSubscriber(ctx, cfg, lgr, *prefetch)
	default:
		err = fmt.Errorf("invalid mode: %s", *mode)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
	if serr := provider.Shutdown(shutdownCtx); serr != nil {
		lgr.Error("telemetry_shutdown_failed", "Failed to flush spans", "shutdown", nil, serr)
	}
	cancel()

	if err != nil {
		lgr.Error("service_failed", "Service stopped with error", "runtime", nil, err)
		os.Exit(1)
	}
}

func runCafeService(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer closeStore()

	filterCache, closeCache := openFilterCache(ctx, cfg, lgr)
	defer closeCache()

	publisher, closePublisher, err := openPublisher(cfg, lgr)
	if err != nil {
		return err
	}
	defer closePublisher()

	orderService := order.NewService(store, publisher, filterCache, lgr,
		order.WithLocation(loc),
		order.WithEmptyItems(cfg.Orders.AllowEmptyItems),
	)
	itemService := item.NewService(store, publisher, lgr)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Orders:     httpAdapter.NewOrderHandler(orderService, lgr, cfg.App.PageSize),
		Items:      httpAdapter.NewItemHandler(itemService, lgr, cfg.App.PageSize),
		Revenue:    httpAdapter.NewRevenueHandler(orderService, lgr),
		Health:     store,
		StaffToken: cfg.Auth.StaffToken,
		Logger:     lgr,
	})
	server := httpAdapter.NewServer(cfg.HTTP, router)

	lgr.Info("service_started", fmt.Sprintf("Cafe Service started on port %d", cfg.HTTP.Port), "startup", map[string]interface{}{
		"port":     cfg.HTTP.Port,
		"storage":  cfg.Storage.Driver,
		"timezone": loc.String(),
	})

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	lgr.Info("graceful_shutdown", "Cafe Service stopped", "shutdown", nil)
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, lgr logger.Logger) (interfaces.Store, func(), error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		lgr.Info("storage_selected", "Using in-memory storage", "startup", nil)
		return memory.NewStore(), func() {}, nil
	}

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	if err := postgres.RunMigrations(ctx, db, lgr); err != nil {
		db.Close()
		return nil, nil, err
	}
	return postgres.NewStore(db), db.Close, nil
}

// openFilterCache falls back to no caching when redis is unreachable.
func openFilterCache(ctx context.Context, cfg *config.Config, lgr logger.Logger) (interfaces.FilterCache, func()) {
	if !cfg.Cache.Enabled {
		return cache.Nop{}, func() {}
	}

	client, err := redisAdapter.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Error("redis_unavailable", "Filter cache disabled", "startup", map[string]interface{}{
			"addr": cfg.Redis.Addr,
		}, err)
		return cache.Nop{}, func() {}
	}
	lgr.Info("redis_connected", "Connected to Redis", "startup", map[string]interface{}{
		"addr": cfg.Redis.Addr,
		"ttl":  cfg.Cache.TTL.String(),
	})

	fc := redisAdapter.NewFilterCache(client,
		redisAdapter.WithTTL(cfg.Cache.TTL),
		redisAdapter.WithPrefix(cfg.Cache.Prefix),
	)
	return fc, func() {
		stats := fc.Stats()
		lgr.Info("filter_cache_stats", "Filter cache statistics", "shutdown", map[string]interface{}{
			"hits":   stats.Hits,
			"misses": stats.Misses,
		})
		client.Close()
	}
}

func openPublisher(cfg *config.Config, lgr logger.Logger) (interfaces.MessagePublisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		return rabbitmq.NopPublisher(), func() {}, nil
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return nil, nil, err
	}
	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host":     cfg.RabbitMQ.Host,
		"exchange": cfg.RabbitMQ.Exchange,
	})
	return rabbitmq.NewPublisher(conn, cfg.RabbitMQ.Exchange), func() { conn.Close() }, nil
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger, prefetch int) error {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer conn.Close()

	consumer := rabbitmq.NewConsumer(conn, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, prefetch, lgr)
	handler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]interface{}{
		"exchange": cfg.RabbitMQ.Exchange,
		"queue":    cfg.RabbitMQ.Queue,
	})

	err = consumer.ConsumeEvents(ctx, handler.HandleEvent)
	if ctx.Err() != nil {
		lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
		return nil
	}
	return err
}
