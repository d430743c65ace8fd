package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/catalog/internal/catalog/application/commands"
	"github.com/felixgeelhaar/catalog/internal/catalog/application/queries"
	"github.com/felixgeelhaar/catalog/internal/catalog/application/subscribers"
	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/felixgeelhaar/catalog/internal/catalog/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/catalog/internal/shared/application"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/catalog/pkg/config"
	"github.com/felixgeelhaar/catalog/pkg/observability"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis, nil unless REDIS_URL is set and reachable
	RedisClient *redis.Client

	// Repositories
	ProductRepo domain.Repository
	OutboxRepo  outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Events. EventBus is only set in local mode.
	EventBus        *eventbus.InProcessBus
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	Health *observability.HealthRegistry

	// Product Command Handlers
	CreateProductHandler      *commands.CreateProductHandler
	RetitleProductHandler     *commands.RetitleProductHandler
	RepriceProductHandler     *commands.RepriceProductHandler
	UpdateDetailsHandler      *commands.UpdateDetailsHandler
	DiscontinueProductHandler *commands.DiscontinueProductHandler
	DeleteProductHandler      *commands.DeleteProductHandler

	// Product Query Handlers
	GetProductHandler   *queries.GetProductHandler
	ListProductsHandler *queries.ListProductsHandler
}

// NewContainer opens the database, applies migrations and wires every
// handler. Local mode uses SQLite and delivers events in process; otherwise
// PostgreSQL, the optional Redis cache and RabbitMQ are used.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
		Health: observability.NewHealthRegistry(),
	}

	conn, err := database.Open(ctx, database.Config{
		Driver:     cfg.Driver(),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.DatabaseMaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.PingChecker("database", true, conn.Ping))
	logger.Debug("connected to database", "driver", c.DBDriver)

	if err := migrations.Apply(ctx, conn); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	factory := NewRepositoryFactory(conn)
	if c.ProductRepo, err = factory.ProductRepository(); err != nil {
		c.Close()
		return nil, err
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		c.Close()
		return nil, err
	}
	c.UnitOfWork = database.NewUnitOfWork(conn)

	if cfg.IsLocalMode() {
		c.EventBus = eventbus.NewInProcessBus(logger)
		c.EventBus.Subscribe(subscribers.NewActivitySubscriber(logger))
		c.EventPublisher = c.EventBus
	} else {
		if err := c.initCache(ctx); err != nil {
			c.Close()
			return nil, err
		}
		if err := c.initPublisher(); err != nil {
			c.Close()
			return nil, err
		}
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval:     cfg.OutboxPollInterval,
		BatchSize:        cfg.OutboxBatchSize,
		MaxRetries:       cfg.OutboxMaxRetries,
		RetryBackoffBase: cfg.OutboxRetryBackoffBase,
		RetryBackoffMax:  cfg.OutboxRetryBackoffMax,
		Retention:        cfg.OutboxRetention(),
		CleanupInterval:  cfg.OutboxCleanupInterval,
	}, logger)

	c.wireHandlers()
	return c, nil
}

// initCache wraps the product repository with Redis when REDIS_URL is set.
// An unreachable Redis is fatal in production and skipped otherwise.
func (c *Container) initCache(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if c.Config.IsProduction() {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.Logger.Warn("redis not available, product cache disabled", "error", err)
		return nil
	}

	c.RedisClient = client
	c.ProductRepo = persistence.NewCachedProductRepository(
		c.ProductRepo,
		persistence.NewRedisCache(client),
		c.Config.ProductCacheTTL,
		c.Logger,
	)
	c.Health.Register("redis", observability.PingChecker("redis", false, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	return nil
}

// initPublisher connects to RabbitMQ behind a circuit breaker. Without a
// broker the outbox is drained into a no-op publisher.
func (c *Container) initPublisher() error {
	if c.Config.RabbitMQURL == "" {
		c.Logger.Warn("RABBITMQ_URL not set, events will not leave the process")
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}

	rabbit, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQExchange, c.Logger)
	if err != nil {
		if c.Config.IsProduction() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}

	breaker := eventbus.NewBreakerPublisher(rabbit, eventbus.BreakerConfig{
		Name:             "rabbitmq",
		MaxRequests:      uint32(max(c.Config.BreakerMaxRequests, 0)),
		Interval:         c.Config.BreakerInterval,
		Timeout:          c.Config.BreakerTimeout,
		FailureThreshold: uint32(max(c.Config.BreakerFailureThreshold, 0)),
	}, c.Logger)
	c.EventPublisher = breaker
	c.Health.Register("broker", observability.PingChecker("broker", false, func(context.Context) error {
		if breaker.State() == gobreaker.StateOpen {
			return eventbus.ErrBrokerUnavailable
		}
		return nil
	}))
	return nil
}

func (c *Container) wireHandlers() {
	c.CreateProductHandler = commands.NewCreateProductHandler(c.ProductRepo, c.OutboxRepo, c.UnitOfWork)
	c.RetitleProductHandler = commands.NewRetitleProductHandler(c.ProductRepo, c.OutboxRepo, c.UnitOfWork)
	c.RepriceProductHandler = commands.NewRepriceProductHandler(c.ProductRepo, c.OutboxRepo, c.UnitOfWork)
	c.UpdateDetailsHandler = commands.NewUpdateDetailsHandler(c.ProductRepo, c.OutboxRepo, c.UnitOfWork)
	c.DiscontinueProductHandler = commands.NewDiscontinueProductHandler(c.ProductRepo, c.OutboxRepo, c.UnitOfWork)
	c.DeleteProductHandler = commands.NewDeleteProductHandler(c.ProductRepo, c.OutboxRepo, c.UnitOfWork)

	c.GetProductHandler = queries.NewGetProductHandler(c.ProductRepo)
	c.ListProductsHandler = queries.NewListProductsHandler(c.ProductRepo)
}

// RelayEvents delivers committed outbox messages to the in-process bus. It
// only does work in local mode; elsewhere the worker relays them.
func (c *Container) RelayEvents(ctx context.Context) error {
	if c.EventBus == nil {
		return nil
	}
	published, err := c.OutboxProcessor.Drain(ctx)
	if published > 0 {
		c.Logger.DebugContext(ctx, "relayed outbox messages", "count", published)
	}
	return err
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Error("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Error("failed to close redis client", "error", err)
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Error("failed to close database connection", "error", err)
		}
	}
}
