package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"imoveis/internal/app/commands"
	"imoveis/internal/app/dto"
	listingapp "imoveis/internal/app/handlers/listings"
	"imoveis/internal/app/middleware"
	"imoveis/internal/app/outbox"
	"imoveis/internal/app/queries"
	"imoveis/internal/app/services/auth"
	domainlistings "imoveis/internal/domain/listings"
	"imoveis/internal/infra/broker/kafka"
	rediscache "imoveis/internal/infra/cache/redis"
	"imoveis/internal/infra/config"
	mongodb "imoveis/internal/infra/db/mongo"
	"imoveis/internal/infra/db/postgres"
	"imoveis/internal/infra/fixtures"
	ginserver "imoveis/internal/infra/http/gin"
	"imoveis/internal/infra/inbox"
	outboxrelay "imoveis/internal/infra/outbox"
	"imoveis/internal/infra/security"
	"imoveis/internal/infra/storage/local"
	"imoveis/internal/infra/storage/memory"
	"imoveis/internal/infra/storage/s3"
)

const eventSource = "app://imoveis"

type readinessCheck func(ctx context.Context) error

type application struct {
	cfg      config.Config
	logger   *slog.Logger
	handlers ginserver.Handlers
	listings domainlistings.Repository
	mongo    *mongodb.Client

	checks     []readinessCheck
	closers    []func()
	background []func(ctx context.Context)
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{cfg: cfg, logger: logger}
	if err := app.buildStorage(ctx); err != nil {
		app.close()
		return nil, err
	}
	cache := app.buildCache(ctx)
	invalidator := &listingapp.CacheInvalidator{Cache: cache, Logger: logger}
	box, err := app.buildOutbox(invalidator)
	if err != nil {
		app.close()
		return nil, err
	}
	uploader, serveUploads, err := app.buildUploader()
	if err != nil {
		app.close()
		return nil, err
	}
	authService, err := newAuthService(cfg, logger)
	if err != nil {
		app.close()
		return nil, err
	}

	encoder := outbox.JSONEventEncoder{Source: eventSource}
	validator := ginserver.NewRequestValidator()

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[listingapp.SearchCatalogQuery, dto.CatalogPage](queryBus, listingapp.SearchCatalogQuery{}.Key(),
		&listingapp.SearchCatalogHandler{Listings: app.listings})
	queries.RegisterHandler[listingapp.ChatFilterQuery, dto.ChatAnswer](queryBus, listingapp.ChatFilterQuery{}.Key(),
		&listingapp.ChatFilterHandler{Listings: app.listings, Logger: logger})
	queries.RegisterHandler[listingapp.ListAdminListingsQuery, []dto.AdminListingSummary](queryBus, listingapp.ListAdminListingsQuery{}.Key(),
		&listingapp.ListAdminListingsHandler{Listings: app.listings})

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler[listingapp.CreateListingCommand, dto.CreatedListing](commandBus, listingapp.CreateListingCommand{}.Key(),
		&listingapp.CreateListingHandler{Listings: app.listings, Outbox: box, Encoder: encoder, NewID: uuid.NewString, Logger: logger})
	commands.RegisterHandler[listingapp.DeleteListingCommand, dto.DeletedListing](commandBus, listingapp.DeleteListingCommand{}.Key(),
		&listingapp.DeleteListingHandler{Listings: app.listings, Outbox: box, Encoder: encoder, Logger: logger})

	queryBusWithMiddleware := middleware.ChainQueries(queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(validator),
		middleware.QueryAuthorization(authService),
		middleware.Cache(cache, cfg.ChatCacheTTL, nil, logger),
	)
	commandBusWithMiddleware := middleware.ChainCommands(commandBus,
		middleware.Logging(logger),
		middleware.Validation(validator),
		middleware.Authorization(authService),
		middleware.OutboxFlush(box),
	)

	app.handlers = ginserver.Handlers{
		Listing: ginserver.ListingHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Chat:    ginserver.ChatHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Admin: ginserver.AdminHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Uploader: uploader,
			Logger:   logger,
		},
		AdminAuth:    ginserver.AdminAuth{Service: authService, Logger: logger}.Handle,
		ServeUploads: serveUploads,
	}
	return app, nil
}

func (a *application) buildStorage(ctx context.Context) error {
	switch a.cfg.StorageDriver {
	case config.StorageMongo:
		client, err := mongodb.New(a.cfg.MongoURI, a.cfg.MongoDB)
		if err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
		a.mongo = client
		a.listings = mongodb.NewListingRepository(client.DB)
		a.checks = append(a.checks, client.Ping)
		a.closers = append(a.closers, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		})
	case config.StoragePostgres:
		pool, err := postgres.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, pool.Close)
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		repo, err := postgres.NewListingRepository(pool)
		if err != nil {
			return err
		}
		a.listings = repo
		a.checks = append(a.checks, pool.Ping)
	default:
		a.listings = memory.NewListingRepository()
	}
	return nil
}

func (a *application) buildCache(ctx context.Context) middleware.ResultCache {
	if a.cfg.RedisAddr != "" {
		cache := rediscache.New(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
		if err := cache.Ping(ctx); err != nil {
			a.logger.Warn("redis not reachable yet, chat cache will degrade to direct queries", "error", err)
		}
		a.checks = append(a.checks, cache.Ping)
		a.closers = append(a.closers, func() { _ = cache.Close() })
		return cache
	}
	cache := memory.NewResultCache(nil)
	a.background = append(a.background, func(ctx context.Context) {
		cache.RunSweeper(ctx, time.Minute)
	})
	return cache
}

// instanceID names this process for per-instance consumer groups.
func instanceID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return uuid.NewString()
}

// buildOutbox relays events through Mongo and Kafka when both are configured;
// otherwise events are delivered in process when the command finishes.
func (a *application) buildOutbox(invalidator *listingapp.CacheInvalidator) (outbox.Outbox, error) {
	if !a.cfg.KafkaEnabled() || a.mongo == nil {
		return memory.NewOutbox(invalidator.HandleRecord), nil
	}

	producer, err := kafka.NewProducer(a.cfg.KafkaBrokers, nil)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	a.closers = append(a.closers, func() { _ = producer.Close() })

	groupID := a.cfg.CacheGroupID(instanceID())
	handler := kafka.CloudEventHandler{
		OnEvent: invalidator.HandleEvent,
		Inbox:   inbox.NewStore(a.mongo.DB, groupID),
	}
	consumer, err := kafka.NewConsumer(a.cfg.KafkaBrokers, groupID, nil, handler, a.logger)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	a.closers = append(a.closers, func() { _ = consumer.Close() })

	store := outboxrelay.NewStore(a.mongo.DB)
	worker := &outboxrelay.Worker{
		Store:       store,
		Producer:    producer,
		Interval:    a.cfg.OutboxPollInterval,
		TopicPrefix: a.cfg.KafkaTopicPrefix,
		Source:      eventSource,
		Backoff:     a.cfg.RetryBackoff,
		Logger:      a.logger,
	}
	topic := outboxrelay.TopicFor(a.cfg.KafkaTopicPrefix, domainlistings.EventListingCreated)
	a.background = append(a.background,
		func(ctx context.Context) {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("outbox worker stopped", "error", err)
			}
		},
		func(ctx context.Context) {
			if err := consumer.Run(ctx, []string{topic}); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("kafka consumer stopped", "error", err)
			}
		},
	)
	return store, nil
}

func (a *application) buildUploader() (ginserver.PhotoUploader, bool, error) {
	if a.cfg.S3Endpoint != "" {
		client, err := s3.NewClient(s3.Config{
			Endpoint:       a.cfg.S3Endpoint,
			UseSSL:         a.cfg.S3UseSSL,
			AccessKey:      a.cfg.S3AccessKey,
			SecretKey:      a.cfg.S3SecretKey,
			Bucket:         a.cfg.S3Bucket,
			PublicEndpoint: a.cfg.S3PublicEndpoint,
			KeyPrefix:      "listings",
		}, a.logger)
		if err != nil {
			return nil, false, err
		}
		return client, false, nil
	}
	uploader, err := local.NewUploader(a.cfg.UploadDir, "/uploads", a.logger)
	if err != nil {
		return nil, false, err
	}
	return uploader, true, nil
}

func newAuthService(cfg config.Config, logger *slog.Logger) (*auth.Service, error) {
	svc := &auth.Service{Username: cfg.AdminUser, Password: cfg.AdminPass, Logger: logger}
	if cfg.AdminPassHash != "" {
		if err := security.ValidateHash(cfg.AdminPassHash); err != nil {
			return nil, fmt.Errorf("ADMIN_PASS_HASH: %w", err)
		}
		svc.PasswordHash = cfg.AdminPassHash
		svc.Passwords = security.BcryptHasher{}
	} else if cfg.AdminPass == "admin" {
		logger.Warn("admin is using the default password; set ADMIN_PASS or ADMIN_PASS_HASH")
	}
	return svc, nil
}

func (a *application) seed(ctx context.Context) error {
	if !a.cfg.SeedOnEmpty {
		return nil
	}
	items, err := fixtures.Load(a.cfg.FixturesPath)
	if err != nil {
		return err
	}
	_, err = fixtures.Seeder{Listings: a.listings, Logger: a.logger}.SeedIfEmpty(ctx, items)
	return err
}

func (a *application) startBackground(ctx context.Context) {
	for _, run := range a.background {
		a.wg.Add(1)
		go func(run func(context.Context)) {
			defer a.wg.Done()
			run(ctx)
		}(run)
	}
}

func (a *application) wait() {
	a.wg.Wait()
}

func (a *application) ready(ctx context.Context) error {
	var errs []error
	for _, check := range a.checks {
		if err := check(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// close releases resources in reverse order of acquisition.
func (a *application) close() {
	a.closeOnce.Do(func() {
		for i := len(a.closers) - 1; i >= 0; i-- {
			a.closers[i]()
		}
	})
}
