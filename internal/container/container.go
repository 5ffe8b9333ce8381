package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"shop/admin/internal/api"
	"shop/admin/internal/config"
	"shop/admin/internal/media"
	"shop/admin/internal/repository"
	"shop/admin/internal/seed"
	"shop/admin/internal/state"
	"shop/admin/internal/storage"
)

// Container holds all initialized components
type Container struct {
	Config *config.Config

	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Attributes repository.AttributeRepository
	Runs       state.RunStore
	Seed       *seed.Service

	handler *api.Handler

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(ctx,
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	container.db = db

	container.Products = repository.NewProductRepository(db)
	container.Categories = repository.NewCategoryRepository(db)
	container.Attributes = repository.NewAttributeRepository(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	container.redis = rdb
	container.Runs = state.NewRedisRunStore(rdb)

	objectStorage, err := storage.NewGCSStorage(ctx, cfg.Storage.Bucket, cfg.Storage.MaxRequestsPerSecond)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	uploader := media.NewUploader(objectStorage, media.NewImagingCodec(), cfg.Seed.Derivatives, cfg.Seed.JPEGQuality)
	synthesizer := media.NewStripeSynthesizer(cfg.Seed.ReferenceImageSize, cfg.Seed.ReferenceImageSize)

	seedService, err := seed.NewService(seed.Deps{
		Categories:  container.Categories,
		Attributes:  container.Attributes,
		Products:    container.Products,
		Uploader:    uploader,
		Synthesizer: synthesizer,
		Recorder:    container.Runs,
	}, cfg.Seed, cfg.Storage.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize seed service: %w", err)
	}
	container.Seed = seedService

	container.handler = api.NewHandler(seedService, container.Categories, container.Runs)

	return container, nil
}

// Run serves the HTTP API until the context is cancelled.
func (c *Container) Run(ctx context.Context) error {
	engine := gin.Default()
	c.handler.Register(engine)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", c.Config.Server.Host, c.Config.Server.Port),
		Handler: engine,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	if err := c.redis.Close(); err != nil {
		return err
	}

	log.Info("Container shut down successfully")
	return nil
}
