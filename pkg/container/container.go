package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"cardfolio-backend/internal/config"
	infraCache "cardfolio-backend/internal/infrastructure/cache"
	"cardfolio-backend/internal/infrastructure/database"
	"cardfolio-backend/internal/infrastructure/email"
	"cardfolio-backend/internal/infrastructure/storage"
	"cardfolio-backend/pkg/cache"
	"cardfolio-backend/pkg/jwt"

	bookmarkHandler "cardfolio-backend/internal/domains/bookmark/handler"
	bookmarkRepo "cardfolio-backend/internal/domains/bookmark/repository"
	bookmarkService "cardfolio-backend/internal/domains/bookmark/service"
	cardHandler "cardfolio-backend/internal/domains/cardrequest/handler"
	cardRepo "cardfolio-backend/internal/domains/cardrequest/repository"
	cardService "cardfolio-backend/internal/domains/cardrequest/service"
	feedHandler "cardfolio-backend/internal/domains/feed/handler"
	feedRepo "cardfolio-backend/internal/domains/feed/repository"
	feedService "cardfolio-backend/internal/domains/feed/service"
	likeHandler "cardfolio-backend/internal/domains/like/handler"
	likeRepo "cardfolio-backend/internal/domains/like/repository"
	likeService "cardfolio-backend/internal/domains/like/service"
	printGateway "cardfolio-backend/internal/domains/printorder/gateway"
	printHandler "cardfolio-backend/internal/domains/printorder/handler"
	printRepo "cardfolio-backend/internal/domains/printorder/repository"
	printService "cardfolio-backend/internal/domains/printorder/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton created once at startup.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config         *config.Config
	DB             *database.PostgresDB
	Cache          cache.Cache
	JWTManager     *jwt.Manager
	Storage        *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor
	EmailService   email.EmailService
	AsynqClient    *asynq.Client

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	CardRequestRepo cardRepo.CardRequestRepository
	FeedRepo        feedRepo.FeedRepository
	BookmarkRepo    bookmarkRepo.BookmarkRepository
	LikeRepo        likeRepo.LikeRepository
	PrintOrderRepo  printRepo.PrintOrderRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	CardRequestService  cardService.CardRequestService
	IllustrationService cardService.IllustrationService
	FeedService         feedService.FeedService
	BookmarkService     bookmarkService.BookmarkService
	LikeService         likeService.LikeService
	PrintOrderService   printService.PrintOrderService

	// ========================================
	// HANDLER LAYER
	// ========================================
	CardRequestHandler *cardHandler.CardRequestHandler
	FeedHandler        *feedHandler.FeedHandler
	BookmarkHandler    *bookmarkHandler.BookmarkHandler
	LikeHandler        *likeHandler.LikeHandler
	PrintOrderHandler  *printHandler.PrintOrderHandler
}

// NewContainer builds the whole dependency graph. Initialization order
// matters: config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Cache is an optimization; a dead Redis must not stop the API.
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}

	c.Cache = redisCache
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 4: INITIALIZE STORAGE + EMAIL + QUEUE
	// ========================================
	log.Println("🪣 Connecting to MinIO...")

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init MinIO storage: %w", err)
	}
	c.Storage = minioStorage
	c.ImageProcessor = storage.NewImageProcessor()
	log.Println("✅ MinIO connected")

	c.EmailService = email.NewSMTPEmailService(cfg.SMTP)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()

	// ========================================
	// STEP 6: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()

	// ========================================
	// STEP 7: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CardRequestRepo = cardRepo.NewPostgresCardRequestRepository(pool)
	c.FeedRepo = feedRepo.NewPostgresFeedRepository(pool)
	c.BookmarkRepo = bookmarkRepo.NewPostgresBookmarkRepository(pool)
	c.LikeRepo = likeRepo.NewPostgresLikeRepository(pool)
	c.PrintOrderRepo = printRepo.NewPostgresPrintOrderRepository(pool)
}

func (c *Container) initServices() {
	c.CardRequestService = cardService.NewCardRequestService(
		c.CardRequestRepo,
		c.Storage,
		c.ImageProcessor,
		c.AsynqClient,
		c.Config.App.BaseURL,
	)
	c.IllustrationService = cardService.NewIllustrationService(
		c.CardRequestRepo,
		c.Storage,
		c.ImageProcessor,
	)
	c.FeedService = feedService.NewFeedService(
		c.FeedRepo,
		c.Cache,
		time.Duration(c.Config.Feed.CacheTTLSeconds)*time.Second,
	)
	c.BookmarkService = bookmarkService.NewBookmarkService(c.BookmarkRepo)
	c.LikeService = likeService.NewLikeService(c.LikeRepo, c.Cache)
	c.PrintOrderService = printService.NewPrintOrderService(
		c.PrintOrderRepo,
		c.CardRequestRepo,
		printGateway.NewMockClient(),
	)
}

func (c *Container) initHandlers() {
	c.CardRequestHandler = cardHandler.NewCardRequestHandler(c.CardRequestService)
	c.FeedHandler = feedHandler.NewFeedHandler(c.FeedService)
	c.BookmarkHandler = bookmarkHandler.NewBookmarkHandler(c.BookmarkService)
	c.LikeHandler = likeHandler.NewLikeHandler(c.LikeService)
	c.PrintOrderHandler = printHandler.NewPrintOrderHandler(c.PrintOrderService)
}

// Close releases every long-lived connection the container owns.
func (c *Container) Close() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Println("👋 Container closed")
}
