package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/cart"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/cart/cache"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/cart/snapshot"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/checkout"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/delivery"
	h "github.com/omrawatw/ratnaya-sparkle-shop/internal/http"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/media"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/notify"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/store"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/telemetry"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	MigrationsPath   string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string

	MediaBucket string
	AdminToken  string
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "ratnaya"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "migrations"),

		MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGODB_DATABASE", "ratnaya_carts"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),

		MediaBucket: getEnv("MEDIA_BUCKET", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	shutdownTracer, err := telemetry.SetupTracer(ctx, "ratnaya-api")
	if err != nil {
		log.Printf("tracing disabled: %v", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(ctx); err != nil {
				log.Printf("tracer shutdown error: %v", err)
			}
		}()
	}

	// Postgres row store
	cred := &store.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	rowStore, err := store.NewStore(cred)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer rowStore.Close()

	if err := rowStore.RunMigrations(cred); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// MongoDB cart snapshots
	mongoDB, err := snapshot.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			log.Printf("mongodb disconnect error: %v", err)
		}
	}()

	snapshots := snapshot.NewMongoStore(mongoDB)
	if err := snapshots.CreateIndexes(ctx); err != nil {
		log.Fatalf("Failed to create mongodb indexes: %v", err)
	}

	// Redis cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	cartService := cart.NewService(snapshots, cache.NewRedisCache(redisClient))
	deliveryOptions := delivery.NewOptions(rowStore, redisClient)

	// Kafka order events: publisher on the write path, consumer turning
	// events into customer notifications.
	publisher := notify.NewPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	consumer := notify.NewConsumer(rowStore, cfg.KafkaBrokers...)
	defer consumer.Close()
	// Deferred after Close so the run loop sees the cancellation before the
	// reader shuts down underneath it.
	defer cancelConsumer()
	go consumer.Run(consumerCtx)

	// Media storage is optional; without a bucket the admin image upload
	// endpoint reports itself unavailable.
	var objectStorage media.ObjectStorage
	if cfg.MediaBucket != "" {
		gcs, err := media.NewGCSStorage(ctx, cfg.MediaBucket)
		if err != nil {
			log.Fatalf("Failed to set up media storage: %v", err)
		}
		objectStorage = media.NewBreakerStorage(gcs)
	}

	submitter := checkout.NewSubmitter(rowStore, cartService, deliveryOptions, publisher)

	router := h.NewRouter(h.RouterDeps{
		Cart:          h.NewCartHandler(cartService, rowStore),
		Checkout:      h.NewCheckoutHandler(submitter),
		Delivery:      h.NewDeliveryHandler(deliveryOptions, cartService),
		Catalog:       h.NewCatalogHandler(rowStore),
		Reviews:       h.NewReviewsHandler(rowStore, rowStore),
		Orders:        h.NewOrdersHandler(rowStore),
		Wishlist:      h.NewWishlistHandler(rowStore, rowStore),
		Notifications: h.NewNotificationsHandler(rowStore),
		Admin: h.NewAdminHandler(rowStore, objectStorage, publisher, deliveryOptions, func() *notify.Subscription {
			return notify.Subscribe("admin-dashboard-"+uuid.NewString(), cfg.KafkaBrokers...)
		}),

		AdminToken:     cfg.AdminToken,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Ratnaya API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}
