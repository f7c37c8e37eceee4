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

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/cart"
	"github.com/restopos/restopos/internal/checkout"
	"github.com/restopos/restopos/internal/events"
	"github.com/restopos/restopos/internal/httpapi"
	"github.com/restopos/restopos/internal/repository"
	"github.com/restopos/restopos/internal/stats"
)

type Config struct {
	HTTPPort        string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsDir   string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	KafkaBrokers    []string
	JWTSecret       string
	TokenTTL        time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:      getEnv("POSTGRES_DB", "restopos"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "restopos"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    brokers,
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:        24 * time.Hour,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
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

	cred := &repository.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPass,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsDir,
	}
	store, err := repository.NewStore(cred)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer store.Close()

	if err := store.RunMigrations(cred); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	mongoCtx, cancelMongo := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelMongo()
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	cartRepo := cart.NewMongoRepository(mongoClient.Database(cfg.MongoDB))
	cartCache := cart.NewRedisCache(redisClient)
	cartService := cart.NewService(cartRepo, cartCache)
	checkoutService := checkout.NewService(cartService, store, publisher)
	statsService := stats.NewService(store, redisClient)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	handlers := httpapi.Handlers{
		Auth:       httpapi.NewAuthHandler(store, issuer, cfg.TokenTTL),
		Cart:       httpapi.NewCartHandler(cartService),
		Orders:     httpapi.NewOrderHandler(checkoutService, store),
		Products:   httpapi.NewProductHandler(store),
		Categories: httpapi.NewCategoryHandler(store),
		Users:      httpapi.NewUserHandler(store),
		Shops:      httpapi.NewShopHandler(store),
		Settings:   httpapi.NewSettingsHandler(store),
		Stats:      httpapi.NewStatsHandler(statsService),
	}

	router := httpapi.NewRouter(handlers, issuer, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("POS server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
