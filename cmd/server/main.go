package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/expense-tracker/internal/handlers"
	"github.com/sbilibin2017/expense-tracker/internal/hasher"
	"github.com/sbilibin2017/expense-tracker/internal/logger"
	"github.com/sbilibin2017/expense-tracker/internal/middlewares"
	"github.com/sbilibin2017/expense-tracker/internal/migrations"
	"github.com/sbilibin2017/expense-tracker/internal/repositories"
	"github.com/sbilibin2017/expense-tracker/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "modernc.org/sqlite"

	_ "github.com/sbilibin2017/expense-tracker/docs"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title expense-tracker API
// @version 1.0.0
// @description Service for recording personal expenses and managing user accounts
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// config holds every setting read by parseConfig.
type config struct {
	appHost, appPort, logLevel string

	dbDriver   string // "pgx" or "sqlite"
	sqlitePath string

	pgHost                         string
	pgPort                         int
	pgUser, pgPassword, pgDB       string
	pgMaxOpenConns, pgMaxIdleConns int

	redisHost                        string // empty disables the list cache
	redisPort, redisDB               int
	redisPassword                    string
	redisPoolSize, redisMinIdleConns int
	redisExpSecond                   int

	kafkaBrokers []string // empty disables expense events
	kafkaTopic   string
}

// parseConfig loads environment variables from a file and returns
// the application, database, Redis, Kafka and logging configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key, defaultValue string) (int, error) {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "8080")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")

	// Database config
	cfg.dbDriver = getEnv("DB_DRIVER", "pgx")
	if cfg.dbDriver != "pgx" && cfg.dbDriver != "sqlite" {
		return cfg, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.dbDriver)
	}
	cfg.sqlitePath = getEnv("SQLITE_PATH", "expense-tracker.db")

	// PostgreSQL config
	cfg.pgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.pgUser = getEnv("POSTGRES_USER", "user")
	cfg.pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.pgDB = getEnv("POSTGRES_DB", "database")
	if cfg.pgPort, err = getInt("POSTGRES_PORT", "5432"); err != nil {
		return
	}
	if cfg.pgMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", "16"); err != nil {
		return
	}
	if cfg.pgMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", "8"); err != nil {
		return
	}

	// Redis config
	cfg.redisHost = getEnv("REDIS_HOST", "")
	if cfg.redisPort, err = getInt("REDIS_PORT", "6379"); err != nil {
		return
	}
	if cfg.redisDB, err = getInt("REDIS_DB", "0"); err != nil {
		return
	}
	cfg.redisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.redisPoolSize, err = getInt("REDIS_POOL_SIZE", "10"); err != nil {
		return
	}
	if cfg.redisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", "2"); err != nil {
		return
	}
	if cfg.redisExpSecond, err = getInt("REDIS_EXP_SECOND", "60"); err != nil {
		return
	}

	// Kafka config
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.kafkaBrokers = append(cfg.kafkaBrokers, b)
		}
	}
	cfg.kafkaTopic = getEnv("KAFKA_TOPIC", "expense-events")

	return
}

// openDB connects to the configured database and applies migrations.
func openDB(ctx context.Context, cfg config) (*sqlx.DB, error) {
	var dsn string
	switch cfg.dbDriver {
	case "sqlite":
		dsn = "file:" + cfg.sqlitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		logger.Log.Infof("Opening SQLite database: %s", cfg.sqlitePath)
	default:
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
		logger.Log.Infof("Connecting to PostgreSQL: %s:%d/%s", cfg.pgHost, cfg.pgPort, cfg.pgDB)
	}

	db, err := sqlx.ConnectContext(ctx, cfg.dbDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if cfg.dbDriver == "sqlite" {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.pgMaxOpenConns)
		db.SetMaxIdleConns(cfg.pgMaxIdleConns)
	}

	if err := migrations.Up(ctx, db.DB, cfg.dbDriver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// openCache returns nil when Redis is not configured.
func openCache(ctx context.Context, cfg config) (*redis.Client, error) {
	if cfg.redisHost == "" {
		logger.Log.Info("Redis not configured, expense list cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.redisHost, cfg.redisPort),
		Password:     cfg.redisPassword,
		DB:           cfg.redisDB,
		PoolSize:     cfg.redisPoolSize,
		MinIdleConns: cfg.redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection error: %w", err)
	}
	return rdb, nil
}

// newKafkaWriter returns nil when no brokers are configured.
func newKafkaWriter(cfg config) *kafka.Writer {
	if len(cfg.kafkaBrokers) == 0 {
		logger.Log.Info("Kafka not configured, expense events disabled")
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.kafkaBrokers...),
		Topic:                  cfg.kafkaTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

// newRouter wires repositories, services and handlers. cache and
// kafkaWriter may be nil.
func newRouter(db *sqlx.DB, cache services.ExpenseCache, kafkaWriter services.KafkaWriter, swaggerURL string) http.Handler {
	store := repositories.NewRecordStore(db, middlewares.GetTxFromContext)

	userRepo := repositories.NewUserRepository(store)
	expenseRepo := repositories.NewExpenseRepository(store)

	authService := services.NewAuthService(userRepo, userRepo, hasher.New(hasher.DefaultParams))
	expenseService := services.NewExpenseService(expenseRepo, expenseRepo, cache, kafkaWriter)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Route("/api/tables", func(r chi.Router) {
		r.Handle("/expense", handlers.NewExpenseHandler(expenseService))
		r.With(middlewares.TxMiddleware(db)).Handle("/user", handlers.NewUserHandler(authService))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))

	return r
}

// run initializes the logger, database, Redis, Kafka and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var cache services.ExpenseCache
	rdb, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		cache = repositories.NewExpenseCacheRepository(rdb, time.Duration(cfg.redisExpSecond)*time.Second)
	}

	var kafkaWriter services.KafkaWriter
	if kw := newKafkaWriter(cfg); kw != nil {
		defer kw.Close()
		kafkaWriter = kw
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: newRouter(db, cache, kafkaWriter, fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
