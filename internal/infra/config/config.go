package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by the composition root.
const (
	StorageMemory   = "memory"
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	HTTPAddr string

	StorageDriver string
	MongoURI      string
	MongoDB       string
	DatabaseURL   string

	AdminUser     string
	AdminPass     string
	AdminPassHash string

	CORSOrigins []string
	RateLimit   int
	RateWindow  time.Duration

	ChatCacheTTL  time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaGroupID       string
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration

	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool

	UploadDir       string
	StaticDir       string
	FixturesPath    string
	SeedOnEmpty     bool
	FluentHost      string
	FluentPort      int
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load parses configuration from the current environment. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ""),
		StorageDriver:    strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		MongoURI:         firstEnv("MONGODB_URI", "MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "imoveis"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AdminUser:        getEnv("ADMIN_USER", "admin"),
		AdminPass:        getEnv("ADMIN_PASS", "admin"),
		AdminPassHash:    os.Getenv("ADMIN_PASS_HASH"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "imoveis-cache"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "imoveis-fotos"),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		StaticDir:        getEnv("STATIC_DIR", "public"),
		FixturesPath:     os.Getenv("LISTINGS_FIXTURES"),
		FluentHost:       os.Getenv("FLUENT_HOST"),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":" + getEnv("PORT", "3000")
	}
	if origins := getEnv("CORS_ORIGIN", ""); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	var err error
	if cfg.RateLimit, err = parseIntEnv("RATE_LIMIT", 300); err != nil {
		return Config{}, err
	}
	if cfg.RateWindow, err = parseDurationEnv("RATE_WINDOW", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.ChatCacheTTL, err = parseDurationEnv("CHAT_CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FluentPort, err = parseIntEnv("FLUENT_PORT", 24224); err != nil {
		return Config{}, err
	}
	if cfg.SeedOnEmpty, err = parseBoolEnv("SEED_ON_EMPTY", true); err != nil {
		return Config{}, err
	}
	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	switch cfg.StorageDriver {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGODB_URI is required for STORAGE_DRIVER=%s", StorageMongo)
		}
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.RateLimit <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT must be positive, got %d", cfg.RateLimit)
	}
	return cfg, nil
}

// KafkaEnabled reports whether listing events should be relayed through Kafka.
// The relay reads from the Mongo outbox, so both must be configured.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.StorageDriver == StorageMongo
}

// CacheGroupID is the Kafka consumer group that purges the query cache. A
// shared Redis cache needs one purge per event, so instances share the group.
// A process-local cache needs every instance to see every event, so each one
// joins its own group.
func (c Config) CacheGroupID(instance string) string {
	if c.RedisAddr != "" || instance == "" {
		return c.KafkaGroupID
	}
	return c.KafkaGroupID + "-" + instance
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
