package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the exchange server and operator CLI.
type Config struct {
	Server    Server
	Database  Database
	Redis     RedisConfig
	Kafka     KafkaConfig
	Telemetry Telemetry
	Export    Export
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"LOWA_ADDR,default=:8080"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS,default=*"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	// WriteRateLimit caps submissions per client IP per minute on the open write surface.
	WriteRateLimit int `env:"WRITE_RATE_LIMIT,default=20"`
	// TrustedProxies lists CIDRs or addresses allowed to set X-Forwarded-For.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
	// SubmitAtomic runs both phases of a submission in one database transaction
	// when the backing store supports it.
	SubmitAtomic bool `env:"SUBMIT_ATOMIC,default=true"`
}

// Database configures the PostgreSQL connection. An empty DSN selects the
// in-memory stores.
type Database struct {
	DSN          string        `env:"DATABASE_URL"`
	MaxOpenConns int           `env:"DATABASE_MAX_OPEN_CONNS,default=10"`
	QueryTimeout time.Duration `env:"DATABASE_QUERY_TIMEOUT,default=5s"`
	AutoMigrate  bool          `env:"DATABASE_AUTO_MIGRATE,default=true"`
}

// RedisConfig configures the public view cache. An empty URL disables caching.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE,default=10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS,default=2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT,default=5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT,default=3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT,default=3s"`
	ViewTTL      time.Duration `env:"REDIS_VIEW_TTL,default=30s"`
}

// KafkaConfig configures the audit event stream. No brokers keeps audit
// events in memory.
type KafkaConfig struct {
	Brokers    []string `env:"KAFKA_BROKERS"`
	AuditTopic string   `env:"KAFKA_AUDIT_TOPIC,default=lowa.audit"`
	Partitions int32    `env:"KAFKA_AUDIT_PARTITIONS,default=1"`
}

// Telemetry configures OTLP trace export. An empty endpoint disables export.
type Telemetry struct {
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME,default=lowa"`
}

// Export configures the S3 target used by the operator board export.
type Export struct {
	Endpoint       string `env:"S3_ENDPOINT"`
	Region         string `env:"S3_REGION,default=us-east-1"`
	AccessKey      string `env:"S3_ACCESS_KEY"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Bucket         string `env:"S3_EXPORT_BUCKET"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE,default=true"`
}

// Load builds a Config from environment variables so main stays lean.
func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
