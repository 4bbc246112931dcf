package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-project-intel/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// MySQLConfig holds relational store configuration
type MySQLConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// MongoDBConfig holds document store configuration
type MongoDBConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Database       string        `mapstructure:"database"`
	AuthSource     string        `mapstructure:"auth_source"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// NATSConfig holds NATS JetStream configuration for outbound notifications
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// RedisConfig holds profile cache configuration
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LLMConfig holds the text analyzer configuration
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float32       `mapstructure:"temperature"`
}

// SourceConfig describes one table or collection polled for new records
type SourceConfig struct {
	Type         string `mapstructure:"source_type"`
	Name         string `mapstructure:"name"`
	Database     string `mapstructure:"database"`
	IDField      string `mapstructure:"id_field"`
	ContentField string `mapstructure:"content_field"`
}

// Kind returns the parsed source kind
func (s SourceConfig) Kind() (domain.SourceKind, error) {
	return domain.ParseSourceKind(s.Type)
}

// IngestionConfig holds incremental polling configuration
type IngestionConfig struct {
	BatchLimit     int            `mapstructure:"batch_limit"`
	KOLTweetsTable string         `mapstructure:"kol_tweets_table"`
	Sources        []SourceConfig `mapstructure:"sources"`
}

// RetryConfig holds the outer retry policy for connection-lost errors
type RetryConfig struct {
	MaxRetries      int           `mapstructure:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

// ScheduleConfig holds cron specs for the scheduled tasks
type ScheduleConfig struct {
	Timezone      string `mapstructure:"timezone"`
	KOLTweets     string `mapstructure:"kol_tweets"`
	Sources       string `mapstructure:"sources"`
	HourlySummary string `mapstructure:"hourly_summary"`
	DailyTrends   string `mapstructure:"daily_trends"`
}

// ChannelsConfig holds the messaging channels reports are sent to
type ChannelsConfig struct {
	Daily string `mapstructure:"daily"`
}

// PoolConfig holds in-process worker pool configuration
type PoolConfig struct {
	PoolSize  int `mapstructure:"pool_size"`
	QueueSize int `mapstructure:"queue_size"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds

	// CORSOrigins restricts browser origins; empty allows all
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// RateLimitConfig holds per-client request limits for the API
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// WorkerConfig holds configuration for the ingestion and report worker
type WorkerConfig struct {
	BaseConfig `mapstructure:",squash"`
	MySQL      MySQLConfig     `mapstructure:"mysql"`
	MongoDB    MongoDBConfig   `mapstructure:"mongodb"`
	NATS       NATSConfig      `mapstructure:"nats"`
	LLM        LLMConfig       `mapstructure:"llm"`
	Ingestion  IngestionConfig `mapstructure:"ingestion"`
	Retry      RetryConfig     `mapstructure:"retry"`
	Schedule   ScheduleConfig  `mapstructure:"schedule"`
	Channels   ChannelsConfig  `mapstructure:"channels"`
	Enrichment PoolConfig      `mapstructure:"enrichment"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	MySQL      MySQLConfig     `mapstructure:"mysql"`
	MongoDB    MongoDBConfig   `mapstructure:"mongodb"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Retry      RetryConfig     `mapstructure:"retry"`
	Auth       AuthConfig      `mapstructure:"auth"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
}

// LoadWorkerConfig loads configuration for the worker
func LoadWorkerConfig(configFile string, envPath string) (*WorkerConfig, error) {
	v := configureViper("worker", configFile, envPath)

	setStoreDefaults(v)
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "PROJECT_INTEL_NOTIFICATIONS")
	v.SetDefault("nats.subject_prefix", "notifications")
	v.SetDefault("nats.connection_name", "project-intel-worker")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("ingestion.batch_limit", 2)
	v.SetDefault("ingestion.kol_tweets_table", domain.DEFAULT_KOL_TWEETS_TABLE)
	v.SetDefault("schedule.timezone", "Asia/Shanghai")
	v.SetDefault("schedule.kol_tweets", "@every 5s")
	v.SetDefault("schedule.sources", "@every 10m")
	v.SetDefault("schedule.hourly_summary", "0 0 * * * *")
	v.SetDefault("schedule.daily_trends", "0 0 9 * * *")
	v.SetDefault("enrichment.pool_size", 5)
	v.SetDefault("enrichment.queue_size", 100)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg WorkerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the worker configuration for required fields
func (c *WorkerConfig) Validate() error {
	if err := c.MySQL.validate(); err != nil {
		return err
	}
	if c.Ingestion.BatchLimit <= 0 {
		return errors.New("ingestion.batch_limit must be positive")
	}
	for i, src := range c.Ingestion.Sources {
		if _, err := src.Kind(); err != nil {
			return fmt.Errorf("ingestion.sources[%d]: %w", i, err)
		}
		if src.Name == "" {
			return fmt.Errorf("ingestion.sources[%d].name is required", i)
		}
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("invalid schedule.timezone: %w", err)
	}
	return nil
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setStoreDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("redis.cache_ttl", "10m")
	v.SetDefault("rate_limit.requests_per_minute", 120)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.MySQL.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setStoreDefaults(v *viper.Viper) {
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.charset", "utf8mb4")
	v.SetDefault("mysql.dbname", "analysis_db")
	v.SetDefault("mysql.max_open_conns", 10)
	v.SetDefault("mysql.max_idle_conns", 5)
	v.SetDefault("mysql.conn_max_lifetime", "1h")
	v.SetDefault("mysql.conn_max_idle_time", "10m")
	v.SetDefault("mongodb.port", 27017)
	v.SetDefault("mongodb.auth_source", "admin")
	v.SetDefault("mongodb.connect_timeout", "10s")
	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.initial_interval", "2s")
	v.SetDefault("retry.multiplier", 2.0)
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("FF_INTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all scalar keys so env-only deployments unmarshal correctly.
// Source lists are only read from the config file.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// MySQL
		"mysql.host",
		"mysql.port",
		"mysql.user",
		"mysql.password",
		"mysql.dbname",
		"mysql.charset",
		"mysql.max_open_conns",
		"mysql.max_idle_conns",
		"mysql.conn_max_lifetime",
		"mysql.conn_max_idle_time",
		// MongoDB
		"mongodb.host",
		"mongodb.port",
		"mongodb.username",
		"mongodb.password",
		"mongodb.database",
		"mongodb.auth_source",
		"mongodb.connect_timeout",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		"redis.cache_ttl",
		// LLM
		"llm.api_key",
		"llm.base_url",
		"llm.model",
		"llm.timeout",
		"llm.temperature",
		// Ingestion
		"ingestion.batch_limit",
		"ingestion.kol_tweets_table",
		// Retry
		"retry.max_retries",
		"retry.initial_interval",
		"retry.multiplier",
		// Schedule
		"schedule.timezone",
		"schedule.kol_tweets",
		"schedule.sources",
		"schedule.hourly_summary",
		"schedule.daily_trends",
		// Channels
		"channels.daily",
		// Enrichment pool
		"enrichment.pool_size",
		"enrichment.queue_size",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Rate limit
		"rate_limit.requests_per_minute",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

func (c *MySQLConfig) validate() error {
	if c.Host == "" {
		return errors.New("mysql.host is required")
	}
	if c.DBName == "" {
		return errors.New("mysql.dbname is required")
	}
	return nil
}

// DSN returns the MySQL connection string.
// Sessions run with READ COMMITTED isolation and autocommit enabled.
func (c *MySQLConfig) DSN() string {
	charset := c.Charset
	if charset == "" {
		charset = "utf8mb4"
	}

	dsn := mysql.NewConfig()
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	dsn.User = c.User
	dsn.Passwd = c.Password
	dsn.DBName = c.DBName
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	dsn.Params = map[string]string{
		"charset":               charset,
		"autocommit":            "1",
		"transaction_isolation": "'READ-COMMITTED'",
	}

	return dsn.FormatDSN()
}

// URI returns the MongoDB connection string
func (c *MongoDBConfig) URI() string {
	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/",
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
		if c.AuthSource != "" {
			u.RawQuery = url.Values{"authSource": []string{c.AuthSource}}.Encode()
		}
	}
	return u.String()
}
