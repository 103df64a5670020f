package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ModeDebug   = "debug"
	ModeRelease = "release"

	UpstreamModeAuto   = "auto"
	UpstreamModeDirect = "direct"
	UpstreamModeProxy  = "proxy"

	DataSourceREST  = "rest"
	DataSourceCMS   = "cms"
	DataSourceStore = "store"

	DefaultUpstreamBaseURL = "https://vef2v3.onrender.com"
	DefaultCMSEndpoint     = "https://graphql.datocms.com"
)

type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	Proxy      ProxyConfig      `mapstructure:"proxy"`
	CMS        CMSConfig        `mapstructure:"cms"`
	DataSource DataSourceConfig `mapstructure:"datasource"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Storage    StorageConfig
	Tracing    TracingConfig   `mapstructure:"tracing"`
	Waker      WakerConfig     `mapstructure:"waker"`
	CORS       CORSConfig      `mapstructure:"cors"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件）
	ConfigFile string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// UpstreamConfig describes the REST quiz backend.
type UpstreamConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Mode     string        `mapstructure:"mode"`
	ProxyURL string        `mapstructure:"proxy_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ProxyConfig struct {
	PreserveNoContent bool  `mapstructure:"preserve_no_content"`
	MaxBodyBytes      int64 `mapstructure:"max_body_bytes"`
}

type CMSConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	APIToken       string        `mapstructure:"api_token"`
	IncludeDrafts  bool          `mapstructure:"include_drafts"`
	ExcludeInvalid bool          `mapstructure:"exclude_invalid"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type DataSourceConfig struct {
	Type string `mapstructure:"type"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
}

type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	Path      string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type AuthConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	AdminUsername     string        `mapstructure:"admin_username"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	ExpireTime        time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ServiceName       string `mapstructure:"service_name"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// WakerConfig controls the keep-warm ping against the REST backend.
type WakerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// UpstreamMode resolves the server-side client's route to the REST backend.
// The server has no CORS to work around, so "auto" always means direct and
// going through /api/proxy is an explicit opt-in.
func (c *Config) UpstreamMode() string {
	if strings.ToLower(c.Upstream.Mode) == UpstreamModeProxy {
		return UpstreamModeProxy
	}
	return UpstreamModeDirect
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", ModeDebug)

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("upstream.base_url", DefaultUpstreamBaseURL)
	v.SetDefault("upstream.mode", UpstreamModeAuto)
	// 为空时按 server.port 生成
	v.SetDefault("upstream.proxy_url", "")
	v.SetDefault("upstream.timeout", 30*time.Second)

	v.SetDefault("proxy.preserve_no_content", false)
	v.SetDefault("proxy.max_body_bytes", 10<<20)

	v.SetDefault("cms.endpoint", DefaultCMSEndpoint)
	v.SetDefault("cms.timeout", 15*time.Second)

	v.SetDefault("datasource.type", DataSourceREST)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("cache.prefix", "quiz")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.path", "data/quiz.db")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.expire_hours", 24)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")

	v.SetDefault("tracing.service_name", "quiz-portal")

	v.SetDefault("waker.enabled", true)
	v.SetDefault("waker.schedule", "@every 10m")

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	// .env 可选
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("QUIZ_PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Upstream / CMS (names kept from the web frontend deployment)
	v.BindEnv("upstream.base_url", "NEXT_PUBLIC_API_BASE_URL")
	v.BindEnv("upstream.mode", "UPSTREAM_MODE")
	v.BindEnv("cms.api_token", "DATOCMS_API_TOKEN")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	v.BindEnv("datasource.type", "DATASOURCE_TYPE")

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.admin_password_hash", "ADMIN_PASSWORD_HASH")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	cfg.Auth.ExpireTime = cfg.Auth.ExpireTime * time.Hour
	cfg.Upstream.BaseURL = strings.TrimRight(cfg.Upstream.BaseURL, "/")
	if cfg.Upstream.ProxyURL == "" {
		cfg.Upstream.ProxyURL = "http://localhost:" + cfg.Server.Port + "/api/proxy"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource.Type {
	case DataSourceREST, DataSourceCMS, DataSourceStore:
	default:
		return fmt.Errorf("unknown datasource type %q", c.DataSource.Type)
	}

	if c.DataSource.Type == DataSourceCMS && c.CMS.APIToken == "" {
		return errors.New("cms.api_token (DATOCMS_API_TOKEN) is required for the cms datasource")
	}

	// 生产环境校验 JWT Secret 强度
	if c.Auth.Enabled && c.Server.Mode == ModeRelease && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Auth.JWTSecret))
	}

	return nil
}
