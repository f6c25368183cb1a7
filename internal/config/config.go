package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 运行环境常量。EnvTest 会开启测试模式下的鉴权旁路。
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config aggregates application settings that may be sourced from .env files or environment variables.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	API          APIConfig          `mapstructure:"api"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Redis        RedisConfig        `mapstructure:"redis"`
	MinIO        MinIOConfig        `mapstructure:"minio"`
	Resume       ResumeConfig       `mapstructure:"resume"`
	Clamd        ClamdConfig        `mapstructure:"clamd"`
	Revalidation RevalidationConfig `mapstructure:"revalidation"`
}

// AppConfig 描述运行环境。
type AppConfig struct {
	Env string `mapstructure:"env"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains connection options for PostgreSQL.
// URL 非空时优先于分项配置。
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// AuthConfig 包含后台会话与登录限流配置。
type AuthConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	CookieName         string        `mapstructure:"cookie_name"`
	CookieDomain       string        `mapstructure:"cookie_domain"`
	LoginRateLimit     int           `mapstructure:"login_rate_limit"`
	LoginLockThreshold int           `mapstructure:"login_lock_threshold"`
	LoginLockTTL       time.Duration `mapstructure:"login_lock_ttl"`
}

// RedisConfig 包含 Redis 连接配置。Host 为空表示不启用 Redis。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	PublicEndpoint  string `mapstructure:"public_endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	BucketLookup    string `mapstructure:"bucket_lookup"`
}

// ResumeConfig 描述“当前简历”在对象存储中的位置与访问方式。
type ResumeConfig struct {
	Bucket       string        `mapstructure:"bucket"`
	Object       string        `mapstructure:"object"`
	Public       bool          `mapstructure:"public"`
	DownloadName string        `mapstructure:"download_name"`
	SignedTTL    time.Duration `mapstructure:"signed_ttl"`
}

// ClamdConfig 为空地址时跳过病毒扫描。
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

// RevalidationConfig 描述后台写入后通知前端重新生成页面的 webhook。
type RevalidationConfig struct {
	URL    string `mapstructure:"url"`
	Secret string `mapstructure:"secret"`
}

// DSN builds a pgx compatible connection string.
func (d DatabaseConfig) DSN() string {
	if strings.TrimSpace(d.URL) != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr 返回 host:port 形式的 Redis 地址。
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled 表示是否配置了 Redis。
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Host) != ""
}

// HasCredentials 表示对象存储凭据是否齐全。
func (m MinIOConfig) HasCredentials() bool {
	return strings.TrimSpace(m.Endpoint) != "" &&
		strings.TrimSpace(m.AccessKeyID) != "" &&
		strings.TrimSpace(m.SecretAccessKey) != ""
}

// TestMode 表示是否运行在测试模式（鉴权旁路开启）。
func (c *Config) TestMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.App.Env), EnvTest)
}

// Load reads configuration from an optional .env file and environment variables (with defaults).
func Load() (*Config, error) {
	// .env 仅作为补充，已存在的环境变量不会被覆盖。
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.API.AllowedOrigins = splitOrigins(cfg.API.AllowedOrigins)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", EnvDevelopment)
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.allowed_origins", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "portfolio")
	v.SetDefault("database.user", "portfolio")
	v.SetDefault("database.password", "portfolio")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.cookie_name", "portfolio_session")
	v.SetDefault("auth.cookie_domain", "")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_lock_threshold", 5)
	v.SetDefault("auth.login_lock_ttl", 15*time.Minute)
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.public_endpoint", "")
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.region", "")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("resume.bucket", "resumes")
	v.SetDefault("resume.object", "current.pdf")
	v.SetDefault("resume.public", false)
	v.SetDefault("resume.download_name", "resume.pdf")
	v.SetDefault("resume.signed_ttl", time.Minute)
	v.SetDefault("clamd.addr", "")
	v.SetDefault("revalidation.url", "")
	v.SetDefault("revalidation.secret", "")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"app.env":                   "APP_ENV",
		"api.port":                  "API_PORT",
		"api.allowed_origins":       "CORS_ALLOWED_ORIGINS",
		"database.url":              "DATABASE_URL",
		"database.host":             "DATABASE_HOST",
		"database.port":             "DATABASE_PORT",
		"database.name":             "POSTGRES_DB",
		"database.user":             "POSTGRES_USER",
		"database.password":         "POSTGRES_PASSWORD",
		"database.sslmode":          "DATABASE_SSLMODE",
		"auth.jwt_secret":           "AUTH_JWT_SECRET",
		"auth.session_ttl":          "AUTH_SESSION_TTL",
		"auth.cookie_name":          "AUTH_COOKIE_NAME",
		"auth.cookie_domain":        "AUTH_COOKIE_DOMAIN",
		"auth.login_rate_limit":     "AUTH_LOGIN_RATE_LIMIT",
		"auth.login_lock_threshold": "AUTH_LOGIN_LOCK_THRESHOLD",
		"auth.login_lock_ttl":       "AUTH_LOGIN_LOCK_TTL",
		"redis.host":                "REDIS_HOST",
		"redis.port":                "REDIS_PORT",
		"minio.endpoint":            "MINIO_ENDPOINT",
		"minio.public_endpoint":     "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":       "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":   "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":             "MINIO_USE_SSL",
		"minio.region":              "MINIO_REGION",
		"minio.bucket_lookup":       "MINIO_BUCKET_LOOKUP",
		"resume.bucket":             "RESUME_BUCKET",
		"resume.object":             "RESUME_OBJECT",
		"resume.public":             "RESUME_PUBLIC",
		"resume.download_name":      "RESUME_DOWNLOAD_NAME",
		"resume.signed_ttl":         "RESUME_SIGNED_TTL",
		"clamd.addr":                "CLAMD_ADDR",
		"revalidation.url":          "REVALIDATION_URL",
		"revalidation.secret":       "REVALIDATION_SECRET",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

// splitOrigins 兼容逗号分隔的环境变量写法。
func splitOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	return origins
}

func validate(cfg Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.App.Env)) {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("unknown app env %q", cfg.App.Env)
	}
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		if cfg.Database.Host == "" {
			return errors.New("database host is required")
		}
		if cfg.Database.Port <= 0 {
			return errors.New("database port must be positive")
		}
		if cfg.Database.Name == "" {
			return errors.New("database name is required")
		}
		if cfg.Database.User == "" {
			return errors.New("database user is required")
		}
		if cfg.Database.SSLMode == "" {
			return errors.New("database sslmode is required")
		}
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return errors.New("auth jwt secret is required")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return errors.New("auth session ttl must be positive")
	}
	if strings.TrimSpace(cfg.Auth.CookieName) == "" {
		return errors.New("auth cookie name is required")
	}
	if cfg.Redis.Enabled() && cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if strings.TrimSpace(cfg.Resume.Bucket) == "" {
		return errors.New("resume bucket is required")
	}
	if strings.TrimSpace(cfg.Resume.Object) == "" {
		return errors.New("resume object is required")
	}
	if cfg.Resume.SignedTTL <= 0 {
		return errors.New("resume signed url ttl must be positive")
	}
	return nil
}
