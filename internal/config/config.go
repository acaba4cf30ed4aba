package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configはアプリ全体の設定。起動時に一度だけ作り、値渡しで配る
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Media    MediaConfig
	Redis    RedisConfig
	Log      LogConfig
	Paging   PagingConfig
	Admin    AdminConfig

	CORSAllowedOrigins []string
}

type ServerConfig struct {
	Port        string // 8080
	Environment string // development / production
	ServiceName string
}

type DatabaseConfig struct {
	URL      string // DATABASE_URLがあれば最優先
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret     string
	ExpireDays int
}

type MediaConfig struct {
	Root           string // 保存先ディレクトリ
	URL            string // 公開URLのprefix（/uploads/）
	MaxImageSizeMB int
}

type RedisConfig struct {
	URL              string // 空ならキャッシュ無効
	CategoryCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// 起動時に作る初期管理者。Usernameが空なら作らない
type AdminConfig struct {
	Username string
	Password string
}

type PagingConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DSN はpostgres接続文字列を返す。
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// Addr は listen 用のアドレス（:8080）
func (s ServerConfig) Addr() string {
	if strings.HasPrefix(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

// MaxImageBytes は画像アップロードの上限バイト数
func (m MediaConfig) MaxImageBytes() int64 {
	return int64(m.MaxImageSizeMB) * 1024 * 1024
}

// Loadは .env → 環境変数の順で読み込む
func Load() (Config, error) {
	//.envが無いのは正常（本番は環境変数のみ）
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_NAME", "shop")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_DB", "shop")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	v.SetDefault("JWT_EXPIRE_DAYS", 7)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("MEDIA_ROOT", "./media")
	v.SetDefault("MEDIA_URL", "/uploads/")
	v.SetDefault("MAX_IMAGE_SIZE_MB", 5)

	v.SetDefault("CATEGORY_CACHE_TTL", "10m")

	v.SetDefault("DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("MAX_PAGE_SIZE", 100)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			Environment: v.GetString("APP_ENV"),
			ServiceName: v.GetString("SERVICE_NAME"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("POSTGRES_HOST"),
			Port:            v.GetInt("POSTGRES_PORT"),
			User:            v.GetString("POSTGRES_USER"),
			Password:        v.GetString("POSTGRES_PASSWORD"),
			Name:            v.GetString("POSTGRES_DB"),
			SSLMode:         v.GetString("POSTGRES_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			ExpireDays: v.GetInt("JWT_EXPIRE_DAYS"),
		},
		Media: MediaConfig{
			Root:           v.GetString("MEDIA_ROOT"),
			URL:            normalizeMediaURL(v.GetString("MEDIA_URL")),
			MaxImageSizeMB: v.GetInt("MAX_IMAGE_SIZE_MB"),
		},
		Redis: RedisConfig{
			URL:              v.GetString("REDIS_URL"),
			CategoryCacheTTL: v.GetDuration("CATEGORY_CACHE_TTL"),
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		Paging: PagingConfig{
			DefaultPageSize: v.GetInt("DEFAULT_PAGE_SIZE"),
			MaxPageSize:     v.GetInt("MAX_PAGE_SIZE"),
		},
		Admin: AdminConfig{
			Username: strings.TrimSpace(v.GetString("ADMIN_USERNAME")),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.ExpireDays <= 0 {
		return errors.New("JWT_EXPIRE_DAYS must be positive")
	}
	if c.Server.Port == "" {
		return errors.New("PORT is required")
	}
	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.Name == "") {
		return errors.New("DATABASE_URL or POSTGRES_HOST/POSTGRES_DB is required")
	}
	if c.Media.MaxImageSizeMB <= 0 {
		return errors.New("MAX_IMAGE_SIZE_MB must be positive")
	}
	if c.Admin.Username != "" && len(c.Admin.Password) < 6 {
		return errors.New("ADMIN_PASSWORD must be at least 6 characters")
	}
	if c.Paging.DefaultPageSize <= 0 || c.Paging.MaxPageSize < c.Paging.DefaultPageSize {
		return fmt.Errorf("invalid paging: default=%d max=%d", c.Paging.DefaultPageSize, c.Paging.MaxPageSize)
	}
	return nil
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// /uploads → /uploads/
func normalizeMediaURL(u string) string {
	if u == "" {
		return "/uploads/"
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}
