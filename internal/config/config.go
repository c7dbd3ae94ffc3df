package config

import (
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Blog      BlogConfig      `mapstructure:"blog"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	Mode           string        `mapstructure:"mode"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects and configures the SQL backend.
type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"`
	LogLevel string         `mapstructure:"log_level"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
}

// PostgresConfig PostgreSQL settings.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// MySQLConfig MySQL settings.
type MySQLConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	DBName    string `mapstructure:"dbname"`
	Charset   string `mapstructure:"charset"`
	ParseTime bool   `mapstructure:"parse_time"`
	Loc       string `mapstructure:"loc"`
}

// SQLiteConfig is used for local development and tests.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig Redis settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig token signing settings. When PrivateKeyPath is empty an
// ephemeral RSA key is generated at startup.
type JWTConfig struct {
	PrivateKeyPath string        `mapstructure:"private_key_path"`
	Issuer         string        `mapstructure:"issuer"`
	AccessExpiry   time.Duration `mapstructure:"access_expiry"`
	RefreshExpiry  time.Duration `mapstructure:"refresh_expiry"`
}

// StorageConfig selects where uploaded files go.
type StorageConfig struct {
	Driver string             `mapstructure:"driver"`
	Local  LocalStorageConfig `mapstructure:"local"`
	MinIO  MinIOConfig        `mapstructure:"minio"`
}

// LocalStorageConfig stores files on disk and serves them under /media.
type LocalStorageConfig struct {
	Dir     string `mapstructure:"dir"`
	BaseURL string `mapstructure:"base_url"`
}

// MinIOConfig S3-compatible object storage settings.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

// UploadConfig limits accepted uploads.
type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// DashboardConfig tunes the admin dashboard aggregation.
type DashboardConfig struct {
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	ActivityLimit int           `mapstructure:"activity_limit"`
	Months        int           `mapstructure:"months"`
}

// BlogConfig carries the category presentation table and seed data.
type BlogConfig struct {
	Categories    []CategoryPreset `mapstructure:"categories"`
	Tags          []string         `mapstructure:"tags"`
	FeaturedLimit int              `mapstructure:"featured_limit"`
	RelatedLimit  int              `mapstructure:"related_limit"`
}

// CategoryPreset describes how a category is presented when the stored row
// leaves color or icon empty, and what the seed command creates.
type CategoryPreset struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Color       string `mapstructure:"color"`
	Icon        string `mapstructure:"icon"`
}

var (
	mu      sync.RWMutex
	current *Config
)

// Load reads configs/config.yaml or ./config.yaml, then applies .env and
// environment overrides. A missing config file falls back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return unmarshal(v)
}

// LoadFromFile reads configuration from an explicit path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

// Get returns the most recently loaded configuration, or nil.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PESTOZAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Blog.Categories) == 0 {
		cfg.Blog.Categories = DefaultCategories()
	}
	if len(cfg.Blog.Tags) == 0 {
		cfg.Blog.Tags = DefaultTags()
	}

	mu.Lock()
	current = &cfg
	mu.Unlock()
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.dbname", "pestozap")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.mysql.charset", "utf8mb4")
	v.SetDefault("database.mysql.parse_time", true)
	v.SetDefault("database.mysql.loc", "UTC")
	v.SetDefault("database.sqlite.path", "pestozap.db")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.issuer", "pestozap")
	v.SetDefault("jwt.access_expiry", "2h")
	v.SetDefault("jwt.refresh_expiry", "168h")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.dir", "media")
	v.SetDefault("storage.local.base_url", "http://localhost:8080/media")
	v.SetDefault("storage.minio.bucket", "pestozap")

	v.SetDefault("upload.max_size", 10<<20)
	v.SetDefault("upload.allowed_types", []string{"general", "blog", "offers", "reviews", "profiles", "resumes"})

	v.SetDefault("dashboard.cache_ttl", "60s")
	v.SetDefault("dashboard.activity_limit", 5)
	v.SetDefault("dashboard.months", 6)

	v.SetDefault("blog.featured_limit", 6)
	v.SetDefault("blog.related_limit", 4)
}

// DefaultCategories is the stock category table.
func DefaultCategories() []CategoryPreset {
	return []CategoryPreset{
		{Name: "Prevention", Description: "Pest prevention tips and techniques", Color: "#10B981", Icon: "shield"},
		{Name: "Eco-Friendly", Description: "Environmentally safe pest control methods", Color: "#059669", Icon: "eco"},
		{Name: "Seasonal", Description: "Seasonal pest control advice", Color: "#F59E0B", Icon: "calendar_today"},
		{Name: "Commercial", Description: "Business pest control solutions", Color: "#3B82F6", Icon: "business"},
		{Name: "Tips", Description: "General pest control tips", Color: "#8B5CF6", Icon: "lightbulb"},
		{Name: "Termites", Description: "Termite control and prevention", Color: "#EF4444", Icon: "bug_report"},
	}
}

// DefaultTags is the stock tag list used by the seed command.
func DefaultTags() []string {
	return []string{
		"pest-control", "prevention", "eco-friendly", "home", "commercial",
		"termites", "cockroaches", "rodents", "ants", "mosquitoes",
		"bed-bugs", "seasonal", "diy", "professional", "safety",
	}
}
