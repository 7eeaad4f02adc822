package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	minSessionSecret = 32
)

type Config struct {
	AppHost  string `yaml:"app_host"`
	HTTPPort string `yaml:"http_port"`
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	// AdminPassword — общий секрет администратора (один на инсталляцию).
	AdminPassword string `yaml:"admin_password"`
	// SessionSecret подписывает cookie сессии.
	SessionSecret string `yaml:"session_secret"`

	// SearchServiceURL — если задан, тикеты отправляются в search-service (POST /search/index/ticket).
	SearchServiceURL string `yaml:"search_service_url"`

	KafkaBrokers     []string `yaml:"kafka_brokers"`
	KafkaTopicTicket string   `yaml:"kafka_topic_ticket"`

	DB struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		SSLMode  string `yaml:"sslmode"`
		// Path — файл базы для драйвера sqlite.
		Path string `yaml:"path"`
	} `yaml:"db"`
}

// Load reads .env files, then the optional YAML file named by CONFIG_FILE,
// then environment variables. Later sources win.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load("../../.env") // repo root when running from bin/

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{
		AppHost:  "0.0.0.0",
		HTTPPort: "8098",
		AppEnv:   "development",
		LogLevel: "info",
	}
	cfg.DB.Driver = DriverPostgres
	cfg.DB.Host = "localhost"
	cfg.DB.Port = "5432"
	cfg.DB.User = "postgres"
	cfg.DB.Password = "postgres"
	cfg.DB.Database = "helpdesk"
	cfg.DB.SSLMode = "disable"
	cfg.DB.Path = "helpdesk.db"
	return cfg
}

func (c *Config) applyEnv() {
	c.AppHost = getEnv("APP_HOST", c.AppHost)
	c.HTTPPort = firstEnv("APP_PORT", "HTTP_PORT", c.HTTPPort)
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.AdminPassword = getEnv("ADMIN_PASSWORD", c.AdminPassword)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.SearchServiceURL = getEnv("SEARCH_SERVICE_URL", c.SearchServiceURL)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.KafkaBrokers = ParseList(v)
	}
	c.KafkaTopicTicket = getEnv("KAFKA_TOPIC_TICKET", c.KafkaTopicTicket)

	c.DB.Driver = getEnv("DB_DRIVER", c.DB.Driver)
	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	c.DB.Port = getEnv("DB_PORT", c.DB.Port)
	c.DB.User = getEnv("DB_USER", c.DB.User)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.Database = getEnv("DB_DATABASE", c.DB.Database)
	c.DB.SSLMode = getEnv("DB_SSLMODE", c.DB.SSLMode)
	c.DB.Path = getEnv("DB_PATH", c.DB.Path)
}

// Validate checks everything the HTTP server needs.
func (c *Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.AdminPassword == "" {
		return errors.New("config: ADMIN_PASSWORD is required")
	}
	if len(c.SessionSecret) < minSessionSecret {
		return fmt.Errorf("config: SESSION_SECRET must be at least %d bytes", minSessionSecret)
	}
	return nil
}

// ValidateDatabase checks only the db section; CLI commands that never
// serve HTTP (migrate, export, purge, reindex-search) stop here.
func (c *Config) ValidateDatabase() error {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.Host == "" || c.DB.Database == "" {
			return errors.New("config: DB_HOST and DB_DATABASE are required")
		}
		if c.IsProduction() && c.DB.Password == "" {
			return errors.New("config: in production DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.DB.Path == "" {
			return errors.New("config: DB_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q (want postgres or sqlite)", c.DB.Driver)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) SQLiteDSN() string {
	return "file:" + c.DB.Path + "?_busy_timeout=5000"
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

// ParseList разбивает "host1:9092,host2:9092" на слайс.
func ParseList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
