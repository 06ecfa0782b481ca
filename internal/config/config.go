package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/codebyom2309/Zenith-cafe-os/internal/connections/database"
	"github.com/codebyom2309/Zenith-cafe-os/internal/connections/rabbitmq"
	"github.com/codebyom2309/Zenith-cafe-os/internal/connections/redisconn"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	FeedPoll   = "poll"
	FeedBroker = "rabbitmq"
)

// Config holds everything both services need. Values come from
// config.yaml, overridable with ZENITH_-prefixed environment variables
// (ZENITH_DATABASE_PASSWORD and so on).
type Config struct {
	Log      LogConfig
	Customer ServiceConfig
	Admin    ServiceConfig
	Store    StoreConfig
	Cart     CartConfig
	Menu     MenuConfig
	Database database.Config
	Rabbit   rabbitmq.Config
	Redis    redisconn.Config
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

type ServiceConfig struct {
	Port int
}

type StoreConfig struct {
	Backend      string // memory | postgres
	Feed         string // poll | rabbitmq
	PollInterval time.Duration
}

type CartConfig struct {
	Backend string // memory | redis
	TTL     time.Duration
}

type MenuConfig struct {
	File string // optional YAML menu; empty means the built-in menu
}

func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./deploy")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when no explicit path was given:
		// defaults plus env vars still make a runnable service.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("ZENITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Customer: ServiceConfig{Port: v.GetInt("customer.port")},
		Admin:    ServiceConfig{Port: v.GetInt("admin.port")},
		Store: StoreConfig{
			Backend:      v.GetString("store.backend"),
			Feed:         v.GetString("store.feed"),
			PollInterval: v.GetDuration("store.poll_interval"),
		},
		Cart: CartConfig{
			Backend: v.GetString("cart.backend"),
			TTL:     v.GetDuration("cart.ttl"),
		},
		Menu: MenuConfig{File: v.GetString("menu.file")},
		Database: database.Config{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Database: v.GetString("database.database"),
			SSLMode:  v.GetString("database.sslmode"),
			MaxConns: v.GetInt("database.max_conns"),
		},
		Rabbit: rabbitmq.Config{
			Host:     v.GetString("rabbitmq.host"),
			Port:     v.GetInt("rabbitmq.port"),
			User:     v.GetString("rabbitmq.user"),
			Password: v.GetString("rabbitmq.password"),
			VHost:    v.GetString("rabbitmq.vhost"),
			UseTLS:   v.GetBool("rabbitmq.tls"),
		},
		Redis: redisconn.Config{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("customer.port", 3000)
	v.SetDefault("admin.port", 3002)
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.feed", FeedPoll)
	v.SetDefault("store.poll_interval", 2*time.Second)
	v.SetDefault("cart.backend", BackendMemory)
	v.SetDefault("cart.ttl", 2*time.Hour)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.vhost", "/")
	v.SetDefault("redis.port", 6379)
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("invalid store.backend %q", c.Store.Backend)
	}
	switch c.Store.Feed {
	case FeedPoll, FeedBroker:
	default:
		return fmt.Errorf("invalid store.feed %q", c.Store.Feed)
	}
	switch c.Cart.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("invalid cart.backend %q", c.Cart.Backend)
	}
	if c.Store.Backend == BackendPostgres && (c.Database.Host == "" || c.Database.User == "" || c.Database.Database == "") {
		return fmt.Errorf("store.backend postgres needs database host, user and database")
	}
	if c.Store.Feed == FeedBroker && (c.Rabbit.Host == "" || c.Rabbit.User == "") {
		return fmt.Errorf("store.feed rabbitmq needs rabbitmq host and user")
	}
	if c.Cart.Backend == BackendRedis && c.Redis.Host == "" {
		return fmt.Errorf("cart.backend redis needs redis host")
	}
	return nil
}
