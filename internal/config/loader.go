package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "CAKESHOP"

// Load layers defaults, an optional YAML file, a .env file and CAKESHOP_* env vars.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyLegacyEnv(cfg)
	return cfg, cfg.Validate()
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("mysql.dsn", d.MySQL.DSN)
	v.SetDefault("mysql.user", d.MySQL.User)
	v.SetDefault("mysql.password", d.MySQL.Password)
	v.SetDefault("mysql.host", d.MySQL.Host)
	v.SetDefault("mysql.port", d.MySQL.Port)
	v.SetDefault("mysql.database", d.MySQL.Database)
	v.SetDefault("mysql.max_open_conns", d.MySQL.MaxOpenConns)
	v.SetDefault("mysql.max_idle_conns", d.MySQL.MaxIdleConns)
	v.SetDefault("mysql.conn_max_lifetime", d.MySQL.ConnMaxLifetime)
	v.SetDefault("mysql.conn_max_idle_time", d.MySQL.ConnMaxIdleTime)

	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.pool_size", d.Redis.PoolSize)
	v.SetDefault("redis.cart_ttl", d.Redis.CartTTL)

	v.SetDefault("rabbitmq.url", d.RabbitMQ.URL)
	v.SetDefault("rabbitmq.exchange", d.RabbitMQ.Exchange)

	v.SetDefault("jwt.secret", d.JWT.Secret)
	v.SetDefault("jwt.ttl", d.JWT.TTL)

	v.SetDefault("email.base_url", d.Email.BaseURL)
	v.SetDefault("email.api_key", d.Email.APIKey)
	v.SetDefault("email.from", d.Email.From)
	v.SetDefault("email.timeout", d.Email.Timeout)

	v.SetDefault("bot.base_url", d.Bot.BaseURL)
	v.SetDefault("bot.token", d.Bot.Token)
	v.SetDefault("bot.chat_id", d.Bot.ChatID)
	v.SetDefault("bot.timeout", d.Bot.Timeout)

	v.SetDefault("catalog.page_size", d.Catalog.PageSize)
	v.SetDefault("catalog.cache_ttl", d.Catalog.CacheTTL)

	v.SetDefault("rate_limit.per_minute", d.RateLimit.PerMinute)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)

	v.SetDefault("log.level", d.Log.Level)
}

// applyLegacyEnv honours the plain MYSQL_*, REDIS_HOST, RABBITMQ_URL and PORT variables.
func applyLegacyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}
	set(&cfg.MySQL.User, "MYSQL_USER")
	set(&cfg.MySQL.Password, "MYSQL_PASSWORD")
	set(&cfg.MySQL.Host, "MYSQL_HOST")
	set(&cfg.MySQL.Port, "MYSQL_PORT")
	set(&cfg.MySQL.Database, "MYSQL_DATABASE")
	set(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	set(&cfg.Email.APIKey, "RESEND_API_KEY")
	set(&cfg.Bot.Token, "TELEGRAM_BOT_TOKEN")
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Addr = host + ":6379"
	}
	if port := os.Getenv("PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil {
			cfg.Server.Port = p
		}
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog.page_size must be positive")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit values must be positive")
	}
	return nil
}
