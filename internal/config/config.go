// Package config provides the structures and the loader for the service configuration.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every setting of the API and the sender.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	MetricsAddress          string `yaml:"metrics_address" env:"METRICS_ADDRESS" env-default:":9091"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Auth                    `yaml:"auth"`
	Stripe                  `yaml:"stripe"`
	Entitlement             `yaml:"entitlement"`
}

// HTTPServer configures the API listener.
type HTTPServer struct {
	AddressHTTP    string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP    time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps" env-default:"5"`
	RateLimitBurst int           `yaml:"rate_limit_burst" env-default:"10"`
}

// RedisConnection configures the snapshot cache.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"1h"`
}

// RabbitMQ configures the notification broker.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP configures the mail relay used for renewal reminders.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
	SMTPFrom string `yaml:"from" env:"SMTP_FROM"`
	StartTLS bool   `yaml:"starttls" env:"SMTP_STARTTLS" env-default:"true"`
}

// Auth configures verification of identity provider tokens.
// JWKSURL wins over JWTSecretKey when both are set.
type Auth struct {
	JWKSURL      string        `yaml:"jwks_url" env:"AUTH_JWKS_URL"`
	Issuer       string        `yaml:"issuer" env:"AUTH_ISSUER"`
	Audience     string        `yaml:"audience" env:"AUTH_AUDIENCE"`
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"AUTH_JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
	AdminRole    string        `yaml:"admin_role" env:"AUTH_ADMIN_ROLE" env-default:"admin"`
}

// Stripe configures the checkout collaborator.
type Stripe struct {
	StripeSecretKey     string            `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string            `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	FrontendURL         string            `yaml:"frontend_url" env:"FRONTEND_URL"`
	PriceIDs            map[string]string `yaml:"price_ids"`
}

// Entitlement configures the permission table, the plan catalog and expiry handling.
type Entitlement struct {
	ExpireOnRead bool                `yaml:"expire_on_read" env:"ENTITLEMENT_EXPIRE_ON_READ" env-default:"true"`
	Capabilities map[string][]string `yaml:"capabilities"`
	Plans        []Plan              `yaml:"plans"`
}

// Plan is a catalog entry. Price is a decimal string such as "9.99".
type Plan struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Currency string `yaml:"currency"`
	Period   string `yaml:"period"`
}

// MustLoad reads the file at CONFIG_PATH and terminates the process on failure.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWKSURL == "" && c.JWTSecretKey == "" {
		return fmt.Errorf("auth: either jwks_url or jwt_secret_key must be set")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("http_server: rate_limit_rps must be positive")
	}
	return nil
}

// String renders the configuration with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  MaxRetries: %d\n"+
			"Auth:\n"+
			"  JWKSURL: %s\n"+
			"  Issuer: %s\n"+
			"  AdminRole: %s\n"+
			"Entitlement:\n"+
			"  ExpireOnRead: %t\n"+
			"  Capabilities: %d\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressRedis,
		c.DB,
		c.RabbitMQMaxRetries,
		c.JWKSURL,
		c.Issuer,
		c.AdminRole,
		c.ExpireOnRead,
		len(c.Capabilities),
	)
}
