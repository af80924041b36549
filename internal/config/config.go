package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "EVENTBOOKING"

var (
	// ErrLoad ошибка чтения файла конфигурации
	ErrLoad = errors.New("config: failed to load")
	// ErrInvalid некорректное значение конфигурации
	ErrInvalid = errors.New("config: invalid value")
)

type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Auth           AuthConfig           `toml:"auth"`
	Redis          RedisConfig          `toml:"redis"`
	RateLimit      RateLimitConfig      `toml:"rate_limit" envconfig:"RATELIMIT"`
	Cache          CacheConfig          `toml:"cache"`
	RabbitMQ       RabbitMQConfig       `toml:"rabbitmq"`
	Mail           MailConfig           `toml:"mail"`
	QR             QRConfig             `toml:"qr"`
	Payments       PaymentsConfig       `toml:"payments"`
	PaymentGateway PaymentGatewayConfig `toml:"payment_gateway" envconfig:"GATEWAY"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres (lib/pq) | pgx
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения в URL-формате, понятна и lib/pq, и pgx
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" envconfig:"JWT_SECRET"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RateLimitConfig struct {
	Enabled        bool     `toml:"enabled"`
	Capacity       int      `toml:"capacity"`
	RefillTokens   int      `toml:"refill_tokens"`
	RefillInterval Duration `toml:"refill_interval"`
	TTL            Duration `toml:"ttl"`
	Prefix         string   `toml:"prefix"`
	// Отдельная, более строгая корзина для платежных операций
	SensitiveCapacity int `toml:"sensitive_capacity"`
}

type CacheConfig struct {
	Enabled      bool     `toml:"enabled"`
	TTL          Duration `toml:"ttl"`
	Prefix       string   `toml:"prefix"`
	MaxBodyBytes int      `toml:"max_body_bytes"`
}

type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
	Queue    string `toml:"queue"`
	Prefetch int    `toml:"prefetch"`
}

type MailConfig struct {
	Mode        string   `toml:"mode"` // smtp | log
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	Username    string   `toml:"username"`
	Password    string   `toml:"password"`
	From        string   `toml:"from"`
	AdminEmails []string `toml:"admin_emails" envconfig:"ADMIN_EMAILS"`
}

type QRConfig struct {
	Dir          string `toml:"dir"`
	PublicPrefix string `toml:"public_prefix"`
	Size         int    `toml:"size"`
}

type PaymentsConfig struct {
	Currency          string   `toml:"currency"`
	WebhookProviders  []string `toml:"webhook_providers" envconfig:"WEBHOOK_PROVIDERS"`
	ReconcileInterval Duration `toml:"reconcile_interval"`
	// Платеж в pending старше CheckAfter сверяется со шлюзом, старше PendingTTL без ответа шлюза отклоняется
	CheckAfter     Duration `toml:"check_after"`
	PendingTTL     Duration `toml:"pending_ttl"`
	ReconcileBatch int      `toml:"reconcile_batch"`
}

type PaymentGatewayConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Duration time.Duration, читаемая из строк вида "15m" и в toml, и в env
type Duration struct {
	time.Duration
}

// UnmarshalText реализует encoding.TextUnmarshaler (toml и envconfig)
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Load читает .env (если есть), затем config.toml, затем переопределения из окружения
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrLoad, path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: environment overrides: %v", ErrLoad, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalid, c.Server.HTTPPort)
	}

	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("%w: database.driver=%q (expected postgres or pgx)", ErrInvalid, c.Database.Driver)
	}

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalid)
	}

	switch c.Mail.Mode {
	case "smtp":
		if c.Mail.Host == "" || c.Mail.From == "" {
			return fmt.Errorf("%w: mail.host and mail.from are required in smtp mode", ErrInvalid)
		}
	case "log":
	default:
		return fmt.Errorf("%w: mail.mode=%q (expected smtp or log)", ErrInvalid, c.Mail.Mode)
	}

	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("%w: rabbitmq.url is required when rabbitmq is enabled", ErrInvalid)
	}

	if len(c.Payments.WebhookProviders) == 0 {
		return fmt.Errorf("%w: payments.webhook_providers must not be empty", ErrInvalid)
	}

	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "event-booking-service",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		RateLimit: RateLimitConfig{
			Capacity:          100,
			RefillTokens:      100,
			RefillInterval:    Duration{15 * time.Minute},
			TTL:               Duration{30 * time.Minute},
			Prefix:            "rl",
			SensitiveCapacity: 5,
		},
		Cache: CacheConfig{
			TTL:          Duration{time.Minute},
			Prefix:       "cache",
			MaxBodyBytes: 1 << 20,
		},
		RabbitMQ: RabbitMQConfig{
			Exchange: "event-booking.intents",
			Queue:    "event-booking.intents.worker",
			Prefetch: 16,
		},
		Mail: MailConfig{Mode: "log", Port: 587},
		QR: QRConfig{
			Dir:          "uploads/qrcodes",
			PublicPrefix: "/uploads/qrcodes",
			Size:         256,
		},
		Payments: PaymentsConfig{
			Currency:          "ETB",
			WebhookProviders:  []string{"telebirr"},
			ReconcileInterval: Duration{time.Minute},
			CheckAfter:        Duration{3 * time.Minute},
			PendingTTL:        Duration{24 * time.Hour},
			ReconcileBatch:    50,
		},
		PaymentGateway: PaymentGatewayConfig{Timeout: 5},
	}
}
