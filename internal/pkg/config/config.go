package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, rate-limit policies, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Waitlist  WaitlistConfig
	Sweep     SweepConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-Actor-ID,X-Actor-Role"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// RateLimitConfig holds per-action sliding-window policies. Each policy is
// window length / max attempts / block duration once the window is exhausted.
type RateLimitConfig struct {
	SubmitWindow   time.Duration `envconfig:"RATELIMIT_SUBMIT_WINDOW" default:"30s"`
	SubmitMax      int           `envconfig:"RATELIMIT_SUBMIT_MAX" default:"5"`
	SubmitBlock    time.Duration `envconfig:"RATELIMIT_SUBMIT_BLOCK" default:"60s"`
	JoinWindow     time.Duration `envconfig:"RATELIMIT_JOIN_WINDOW" default:"30s"`
	JoinMax        int           `envconfig:"RATELIMIT_JOIN_MAX" default:"3"`
	JoinBlock      time.Duration `envconfig:"RATELIMIT_JOIN_BLOCK" default:"60s"`
	DefaultWindow  time.Duration `envconfig:"RATELIMIT_DEFAULT_WINDOW" default:"60s"`
	DefaultMax     int           `envconfig:"RATELIMIT_DEFAULT_MAX" default:"10"`
	DefaultBlock   time.Duration `envconfig:"RATELIMIT_DEFAULT_BLOCK" default:"120s"`
	WindowRetainer time.Duration `envconfig:"RATELIMIT_WINDOW_RETENTION" default:"24h"`
}

// WaitlistConfig tunes promotion offers. The offer TTL is deliberately
// configurable; call sites must not hard-code a deadline.
type WaitlistConfig struct {
	OfferTTL time.Duration `envconfig:"WAITLIST_OFFER_TTL" default:"24h"`
}

type SweepConfig struct {
	Interval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	// Workers bounds how many sections are swept concurrently. Each
	// section runs in its own transaction, so one slow section only
	// occupies one worker.
	Workers int `envconfig:"SWEEP_WORKERS" default:"4"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Actor-ID", "X-Actor-Role"},
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		RateLimit: RateLimitConfig{
			SubmitWindow:   30 * time.Second,
			SubmitMax:      5,
			SubmitBlock:    60 * time.Second,
			JoinWindow:     30 * time.Second,
			JoinMax:        3,
			JoinBlock:      60 * time.Second,
			DefaultWindow:  60 * time.Second,
			DefaultMax:     10,
			DefaultBlock:   120 * time.Second,
			WindowRetainer: 24 * time.Hour,
		},
		Waitlist: WaitlistConfig{
			OfferTTL: 24 * time.Hour,
		},
		Sweep: SweepConfig{
			Interval: time.Minute,
			Workers:  4,
		},
	}
}
