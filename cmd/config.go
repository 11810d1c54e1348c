package cmd

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// Config is loaded from MARKET_-prefixed environment variables, an optional .env file,
// config.yaml and command line flags.
type Config struct {
	HTTP         HTTPConfig         `env:"HTTP"`
	DB           DBConfig           `env:"DB"`
	Notification NotificationConfig `env:"NOTIFICATION"`
	Jobs         JobsConfig         `env:"JOBS"`

	LogLevel        string        `env:"LOG_LEVEL" default:"info" usage:"debug, info, warn or error"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"15s" usage:"Maximum graceful shutdown duration"`
}

type HTTPConfig struct {
	Port string `env:"PORT" default:"8080" usage:"API server port"`
}

type DBConfig struct {
	Host        string `env:"HOST" default:"localhost"`
	Port        string `env:"PORT" default:"5432"`
	User        string `env:"USER" default:"postgres"`
	Password    string `env:"PASSWORD"`
	Name        string `env:"NAME" default:"market"`
	SSLMode     string `env:"SSLMODE" default:"disable"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" default:"true" usage:"Create or update tables on startup"`
}

// DSN renders the connection string for the postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type NotificationConfig struct {
	// WebhookURL selects the webhook transport. Without it notifications are only logged.
	WebhookURL     string        `env:"WEBHOOK_URL" usage:"Endpoint that receives notifications"`
	WebhookTimeout time.Duration `env:"WEBHOOK_TIMEOUT" default:"5s"`
	WebhookRetries uint64        `env:"WEBHOOK_RETRIES" default:"2" usage:"Retries of a 5xx or network error within one send"`
	Workers        int           `env:"WORKERS" default:"4" usage:"Concurrent sends per dispatch run"`
	BatchSize      int           `env:"BATCH_SIZE" default:"100" usage:"Pending notifications picked per dispatch run"`
}

// JobsConfig holds cron expressions with a leading seconds field.
type JobsConfig struct {
	NotificationDispatch string `env:"NOTIFICATION_DISPATCH" default:"*/5 * * * * *"`
	PricingReconcile     string `env:"PRICING_RECONCILE" default:"0 * * * * *"`
}

// LoadConfig reads .env if present and then loads the configuration.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	return loadConfig(aconfig.Config{
		EnvPrefix: "MARKET",
		Files:     []string{"config.yaml", "/etc/market/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

func loadConfig(acfg aconfig.Config) (Config, error) {
	var cfg Config
	if err := aconfig.LoaderFor(&cfg, acfg).Load(); err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.HTTP.Port == "" {
		return errors.New("http port is required")
	}
	if c.Notification.BatchSize <= 0 {
		return errors.Errorf("notification batch size must be positive, got %d", c.Notification.BatchSize)
	}
	if c.Notification.Workers <= 0 {
		return errors.Errorf("notification workers must be positive, got %d", c.Notification.Workers)
	}
	return nil
}
