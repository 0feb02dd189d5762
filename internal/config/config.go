package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration.
// Values come from defaults, then the YAML file, then .env, then the process environment.
type Config struct {
	Server struct {
		Port           string        `yaml:"port" split_words:"true"`
		Mode           string        `yaml:"mode" split_words:"true"`
		PublicURL      string        `yaml:"public_url" split_words:"true"`
		ReadTimeout    time.Duration `yaml:"read_timeout" split_words:"true"`
		WriteTimeout   time.Duration `yaml:"write_timeout" split_words:"true"`
		MaxUploadBytes int64         `yaml:"max_upload_bytes" split_words:"true"`
	} `yaml:"server" envconfig:"SERVER"`

	Database struct {
		Host            string        `yaml:"host" split_words:"true"`
		Port            string        `yaml:"port" split_words:"true"`
		User            string        `yaml:"user" split_words:"true"`
		Password        string        `yaml:"password" split_words:"true"`
		Name            string        `yaml:"name" split_words:"true"`
		SSLMode         string        `yaml:"sslmode" split_words:"true"`
		MaxConns        int32         `yaml:"max_conns" split_words:"true"`
		MinConns        int32         `yaml:"min_conns" split_words:"true"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" split_words:"true"`
		ConnectRetries  uint64        `yaml:"connect_retries" split_words:"true"`
		MigrationsDir   string        `yaml:"migrations_dir" split_words:"true"`
	} `yaml:"database" envconfig:"DB"`

	JWT struct {
		Secret                 string        `yaml:"secret" split_words:"true"`
		AccessTokenExpiration  time.Duration `yaml:"access_token_expiration" split_words:"true"`
		RefreshTokenExpiration time.Duration `yaml:"refresh_token_expiration" split_words:"true"`
		Issuer                 string        `yaml:"issuer" split_words:"true"`
	} `yaml:"jwt" envconfig:"JWT"`

	Logging struct {
		Level  string `yaml:"level" split_words:"true"`
		Format string `yaml:"format" split_words:"true"`
	} `yaml:"logging" envconfig:"LOG"`

	Storage struct {
		Path    string `yaml:"path" split_words:"true"`
		BaseURL string `yaml:"base_url" split_words:"true"`
	} `yaml:"storage" envconfig:"STORAGE"`

	Email struct {
		SMTPHost string        `yaml:"smtp_host" envconfig:"SMTP_HOST"`
		SMTPPort int           `yaml:"smtp_port" envconfig:"SMTP_PORT"`
		Username string        `yaml:"username" split_words:"true"`
		Password string        `yaml:"password" split_words:"true"`
		From     string        `yaml:"from" split_words:"true"`
		OTPTTL   time.Duration `yaml:"otp_ttl" envconfig:"OTP_TTL"`
	} `yaml:"email" envconfig:"EMAIL"`

	Realtime struct {
		// Brokers lists the enabled fan-out backends: websocket, kafka, rabbitmq.
		Brokers      []string `yaml:"brokers" split_words:"true"`
		KafkaBrokers []string `yaml:"kafka_brokers" split_words:"true"`
		KafkaTopic   string   `yaml:"kafka_topic" split_words:"true"`
		AMQPURL      string   `yaml:"amqp_url" envconfig:"AMQP_URL"`
		AMQPExchange string   `yaml:"amqp_exchange" envconfig:"AMQP_EXCHANGE"`
		QueueSize    int      `yaml:"queue_size" split_words:"true"`
	} `yaml:"realtime" envconfig:"REALTIME"`

	Telegram struct {
		Token  string `yaml:"token" split_words:"true"`
		ChatID int64  `yaml:"chat_id" split_words:"true"`
	} `yaml:"telegram" envconfig:"TELEGRAM"`

	Workers struct {
		SweepInterval time.Duration `yaml:"sweep_interval" split_words:"true"`
	} `yaml:"workers" envconfig:"WORKERS"`

	Seed struct {
		AdminEmail    string `yaml:"admin_email" split_words:"true"`
		AdminPassword string `yaml:"admin_password" split_words:"true"`
	} `yaml:"seed" envconfig:"SEED"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if file, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// .env is optional; it never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.PublicURL = "http://localhost:8080"
	config.Server.ReadTimeout = 10 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.MaxUploadBytes = 25 << 20

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.Name = "hireboard"
	config.Database.SSLMode = "disable"
	config.Database.MaxConns = 20
	config.Database.MinConns = 2
	config.Database.ConnMaxLifetime = time.Hour
	config.Database.ConnectRetries = 5
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = 15 * time.Minute
	config.JWT.RefreshTokenExpiration = 7 * 24 * time.Hour
	config.JWT.Issuer = "hireboard"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Storage.Path = "uploads"
	config.Storage.BaseURL = "/uploads"

	config.Email.SMTPPort = 587
	config.Email.From = "no-reply@hireboard.local"
	config.Email.OTPTTL = 10 * time.Minute

	config.Realtime.Brokers = []string{"websocket"}
	config.Realtime.KafkaTopic = "hireboard.realtime"
	config.Realtime.AMQPExchange = "hireboard.realtime"
	config.Realtime.QueueSize = 1000

	config.Workers.SweepInterval = time.Minute
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.JWT.AccessTokenExpiration <= 0 || config.JWT.RefreshTokenExpiration <= 0 {
		return fmt.Errorf("JWT expirations must be positive")
	}

	for _, broker := range config.Realtime.Brokers {
		switch strings.ToLower(broker) {
		case "websocket":
		case "kafka":
			if len(config.Realtime.KafkaBrokers) == 0 {
				return fmt.Errorf("realtime broker kafka requires kafka_brokers")
			}
		case "rabbitmq":
			if config.Realtime.AMQPURL == "" {
				return fmt.Errorf("realtime broker rabbitmq requires amqp_url")
			}
		default:
			return fmt.Errorf("unknown realtime broker %q", broker)
		}
	}

	if config.Workers.SweepInterval <= 0 {
		return fmt.Errorf("workers sweep interval must be positive")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production"
}

// HasBroker reports whether the named realtime backend is enabled.
func (c *Config) HasBroker(name string) bool {
	for _, b := range c.Realtime.Brokers {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		sslMode,
	)
}
