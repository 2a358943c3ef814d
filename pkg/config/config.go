package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Endpoint struct {
		Type    string        `yaml:"type"` // sagemaker or http
		Name    string        `yaml:"name"`
		URL     string        `yaml:"url"`
		Region  string        `yaml:"region"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"endpoint"`
	Storage struct {
		Bucket          string `yaml:"bucket"`
		Prefix          string `yaml:"prefix"`
		Region          string `yaml:"region"`
		Endpoint        string `yaml:"endpoint"`
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
		SortKeys        bool   `yaml:"sort_keys"`
	} `yaml:"storage"`
	Batch struct {
		MaxSize int `yaml:"max_size"`
	} `yaml:"batch"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		Backend string        `yaml:"backend"` // memory, redis or layered
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Audit struct {
		Backend string `yaml:"backend"` // none, kafka or clickhouse
		Topic   string `yaml:"topic"`
		Table   string `yaml:"table"`
		Kafka   struct {
			Brokers      []string      `yaml:"brokers"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			MaxAttempts  int           `yaml:"max_attempts"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
		} `yaml:"kafka"`
		ClickHouse struct {
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Database     string        `yaml:"database"`
			User         string        `yaml:"user"`
			Password     string        `yaml:"password"`
			DialTimeout  time.Duration `yaml:"dial_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"clickhouse"`
	} `yaml:"audit"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("ENDPOINT_NAME"); v != "" {
		c.Endpoint.Name = v
	}
	if v := os.Getenv("ENDPOINT_URL"); v != "" {
		c.Endpoint.URL = v
	}
	if v := os.Getenv("DATA_BUCKET"); v != "" {
		c.Storage.Bucket = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.Storage.Region = v
		c.Endpoint.Region = v
	} else if v := os.Getenv("AWS_DEFAULT_REGION"); v != "" {
		c.Storage.Region = v
		c.Endpoint.Region = v
	}
	if v := os.Getenv("BATCH_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Batch.MaxSize = n
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Audit.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("AUDIT_BACKEND"); v != "" {
		c.Audit.Backend = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Endpoint.Type == "" {
		c.Endpoint.Type = "sagemaker"
	}
	if c.Endpoint.Name == "" {
		c.Endpoint.Name = "mlops-iris-endpoint"
	}
	if c.Endpoint.Region == "" {
		c.Endpoint.Region = "us-east-1"
	}
	if c.Storage.Region == "" {
		c.Storage.Region = "us-east-1"
	}
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = "app/data"
	}
	if c.Batch.MaxSize == 0 {
		c.Batch.MaxSize = 500
	}
	if c.Audit.Backend == "" {
		c.Audit.Backend = "none"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if c.Batch.MaxSize <= 0 {
		return fmt.Errorf("batch.max_size must be positive, got %d", c.Batch.MaxSize)
	}
	switch c.Endpoint.Type {
	case "sagemaker":
		if c.Endpoint.Name == "" {
			return fmt.Errorf("endpoint.name is required for sagemaker endpoints")
		}
	case "http":
		if c.Endpoint.URL == "" {
			return fmt.Errorf("endpoint.url is required for http endpoints")
		}
	default:
		return fmt.Errorf("endpoint.type must be 'sagemaker' or 'http', got '%s'", c.Endpoint.Type)
	}
	switch c.Audit.Backend {
	case "none":
	case "kafka":
		if len(c.Audit.Kafka.Brokers) == 0 {
			return fmt.Errorf("audit.kafka.brokers cannot be empty")
		}
		if c.Audit.Topic == "" {
			return fmt.Errorf("audit.topic is required for kafka audit backend")
		}
	case "clickhouse":
		if c.Audit.ClickHouse.Host == "" {
			return fmt.Errorf("audit.clickhouse.host is required for clickhouse audit backend")
		}
	default:
		return fmt.Errorf("audit.backend must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Audit.Backend)
	}
	if c.Cache.Enabled {
		switch c.Cache.Backend {
		case "memory":
		case "redis", "layered":
			if c.Cache.Redis.Addr == "" {
				return fmt.Errorf("cache.redis.addr is required for %s cache backend", c.Cache.Backend)
			}
		default:
			return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
		}
	}
	return nil
}
