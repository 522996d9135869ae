package config

import (
	"fmt"
	"os"
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
	// Ingest selects where ticks come from: "websocket" or "kafka".
	Ingest struct {
		Type string `yaml:"type"`
	} `yaml:"ingest"`
	Stream struct {
		APIKey         string        `yaml:"api_key"`
		WebSocketURL   string        `yaml:"websocket_url"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"stream"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		TicksTopic   string   `yaml:"ticks_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Topics       struct {
			Bars        string `yaml:"bars"`
			Signals     string `yaml:"signals"`
			Predictions string `yaml:"predictions"`
		} `yaml:"topics"`
		Producer struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		Table            string        `yaml:"table"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Engine struct {
		Retention   int           `yaml:"retention"`
		TickBuffer  int           `yaml:"tick_buffer"`
		QuietPeriod time.Duration `yaml:"quiet_period"`
		MaxRPS      int           `yaml:"max_rps"`
		FeedSize    int           `yaml:"feed_size"`
	} `yaml:"engine"`
	Watchlist struct {
		Symbols   []string `yaml:"symbols"`
		Intervals []string `yaml:"intervals"`
	} `yaml:"watchlist"`
	Prediction struct {
		TechWeight      float64       `yaml:"tech_weight"`
		SentimentWeight float64       `yaml:"sentiment_weight"`
		Threshold       float64       `yaml:"threshold"`
		SignalWindow    time.Duration `yaml:"signal_window"`
	} `yaml:"prediction"`
	Sentiment struct {
		BaseURL  string        `yaml:"base_url"`
		MaxAge   time.Duration `yaml:"max_age"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"sentiment"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
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
	if v := os.Getenv("STREAM_API_KEY"); v != "" {
		c.Stream.APIKey = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("INGEST"); v != "" {
		c.Ingest.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SENTIMENT_URL"); v != "" {
		c.Sentiment.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Ingest.Type == "" {
		return fmt.Errorf("ingest.type is required")
	}
	if c.Ingest.Type != "websocket" && c.Ingest.Type != "kafka" {
		return fmt.Errorf("ingest.type must be 'websocket' or 'kafka', got '%s'", c.Ingest.Type)
	}
	if c.Ingest.Type == "websocket" && c.Stream.APIKey == "" {
		return fmt.Errorf("stream.api_key is required for websocket ingest")
	}
	if c.Ingest.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty for kafka ingest")
	}
	if len(c.Watchlist.Symbols) == 0 {
		return fmt.Errorf("watchlist.symbols cannot be empty")
	}
	if c.Prediction.Threshold < 0 || c.Prediction.Threshold > 100 {
		return fmt.Errorf("prediction.threshold must be within [0, 100]")
	}
	return nil
}
