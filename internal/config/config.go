package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/archivalatlas/atlas/pkg/cache"
	"github.com/archivalatlas/atlas/pkg/db"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type RedisConfig struct {
	Enabled bool `yaml:"enabled"`
	cache.Config `yaml:",inline"`
}

type MQConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

type CacheConfig struct {
	// TTL of cached graph projections.
	GraphTTLSeconds int `yaml:"graph_ttl_seconds"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	DB     db.Config    `yaml:"db"`
	Redis  RedisConfig  `yaml:"redis"`
	MQ     MQConfig     `yaml:"mq"`
	Cache  CacheConfig  `yaml:"cache"`
}

// GraphTTL returns the graph cache TTL, defaulting to five minutes.
func (c *Config) GraphTTL() time.Duration {
	if c.Cache.GraphTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Cache.GraphTTLSeconds) * time.Second
}

// Load reads the YAML config file and applies environment overrides.
// Environment variables win over the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Port, "SERVER_PORT")
	setString(&c.Log.Level, "LOG_LEVEL")

	setString(&c.DB.Host, "DB_HOST")
	setInt(&c.DB.Port, "DB_PORT")
	setString(&c.DB.User, "DB_USER")
	setString(&c.DB.Password, "DB_PASSWORD")
	setString(&c.DB.Name, "DB_NAME")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Redis.DB, "REDIS_DB")
	setBool(&c.Redis.Enabled, "REDIS_ENABLED")

	setString(&c.MQ.URL, "MQ_URL")
	setBool(&c.MQ.Enabled, "MQ_ENABLED")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
