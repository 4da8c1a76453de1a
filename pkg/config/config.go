// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the settings shared by the gateway, api, and messaging services.
type Config struct {
	GatewayAddr    string   `envconfig:"GATEWAY_ADDR" default:":8080"`
	APIAddr        string   `envconfig:"API_ADDR" default:":8081"`
	KafkaBrokers   []string `envconfig:"KAFKA_BROKERS" default:"localhost:19092"`
	KafkaTopic     string   `envconfig:"KAFKA_TOPIC" default:"chat-events"`
	RedisAddr      string   `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	ScyllaHosts    []string `envconfig:"SCYLLA_HOSTS" default:"localhost:9042"`
	ScyllaKeyspace string   `envconfig:"SCYLLA_KEYSPACE" default:"chat"`
	JWTSecret      string   `envconfig:"JWT_SECRET" default:"dev_secret_change_me"`
	Store          string   `envconfig:"STORE" default:"scylla"`
	LogFile        string   `envconfig:"LOG_FILE"`
	SnowflakeNode  int64    `envconfig:"SNOWFLAKE_NODE" default:"1"`
}

// Load reads the environment into a Config. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load for main functions: it exits on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// OpenLogFile redirects the standard logger to cfg.LogFile when set.
// The returned closer is nil when logging stays on stderr.
func (c *Config) OpenLogFile() (*os.File, error) {
	if c.LogFile == "" {
		return nil, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return f, nil
}
