package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Notify   NotifyConfig   `yaml:"notify"`
}

type HTTPConfig struct {
	Port         int `yaml:"port"`
	ReadTimeout  int `yaml:"read_timeout_seconds"`
	WriteTimeout int `yaml:"write_timeout_seconds"`
	IdleTimeout  int `yaml:"idle_timeout_seconds"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// NotifyConfig bounds the notification side effects so they can never block a status
// change indefinitely.
type NotifyConfig struct {
	TimeoutSeconds     int `yaml:"timeout_seconds"`
	PushTimeoutSeconds int `yaml:"push_timeout_seconds"`
}

func (c NotifyConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c NotifyConfig) PushTimeout() time.Duration {
	if c.PushTimeoutSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.PushTimeoutSeconds) * time.Second
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 3000
	}

	return &cfg, nil
}
