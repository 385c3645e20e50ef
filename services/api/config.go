package api

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr     = ":8080"
	defaultRequestTimeout = 60 * time.Second
)

// Config controls runtime behaviour for the API service. DatabaseURL and
// NATSURL are optional; without them build history and events are disabled.
type Config struct {
	ListenAddr     string
	Bucket         string
	DatabaseURL    string
	NATSURL        string
	RequestTimeout time.Duration
}

type fileConfig struct {
	ListenAddr     string `yaml:"listen_addr"`
	Bucket         string `yaml:"bucket"`
	DatabaseURL    string `yaml:"database_url"`
	NATSURL        string `yaml:"nats_url"`
	RequestTimeout string `yaml:"request_timeout"`
}

// LoadConfig builds the service configuration from an optional YAML file
// named by SITEWRAP_CONFIG, with environment variables taking precedence
// over file values.
func LoadConfig() (Config, error) {
	cfg := Config{
		ListenAddr:     defaultListenAddr,
		RequestTimeout: defaultRequestTimeout,
	}

	if path := strings.TrimSpace(os.Getenv("SITEWRAP_CONFIG")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Bucket) == "" {
		return Config{}, errors.New("bucket is required (set S3_BUCKET or the config file's bucket)")
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.ListenAddr != "" {
		cfg.ListenAddr = fc.ListenAddr
	}
	if fc.Bucket != "" {
		cfg.Bucket = fc.Bucket
	}
	if fc.DatabaseURL != "" {
		cfg.DatabaseURL = fc.DatabaseURL
	}
	if fc.NATSURL != "" {
		cfg.NATSURL = fc.NATSURL
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid request_timeout %q", fc.RequestTimeout)
		}
		cfg.RequestTimeout = d
	}

	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("SITEWRAP_LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("S3_BUCKET")); v != "" {
		cfg.Bucket = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("NATS_URL")); v != "" {
		cfg.NATSURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SITEWRAP_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid SITEWRAP_REQUEST_TIMEOUT %q", v)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
