package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Remote notes service, used by the client.
	APIURL      string        `yaml:"api_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Reference notes service.
	DatabaseURL string `yaml:"database_url"`

	MaxOpenConns    int           `yaml:"db_max_open"`
	MaxIdleConns    int           `yaml:"db_max_idle"`
	ConnMaxLifetime time.Duration `yaml:"db_conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"db_conn_max_idle_time"`

	HTTPAddr string `yaml:"http_addr"`
}

func Load() Config {
	return Config{
		APIURL:          getenv("NOTES_API_URL", "http://localhost:8080"),
		HTTPTimeout:     getenvDuration("NOTES_HTTP_TIMEOUT", 10*time.Second),
		DatabaseURL:     getenv("DATABASE_URL", ""),
		MaxOpenConns:    getenvInt("DB_MAX_OPEN", 20),
		MaxIdleConns:    getenvInt("DB_MAX_IDLE", 10),
		ConnMaxLifetime: getenvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		ConnMaxIdleTime: getenvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
	}
}

// LoadFile starts from Load and overlays the keys present in the YAML file
// at path. Keys missing from the file keep their environment value.
func LoadFile(path string) (Config, error) {
	cfg := Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
