package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver        string `yaml:"db_driver"`
	DBHost          string `yaml:"db_host"`
	DBPort          string `yaml:"db_port"`
	DBUser          string `yaml:"db_user"`
	DBPassword      string `yaml:"db_password"`
	DBName          string `yaml:"db_name"`
	DBPath          string `yaml:"db_path"`
	RedisHost       string `yaml:"redis_host"`
	RedisPort       string `yaml:"redis_port"`
	SessionSecret   string `yaml:"session_secret"`
	GinMode         string `yaml:"gin_mode"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	Port            string `yaml:"port"`
	StatusSweepTime string `yaml:"status_sweep_time"`
	Timezone        string `yaml:"timezone"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE and environment variables, in increasing precedence. A .env file
// in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		DBDriver:        DriverMySQL,
		DBHost:          "localhost",
		DBPort:          "3306",
		DBUser:          "salesuser",
		DBPassword:      "salespassword",
		DBName:          "sales_objectives",
		DBPath:          "data/sales_objectives.db",
		RedisHost:       "localhost",
		RedisPort:       "6379",
		SessionSecret:   "default-secret-key-change-me",
		GinMode:         "debug",
		Port:            "8080",
		StatusSweepTime: "00:15",
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnv("REDIS_PORT", c.RedisPort)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.Port = getEnv("PORT", c.Port)
	c.StatusSweepTime = getEnv("STATUS_SWEEP_TIME", c.StatusSweepTime)
	c.Timezone = getEnv("TIMEZONE", c.Timezone)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be one of mysql, postgres, sqlite (got %q)", c.DBDriver)
	}
	if _, err := time.Parse("15:04", c.StatusSweepTime); err != nil {
		return fmt.Errorf("STATUS_SWEEP_TIME must be HH:MM (got %q)", c.StatusSweepTime)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone, falling back to the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
