package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the weather lookup service.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upstream UpstreamConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// UpstreamConfig covers every third-party provider the service calls. Base
// URLs are overridable so tests can point fetchers at local fakes.
type UpstreamConfig struct {
	UserAgent string
	Timeout   time.Duration

	ForecastBaseURL   string
	GeocodeBaseURL    string
	NominatimBaseURL  string
	ZippopotamBaseURL string
	OverpassBaseURL   string
	AstronomyBaseURL  string
	AirQualityBaseURL string
	PollenBaseURL     string
	WikipediaBaseURL  string
	WikiSummaryURL    string
	NumbersBaseURL    string
}

type LoggingConfig struct {
	Level string
}

// LoadConfig reads configuration from the environment, with a .env file as an
// optional source (ignored when absent).
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "weather_user"),
			Password:        getEnv("DB_PASSWORD", "weather_pass"),
			Database:        getEnv("DB_NAME", "weather_lookup"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Upstream: UpstreamConfig{
			UserAgent: getEnv("UPSTREAM_USER_AGENT", "weather-lookup/1.0"),
			Timeout:   getEnvAsDuration("UPSTREAM_TIMEOUT", 15*time.Second),

			ForecastBaseURL:   getEnv("FORECAST_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
			GeocodeBaseURL:    getEnv("GEOCODE_BASE_URL", "https://geocoding-api.open-meteo.com/v1/search"),
			NominatimBaseURL:  getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org/search"),
			ZippopotamBaseURL: getEnv("ZIPPOPOTAM_BASE_URL", "https://api.zippopotam.us/us"),
			OverpassBaseURL:   getEnv("OVERPASS_BASE_URL", "https://overpass-api.de/api/interpreter"),
			AstronomyBaseURL:  getEnv("ASTRONOMY_BASE_URL", "https://api.sunrise-sunset.org/json"),
			AirQualityBaseURL: getEnv("AIR_QUALITY_BASE_URL", "https://air-quality-api.open-meteo.com/v1/air-quality"),
			PollenBaseURL:     getEnv("POLLEN_BASE_URL", "https://pollen-api.open-meteo.com/v1/forecast"),
			WikipediaBaseURL:  getEnv("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org/w/api.php"),
			WikiSummaryURL:    getEnv("WIKI_SUMMARY_BASE_URL", "https://en.wikipedia.org/api/rest_v1/page/summary"),
			NumbersBaseURL:    getEnv("NUMBERS_BASE_URL", "http://numbersapi.com"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Validate checks configuration invariants before the service starts.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host must not be empty")
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
