package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Streaming StreamingConfig `json:"streaming"`
	Logging   LoggingConfig   `json:"logging"`
	Seed      SeedConfig      `json:"seed"`
	Dashboard DashboardConfig `json:"dashboard"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	ReadTimeout    Duration `json:"read_timeout"`
	WriteTimeout   Duration `json:"write_timeout"`
	IdleTimeout    Duration `json:"idle_timeout"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Driver         string   `json:"driver"` // postgres or sqlite
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	User           string   `json:"user"`
	Password       string   `json:"password"`
	DBName         string   `json:"db_name"`
	SSLMode        string   `json:"ssl_mode"`
	SQLitePath     string   `json:"sqlite_path"`
	MaxConnections int      `json:"max_connections"`
	MaxIdleConns   int      `json:"max_idle_conns"`
	MaxLifetime    Duration `json:"max_lifetime"`
}

// StreamingConfig configures the update streams
type StreamingConfig struct {
	BufferSize    int    `json:"buffer_size"`
	HeartbeatSpec string `json:"heartbeat_spec"`
}

// LoggingConfig
type LoggingConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// SeedConfig controls generation of a minimal data set at startup.
type SeedConfig struct {
	Enabled        bool `json:"enabled"`
	MinSpaceships  int  `json:"min_spaceships"`
	SpaceshipCount int  `json:"spaceship_count"`
	MinRepairmen   int  `json:"min_repairmen"`
	RepairmanCount int  `json:"repairman_count"`
}

// DashboardConfig is read by the dashboard client.
type DashboardConfig struct {
	APIBase  string   `json:"api_base"`
	PageSize int      `json:"page_size"`
	Timeout  Duration `json:"timeout"`
}

// Duration decodes from either a Go duration string ("5s") or nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    Duration{15 * time.Second},
			IdleTimeout:    Duration{60 * time.Second},
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:         "postgres",
			Host:           "localhost",
			Port:           5432,
			User:           os.Getenv("USER"),
			DBName:         "spaceships",
			SSLMode:        "disable",
			SQLitePath:     "spaceships.db",
			MaxConnections: 25,
			MaxIdleConns:   5,
			MaxLifetime:    Duration{time.Hour},
		},
		Streaming: StreamingConfig{
			BufferSize:    256,
			HeartbeatSpec: "@every 3s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Seed: SeedConfig{
			Enabled:        true,
			MinSpaceships:  10,
			SpaceshipCount: 50,
			MinRepairmen:   10,
			RepairmanCount: 10,
		},
		Dashboard: DashboardConfig{
			APIBase:  "http://localhost:8080",
			PageSize: 20,
			Timeout:  Duration{10 * time.Second},
		},
	}
}

// LoadConfig loads configuration from file, .env and environment variables.
// A missing file is not an error; a malformed one is.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// .env is optional; real environment variables take precedence over it
	_ = godotenv.Load()

	if err := overrideWithEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

func overrideWithEnv(config *Config) error {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
		}
		config.Server.Port = p
	}
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		config.Database.Driver = driver
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DATABASE_PORT"); dbPort != "" {
		p, err := strconv.Atoi(dbPort)
		if err != nil {
			return fmt.Errorf("invalid DATABASE_PORT %q: %w", dbPort, err)
		}
		config.Database.Port = p
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		config.Database.SQLitePath = path
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if size := os.Getenv("STREAM_BUFFER_SIZE"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid STREAM_BUFFER_SIZE %q", size)
		}
		config.Streaming.BufferSize = n
	}
	if seed := os.Getenv("SEED_ENABLED"); seed != "" {
		b, err := strconv.ParseBool(seed)
		if err != nil {
			return fmt.Errorf("invalid SEED_ENABLED %q: %w", seed, err)
		}
		config.Seed.Enabled = b
	}
	if base := os.Getenv("DASHBOARD_API_BASE"); base != "" {
		config.Dashboard.APIBase = base
	}
	return nil
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
