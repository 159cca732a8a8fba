package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Sheets        SheetsConfig        `mapstructure:"sheets"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ValidateRequests  bool          `mapstructure:"validate_requests"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type SheetsConfig struct {
	SpreadsheetID   string        `mapstructure:"spreadsheet_id"`
	UsersSheet      string        `mapstructure:"users_sheet"`
	OrdersSheet     string        `mapstructure:"orders_sheet"`
	CredentialsJSON string        `mapstructure:"credentials_json"`
	Timezone        string        `mapstructure:"timezone"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type SecurityConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	TrustRoleHeader bool          `mapstructure:"trust_role_header"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DefaultPort        = 3000
	DefaultUsersSheet  = "Sheet1"
	DefaultOrdersSheet = "Sheet2"
)

// Defaults returns a config with every optional field populated.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              DefaultPort,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Sheets: SheetsConfig{
			UsersSheet:     DefaultUsersSheet,
			OrdersSheet:    DefaultOrdersSheet,
			RequestTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Security: SecurityConfig{
			TokenTTL:        12 * time.Hour,
			TrustRoleHeader: true,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// LoadConfigFromEnv builds the configuration from plain environment variables.
// Variable names follow the deployment the service replaces (SHEET_ID, USERS_SHEET, ...).
func LoadConfigFromEnv() *Config {
	cfg := Defaults()

	cfg.Server.Port = getEnvAsInt("PORT", cfg.Server.Port)
	cfg.Server.AllowedOrigins = getEnv("ALLOWED_ORIGINS", "")
	cfg.Server.ValidateRequests = getEnvAsBool("VALIDATE_REQUESTS", false)

	cfg.Sheets.SpreadsheetID = getEnv("SHEET_ID", "")
	cfg.Sheets.UsersSheet = getEnv("USERS_SHEET", cfg.Sheets.UsersSheet)
	cfg.Sheets.OrdersSheet = getEnv("ORDERS_SHEET", cfg.Sheets.OrdersSheet)
	cfg.Sheets.CredentialsJSON = getEnv("GOOGLE_CREDENTIALS", "")
	cfg.Sheets.Timezone = getEnv("TIMEZONE", "")
	cfg.Sheets.RequestTimeout = getEnvAsDuration("SHEETS_REQUEST_TIMEOUT", cfg.Sheets.RequestTimeout)

	cfg.Database.Driver = getEnv("DATABASE_DRIVER", cfg.Database.Driver)
	cfg.Database.Source = getEnv("DATABASE_URL", "")
	cfg.Database.MaxOpenConns = getEnvAsInt("DATABASE_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvAsInt("DATABASE_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)

	cfg.Security.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.Security.TokenTTL = getEnvAsDuration("TOKEN_TTL", cfg.Security.TokenTTL)
	cfg.Security.TrustRoleHeader = getEnvAsBool("TRUST_ROLE_HEADER", cfg.Security.TrustRoleHeader)

	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)

	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Sheets.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("sheets config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits the comma separated allow list.
func (c *ServerConfig) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *SheetsConfig) Validate() error {
	if c.SpreadsheetID == "" {
		return errors.New("spreadsheet_id is required")
	}
	if c.CredentialsJSON == "" {
		return errors.New("credentials_json is required")
	}
	if !json.Valid([]byte(c.CredentialsJSON)) {
		return errors.New("credentials_json is not valid JSON")
	}
	if c.UsersSheet == "" || c.OrdersSheet == "" {
		return errors.New("users_sheet and orders_sheet must be set")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the timezone used for task timestamps. Empty means process local time.
func (c *SheetsConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return nil
	}
	switch c.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

// Enabled reports whether the activity log database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Source != ""
}

func (c *SecurityConfig) Validate() error {
	if c.JWTSecret != "" && len(c.JWTSecret) < 16 {
		return errors.New("jwt_secret must be at least 16 characters")
	}
	if c.JWTSecret != "" && c.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	if c.JWTSecret == "" && !c.TrustRoleHeader {
		return errors.New("either jwt_secret or trust_role_header must be configured")
	}
	return nil
}
