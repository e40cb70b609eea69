package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Station StationConfig
	Devices DevicesConfig
	Printer PrinterConfig
	MongoDB MongoDBConfig
	Sheets  SheetsConfig
	Export  ExportConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// StationConfig holds label station defaults.
type StationConfig struct {
	DefaultLabelSize models.LabelSize
	CatalogPath      string
	Timezone         string
}

// DevicesConfig controls the simulated printer and scale.
type DevicesConfig struct {
	Enabled         bool
	TickSpec        string
	FlipProbability float64
	MaxDriftKG      float64
}

// PrinterConfig points at the label rendering/printing service.
type PrinterConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// MongoDBConfig holds settings for the history store. An empty URI keeps history in memory.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	SheetRange      string
}

// ExportConfig holds scheduler-related settings for the daily export.
type ExportConfig struct {
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	simulatorEnabled, err := getenvBool("DEVICE_SIMULATOR_ENABLED", true)
	if err != nil {
		return nil, err
	}
	flipProbability, err := getenvFloat("DEVICE_FLIP_PROBABILITY", 0.2)
	if err != nil {
		return nil, err
	}
	maxDrift, err := getenvFloat("DEVICE_MAX_DRIFT_KG", 0.5)
	if err != nil {
		return nil, err
	}
	printerTimeout, err := time.ParseDuration(getenvWithDefault("PRINTER_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("PRINTER_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Station: StationConfig{
			DefaultLabelSize: models.LabelSize(getenvWithDefault("DEFAULT_LABEL_SIZE", string(models.DefaultLabelSize))),
			CatalogPath:      os.Getenv("WASTE_CATALOG_PATH"),
			Timezone:         getenvWithDefault("TIMEZONE", "Asia/Shanghai"),
		},
		Devices: DevicesConfig{
			Enabled:         simulatorEnabled,
			TickSpec:        getenvWithDefault("DEVICE_TICK_SPEC", "@every 5s"),
			FlipProbability: flipProbability,
			MaxDriftKG:      maxDrift,
		},
		Printer: PrinterConfig{
			BaseURL: os.Getenv("PRINTER_BASE_URL"),
			APIKey:  os.Getenv("PRINTER_API_KEY"),
			Timeout: printerTimeout,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "labelstation"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			SheetRange:      getenvWithDefault("GOOGLE_SHEET_RANGE", "Labels!A:K"),
		},
		Export: ExportConfig{
			CronSchedule: getenvWithDefault("EXPORT_CRON_SCHEDULE", "0 20 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if !c.Station.DefaultLabelSize.Valid() {
		return fmt.Errorf("DEFAULT_LABEL_SIZE %q is not a supported label size", c.Station.DefaultLabelSize)
	}

	if _, err := time.LoadLocation(c.Station.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Station.Timezone, err)
	}

	if c.Devices.Enabled && c.Devices.TickSpec == "" {
		return errors.New("DEVICE_TICK_SPEC must be provided when the simulator is enabled")
	}

	if c.Devices.FlipProbability < 0 || c.Devices.FlipProbability > 1 {
		return errors.New("DEVICE_FLIP_PROBABILITY must be between 0 and 1")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided with MONGODB_URI")
	}

	// The export is optional, but half a Sheets configuration is a mistake.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.ExportEnabled() && c.Export.CronSchedule == "" {
		return errors.New("EXPORT_CRON_SCHEDULE must be provided")
	}

	return nil
}

// ExportEnabled reports whether the spreadsheet export is configured.
func (c *Config) ExportEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

// Location resolves the station timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Station.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}
