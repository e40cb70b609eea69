package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "LOG_LEVEL", "DEFAULT_LABEL_SIZE", "WASTE_CATALOG_PATH", "TIMEZONE",
		"DEVICE_SIMULATOR_ENABLED", "DEVICE_TICK_SPEC", "DEVICE_FLIP_PROBABILITY", "DEVICE_MAX_DRIFT_KG",
		"PRINTER_BASE_URL", "PRINTER_API_KEY", "PRINTER_TIMEOUT",
		"MONGODB_URI", "MONGODB_DB_NAME",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "GOOGLE_SHEET_RANGE",
		"EXPORT_CRON_SCHEDULE",
	} {
		t.Setenv(key, "")
	}
}

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, models.DefaultLabelSize, cfg.Station.DefaultLabelSize)
	assert.True(t, cfg.Devices.Enabled)
	assert.Equal(t, "@every 5s", cfg.Devices.TickSpec)
	assert.Equal(t, 0.2, cfg.Devices.FlipProbability)
	assert.False(t, cfg.ExportEnabled())
	assert.Equal(t, "Asia/Shanghai", cfg.Location().String())
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables already present, so drop the blanks first.
	for _, key := range []string{"APP_PORT", "DEFAULT_LABEL_SIZE", "DEVICE_TICK_SPEC", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID"} {
		require.NoError(t, os.Unsetenv(key))
	}
	t.Cleanup(func() {
		for _, key := range []string{"APP_PORT", "DEFAULT_LABEL_SIZE", "DEVICE_TICK_SPEC", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID"} {
			_ = os.Unsetenv(key)
		}
	})

	path := writeEnvFile(t, "APP_PORT=9090\nDEFAULT_LABEL_SIZE=100*60\nDEVICE_TICK_SPEC=@every 2s\nGOOGLE_SHEETS_CREDENTIALS_PATH=/tmp/creds.json\nGOOGLE_SHEET_DATABASE_ID=sheet-1\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, models.LabelSize100x60, cfg.Station.DefaultLabelSize)
	assert.Equal(t, "@every 2s", cfg.Devices.TickSpec)
	assert.True(t, cfg.ExportEnabled())
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"label size":       {"DEFAULT_LABEL_SIZE": "1*1"},
		"timezone":         {"TIMEZONE": "Mars/Olympus"},
		"flip probability": {"DEVICE_FLIP_PROBABILITY": "1.5"},
		"drift":            {"DEVICE_MAX_DRIFT_KG": "lots"},
		"simulator toggle": {"DEVICE_SIMULATOR_ENABLED": "yes please"},
		"printer timeout":  {"PRINTER_TIMEOUT": "soon"},
		"half sheets":      {"GOOGLE_SHEET_DATABASE_ID": "sheet-1"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
		})
	}
}

func TestLoad_SimulatorToggle(t *testing.T) {
	cases := map[string]bool{"TRUE": true, "1": true, "false": false, "0": false}
	for value, want := range cases {
		t.Run(value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DEVICE_SIMULATOR_ENABLED", value)

			cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.NoError(t, err)
			assert.Equal(t, want, cfg.Devices.Enabled)
		})
	}
}

func TestLoad_ZeroFlipProbabilityKept(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEVICE_FLIP_PROBABILITY", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Devices.FlipProbability)
}

func TestValidate_Nil(t *testing.T) {
	var cfg *Config
	require.Error(t, cfg.Validate())
}
