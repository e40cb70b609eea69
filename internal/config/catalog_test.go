package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadCatalog_DefaultWhenUnset(t *testing.T) {
	entries, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWasteCatalog(), entries)
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := writeCatalog(t, `[
		{"id":"a","name":"Spent acid","code":"900-300-34","frequency":3},
		{"id":"b","name":"Waste paint","code":"900-252-12"}
	]`)

	entries, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "900-300-34", entries[0].Code)
	assert.Equal(t, 0, entries[1].Frequency)
}

func TestLoadCatalog_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed":          `{"id":"a"`,
		"empty":              `[]`,
		"negative frequency": `[{"id":"a","name":"x","code":"y","frequency":-1}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalog(writeCatalog(t, body))
			assert.Error(t, err)
		})
	}

	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
