package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

// LoadCatalog reads the waste catalog seed. An empty path yields the built-in catalog.
// The file is a JSON array of {"id","name","code","frequency"} objects.
func LoadCatalog(path string) ([]models.WasteEntry, error) {
	if path == "" {
		return models.DefaultWasteCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read waste catalog %s: %w", path, err)
	}

	var entries []models.WasteEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode waste catalog %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, errors.New("waste catalog is empty")
	}
	for _, entry := range entries {
		if entry.Frequency < 0 {
			return nil, fmt.Errorf("waste catalog entry %q has negative frequency", entry.ID)
		}
	}
	return entries, nil
}
