package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/vontajamal/sentinel-eye/internal/sentinelerr"
)

// Write re-validates cfg and persists it to path atomically: the payload
// is written to a temp file in the same directory, then renamed over the
// target, so a reader never observes a partially-written file. Output is
// pretty-printed with a trailing newline.
func Write(path string, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return sentinelerr.New(sentinelerr.ConfigRead, "create config directory %s: %v", dir, err)
	}

	payload, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return sentinelerr.New(sentinelerr.ConfigInvalid, "encode config: %v", err)
	}
	payload = append(payload, '\n')

	tmp, err := os.CreateTemp(dir, ".sentinel-eye-*.json.tmp")
	if err != nil {
		return sentinelerr.New(sentinelerr.ConfigRead, "create temp config file: %v", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return sentinelerr.New(sentinelerr.ConfigRead, "write temp config file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return sentinelerr.New(sentinelerr.ConfigRead, "close temp config file: %v", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return sentinelerr.New(sentinelerr.ConfigRead, "rename config into place: %v", err)
	}
	return nil
}
