package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultPathAbsent_ReturnsBuiltInDefault(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	loaded, err := Load("")
	require.NoError(t, err)
	require.Equal(t, SourceDefault, loaded.Source)
	require.Equal(t, Default(), loaded.Config)
}

func TestLoad_ExplicitPathAbsent_Fails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "E_SENTINEL_CONFIG_NOT_FOUND")
}

func TestLoad_ValidFile_Succeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentinel-eye.json")
	cfg := Default()
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, SourceFile, loaded.Source)
	require.Equal(t, cfg, loaded.Config)
}

func TestLoad_InvalidFile_Fails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentinel-eye.json")
	cfg := Default()
	cfg.Limits.MaxNotifications = 0 // below min=1
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "E_SENTINEL_CONFIG_INVALID")
}

func TestRoundTrip_ParseSerializeIsIdentity(t *testing.T) {
	cfg := Default()
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, *cfg, decoded)
}

func TestWrite_AtomicRenameAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentinel-eye.json")

	cfg := Default()
	cfg.Limits.MaxDigestItems = 42
	require.NoError(t, Write(path, cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, byte('\n'), raw[len(raw)-1])

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 42, loaded.Config.Limits.MaxDigestItems)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not survive the rename")
}

func TestWrite_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentinel-eye.json")
	cfg := Default()
	cfg.Patterns.PathDepth = 0 // below min=1

	err := Write(path, cfg)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "invalid config must not be written")
}
