package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := &Config{}
	cfg.Scan.Roots = []string{t.TempDir()}
	cfg.Organize.TargetRoot = t.TempDir()
	cfg.Organize.BatchSize = 50
	cfg.Organize.MaxPreview = 1800
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig(t).Validate())
}

func TestValidateRequiresExistingRoot(t *testing.T) {
	cfg := validConfig(t)
	cfg.Scan.Roots = []string{filepath.Join(t.TempDir(), "nope")}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan roots exist")
}

func TestValidateOneExistingRootIsEnough(t *testing.T) {
	cfg := validConfig(t)
	cfg.Scan.Roots = append(cfg.Scan.Roots, filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsConflictingOrder(t *testing.T) {
	cfg := validConfig(t)
	cfg.Scan.Randomize = true
	cfg.Scan.Sort = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := validConfig(t)
	cfg.Backends.Order = []string{"on-device", "skynet"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skynet")
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	cfg := validConfig(t)
	cfg.Scan.Categories = []string{"docs", "spreadsheets"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheets")
}

func TestExpandCategories(t *testing.T) {
	exts := ExpandCategories([]string{"images"}, []string{"raw", "png"})
	assert.Contains(t, exts, "png")
	assert.Contains(t, exts, "jpg")
	assert.Contains(t, exts, "raw")

	// png comes from both sources but appears once.
	count := 0
	for _, e := range exts {
		if e == "png" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExpandCategoriesEmpty(t *testing.T) {
	assert.Empty(t, ExpandCategories(nil, nil))
}

func TestCategoryNamesSorted(t *testing.T) {
	names := CategoryNames()
	assert.Equal(t, []string{"audio", "code", "data", "docs", "images", "video"}, names)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/home/u", expandHome("~", "/home/u"))
	assert.Equal(t, filepath.Join("/home/u", "Downloads"), expandHome("~/Downloads", "/home/u"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path", "/home/u"))
}
