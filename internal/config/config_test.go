package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sage-matrix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output: /tmp/out
jobs: 4
cleanup: true
with_system_spkg: "no"
ignore_missing_system_packages: true
type_pattern: minimal
extra_configure_args: "--without-system-mpfr"
base_image: fedora:31
condarc: /dev/null
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 4, cfg.Jobs)
	require.NotNil(t, cfg.Cleanup)
	assert.True(t, *cfg.Cleanup)
	assert.Equal(t, "no", cfg.WithSystemSpkg)
	require.NotNil(t, cfg.IgnoreMissingSystemPackages)
	assert.True(t, *cfg.IgnoreMissingSystemPackages)
	assert.Nil(t, cfg.ErrorOnMissingSystemPackages)
	assert.Equal(t, "minimal", cfg.TypePattern)
	assert.Equal(t, "--without-system-mpfr", cfg.ExtraConfigureArgs)
	assert.Equal(t, "fedora:31", cfg.BaseImage)
	assert.Equal(t, "/dev/null", cfg.Condarc)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFromStringRejectsBadYAML(t *testing.T) {
	_, err := FromString("output: [")
	assert.Error(t, err)
}

// The annotated template must itself parse as a valid config.
func TestDefaultTemplateParses(t *testing.T) {
	cfg, err := FromString(DefaultTemplate())
	require.NoError(t, err)
	assert.Equal(t, "./sage-matrix-out", cfg.OutputDir)
	assert.Equal(t, "yes", cfg.WithSystemSpkg)
}
