package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points HOME at an empty directory so the search path never
// picks up a developer's real config.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	isolateHome(t)

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "security-verification-report.json", cfg.Output.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Output.Verbose)
	assert.Empty(t, cfg.Profile)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	isolateHome(t)
	t.Setenv("TIERGUARD_OUTPUT_FORMAT", "yaml")
	t.Setenv("TIERGUARD_PROFILE", "prod")
	t.Setenv("TIERGUARD_OUTPUT_NO_COLOR", "true")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "prod", cfg.Profile)
	assert.True(t, cfg.Output.NoColor)
}

func TestLoad_SearchPathFile(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "tierguard")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
posture: /etc/tierguard/posture.yaml
output:
  path: out/report.yaml
  format: yaml
log:
  level: debug
`), 0o644))

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "/etc/tierguard/posture.yaml", cfg.Posture)
	assert.Equal(t, "out/report.yaml", cfg.Output.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

// TestLoad_EnvBeatsFile verifies precedence between the two sources.
func TestLoad_EnvBeatsFile(t *testing.T) {
	isolateHome(t)
	file := filepath.Join(t.TempDir(), "tg.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log:\n  level: info\n"), 0o644))
	t.Setenv("TIERGUARD_LOG_LEVEL", "error")

	cfg, err := Load(NewViper(), file)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolateHome(t)
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidFormat(t *testing.T) {
	isolateHome(t)
	t.Setenv("TIERGUARD_OUTPUT_FORMAT", "xml")

	_, err := Load(NewViper(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
}

func TestLoad_DoctorFormat(t *testing.T) {
	isolateHome(t)

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Doctor.Format)

	t.Setenv("TIERGUARD_DOCTOR_FORMAT", "json")
	cfg, err = Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Doctor.Format)

	t.Setenv("TIERGUARD_DOCTOR_FORMAT", "xml")
	_, err = Load(NewViper(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doctor.format")
}
