package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultJobs, cfg.Jobs)
	assert.False(t, cfg.CountsOnly)
	assert.False(t, cfg.FailOnDiff)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Tables)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "snapdiff.yaml")
	content := `format: json
jobs: 4
tables:
  models:
    - id
    - name
    - class_hash
  events:
    - id
    - keys
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, []string{"id", "name", "class_hash"}, cfg.Tables["models"])
	assert.Equal(t, []string{"id", "keys"}, cfg.Tables["events"])
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "snapdiff.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format: json\n"), 0644))

	t.Setenv("SNAPDIFF_FORMAT", "text")

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SNAPDIFF_JOBS", "8")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("jobs", DefaultJobs, "")
	flags.Bool("counts-only", false, "")
	require.NoError(t, flags.Parse([]string{"--jobs", "2", "--counts-only"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Jobs, "explicit flag beats env var")
	assert.True(t, cfg.CountsOnly, "kebab-case flag maps to snake_case key")
}

func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	t.Setenv("SNAPDIFF_FORMAT", "text")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", DefaultFormat, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format, "default flag value must not mask env var")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad format", content: "format: xml\n", wantErr: "invalid format"},
		{name: "bad jobs", content: "jobs: 0\n", wantErr: "jobs must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "snapdiff.yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(tt.content), 0644))

			_, err := Load(cfgPath, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}
