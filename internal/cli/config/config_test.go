package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isomorph-labs/isomorph/internal/cli/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "isomorph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDiagramsDir, cfg.DiagramsDir)
	assert.Equal(t, config.DefaultOutput, cfg.Output)
	assert.Equal(t, config.DefaultExportFmt, cfg.Export.Format)
	assert.Equal(t, config.DefaultDebounceMS, cfg.Watch.DebounceMS)
	assert.False(t, cfg.Verbose)
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
diagrams_dir: designs
verbose: true
rules:
  disabled:
    - SS-7
    - SS-10
export:
  format: json
watch:
  debounce_ms: 250
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "designs", cfg.DiagramsDir)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "json", cfg.Export.Format)
	assert.Equal(t, 250, cfg.Watch.DebounceMS)

	assert.True(t, cfg.Rules.IsDisabled("SS-7"))
	assert.True(t, cfg.Rules.IsDisabled("ss-10"))
	assert.False(t, cfg.Rules.IsDisabled("SS-1"))
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "diagrams_dir: from_file\n")
	t.Setenv("ISOMORPH_DIAGRAMS_DIR", "from_env")

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.DiagramsDir)
}

func TestNestedEnvKey(t *testing.T) {
	t.Setenv("ISOMORPH_EXPORT__FORMAT", "json")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Export.Format)
}

func TestFlagsOverrideEverything(t *testing.T) {
	path := writeConfig(t, "diagrams_dir: from_file\n")
	t.Setenv("ISOMORPH_DIAGRAMS_DIR", "from_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("diagrams-dir", "", "")
	require.NoError(t, flags.Set("diagrams-dir", "from_flag"))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "from_flag", cfg.DiagramsDir)
}

func TestUnchangedFlagsDoNotOverride(t *testing.T) {
	path := writeConfig(t, "diagrams_dir: from_file\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("diagrams-dir", "", "")

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.DiagramsDir)
}
