package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMM1(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "config", "mm1.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DirectionMinimize, cfg.Study.Direction)
	require.NotNil(t, cfg.Study.RandomState)
	assert.Equal(t, uint64(42), *cfg.Study.RandomState)
	require.Len(t, cfg.Study.Variables, 1)
	assert.Equal(t, "mu", cfg.Study.Variables[0].Name)
	require.NotNil(t, cfg.Model)
	assert.Equal(t, 1.5, cfg.Model.Lambda)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadStudy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.yaml")
	content := `
direction: maximize
n_trials: 12
variables:
  - name: policy
    kind: categorical
    categories: [A, B, C]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	study, err := LoadStudy(path)
	require.NoError(t, err)
	assert.Equal(t, DirectionMaximize, study.Direction)
	assert.Equal(t, []string{"A", "B", "C"}, study.Variables[0].Categories)
}

func TestLoadStudyInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.yaml")
	require.NoError(t, os.WriteFile(path, []byte("n_trials: -3\n"), 0o600))

	_, err := LoadStudy(path)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "n_trials", cfgErr.Field)
}

func TestValidateDefaults(t *testing.T) {
	s := DefaultStudy()
	require.NoError(t, Validate(&s))

	cfg := Default()
	require.NoError(t, ValidateConfig(&cfg))
}

func TestSeeded(t *testing.T) {
	s := DefaultStudy().Seeded(9)
	require.NotNil(t, s.RandomState)
	assert.Equal(t, uint64(9), *s.RandomState)
}
