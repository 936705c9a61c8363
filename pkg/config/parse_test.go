package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStudyYAMLDefaults(t *testing.T) {
	study, err := ParseStudyYAML([]byte(`
n_trials: 40
variables:
  - {name: x, kind: continuous, low: 0, high: 10}
`))
	require.NoError(t, err)

	def := DefaultStudy()
	assert.Equal(t, 40, study.NTrials)
	assert.Equal(t, def.NInitPoints, study.NInitPoints)
	assert.Equal(t, def.InitialNoise, study.InitialNoise)
	assert.Equal(t, def.FinalNoise, study.FinalNoise)
	assert.Equal(t, def.NReplications, study.NReplications)
	assert.Equal(t, def.MaxNoImprove, study.MaxNoImprove)
	assert.Equal(t, def.EliteCapacity, study.EliteCapacity)
	assert.Equal(t, def.TabuTenure, study.TabuTenure)
	assert.Equal(t, def.MaxCandidateAttempts, study.MaxCandidateAttempts)
	assert.Equal(t, DecayLinear, study.NoiseDecay)
	assert.Nil(t, study.RandomState)
	require.Len(t, study.Variables, 1)
	assert.Equal(t, KindContinuous, study.Variables[0].Kind)
}

func TestParseStudyYAMLRandomState(t *testing.T) {
	study, err := ParseStudyYAML([]byte("random_state: 7\n"))
	require.NoError(t, err)
	require.NotNil(t, study.RandomState)
	assert.Equal(t, uint64(7), *study.RandomState)
}

func TestParseStudyYAMLInvalid(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{name: "bad direction", yaml: "direction: sideways", field: "direction"},
		{name: "zero replications", yaml: "n_replications: 0", field: "n_replications"},
		{name: "zero patience", yaml: "max_no_improve: 0", field: "max_no_improve"},
		{name: "final above initial", yaml: "initial_noise: 0.1\nfinal_noise: 0.5", field: "final_noise"},
		{name: "negative noise", yaml: "initial_noise: -1", field: "initial_noise"},
		{name: "bad decay", yaml: "noise_decay: cubic", field: "noise_decay"},
		{name: "exponential to zero", yaml: "noise_decay: exponential\nfinal_noise: 0", field: "final_noise"},
		{name: "probability above one", yaml: "diversify_probability: 1.5", field: "diversify_probability"},
		{name: "zero elite", yaml: "elite_capacity: 0", field: "elite_capacity"},
		{name: "unnamed variable", yaml: "variables: [{kind: continuous, low: 0, high: 1}]", field: "variables[0].name"},
		{name: "unknown kind", yaml: "variables: [{name: x, kind: complex}]", field: "variables[0].kind"},
		{name: "duplicate names", yaml: "variables: [{name: x, kind: continuous, high: 1}, {name: x, kind: discrete, high: 3}]", field: "variables[1].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStudyYAML([]byte(tt.yaml))
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %T: %v", err, err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestParseStudyYAMLMalformed(t *testing.T) {
	_, err := ParseStudyYAML([]byte("n_trials: [1, 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse study yaml")
}

func TestParseConfigYAMLModelDefaults(t *testing.T) {
	cfg, err := ParseConfigYAML([]byte(`
log_level: debug
study:
  n_trials: 5
model:
  cost: 0.5
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.Study.NTrials)
	require.NotNil(t, cfg.Model)
	assert.Equal(t, 0.5, cfg.Model.Cost)
	assert.Equal(t, DefaultMM1Model().Lambda, cfg.Model.Lambda)
	assert.Equal(t, DefaultMM1Model().People, cfg.Model.People)
}

func TestParseConfigYAMLNestedFieldPath(t *testing.T) {
	_, err := ParseConfigYAML([]byte("study:\n  n_trials: 0\n"))
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "study.n_trials", cfgErr.Field)
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := Errorf("tabu_tenure", "must be >= %d", 0)
	assert.Equal(t, "invalid configuration: tabu_tenure: must be >= 0", err.Error())

	bare := &ConfigurationError{Reason: "empty"}
	assert.Equal(t, "invalid configuration: empty", bare.Error())
}
