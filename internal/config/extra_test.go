package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonymousuni/cats/internal/config"
)

func TestConfigValidate_DefaultMissingRequiredCSVs(t *testing.T) {
	cfg := config.New()
	// Defaults alone (no deadline/budget/input volume/resources csv) must fail.
	err := cfg.Validate()
	require.Error(t, err)
}

func TestConfigValidate_NonPositiveDeadlineRejected(t *testing.T) {
	cfg := config.New()
	cfg.Deadline = 0
	cfg.Budget = 100
	cfg.InputVolumeMB = 100
	cfg.PipelineYAML = "pipeline.yaml"
	cfg.ResourcesCSV = "resources.csv"
	cfg.StepMetricsCSV = "step_metrics.csv"

	err := cfg.Validate()
	assert.Error(t, err)
}

func TestConfigValidate_FullyPopulatedPasses(t *testing.T) {
	cfg := config.New()
	cfg.Deadline = 3600
	cfg.Budget = 50
	cfg.InputVolumeMB = 100
	cfg.PipelineYAML = "pipeline.yaml"
	cfg.ResourcesCSV = "resources.csv"
	cfg.StepMetricsCSV = "step_metrics.csv"

	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate_ForcedDeploymentMissingResourceRejected(t *testing.T) {
	cfg := config.New()
	cfg.Deadline = 3600
	cfg.Budget = 50
	cfg.InputVolumeMB = 100
	cfg.PipelineYAML = "pipeline.yaml"
	cfg.ResourcesCSV = "resources.csv"
	cfg.StepMetricsCSV = "step_metrics.csv"
	cfg.ForcedDeployments = []config.ForcedDeployment{{Step: "Source"}}

	assert.Error(t, cfg.Validate())
}

func TestForcedMap(t *testing.T) {
	cfg := config.New()
	cfg.ForcedDeployments = []config.ForcedDeployment{
		{Step: "Source", Resource: "fog1"},
		{Step: "Work", Resource: "r1"},
	}

	m := cfg.ForcedMap()
	assert.Equal(t, "fog1", m["Source"])
	assert.Equal(t, "r1", m["Work"])
}

func TestForcedMap_EmptyReturnsNil(t *testing.T) {
	cfg := config.New()
	assert.Nil(t, cfg.ForcedMap())
}
