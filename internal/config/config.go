// Package config defines the runtime configuration model and helpers.
package config

import "fmt"

// ForcedDeployment pins a step to a resource regardless of what the search
// would otherwise choose (§9, scenario E4).
type ForcedDeployment struct {
	Step     string `mapstructure:"step" yaml:"step"`
	Resource string `mapstructure:"resource" yaml:"resource"`
}

// DefaultWorkers is the worker-pool size used when the user does not set
// --workers, CATS_WORKERS, or a `workers` YAML key (§5, "≈12 worker
// threads").
const DefaultWorkers = 12

// DefaultOutputDir is where timeline CSVs land when --output-dir is unset.
const DefaultOutputDir = "."

// Config is the fully-resolved, immutable runtime configuration for a single
// `cats schedule` invocation.
//
// All fields have zero-value semantics that mean "not set" so the precedence
// resolver can tell a value came from a lower tier (e.g. YAML) apart from one
// supplied by a higher-priority source (flag/env). Use `mapstructure` tags so
// Viper can unmarshal regardless of source; `validate` tags enforce the
// configuration-error class from §7 ("Deadline/Budget/InputVolumeMB must be
// positive").
type Config struct {
	Deadline      float64 `mapstructure:"deadline" yaml:"deadline" validate:"gt=0"`
	Budget        float64 `mapstructure:"budget" yaml:"budget" validate:"gt=0"`
	InputVolumeMB float64 `mapstructure:"inputVolumeMB" yaml:"inputVolumeMB" validate:"gt=0"`

	MaxScalability int `mapstructure:"maxScalability" yaml:"maxScalability" validate:"gte=0"`

	PipelineYAML string `mapstructure:"pipelineYaml" yaml:"pipelineYaml" validate:"required"`

	ResourcesCSV           string `mapstructure:"resourcesCsv" yaml:"resourcesCsv" validate:"required"`
	StepMetricsCSV         string `mapstructure:"stepMetricsCsv" yaml:"stepMetricsCsv" validate:"required"`
	PerformanceMetricsCSV  string `mapstructure:"performanceMetricsCsv" yaml:"performanceMetricsCsv"`
	DeploymentMetricsCSV   string `mapstructure:"deploymentMetricsCsv" yaml:"deploymentMetricsCsv"`

	ForcedDeployments []ForcedDeployment `mapstructure:"forcedDeployments" yaml:"forcedDeployments"`

	OutputDir        string `mapstructure:"outputDir" yaml:"outputDir"`
	DisplayTimelines bool   `mapstructure:"displayTimelines" yaml:"displayTimelines"`

	Workers int `mapstructure:"workers" yaml:"workers" validate:"gte=1"`
}

// New returns a Config populated with builtin defaults. Callers should
// subsequently merge flag/env/YAML values on top.
func New() *Config {
	return &Config{
		OutputDir: DefaultOutputDir,
		Workers:   DefaultWorkers,
	}
}

// ForcedMap returns ForcedDeployments as the step->resource map the
// scheduler package expects.
func (c *Config) ForcedMap() map[string]string {
	if len(c.ForcedDeployments) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.ForcedDeployments))
	for _, fd := range c.ForcedDeployments {
		out[fd.Step] = fd.Resource
	}
	return out
}

// Validate performs sanity checks after the full precedence merge, beyond
// what the validator struct tags already enforce.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, fd := range c.ForcedDeployments {
		if fd.Step == "" || fd.Resource == "" {
			return fmt.Errorf("config: forced deployment entries require both step and resource")
		}
	}
	return nil
}
