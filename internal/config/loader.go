package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

var validate = validator.New()

// envFileVar names the environment variable pointing at an optional .env
// file to load before viper's environment pass (§10).
const envFileVar = "CATS_ENV_FILE"

// Load constructs a new *Config by merging (in increasing precedence order):
//  1. built-in defaults (see New())
//  2. an optional .env file (default ".env" in the working directory,
//     override via CATS_ENV_FILE)
//  3. YAML config file (override via --config / CATS_CONFIG_FILE)
//  4. environment variables prefixed with CATS_
//  5. command-line flags bound on the provided *cobra.Command
//
// The resulting configuration is validated before being returned. Pass nil
// for cmd if you do not wish to bind flags (e.g., in tests).
func Load(cmd *cobra.Command, explicitPath string) (*Config, error) {
	cfg := New()

	loadDotEnv()

	v := viper.New()

	v.SetDefault("outputDir", cfg.OutputDir)
	v.SetDefault("workers", cfg.Workers)

	if explicitPath == "" {
		explicitPath = os.Getenv("CATS_CONFIG_FILE")
	}
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("CATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		_ = v.BindPFlags(cmd.Flags())
		_ = v.BindPFlags(cmd.PersistentFlags())

		bind := func(key, name string) {
			if f := cmd.Flags().Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
		bind("deadline", "deadline")
		bind("budget", "budget")
		bind("inputVolumeMB", "input-volume-mb")
		bind("maxScalability", "max-scalability")
		bind("pipelineYaml", "pipeline")
		bind("resourcesCsv", "resources")
		bind("stepMetricsCsv", "step-metrics")
		bind("performanceMetricsCsv", "performance-metrics")
		bind("deploymentMetricsCsv", "deployment-metrics")
		bind("outputDir", "output-dir")
		bind("displayTimelines", "display_timelines")
		bind("workers", "workers")
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cmd != nil {
		if raw, _ := cmd.Flags().GetString("force"); raw != "" {
			forced, err := parseForced(raw)
			if err != nil {
				return nil, err
			}
			cfg.ForcedDeployments = forced
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDotEnv loads an optional .env file before the environment pass, the
// same bootstrap order the teacher uses for local credential files — here
// it lets a deployment pin CSV paths and defaults without a committed YAML
// file.
func loadDotEnv() {
	path := os.Getenv(envFileVar)
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = gotenv.Load(path)
}

// parseForced parses a "step=resource,step=resource" flag value into
// ForcedDeployment entries.
func parseForced(raw string) ([]ForcedDeployment, error) {
	var out []ForcedDeployment
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("config: invalid --force entry %q, expected step=resource", pair)
		}
		out = append(out, ForcedDeployment{Step: parts[0], Resource: parts[1]})
	}
	return out, nil
}
