package ingest

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/anonymousuni/cats/internal/dryrun"
	"github.com/anonymousuni/cats/internal/pipeline"
)

// DeploymentMetrics maps a lowercased (step name, resource name) pair to the
// observed average instance-start time in seconds (§12.1, "deployment-
// metrics provisioning override"), following read_deployment_metrics.
type DeploymentMetrics map[[2]string]float64

// ParseDeploymentMetricsCSV reads the deployment-metrics table (§6): one row
// per (step, resource) with the average instance-start time observed for it.
func ParseDeploymentMetricsCSV(path string) (DeploymentMetrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open deployment metrics csv: %w", err)
	}
	defer f.Close()

	rows, err := readDictRows(f)
	if err != nil {
		return nil, fmt.Errorf("ingest: read deployment metrics csv: %w", err)
	}

	out := make(DeploymentMetrics, len(rows))
	var errs error
	for i, row := range rows {
		seconds, err := parseFloat(row["average_instance_start_time_seconds"])
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("ingest: deployment_metrics.csv row %d: %w", i+2, err))
			continue
		}
		key := [2]string{strings.ToLower(row["step_name"]), strings.ToLower(row["node_name"])}
		out[key] = seconds
	}
	return out, errs
}

// stepMetricRow is one row of the step-metrics table (§6): dry-run-id,
// step-name, resource-name, input/output counts and volumes (bytes), and the
// transmission/processing durations observed during that dry run (ms).
type stepMetricRow struct {
	DryRunID            int
	StepName            string `validate:"required"`
	ResourceName        string `validate:"required"`
	NumInputs           int
	InputDataVolume     float64 `validate:"gte=0"`
	NumOutputs          int
	OutputDataVolume    float64 `validate:"gte=0"`
	DataTransmissionTime float64 `validate:"gte=0"`
	StepProcessingTime  float64 `validate:"gte=0"`
}

func parseStepMetricRow(row map[string]string) (stepMetricRow, error) {
	var sm stepMetricRow
	sm.StepName = row["STEP_NAME"]
	sm.ResourceName = row["RESOURCE_NAME"]

	var err error
	if sm.DryRunID, err = parseInt(row["DRY_RUN_ID"]); err != nil {
		return sm, fmt.Errorf("DRY_RUN_ID: %w", err)
	}
	if sm.NumInputs, err = parseInt(row["NUM_INPUTS"]); err != nil {
		return sm, fmt.Errorf("NUM_INPUTS: %w", err)
	}
	if sm.InputDataVolume, err = parseFloat(row["INPUT_DATA_VOLUME"]); err != nil {
		return sm, fmt.Errorf("INPUT_DATA_VOLUME: %w", err)
	}
	if sm.NumOutputs, err = parseInt(row["NUM_OUTPUTS"]); err != nil {
		return sm, fmt.Errorf("NUM_OUTPUTS: %w", err)
	}
	if sm.OutputDataVolume, err = parseFloat(row["OUTPUT_DATA_VOLUME"]); err != nil {
		return sm, fmt.Errorf("OUTPUT_DATA_VOLUME: %w", err)
	}
	if sm.DataTransmissionTime, err = parseFloat(row["DATA_TRANSMISSION_TIME"]); err != nil {
		return sm, fmt.Errorf("DATA_TRANSMISSION_TIME: %w", err)
	}
	if sm.StepProcessingTime, err = parseFloat(row["STEP_PROCESSING_TIME"]); err != nil {
		return sm, fmt.Errorf("STEP_PROCESSING_TIME: %w", err)
	}
	if err := validate.Struct(sm); err != nil {
		return sm, err
	}
	return sm, nil
}

// stepPerformanceRow is one row of the step-performance-metrics table (§6):
// the CPU/memory samples taken for a (dry-run, step, resource) triple.
// AVG_CPU/MAX_CPU/MAX_MEM may be blank (a step with no sampled performance,
// e.g. a DataSource), which parses to 0.
type stepPerformanceRow struct {
	DryRunID     int
	StepName     string `validate:"required"`
	ResourceName string `validate:"required"`
	AvgCPU       float64
	MaxCPU       float64
	MaxMem       float64
}

func parseStepPerformanceRow(row map[string]string) (stepPerformanceRow, error) {
	var sp stepPerformanceRow
	sp.StepName = row["STEP_NAME"]
	sp.ResourceName = row["RESOURCE_NAME"]

	var err error
	if sp.DryRunID, err = parseInt(row["DRY_RUN_ID"]); err != nil {
		return sp, fmt.Errorf("DRY_RUN_ID: %w", err)
	}
	if sp.AvgCPU, err = parseFloat(row["AVG_CPU"]); err != nil {
		return sp, fmt.Errorf("AVG_CPU: %w", err)
	}
	if sp.MaxCPU, err = parseFloat(row["MAX_CPU"]); err != nil {
		return sp, fmt.Errorf("MAX_CPU: %w", err)
	}
	if sp.MaxMem, err = parseFloat(row["MAX_MEM"]); err != nil {
		return sp, fmt.Errorf("MAX_MEM: %w", err)
	}
	if err := validate.Struct(sp); err != nil {
		return sp, err
	}
	return sp, nil
}

const bytesPerMB = 1024 * 1024
const msPerSecond = 1000.0

// sourceNames returns every DataSource step name in p.
func sourceNames(p *pipeline.Pipeline) []string {
	var out []string
	for _, s := range p.Steps() {
		if s.Kind == pipeline.KindDataSource {
			out = append(out, s.Name)
		}
	}
	return out
}

// directDownstreamOfSource maps every step name directly connected downstream
// of a DataSource to that source's name, so a step-metrics row for it can
// also synthesize the source's own dry-run sample (§12.2).
func directDownstreamOfSource(p *pipeline.Pipeline) map[string]string {
	sources := make(map[string]bool)
	for _, name := range sourceNames(p) {
		sources[name] = true
	}

	out := make(map[string]string)
	for _, c := range p.Connections() {
		if sources[c.Source] {
			out[c.Target] = c.Source
		}
	}
	return out
}

// SyntheticSourceDryRun builds the zero-processing dry-run sample a
// DataSource step needs but never has measurements of its own for (§12.2):
// a source performs no processing, so its only meaningful observation is
// the total pipeline input volume that enters through it. provisioning is
// fixed at 1 second, mirroring populate_dry_runs' zero_timeline placeholder
// (a DataSource is never actually provisioned from cold, but the timeline
// model requires a positive provisioning duration to anchor its start).
func SyntheticSourceDryRun(sourceStep, resource string, inputVolumeMB float64) dryrun.StepResult {
	return dryrun.StepResult{
		Step:                sourceStep,
		Resource:            resource,
		InputVolumeMB:       inputVolumeMB,
		ProvisioningSeconds: 1.0,
	}
}

// BuildCorpus reads the step-metrics, step-performance-metrics, and
// deployment-metrics CSVs and assembles a dryrun.Corpus keyed against p's
// step names, following populate_dry_runs. forced maps a DataSource step
// name to the resource it is forced onto (§12.2); a step-metrics row whose
// step is the direct downstream target of a DataSource also synthesizes a
// zero-timeline dry run for that source, using the row's own resource when
// the source has no forced deployment.
func BuildCorpus(stepMetricsPath, stepPerformanceMetricsPath, deploymentMetricsPath string, p *pipeline.Pipeline, forced map[string]string) (*dryrun.Corpus, error) {
	deployment, err := ParseDeploymentMetricsCSV(deploymentMetricsPath)
	if err != nil {
		return nil, err
	}

	stepMetricRows, err := readCSVRows(stepMetricsPath)
	if err != nil {
		return nil, fmt.Errorf("ingest: read step metrics csv: %w", err)
	}
	perfRows, err := readCSVRows(stepPerformanceMetricsPath)
	if err != nil {
		return nil, fmt.Errorf("ingest: read step performance metrics csv: %w", err)
	}

	downstreamOfSource := directDownstreamOfSource(p)
	sourceStepNames := sourceNames(p)
	runs := make(map[int]*dryrun.Run)
	getRun := func(id int) *dryrun.Run {
		if _, ok := runs[id]; !ok {
			runs[id] = dryrun.NewRun(sourceStepNames)
		}
		return runs[id]
	}

	var errs error
	for i, row := range stepMetricRows {
		sm, err := parseStepMetricRow(row)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("ingest: step_metrics.csv row %d: %w", i+2, err))
			continue
		}
		if _, ok := p.Step(sm.StepName); !ok {
			continue
		}

		run := getRun(sm.DryRunID)

		provisioning := deployment[[2]string{strings.ToLower(sm.StepName), strings.ToLower(sm.ResourceName)}]

		if sourceName, ok := downstreamOfSource[sm.StepName]; ok {
			sourceResource := sm.ResourceName
			if r, ok := forced[sourceName]; ok {
				sourceResource = r
			}
			if err := run.AddStepResult(SyntheticSourceDryRun(sourceName, sourceResource, sm.InputDataVolume/bytesPerMB)); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("ingest: synthetic source dry run for %q: %w", sourceName, err))
			}
		}

		if err := run.AddStepResult(dryrun.StepResult{
			Step:     sm.StepName,
			Resource: sm.ResourceName,

			NumInputs:     sm.NumInputs,
			InputVolumeMB: sm.InputDataVolume / bytesPerMB,
			NumOutputs:    sm.NumOutputs,

			AvgOutputSizeMB: sm.OutputDataVolume / bytesPerMB / float64(max1(sm.NumOutputs)),

			ProvisioningSeconds: provisioning,
			TransmissionSeconds: sm.DataTransmissionTime / msPerSecond,
			ProcessingSeconds:   sm.StepProcessingTime / msPerSecond,
		}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("ingest: step_metrics.csv row %d: %w", i+2, err))
		}
	}

	for i, row := range perfRows {
		sp, err := parseStepPerformanceRow(row)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("ingest: step_performance_metrics.csv row %d: %w", i+2, err))
			continue
		}
		run, ok := runs[sp.DryRunID]
		if !ok {
			continue
		}
		for j := range run.StepResults {
			if run.StepResults[j].Step == sp.StepName && run.StepResults[j].Resource == sp.ResourceName {
				run.StepResults[j].AvgCPUPercent = sp.AvgCPU
				run.StepResults[j].MaxCPUPercent = sp.MaxCPU
				run.StepResults[j].MaxMemoryMB = sp.MaxMem
			}
		}
	}

	corpus := &dryrun.Corpus{}
	for _, run := range runs {
		corpus.Runs = append(corpus.Runs, run)
	}
	return corpus, errs
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func readCSVRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readDictRows(f)
}
