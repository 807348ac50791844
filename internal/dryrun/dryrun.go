// Package dryrun models the historical performance-measurement corpus the
// estimators regress against (§3, "Dry-run corpus").
package dryrun

import "fmt"

// StepResult is one historical measurement of a step executing on a
// resource.
type StepResult struct {
	Step     string
	Resource string

	NumInputs       int
	InputVolumeMB   float64
	AvgCPUPercent   float64
	MaxCPUPercent   float64
	MaxMemoryMB     float64
	NumOutputs      int
	AvgOutputSizeMB float64

	// ProvisioningSeconds, TransmissionSeconds, ProcessingSeconds are the
	// raw timeline components observed during this dry run, used as
	// regression targets by internal/estimation.
	ProvisioningSeconds float64
	TransmissionSeconds float64
	ProcessingSeconds   float64

	// PipelineInputVolumeMB is the total pipeline input volume in effect
	// when this sample was recorded. Back-filled by Run.AddStepResult from
	// the DataSource samples in the same run.
	PipelineInputVolumeMB float64
}

// Run groups the per-step samples collected under one end-to-end execution,
// and the pipeline input volume shared across them.
type Run struct {
	StepResults          []StepResult
	pipelineInputVolume  float64
	isDataSource         map[string]bool // step names known to be DataSource, set by NewRun
}

// NewRun returns an empty Run. sourceSteps names the pipeline's DataSource
// steps, used to compute the pipeline input volume from their samples.
func NewRun(sourceSteps []string) *Run {
	marks := make(map[string]bool, len(sourceSteps))
	for _, s := range sourceSteps {
		marks[s] = true
	}
	return &Run{isDataSource: marks}
}

// AddStepResult appends a sample to the run, then back-fills
// PipelineInputVolumeMB on every sample in the run, matching
// DryRun.add_step_dry_run in the original.
func (r *Run) AddStepResult(sr StepResult) error {
	r.StepResults = append(r.StepResults, sr)
	vol, err := r.pipelineInputVolumeMB()
	if err != nil {
		return err
	}
	r.pipelineInputVolume = vol
	for i := range r.StepResults {
		r.StepResults[i].PipelineInputVolumeMB = vol
	}
	return nil
}

// pipelineInputVolumeMB sums InputVolumeMB across DataSource samples, once
// computed it is memoized (a positive value is never recomputed), mirroring
// get_dry_run_pipeline_input_volume.
func (r *Run) pipelineInputVolumeMB() (float64, error) {
	if r.pipelineInputVolume > 0 {
		return r.pipelineInputVolume, nil
	}
	if r.isDataSource == nil {
		return 0, fmt.Errorf("dryrun: run has no declared source steps")
	}
	var total float64
	for _, sr := range r.StepResults {
		if r.isDataSource[sr.Step] {
			total += sr.InputVolumeMB
		}
	}
	return total, nil
}

// Corpus is the full set of dry runs available to the estimators.
type Corpus struct {
	Runs []*Run
}

// ForStepResource returns every sample across every run for the given
// (step, resource) pair.
func (c *Corpus) ForStepResource(step, resource string) []StepResult {
	var out []StepResult
	for _, run := range c.Runs {
		for _, sr := range run.StepResults {
			if sr.Step == step && sr.Resource == resource {
				out = append(out, sr)
			}
		}
	}
	return out
}
