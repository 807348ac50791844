// Package estimation fits regression models against the dry-run corpus and
// produces the typed StepEstimation timelines the candidate-schedule search
// consumes (§4.2, "Estimators").
package estimation

import (
	"fmt"

	"github.com/anonymousuni/cats/internal/dryrun"
	"github.com/anonymousuni/cats/internal/pipeline"
	"github.com/anonymousuni/cats/internal/resources"
	"github.com/anonymousuni/cats/internal/timeline"
)

// ErrNoSamples is returned when the corpus has no dry-run measurements for
// a (step, resource) pair; that placement must be skipped by the caller.
var ErrNoSamples = fmt.Errorf("estimation: no dry-run samples for this step/resource pair")

// Estimator fits and queries regression models over a fixed dry-run corpus,
// resource catalog, and network graph.
type Estimator struct {
	corpus  *dryrun.Corpus
	catalog *resources.Catalog
	network *resources.NetworkGraph
}

// New returns an Estimator backed by corpus, catalog, and network.
func New(corpus *dryrun.Corpus, catalog *resources.Catalog, network *resources.NetworkGraph) *Estimator {
	return &Estimator{corpus: corpus, catalog: catalog, network: network}
}

// Estimate produces the predicted timeline for step running on resource at
// inputVolumeMB, given the resource (if any) its input arrives from.
// previousResource == "" means the step has no prerequisite on this branch
// (its input arrives from outside the pipeline, or it is a DataSource).
func (e *Estimator) Estimate(step pipeline.Step, resource resources.Resource, previousResource string, inputVolumeMB float64) (timeline.StepEstimation, error) {
	samples := filterZeroPipelineVolume(e.corpus.ForStepResource(step.Name, resource.Name))
	if len(samples) == 0 {
		return timeline.StepEstimation{}, fmt.Errorf("%w: step=%s resource=%s", ErrNoSamples, step.Name, resource.Name)
	}

	provModel, err := fitProvisioning(samples)
	if err != nil {
		return timeline.StepEstimation{}, err
	}
	provisioning := provModel.Predict(inputVolumeMB)

	usage := fitResourceUsage(samples)
	cpuPercent, memoryMB := usage.Predict(inputVolumeMB)

	transmission, err := e.transmissionSeconds(samples, previousResource, resource.Name, inputVolumeMB)
	if err != nil {
		return timeline.StepEstimation{}, err
	}

	est, err := e.buildTimeline(step, samples, provisioning, transmission, inputVolumeMB)
	if err != nil {
		return timeline.StepEstimation{}, err
	}

	return timeline.StepEstimation{
		Step:             step.Name,
		Resource:         resource.Name,
		PreviousResource: previousResource,
		InputVolumeMB:    inputVolumeMB,
		Timeline:         est,
		CPUPercent:       cpuPercent,
		MemoryMB:         memoryMB,
	}, nil
}

// transmissionSeconds prefers the context-aware estimate (driven by the
// network graph's measured bandwidth) when the step has a known
// prerequisite resource, falling back to the context-free historical
// throughput fit otherwise (§4.2, "context-aware vs context-free
// transmission-time estimation").
func (e *Estimator) transmissionSeconds(samples []dryrun.StepResult, previousResource, resource string, inputVolumeMB float64) (float64, error) {
	if previousResource != "" {
		stepModel, err := fitStepInputVolume(samples)
		if err != nil {
			return 0, err
		}
		stepInputVolumeMB := stepModel.Predict(inputVolumeMB)
		seconds, err := PredictContextAware(e.network, previousResource, resource, stepInputVolumeMB)
		if err != nil {
			return 0, err
		}
		return seconds, nil
	}
	model := fitTransmission(samples)
	return model.PredictContextFree(inputVolumeMB), nil
}

func (e *Estimator) buildTimeline(step pipeline.Step, samples []dryrun.StepResult, provisioning, transmission, inputVolumeMB float64) (timeline.Estimate, error) {
	switch step.Kind {
	case pipeline.KindDataSource:
		return timeline.Source{Provisioning: provisioning}, nil

	case pipeline.KindDataSink:
		numInputs := fitCount(pipelineVolumes(samples), counts(samples, func(s dryrun.StepResult) float64 { return float64(s.NumInputs) })).Predict(inputVolumeMB)
		perInput := transmission / float64(max1(numInputs))
		return timeline.Sink{Provisioning: provisioning, NumInputs: numInputs, TransmissionPerInput: perInput}, nil

	case pipeline.KindBatch:
		procModel, err := fitProcessing(samples)
		if err != nil {
			return nil, err
		}
		return timeline.Batch{Provisioning: provisioning, Transmission: transmission, Processing: procModel.Predict(inputVolumeMB)}, nil

	case pipeline.KindProducer:
		numOutputs := fitCount(pipelineVolumes(samples), counts(samples, func(s dryrun.StepResult) float64 { return float64(s.NumOutputs) })).Predict(inputVolumeMB)
		avgPerOutput := avgProcessingPerOutput(samples)
		return timeline.Producer{Provisioning: provisioning, Transmission: transmission, NumOutputs: numOutputs, AvgTimePerOutput: avgPerOutput}, nil

	case pipeline.KindConsumer:
		numInputs := fitCount(pipelineVolumes(samples), counts(samples, func(s dryrun.StepResult) float64 { return float64(s.NumInputs) })).Predict(inputVolumeMB)
		numOutputs := fitCount(pipelineVolumes(samples), counts(samples, func(s dryrun.StepResult) float64 { return float64(s.NumOutputs) })).Predict(inputVolumeMB)
		avgTransmissionPerInput := transmission / float64(max1(numInputs))
		avgProcessingPerOutput := avgProcessingPerOutput(samples)
		return timeline.Consumer{
			Provisioning:            provisioning,
			NumInputs:               numInputs,
			AvgTransmissionPerInput: avgTransmissionPerInput,
			NumOutputs:              numOutputs,
			AvgProcessingPerOutput:  avgProcessingPerOutput,
		}, nil

	default:
		return nil, fmt.Errorf("estimation: unknown step kind %q", step.Kind)
	}
}

func pipelineVolumes(samples []dryrun.StepResult) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.PipelineInputVolumeMB
	}
	return out
}

func counts(samples []dryrun.StepResult, extract func(dryrun.StepResult) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = extract(s)
	}
	return out
}

// avgProcessingPerOutput is the mean observed processing-seconds-per-output
// across the corpus samples that produced at least one output.
func avgProcessingPerOutput(samples []dryrun.StepResult) float64 {
	var total float64
	var n int
	for _, s := range samples {
		if s.NumOutputs > 0 {
			total += s.ProcessingSeconds / float64(s.NumOutputs)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// filterZeroPipelineVolume drops samples recorded with a zero pipeline input
// volume (e.g. a synthetic dry run with no declared source), matching
// estimations.py filtering pipeline_input_volume != 0 before every fit: a
// zero-volume sample would otherwise skew the mean/normalization every
// regression in this package centers on.
func filterZeroPipelineVolume(samples []dryrun.StepResult) []dryrun.StepResult {
	out := make([]dryrun.StepResult, 0, len(samples))
	for _, s := range samples {
		if s.PipelineInputVolumeMB != 0 {
			out = append(out, s)
		}
	}
	return out
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
