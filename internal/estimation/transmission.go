package estimation

import (
	"fmt"

	"github.com/anonymousuni/cats/internal/dryrun"
	"github.com/anonymousuni/cats/internal/resources"
)

// ErrNoBandwidth is returned when the context-aware estimator is asked for
// a placement between two resources the network graph has no edge for;
// that placement must be skipped by the caller (§4.2, the resolved
// null-vs-zero bandwidth open question).
var ErrNoBandwidth = fmt.Errorf("estimation: no network path between resources")

// transmissionModel is a weighted linear regression, through the origin, of
// transmission seconds against pipeline input volume, each sample weighted
// by its pipeline input volume: larger dry-run samples are weighted more
// heavily since they better represent the pipeline's steady state than
// small warm-up runs (§4.2, "data-transmission time estimation").
// montanaflynn/stats has no weighted-regression entry point, so the
// weighting itself is hand-rolled here; the NNLS column normalization in
// fitNormalizedNNLS is the part that goes through the library.
type transmissionModel struct {
	secondsPerMB float64
}

func fitTransmission(samples []dryrun.StepResult) transmissionModel {
	var weightedNum, weightedDen float64
	for _, s := range samples {
		w := s.PipelineInputVolumeMB
		weightedNum += w * s.PipelineInputVolumeMB * s.TransmissionSeconds
		weightedDen += w * s.PipelineInputVolumeMB * s.PipelineInputVolumeMB
	}
	if weightedDen == 0 {
		return transmissionModel{}
	}
	return transmissionModel{secondsPerMB: weightedNum / weightedDen}
}

// PredictContextFree estimates transmission seconds purely from historical
// throughput, ignoring which resource the data is coming from.
func (m transmissionModel) PredictContextFree(inputVolumeMB float64) float64 {
	return m.secondsPerMB * inputVolumeMB
}

// PredictContextAware estimates transmission seconds from the network
// graph's measured bandwidth between the previous and current resource,
// converting megabytes to megabits (*8) and dividing by Mbps. stepInputVolumeMB
// is the step's own estimated input volume (see fitStepInputVolume), not the
// pipeline's total input volume. Returns ErrNoBandwidth if the two resources
// have no edge.
func PredictContextAware(network *resources.NetworkGraph, fromResource, toResource string, stepInputVolumeMB float64) (float64, error) {
	mbps, ok := network.Bandwidth(fromResource, toResource)
	if !ok {
		return 0, ErrNoBandwidth
	}
	if mbps == 0 {
		return 0, nil // identity edge: nothing to transmit
	}
	return (stepInputVolumeMB * 8) / mbps, nil
}

// fitStepInputVolume fits the step's own input volume against the pipeline's
// total input volume via NNLS (§4.2, "estimated step-input-volume"):
// downstream steps in a fan-out/fan-in pipeline see a different volume than
// the pipeline as a whole, so the context-aware transmission estimate must
// predict that step-level volume rather than reusing the pipeline's.
func fitStepInputVolume(samples []dryrun.StepResult) (provisioningModel, error) {
	if len(samples) == 0 {
		return provisioningModel{}, fmt.Errorf("estimation: no samples to fit step input volume model")
	}
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.PipelineInputVolumeMB
		ys[i] = s.InputVolumeMB
	}
	return fitNormalizedNNLS(xs, ys)
}
