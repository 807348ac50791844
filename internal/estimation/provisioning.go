package estimation

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/anonymousuni/cats/internal/dryrun"
)

// provisioningModel is a fitted, center/scaled NNLS regression of
// provisioning seconds against pipeline input volume (§4.2, "provisioning
// time estimation"). Center/scale normalization keeps the gradient descent
// in nnlsLine numerically stable regardless of whether volumes are
// measured in tens or millions of megabytes.
type provisioningModel struct {
	meanX, stdX float64
	a, b        float64 // fitted in normalized space
}

func fitProvisioning(samples []dryrun.StepResult) (provisioningModel, error) {
	if len(samples) == 0 {
		return provisioningModel{}, fmt.Errorf("estimation: no samples to fit provisioning model")
	}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.PipelineInputVolumeMB
		ys[i] = s.ProvisioningSeconds
	}
	return fitNormalizedNNLS(xs, ys)
}

// fitProcessing fits the same center/scaled NNLS model against processing
// seconds instead of provisioning seconds, for Batch steps (§4.2,
// "processing time estimation").
func fitProcessing(samples []dryrun.StepResult) (provisioningModel, error) {
	if len(samples) == 0 {
		return provisioningModel{}, fmt.Errorf("estimation: no samples to fit processing model")
	}
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.PipelineInputVolumeMB
		ys[i] = s.ProcessingSeconds
	}
	return fitNormalizedNNLS(xs, ys)
}

func fitNormalizedNNLS(xs, ys []float64) (provisioningModel, error) {
	meanX, err := stats.Mean(xs)
	if err != nil {
		return provisioningModel{}, fmt.Errorf("estimation: mean: %w", err)
	}
	stdX, err := stats.StandardDeviation(xs)
	if err != nil {
		return provisioningModel{}, fmt.Errorf("estimation: stddev: %w", err)
	}
	if stdX == 0 {
		stdX = 1 // every sample had the same x value; avoid division by zero
	}

	normX := make([]float64, len(xs))
	for i, x := range xs {
		normX[i] = (x - meanX) / stdX
	}

	a, b := nnlsLine(normX, ys)
	return provisioningModel{meanX: meanX, stdX: stdX, a: a, b: b}, nil
}

// Predict returns the estimated provisioning seconds for inputVolumeMB,
// clamped to non-negative since provisioning cannot take negative time.
func (m provisioningModel) Predict(inputVolumeMB float64) float64 {
	normX := (inputVolumeMB - m.meanX) / m.stdX
	pred := m.a*normX + m.b
	if pred < 0 {
		return 0
	}
	return pred
}
