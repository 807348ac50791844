package estimation

import "math"

// countModel predicts an integer-valued quantity (number of outputs,
// number of inputs) from input volume via the same center/scale NNLS fit
// used for provisioning time (§4.2, "input/output-count regression").
type countModel struct {
	inner provisioningModel
}

func fitCount(xs, ys []float64) countModel {
	meanX, stdX := meanOf(xs), math.Sqrt(variance(xs))
	if stdX == 0 {
		stdX = 1
	}
	normX := make([]float64, len(xs))
	for i, x := range xs {
		normX[i] = (x - meanX) / stdX
	}
	a, b := nnlsLine(normX, ys)
	return countModel{inner: provisioningModel{meanX: meanX, stdX: stdX, a: a, b: b}}
}

// Predict rounds up to the next integer, floored at 1: every streaming
// step produces or consumes at least one unit once it runs at all.
func (m countModel) Predict(inputVolumeMB float64) int {
	n := int(math.Ceil(m.inner.Predict(inputVolumeMB)))
	if n < 1 {
		return 1
	}
	return n
}
