package estimation

import "github.com/anonymousuni/cats/internal/dryrun"

// regressionTree is a bounded-depth decision-tree regressor: a substitute
// for the random-forest regressor the spec allows swapping out (§4.2, "a
// simpler bounded-depth estimator may be substituted"). No example repo in
// the corpus ships a forest/tree regressor, so this is hand-rolled
// (justified in DESIGN.md) — the tree only ever splits on one feature
// (input volume) and is capped at depth 3, which keeps it well short of
// reimplementing a general learning library.
type regressionTree struct {
	isLeaf     bool
	value      float64
	threshold  float64
	left, right *regressionTree
}

const maxTreeDepth = 3

func fitRegressionTree(xs, ys []float64, depth int) *regressionTree {
	if len(ys) == 0 {
		return &regressionTree{isLeaf: true, value: 0}
	}
	mean := meanOf(ys)
	if depth >= maxTreeDepth || len(ys) < 4 {
		return &regressionTree{isLeaf: true, value: mean}
	}

	bestThreshold, bestVariance := 0.0, variance(ys)
	found := false
	for _, candidate := range xs {
		var leftYs, rightYs []float64
		for i, x := range xs {
			if x <= candidate {
				leftYs = append(leftYs, ys[i])
			} else {
				rightYs = append(rightYs, ys[i])
			}
		}
		if len(leftYs) == 0 || len(rightYs) == 0 {
			continue
		}
		weighted := (float64(len(leftYs))*variance(leftYs) + float64(len(rightYs))*variance(rightYs)) / float64(len(ys))
		if !found || weighted < bestVariance {
			bestVariance, bestThreshold, found = weighted, candidate, true
		}
	}
	if !found {
		return &regressionTree{isLeaf: true, value: mean}
	}

	var leftXs, leftYs, rightXs, rightYs []float64
	for i, x := range xs {
		if x <= bestThreshold {
			leftXs = append(leftXs, x)
			leftYs = append(leftYs, ys[i])
		} else {
			rightXs = append(rightXs, x)
			rightYs = append(rightYs, ys[i])
		}
	}
	return &regressionTree{
		isLeaf:    false,
		threshold: bestThreshold,
		left:      fitRegressionTree(leftXs, leftYs, depth+1),
		right:     fitRegressionTree(rightXs, rightYs, depth+1),
	}
}

func (t *regressionTree) Predict(x float64) float64 {
	if t.isLeaf {
		return t.value
	}
	if x <= t.threshold {
		return t.left.Predict(x)
	}
	return t.right.Predict(x)
}

func meanOf(ys []float64) float64 {
	var sum float64
	for _, y := range ys {
		sum += y
	}
	return sum / float64(len(ys))
}

func variance(ys []float64) float64 {
	if len(ys) == 0 {
		return 0
	}
	m := meanOf(ys)
	var sum float64
	for _, y := range ys {
		sum += (y - m) * (y - m)
	}
	return sum / float64(len(ys))
}

// resourceUsageModel predicts CPU and memory reservation sizes from input
// volume, one tree per target metric.
type resourceUsageModel struct {
	cpu *regressionTree
	mem *regressionTree
}

func fitResourceUsage(samples []dryrun.StepResult) resourceUsageModel {
	xs := make([]float64, len(samples))
	cpuYs := make([]float64, len(samples))
	memYs := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.PipelineInputVolumeMB
		cpuYs[i] = (s.AvgCPUPercent + s.MaxCPUPercent) / 2
		memYs[i] = s.MaxMemoryMB
	}
	return resourceUsageModel{
		cpu: fitRegressionTree(xs, cpuYs, 0),
		mem: fitRegressionTree(xs, memYs, 0),
	}
}

func (m resourceUsageModel) Predict(inputVolumeMB float64) (cpuPercent, memoryMB float64) {
	return m.cpu.Predict(inputVolumeMB), m.mem.Predict(inputVolumeMB)
}
