package estimation

// nnlsLine fits y = a*x + b with both a, b >= 0 using projected gradient
// descent. No example repo in the corpus ships a non-negative least squares
// routine, so this is hand-rolled (justified in DESIGN.md): the amount of
// code needed for a bounded 2-coefficient fit is small enough that pulling
// in a full NNLS/optimization dependency wasn't worth it, unlike the
// normalization step, which does reuse montanaflynn/stats.
func nnlsLine(xs, ys []float64) (a, b float64) {
	n := len(xs)
	if n == 0 {
		return 0, 0
	}

	// Callers pass centered/scaled xs, so a step of 0.1 converges well within
	// the iteration budget.
	lr := 0.1
	for iter := 0; iter < 2000; iter++ {
		var gradA, gradB float64
		for i := range xs {
			pred := a*xs[i] + b
			err := pred - ys[i]
			gradA += err * xs[i]
			gradB += err
		}
		gradA /= float64(n)
		gradB /= float64(n)
		a -= lr * gradA
		b -= lr * gradB
		if a < 0 {
			a = 0
		}
		if b < 0 {
			b = 0
		}
	}
	return a, b
}
