package candidate

import "math"

// scaleFor computes the maximum useful replication of a scalable step
// (§4.4 step 4). consumerOwnTime is the consumer's own estimated
// (processing + transmission) time if a single instance handled the
// pipeline's entire target volume; producerAvgTimePerOutput is the pace at
// which its upstream async producer emits outputs; consumerTotalInputs is
// the consumer's own estimated total input count. The result is capped by
// both the producer's total output count and the configured
// maxScalability.
func scaleFor(consumerOwnTime, producerAvgTimePerOutput float64, consumerTotalInputs, producerTotalOutputs, maxScalability int) int {
	if producerAvgTimePerOutput <= 0 {
		return 1
	}
	scale := int(math.Ceil(consumerOwnTime / producerAvgTimePerOutput))
	if scale < 1 {
		scale = 1
	}
	if producerTotalOutputs > 0 && producerTotalOutputs < scale {
		scale = producerTotalOutputs
	}
	if consumerTotalInputs > 0 && consumerTotalInputs < scale {
		scale = consumerTotalInputs
	}
	if maxScalability > 1 && maxScalability < scale {
		scale = maxScalability
	}
	if scale < 1 {
		scale = 1
	}
	return scale
}

// partitionInputs splits totalInputs across replicas by greedy ceiling
// division: every replica but the last gets ceil(total/replicas); the last
// gets whatever remains (§4.4 step 4).
func partitionInputs(totalInputs, replicas int) []int {
	if replicas <= 0 {
		return nil
	}
	perReplica := int(math.Ceil(float64(totalInputs) / float64(replicas)))
	out := make([]int, replicas)
	remaining := totalInputs
	for i := 0; i < replicas; i++ {
		if i == replicas-1 {
			out[i] = remaining
			continue
		}
		out[i] = perReplica
		remaining -= perReplica
		if remaining < 0 {
			remaining = 0
		}
	}
	return out
}
