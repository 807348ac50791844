package candidate

import "github.com/anonymousuni/cats/internal/timeline"

// buildPlan builds the full-level placement for one (seed, permutation,
// resource assignment) combination, then tries replicating each scalable
// step in the permutation at its computed max_scale (§4.4 steps 4-6). It
// returns whichever of the unscaled timeline or a scaled variant scores
// lower; nil, nil means the whole plan was infeasible or pruned, which the
// caller treats as "no candidate", not an error.
func (e *Engine) buildPlan(seed *timeline.Timeline, perm []string, assign map[string]string, pruneAbove float64) (*scoredTimeline, error) {
	unscaled, err := e.insertSequential(seed, perm, assign, nil, pruneAbove)
	if err != nil {
		return nil, err
	}
	if unscaled == nil {
		return nil, nil
	}
	best := unscaled

	if e.scalingAllowed() {
		for _, step := range perm {
			if !e.pipe.IsScalable(step) {
				continue
			}
			scaled, err := e.insertSequential(seed, perm, assign, map[string]bool{step: true}, pruneAbove)
			if err != nil {
				return nil, err
			}
			// Scaling-vs-unscaled pruning (§4.4 step 6): only keep the
			// scaled variant if it actually beats the unscaled baseline.
			if scaled != nil && scaled.score < best.score {
				best = scaled
			}
		}
	}
	return best, nil
}

func (e *Engine) scalingAllowed() bool {
	return e.cfg.MaxScalability == 0 || e.cfg.MaxScalability > 1
}

// insertSequential clones seed and inserts every step of perm in order,
// replicating any step named in scaleSteps into its computed max_scale
// concurrent instances. Returns nil, nil if a step has no feasible
// placement (non-schedulable resource, no dry-run samples, no bandwidth)
// or the running partial score already exceeds pruneAbove (pruneAbove < 0
// means no bound yet).
func (e *Engine) insertSequential(seed *timeline.Timeline, perm []string, assign map[string]string, scaleSteps map[string]bool, pruneAbove float64) (*scoredTimeline, error) {
	tl := seed.Clone()

	for _, step := range perm {
		pipelineStep, ok := e.pipe.Step(step)
		if !ok {
			return nil, nil
		}

		resourceName := assign[step]
		if forced, ok := e.cfg.Forced[step]; ok {
			resourceName = forced
		}
		res, ok := e.cat.Get(resourceName)
		if !ok {
			return nil, nil
		}
		if _, forced := e.cfg.Forced[step]; !res.IsSchedulable() && !forced {
			return nil, nil // §8 invariant 4: schedulability, forced deployments exempt
		}

		prereqEvents := e.prerequisiteEvents(tl, step)
		pacing, havePacing := timeline.StepWithLatestFinish(prereqEvents)
		previousResource := ""
		if havePacing {
			previousResource = pacing.Reservation.Resource
		}

		baseEst, err := e.est.Estimate(pipelineStep, res, previousResource, e.cfg.InputVolumeMB)
		if err != nil {
			return nil, nil // §7, "estimation gaps": silently drop the placement
		}

		replicas := 1
		if scaleSteps[step] {
			if r := e.computeScale(tl, baseEst); r > 1 {
				replicas = r
			}
		}

		if replicas <= 1 {
			ev, err := e.placeEvent(tl, pipelineStep, res, baseEst, previousResource, havePacing, pacing, 1)
			if err != nil {
				return nil, nil
			}
			tl.Insert(ev)
		} else {
			totalInputs := consumerInputCount(baseEst.Timeline)
			parts := partitionInputs(totalInputs, replicas)
			for i := 0; i < replicas; i++ {
				share := e.cfg.InputVolumeMB
				if totalInputs > 0 {
					share = e.cfg.InputVolumeMB * float64(parts[i]) / float64(totalInputs)
				}
				replicaEst, err := e.est.Estimate(pipelineStep, res, previousResource, share)
				if err != nil {
					return nil, nil
				}
				// Instance i (0-based) is the (i+1)-th concurrent consumer
				// of the upstream producer's output stream.
				ev, err := e.placeEvent(tl, pipelineStep, res, replicaEst, previousResource, havePacing, pacing, i+1)
				if err != nil {
					return nil, nil
				}
				tl.Insert(ev)
			}
		}

		if pruneAbove >= 0 {
			if e.Score(tl) > pruneAbove {
				return nil, nil
			}
		}
	}

	return &scoredTimeline{tl: tl, score: e.Score(tl)}, nil
}
