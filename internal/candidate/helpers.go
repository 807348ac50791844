package candidate

import (
	"fmt"

	"github.com/anonymousuni/cats/internal/pipeline"
	"github.com/anonymousuni/cats/internal/resources"
	"github.com/anonymousuni/cats/internal/timeline"
)

// prerequisiteEvents collects the already-placed events of step's direct
// prerequisites within tl (across the seed timeline and whatever this plan
// has inserted so far).
func (e *Engine) prerequisiteEvents(tl *timeline.Timeline, step string) []timeline.Event {
	var out []timeline.Event
	for _, dep := range e.pipe.InDependencies(step) {
		if ev := findEventByStep(tl, dep.Prerequisite); ev != nil {
			out = append(out, *ev)
		}
	}
	return out
}

// findEventByStep returns the last (by timeline order) event for the named
// step, or nil if none is placed yet.
func findEventByStep(tl *timeline.Timeline, step string) *timeline.Event {
	var found *timeline.Event
	for i := range tl.Events {
		if tl.Events[i].Step == step {
			ev := tl.Events[i]
			found = &ev
		}
	}
	return found
}

// placeEvent computes the earliest feasible start for est on res given the
// pacing prerequisite (if any), queries the timeline for an available slot,
// and returns the resulting event (not yet inserted). scaleLevel is this
// replica's 1-based position among the step's concurrent instances (1 for
// an unscaled placement), threaded into SyncPosition so instance k doesn't
// start before the producer has emitted k outputs (§4.3, §8 invariant 2).
func (e *Engine) placeEvent(tl *timeline.Timeline, step pipeline.Step, res resources.Resource, est timeline.StepEstimation, previousResource string, havePacing bool, pacing timeline.Event, scaleLevel int) (timeline.Event, error) {
	earliestStart := 0.0
	if havePacing {
		earliestStart = timeline.SyncPosition(pacing, scaleLevel) - est.Timeline.ProvisioningSeconds()
	}
	position := tl.EarliestAvailable(res, earliestStart, est.Timeline.TotalTime(), est.CPUPercent, est.MemoryMB)
	if position < 0 {
		return timeline.Event{}, fmt.Errorf("candidate: negative slot for %s", step.Name)
	}
	return timeline.Event{
		Step:     step.Name,
		Position: position,
		Reservation: timeline.Reservation{
			Resource:   res.Name,
			CPUPercent: est.CPUPercent,
			MemoryMB:   est.MemoryMB,
		},
		Estimation:       est,
		PreviousResource: previousResource,
	}, nil
}

// computeScale resolves the scalable step's upstream async producer from
// the timeline built so far and computes its max_scale (§4.4 step 4). If
// the producer isn't placed yet, or isn't a Producer-shaped timeline,
// scaling can't be evaluated this round and 1 (unscaled) is returned.
func (e *Engine) computeScale(tl *timeline.Timeline, consumerEst timeline.StepEstimation) int {
	producerName, ok := e.pipe.AsyncPrerequisite(consumerEst.Step)
	if !ok {
		return 1
	}
	producerEvent := findEventByStep(tl, producerName)
	if producerEvent == nil {
		return 1
	}
	producerTimeline, ok := producerEvent.Estimation.Timeline.(timeline.Producer)
	if !ok {
		return 1
	}

	consumerOwnTime := consumerEst.Timeline.TotalTime() - consumerEst.Timeline.ProvisioningSeconds()
	consumerInputs := consumerInputCount(consumerEst.Timeline)

	return scaleFor(consumerOwnTime, producerTimeline.AvgTimePerOutput, consumerInputs, producerTimeline.NumOutputs, e.cfg.MaxScalability)
}

// consumerInputCount extracts NumInputs from a Consumer-shaped estimate,
// or 0 if est isn't one (e.g. a Sink, which has its own NumInputs field
// handled separately by its csvout/timeline consumers).
func consumerInputCount(est timeline.Estimate) int {
	if c, ok := est.(timeline.Consumer); ok {
		return c.NumInputs
	}
	return 0
}
