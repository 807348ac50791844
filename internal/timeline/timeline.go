// Package timeline models a single candidate schedule's event sequence on
// one branch of the pipeline (§4.3, "Timeline data structure"): the ordered
// list of step placements, their resource reservations, and the queries a
// candidate-schedule search needs to extend it (earliest open slot,
// synchronization position, accrued cost).
package timeline

import (
	"sort"

	"github.com/anonymousuni/cats/internal/resources"
)

// Reservation is the share of a resource's capacity an event holds for its
// duration.
type Reservation struct {
	Resource   string
	CPUPercent float64
	MemoryMB   float64
}

// Event places one step on one resource at a point in time.
type Event struct {
	Step             string
	Position         float64 // seconds since the pipeline's t=0
	Reservation      Reservation
	Estimation       StepEstimation
	PreviousResource string // resource of this step's prerequisite, "" if none
}

// Finish returns the event's completion time. An event with no estimated
// timeline finishes at its start position.
func (e Event) Finish() float64 {
	if e.Estimation.Timeline == nil {
		return e.Position
	}
	return e.Position + e.Estimation.Timeline.TotalTime()
}

// FirstResult returns the time this event's first output (if any) becomes
// available, for pipelined (Producer) downstream consumers.
func (e Event) FirstResult() float64 {
	return e.Position + e.Estimation.Timeline.TimeToFirstResult()
}

func overlaps(aStart, aEnd, bStart, bEnd float64) bool {
	return aStart < bEnd && bStart < aEnd
}

// ActiveDuring reports whether e holds its reservation at any point within
// the half-open window [start, end).
func (e Event) ActiveDuring(start, end float64) bool {
	return overlaps(e.Position, e.Finish(), start, end)
}

// Timeline is the ordered sequence of events scheduled so far on one branch.
// Sorted by (Position, Step) after every mutation so iteration order is
// deterministic (§8 invariant: deterministic output for identical input).
type Timeline struct {
	Events []Event
}

// New returns an empty Timeline.
func New() *Timeline {
	return &Timeline{}
}

// Clone returns a deep copy, so speculative extensions during candidate
// search never alias a shared Timeline (mirrors the teacher's dag.Graph
// Clone convention).
func (t *Timeline) Clone() *Timeline {
	out := &Timeline{Events: make([]Event, len(t.Events))}
	copy(out.Events, t.Events)
	return out
}

// Insert adds an event to the timeline. If e.Position is negative, the
// entire existing timeline is shifted forward by -e.Position so every event
// stays at t >= 0, and the new event lands at t=0 (§4.3).
func (t *Timeline) Insert(e Event) {
	if e.Position < 0 {
		shift := -e.Position
		for i := range t.Events {
			t.Events[i].Position += shift
		}
		e.Position = 0
	}
	t.Events = append(t.Events, e)
	t.sort()
}

func (t *Timeline) sort() {
	sort.SliceStable(t.Events, func(i, j int) bool {
		if t.Events[i].Position != t.Events[j].Position {
			return t.Events[i].Position < t.Events[j].Position
		}
		return t.Events[i].Step < t.Events[j].Step
	})
}

// activeOn returns every event reserving resource that overlaps
// [start, end).
func (t *Timeline) activeOn(resource string, start, end float64) []Event {
	var out []Event
	for _, e := range t.Events {
		if e.Reservation.Resource == resource && e.ActiveDuring(start, end) {
			out = append(out, e)
		}
	}
	return out
}

// fits reports whether reqCPU/reqMem can be added to resource's capacity
// during [start, start+duration) given the events already active there.
func (t *Timeline) fits(res resources.Resource, start, duration, reqCPU, reqMem float64) bool {
	cpu, mem := reqCPU, reqMem
	for _, e := range t.activeOn(res.Name, start, start+duration) {
		cpu += e.Reservation.CPUPercent
		mem += e.Reservation.MemoryMB
	}
	return cpu <= res.CPUCapacityPercent() && mem <= res.MemoryCapacityMB()
}

// EarliestAvailable finds the earliest time at or after position that
// reqCPU/reqMem can be reserved on res for duration seconds without
// exceeding its capacity (§4.3, "earliest available slot"). Candidates are
// position itself plus the start/end of every event already active on res
// within [position, position+duration); if none of those fit, the latest
// end among those events is returned without a further capacity check.
func (t *Timeline) EarliestAvailable(res resources.Resource, position, duration, reqCPU, reqMem float64) float64 {
	if t.fits(res, position, duration, reqCPU, reqMem) {
		return position
	}

	candidateSet := map[float64]bool{}
	active := t.activeOn(res.Name, position, position+duration)
	maxEnd := position
	for _, e := range active {
		if e.Position >= position {
			candidateSet[e.Position] = true
		}
		end := e.Finish()
		candidateSet[end] = true
		if end > maxEnd {
			maxEnd = end
		}
	}
	// Candidates come only from events active in the original window;
	// events that start later are not rescanned.
	candidates := make([]float64, 0, len(candidateSet)+1)
	for c := range candidateSet {
		candidates = append(candidates, c)
	}
	sort.Float64s(candidates)

	for _, c := range candidates {
		if t.fits(res, c, duration, reqCPU, reqMem) {
			return c
		}
	}
	return maxEnd
}

// SyncPosition returns the earliest time at which the scaleLevel-th
// concurrent instance of a downstream dependent of e may start. For a
// Producer, that instance must wait for scaleLevel of the producer's
// outputs to have been emitted: e.Position + provisioning + transmission +
// scaleLevel*AvgTimePerOutput (§4.3, "synchronization position"; scaleLevel
// 1 is the unscaled/first-instance case and matches FirstResult). For every
// other variant scaleLevel is irrelevant and the step's finish time is
// returned.
func SyncPosition(e Event, scaleLevel int) float64 {
	if p, ok := e.Estimation.Timeline.(Producer); ok {
		return e.Position + p.Provisioning + p.Transmission + float64(scaleLevel)*p.AvgTimePerOutput
	}
	return e.Finish()
}

// StepWithLatestFinish returns the event with the greatest Finish() time
// among events, breaking ties by the lexicographically greatest step name
// so the result is deterministic.
func StepWithLatestFinish(events []Event) (Event, bool) {
	if len(events) == 0 {
		return Event{}, false
	}
	best := events[0]
	for _, e := range events[1:] {
		if e.Finish() > best.Finish() || (e.Finish() == best.Finish() && e.Step > best.Step) {
			best = e
		}
	}
	return best, true
}

// TotalTime returns the timeline's overall makespan: the latest Finish()
// across every event.
func (t *Timeline) TotalTime() float64 {
	var max float64
	for _, e := range t.Events {
		if f := e.Finish(); f > max {
			max = f
		}
	}
	return max
}
