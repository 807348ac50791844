// Package candidate implements the per-level search described in §4.4: it
// enumerates placements of a level's ready steps across eligible resources,
// optionally replicates scalable steps, scores each resulting timeline, and
// keeps the minimum-score candidates to seed the next level.
package candidate

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/anonymousuni/cats/internal/estimation"
	"github.com/anonymousuni/cats/internal/pipeline"
	"github.com/anonymousuni/cats/internal/resources"
	"github.com/anonymousuni/cats/internal/timeline"
)

// maxPermutedReadySteps bounds the factorial blow-up of permuting a level's
// ready set: beyond this width only the lexicographic order is tried. No
// pipeline in the reference corpus has a level this wide; this is a
// deliberate, documented bound rather than an unbounded search (see §9
// on combinatorial explosion).
const maxPermutedReadySteps = 6

// Config holds the scheduling parameters a run is evaluated against.
type Config struct {
	Deadline       float64
	Budget         float64
	InputVolumeMB  float64
	MaxScalability int // 0 means no cap; 1 disables scaling
	Forced         map[string]string
	Workers        int
}

// Engine runs the per-level candidate search.
type Engine struct {
	pipe  *pipeline.Pipeline
	cat   *resources.Catalog
	price resources.PriceModel
	est   *estimation.Estimator
	cfg   Config
}

// New returns an Engine over the given pipeline, catalog, pricing model and
// estimator, scored against cfg.
func New(pipe *pipeline.Pipeline, cat *resources.Catalog, price resources.PriceModel, est *estimation.Estimator, cfg Config) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = 12 // §5, "default ~12 worker threads"
	}
	return &Engine{pipe: pipe, cat: cat, price: price, est: est, cfg: cfg}
}

// Score is the normalized time-fraction + cost-fraction named in §4.4.
func (e *Engine) Score(tl *timeline.Timeline) float64 {
	return tl.TotalTime()/e.cfg.Deadline + tl.TotalCost(e.cat, e.price)/e.cfg.Budget
}

// scoredTimeline bundles a built timeline with its score, to avoid
// recomputing the score (which walks every event) repeatedly.
type scoredTimeline struct {
	tl    *timeline.Timeline
	score float64
}

// RunLevel schedules every step in level, seeded from the previous level's
// best timelines (or a single empty timeline at level 0), and returns the
// minimum-score resulting timelines. Steps whose prerequisites are
// satisfied are placed first (the "ready set"); the remaining set shrinks
// until the level is empty (§4.4).
func (e *Engine) RunLevel(level []string, seeds []*timeline.Timeline) ([]*timeline.Timeline, error) {
	if len(seeds) == 0 {
		seeds = []*timeline.Timeline{timeline.New()}
	}

	remaining := make(map[string]bool, len(level))
	for _, s := range level {
		remaining[s] = true
	}

	best := seeds
	for len(remaining) > 0 {
		ready := e.readySet(remaining)
		if len(ready) == 0 {
			return nil, fmt.Errorf("candidate: level has unsatisfiable prerequisites among %v", keysOf(remaining))
		}

		scored, err := e.evaluateReadySet(ready, best)
		if err != nil {
			return nil, err
		}
		if len(scored) == 0 {
			return nil, fmt.Errorf("candidate: no feasible placement for %v", ready)
		}

		best = bestScoring(scored)
		for _, s := range ready {
			delete(remaining, s)
		}
	}
	return best, nil
}

func keysOf(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// readySet returns the steps in remaining whose prerequisites are all
// already scheduled (not themselves in remaining).
func (e *Engine) readySet(remaining map[string]bool) []string {
	var out []string
	for step := range remaining {
		blocked := false
		for _, dep := range e.pipe.InDependencies(step) {
			if remaining[dep.Prerequisite] {
				blocked = true
				break
			}
		}
		if !blocked {
			out = append(out, step)
		}
	}
	sort.Strings(out)
	return out
}

// evaluateReadySet enumerates every (seed, permutation, resource
// assignment, scaling variant) combination in parallel over a worker pool,
// pruning branches whose partial/final score exceeds the best seen so far.
func (e *Engine) evaluateReadySet(ready []string, seeds []*timeline.Timeline) ([]scoredTimeline, error) {
	perms := permutations(ready)
	schedulable := e.cat.Schedulable()
	if len(schedulable) == 0 {
		return nil, fmt.Errorf("candidate: no schedulable resources available")
	}
	resourceNames := make([]string, len(schedulable))
	for i, r := range schedulable {
		resourceNames[i] = r.Name
	}
	assignments := cartesianAssignments(ready, resourceNames)

	var mu sync.Mutex
	bestScore := -1.0 // negative sentinel: no bound established yet
	var collected []scoredTimeline

	consider := func(result *scoredTimeline) {
		if result == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if bestScore < 0 || result.score < bestScore {
			bestScore = result.score
		}
		collected = append(collected, *result)
	}

	p := pool.New().WithMaxGoroutines(e.cfg.Workers)
	for _, seed := range seeds {
		seed := seed
		for _, perm := range perms {
			perm := perm
			for _, assign := range assignments {
				assign := assign
				p.Go(func() {
					mu.Lock()
					snapshot := bestScore
					mu.Unlock()

					result, err := e.buildPlan(seed, perm, assign, snapshot)
					if err != nil {
						return
					}
					consider(result)
				})
			}
		}
	}
	p.Wait()

	return collected, nil
}

// bestScoring keeps only the minimum-score entries; ties retain all (§4.4
// step 7, "Aggregation").
func bestScoring(scored []scoredTimeline) []*timeline.Timeline {
	if len(scored) == 0 {
		return nil
	}
	min := scored[0].score
	for _, s := range scored[1:] {
		if s.score < min {
			min = s.score
		}
	}
	var out []*timeline.Timeline
	for _, s := range scored {
		if s.score == min {
			out = append(out, s.tl)
		}
	}
	return out
}
