// Package scheduler is the top-level façade (§4.5): it decomposes a
// pipeline into levels, drives internal/candidate level by level seeding
// each from the previous level's best timelines, and returns the minimum-
// score timelines across the whole run.
package scheduler

import (
	"fmt"
	"time"

	"github.com/anonymousuni/cats/internal/candidate"
	"github.com/anonymousuni/cats/internal/dryrun"
	"github.com/anonymousuni/cats/internal/estimation"
	"github.com/anonymousuni/cats/internal/logging"
	"github.com/anonymousuni/cats/internal/pipeline"
	"github.com/anonymousuni/cats/internal/resources"
	"github.com/anonymousuni/cats/internal/timeline"
)

// Config mirrors candidate.Config; it is the scheduler's public input so
// callers (cmd/cats) never need to import internal/candidate directly.
type Config struct {
	Deadline       float64
	Budget         float64
	InputVolumeMB  float64
	MaxScalability int
	Forced         map[string]string
	Workers        int
}

// Scheduler runs the level-by-level candidate search over a fixed pipeline,
// resource catalog, network graph, and dry-run corpus.
type Scheduler struct {
	pipe   *pipeline.Pipeline
	engine *candidate.Engine
	logger *logging.Logger
}

// New builds the Scheduler. Per §4.5, the constructor exercises the
// estimator across every (step, resource) combination up front so that
// estimation gaps (missing samples, missing bandwidth) are logged once at
// startup instead of silently on every level; the actual skip-and-continue
// behavior (§7, "estimation gaps") still happens lazily inside
// internal/candidate, this is diagnostic only and never fails the build.
func New(pipe *pipeline.Pipeline, catalog *resources.Catalog, network *resources.NetworkGraph, corpus *dryrun.Corpus, price resources.PriceModel, cfg Config, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	est := estimation.New(corpus, catalog, network)
	warmup(pipe, catalog, est, cfg.InputVolumeMB, logger)

	engine := candidate.New(pipe, catalog, price, est, candidate.Config{
		Deadline:       cfg.Deadline,
		Budget:         cfg.Budget,
		InputVolumeMB:  cfg.InputVolumeMB,
		MaxScalability: cfg.MaxScalability,
		Forced:         cfg.Forced,
		Workers:        cfg.Workers,
	})

	return &Scheduler{pipe: pipe, engine: engine, logger: logger}
}

// warmup estimates every (step, schedulable resource) pair at the target
// input volume and logs, but does not fail on, the gaps §7 calls out as
// recoverable.
func warmup(pipe *pipeline.Pipeline, catalog *resources.Catalog, est *estimation.Estimator, inputVolumeMB float64, logger *logging.Logger) {
	skipped := 0
	for _, step := range pipe.Steps() {
		for _, res := range catalog.Schedulable() {
			if _, err := est.Estimate(step, res, "", inputVolumeMB); err != nil {
				skipped++
			}
		}
	}
	if skipped > 0 {
		logger.Debug("estimation warmup found gaps", "skipped_pairs", skipped)
	}
}

// Schedule decomposes the pipeline into levels and runs internal/candidate
// across each in order, seeding every level from the previous level's best
// timelines (§4.4, §4.5). The returned slice may be empty (§7, "empty
// result"); callers must check.
func (s *Scheduler) Schedule() ([]*timeline.Timeline, error) {
	levels := s.pipe.Levels()

	op := s.logger.StartOperation("schedule", "timeline-search")
	start := time.Now()

	var seeds []*timeline.Timeline
	for i, level := range levels {
		percent := 100 * float64(i) / float64(max1(len(levels)))
		op.Progress(fmt.Sprintf("level %d/%d, %d ready steps", i+1, len(levels), len(level)), percent)

		best, err := s.engine.RunLevel(level, seeds)
		if err != nil {
			op.Fail(err, fmt.Sprintf("level %d", i))
			return nil, fmt.Errorf("scheduler: level %d: %w", i, err)
		}
		seeds = dedupe(best)
	}

	elapsed := time.Since(start)
	op.Complete(fmt.Sprintf("%d levels, %d timelines", len(levels), len(seeds)))
	s.logger.LogMetric("schedule.elapsed_seconds", elapsed.Seconds(), "s", nil)
	s.logger.LogMetric("schedule.timeline_count", float64(len(seeds)), "count", nil)

	return seeds, nil
}

// dedupe drops timelines that are byte-for-byte identical in their event
// sequence, matching §4.5's "collect, deduplicate, return"; distinct
// timelines with the same score are both kept.
func dedupe(tls []*timeline.Timeline) []*timeline.Timeline {
	seen := make(map[string]bool, len(tls))
	var out []*timeline.Timeline
	for _, tl := range tls {
		key := fingerprint(tl)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tl)
	}
	return out
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func fingerprint(tl *timeline.Timeline) string {
	s := ""
	for _, e := range tl.Events {
		s += fmt.Sprintf("%s|%s|%.6f|%.6f;", e.Step, e.Reservation.Resource, e.Position, e.Finish())
	}
	return s
}
