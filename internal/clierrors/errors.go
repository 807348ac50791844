// Package clierrors formats scheduler errors into actionable CLI messages,
// mirroring the teacher's internal/cli error formatter (§7's taxonomy:
// configuration errors, model invariant violations, estimation gaps, plan
// infeasibility, empty result).
package clierrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anonymousuni/cats/internal/estimation"
	"github.com/anonymousuni/cats/internal/pipeline"
)

// ErrEmptyResult is returned by the CLI layer when a schedule run completes
// with no timelines to report (§7, "empty result: recoverable, surfaced").
var ErrEmptyResult = errors.New("clierrors: scheduler returned no timelines")

// ErrorFormatter turns a scheduler error into a user-facing message with a
// "Hint:" line, the same shape as the teacher's ErrorFormatter.
type ErrorFormatter struct {
	verbose bool
}

// NewErrorFormatter returns a formatter. In verbose mode the original error
// text is appended after the hint.
func NewErrorFormatter(verbose bool) *ErrorFormatter {
	return &ErrorFormatter{verbose: verbose}
}

// Format converts err to a user-friendly message.
func (f *ErrorFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, pipeline.ErrCycle):
		return "The pipeline's dependency graph would contain a cycle.\n" +
			"Hint: check the dependency you just added against the ones already present between these two steps."
	case errors.Is(err, pipeline.ErrIncompatibleConnection):
		return "A data-transmission connection violates the step-kind rules.\n" +
			"Hint: a DataSource may only be a connection source, a DataSink only a target, and at least one endpoint must be a processing step."
	case errors.Is(err, pipeline.ErrDuplicateStep):
		return "A step name is already registered in this pipeline.\n" +
			"Hint: step names must be unique."
	case errors.Is(err, pipeline.ErrUnknownStep):
		return "A connection or dependency names a step that isn't in the pipeline.\n" +
			"Hint: check the step names in your pipeline definition for typos."
	case errors.Is(err, estimation.ErrNoSamples):
		return "No dry-run samples exist for this step/resource pair; that placement is skipped.\n" +
			"Hint: add a dry run covering this (step, resource) combination, or exclude the resource from scheduling."
	case errors.Is(err, estimation.ErrNoBandwidth):
		return "No network path is known between two resources; that placement is skipped.\n" +
			"Hint: add a bandwidth entry between these resources, or verify the resources CSV's node classes."
	case errors.Is(err, ErrEmptyResult):
		return "The scheduler produced no timelines at all.\n" +
			"Hint: check that every level has at least one schedulable resource and at least one step with usable dry-run samples."
	}

	errStr := err.Error()
	if strings.Contains(errStr, "unsatisfiable prerequisites") {
		return fmt.Sprintf("A level's ready set could not be computed: %s.\n"+
			"Hint: this indicates a cycle slipped past validation, or a dependency references a step outside this level.", errStr)
	}
	if strings.Contains(errStr, "no schedulable resources") {
		return "No schedulable resources are available for this level.\n" +
			"Hint: mark at least one resource schedulable, or add a forced deployment for the affected step."
	}

	if f.verbose {
		return fmt.Sprintf("Error: %s", errStr)
	}
	if parts := strings.Split(errStr, ":"); len(parts) > 1 {
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return errStr
}

// WrapWithSuggestion wraps err with an actionable hint, preserving err for
// errors.Is/As.
func WrapWithSuggestion(err error, suggestion string) error {
	return fmt.Errorf("%w\nHint: %s", err, suggestion)
}
