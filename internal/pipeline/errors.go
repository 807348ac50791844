package pipeline

import "errors"

// Model invariant violations (§7 of the spec — programmer errors, surfaced
// immediately, never retried).
var (
	// ErrCycle is returned when adding a dependency would close a cycle in
	// the dependency graph. The pipeline is left unchanged.
	ErrCycle = errors.New("pipeline: dependency would create a cycle")
	// ErrDuplicateStep is returned when a step name is already present.
	ErrDuplicateStep = errors.New("pipeline: duplicate step name")
	// ErrUnknownStep is returned when a connection or dependency names a
	// step that isn't in the pipeline.
	ErrUnknownStep = errors.New("pipeline: unknown step")
	// ErrIncompatibleConnection is returned when a DataTransmissionConnection
	// violates the variant compatibility rules (DataSource only as source,
	// DataSink only as target, at least one endpoint processing).
	ErrIncompatibleConnection = errors.New("pipeline: incompatible connection for step kinds")
	// ErrSelfDependency is returned when a step is made to depend on itself.
	ErrSelfDependency = errors.New("pipeline: step cannot depend on itself")
)
