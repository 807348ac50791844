// Package pipeline models a directed pipeline of data-processing steps,
// the data-transmission connections and dependencies between them, and the
// level decomposition used to drive scheduling.
package pipeline

// Kind identifies which of the closed set of step variants a Step is.
type Kind string

const (
	// KindDataSource produces outputs; it has no inputs and no processing cost.
	KindDataSource Kind = "data_source"
	// KindDataSink consumes inputs; it produces no outputs.
	KindDataSink Kind = "data_sink"
	// KindBatch consumes a single input batch and produces a single output batch.
	KindBatch Kind = "batch"
	// KindProducer consumes a single input and produces many outputs incrementally.
	KindProducer Kind = "producer"
	// KindConsumer consumes many inputs from an upstream producer and produces many outputs.
	KindConsumer Kind = "consumer"
)

// Step is a single node of a Pipeline. Identity is Name, unique within a
// Pipeline. Kind is a closed tag; callers switch on it rather than relying
// on a class hierarchy.
type Step struct {
	Name string
	Kind Kind
}

// NewStep constructs a Step of the given kind.
func NewStep(name string, kind Kind) Step {
	return Step{Name: name, Kind: kind}
}

// HasInputs reports whether steps of this kind accept data-transmission
// connections as a target.
func (s Step) HasInputs() bool {
	return s.Kind != KindDataSource
}

// HasOutputs reports whether steps of this kind may be the source of a
// data-transmission connection.
func (s Step) HasOutputs() bool {
	return s.Kind != KindDataSink
}

// IsProcessing reports whether the step performs processing work (as
// opposed to being a pure source or sink).
func (s Step) IsProcessing() bool {
	return s.Kind == KindBatch || s.Kind == KindProducer || s.Kind == KindConsumer
}
