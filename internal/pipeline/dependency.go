package pipeline

// DependencyKind classifies how a dependent step relates to its
// prerequisite for the purposes of level decomposition (§4.1).
type DependencyKind string

const (
	// Synchronous dependencies are inter-level barriers: the dependent
	// cannot start until the prerequisite has finished.
	Synchronous DependencyKind = "synchronous"
	// Asynchronous dependencies are intra-level: the dependent is
	// co-located with its prerequisite and streams from it as it runs.
	Asynchronous DependencyKind = "asynchronous"
	// Simultaneous dependencies behave like Synchronous for level
	// decomposition (an inter-level barrier) but name a distinct semantic
	// relationship upstream (e.g. shared start rather than shared finish).
	Simultaneous DependencyKind = "simultaneous"
)

// Dependency is a directed edge (Prerequisite -> Dependent) annotated with
// a DependencyKind. At most one Dependency may exist between an ordered
// pair of steps; adding a second replaces the first (see Pipeline.AddDependency).
type Dependency struct {
	Prerequisite string
	Dependent    string
	Kind         DependencyKind
}

// Connection is a directed data-transmission edge (Source step -> Target
// step). Adding a Connection implicitly adds a Synchronous Dependency in
// the same direction.
type Connection struct {
	Source string
	Target string
}
