package pipeline

import "fmt"

// Pipeline is a set of Steps, a list of data-transmission Connections, and a
// list of Dependencies between them. All mutating operations validate the
// invariants named in the spec: step-name uniqueness, connection-kind
// compatibility, and dependency-graph acyclicity.
type Pipeline struct {
	steps       map[string]Step
	connections []Connection
	deps        []Dependency

	// forward/reverse adjacency over deps, kept in sync by addDependency,
	// mirroring the adjacency-list style of the teacher's dag.Graph.
	forward  map[string][]*Dependency
	backward map[string][]*Dependency
}

// New returns an empty Pipeline.
func New() *Pipeline {
	return &Pipeline{
		steps:    make(map[string]Step),
		forward:  make(map[string][]*Dependency),
		backward: make(map[string][]*Dependency),
	}
}

// AddStep registers a new step. Returns ErrDuplicateStep if the name is
// already in use.
func (p *Pipeline) AddStep(s Step) error {
	if _, exists := p.steps[s.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, s.Name)
	}
	p.steps[s.Name] = s
	return nil
}

// Step looks up a step by name.
func (p *Pipeline) Step(name string) (Step, bool) {
	s, ok := p.steps[name]
	return s, ok
}

// Steps returns every step in the pipeline, in no particular order.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, 0, len(p.steps))
	for _, s := range p.steps {
		out = append(out, s)
	}
	return out
}

// Connections returns the pipeline's data-transmission connections.
func (p *Pipeline) Connections() []Connection {
	return append([]Connection(nil), p.connections...)
}

// Dependencies returns the pipeline's dependencies.
func (p *Pipeline) Dependencies() []Dependency {
	return append([]Dependency(nil), p.deps...)
}

// AddConnection validates the DataSource/DataSink variant rules (§3), then
// registers the connection and implicitly adds a Synchronous dependency in
// the same direction (replacing any existing dependency between the pair).
func (p *Pipeline) AddConnection(c Connection) error {
	src, ok := p.steps[c.Source]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, c.Source)
	}
	dst, ok := p.steps[c.Target]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, c.Target)
	}
	if !src.HasOutputs() {
		return fmt.Errorf("%w: %s (%s) cannot be a connection source", ErrIncompatibleConnection, src.Name, src.Kind)
	}
	if !dst.HasInputs() {
		return fmt.Errorf("%w: %s (%s) cannot be a connection target", ErrIncompatibleConnection, dst.Name, dst.Kind)
	}
	if !src.IsProcessing() && !dst.IsProcessing() {
		return fmt.Errorf("%w: at least one of %s, %s must be a processing step", ErrIncompatibleConnection, src.Name, dst.Name)
	}

	if err := p.AddDependency(Dependency{Prerequisite: c.Source, Dependent: c.Target, Kind: Synchronous}); err != nil {
		return err
	}
	p.connections = append(p.connections, c)
	return nil
}

// AddDependency adds or replaces the dependency between Prerequisite and
// Dependent. Rejects self-dependencies and any addition that would close a
// cycle in the dependency graph (ErrCycle) — the pipeline is left unchanged
// on rejection, satisfying scenario E6.
func (p *Pipeline) AddDependency(d Dependency) error {
	if _, ok := p.steps[d.Prerequisite]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, d.Prerequisite)
	}
	if _, ok := p.steps[d.Dependent]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, d.Dependent)
	}
	if d.Prerequisite == d.Dependent {
		return fmt.Errorf("%w: %s", ErrSelfDependency, d.Prerequisite)
	}

	// Replacement policy: remove any existing dependency between this
	// ordered pair before testing for cycles, so that re-adding the same
	// pair with a different kind is never mistaken for a cycle against
	// itself.
	existing := p.removeDependencyBetween(d.Prerequisite, d.Dependent)

	if p.wouldCreateCycle(d.Prerequisite, d.Dependent) {
		// Restore the removed dependency (if any) and reject.
		if existing != nil {
			p.insertDependency(*existing)
		}
		return fmt.Errorf("%w: %s -> %s", ErrCycle, d.Prerequisite, d.Dependent)
	}

	p.insertDependency(d)
	return nil
}

func (p *Pipeline) removeDependencyBetween(prereq, dependent string) *Dependency {
	for i := range p.deps {
		if p.deps[i].Prerequisite == prereq && p.deps[i].Dependent == dependent {
			removed := p.deps[i]
			p.deps = append(p.deps[:i], p.deps[i+1:]...)
			p.rebuildAdjacency()
			return &removed
		}
	}
	return nil
}

func (p *Pipeline) insertDependency(d Dependency) {
	p.deps = append(p.deps, d)
	p.rebuildAdjacency()
}

// rebuildAdjacency recomputes the forward/backward adjacency lists from
// p.deps. The dependency list is expected to stay small enough (one
// pipeline's worth of steps) that an O(n) rebuild per mutation is simpler
// and safer than incremental pointer bookkeeping.
func (p *Pipeline) rebuildAdjacency() {
	p.forward = make(map[string][]*Dependency)
	p.backward = make(map[string][]*Dependency)
	for i := range p.deps {
		d := &p.deps[i]
		p.forward[d.Prerequisite] = append(p.forward[d.Prerequisite], d)
		p.backward[d.Dependent] = append(p.backward[d.Dependent], d)
	}
}

// wouldCreateCycle reports whether adding prereq -> dependent would close a
// cycle, i.e. whether dependent can already reach prereq via existing
// dependencies. DFS with a visited set, mirroring the teacher's
// dag.hasCycleUtil approach.
func (p *Pipeline) wouldCreateCycle(prereq, dependent string) bool {
	if prereq == dependent {
		return true
	}
	visited := make(map[string]bool)
	var dfs func(node string) bool
	dfs = func(node string) bool {
		if node == prereq {
			return true
		}
		if visited[node] {
			return false
		}
		visited[node] = true
		for _, d := range p.forward[node] {
			if dfs(d.Dependent) {
				return true
			}
		}
		return false
	}
	return dfs(dependent)
}

// InDependencies returns the dependencies whose Dependent is step, i.e. its
// prerequisites.
func (p *Pipeline) InDependencies(step string) []Dependency {
	var out []Dependency
	for _, d := range p.backward[step] {
		out = append(out, *d)
	}
	return out
}

// OutDependencies returns the dependencies whose Prerequisite is step.
func (p *Pipeline) OutDependencies(step string) []Dependency {
	var out []Dependency
	for _, d := range p.forward[step] {
		out = append(out, *d)
	}
	return out
}

// InConnections returns the connections targeting step.
func (p *Pipeline) InConnections(step string) []Connection {
	var out []Connection
	for _, c := range p.connections {
		if c.Target == step {
			out = append(out, c)
		}
	}
	return out
}

// IsScalable reports whether step has an incoming asynchronous dependency,
// i.e. it streams from an upstream producer and may be replicated into
// multiple concurrent instances to keep up with it (§4.4). Note this is the
// dependent side of the edge, not the prerequisite side: the consumer
// scales, not the producer it reads from.
func (p *Pipeline) IsScalable(step string) bool {
	for _, d := range p.backward[step] {
		if d.Kind == Asynchronous {
			return true
		}
	}
	return false
}

// AsyncPrerequisite returns the step that step asynchronously depends on
// (its upstream producer), and whether one exists.
func (p *Pipeline) AsyncPrerequisite(step string) (string, bool) {
	for _, d := range p.backward[step] {
		if d.Kind == Asynchronous {
			return d.Prerequisite, true
		}
	}
	return "", false
}

// AsyncDependents returns the step(s) that depend on step asynchronously,
// i.e. the consumers step streams output to.
func (p *Pipeline) AsyncDependents(step string) []string {
	var out []string
	for _, d := range p.forward[step] {
		if d.Kind == Asynchronous {
			out = append(out, d.Dependent)
		}
	}
	return out
}
