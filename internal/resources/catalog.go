package resources

import "fmt"

// NodeClass is the resource table's node-type column (§6): EC2 or Fog.
// Used only to derive default network-graph bandwidths on ingestion; it has
// no bearing on scheduling once the NetworkGraph is built.
type NodeClass string

const (
	ClassEC2 NodeClass = "EC2"
	ClassFog NodeClass = "Fog"
)

// Catalog is the read-only set of computing resources available to the
// scheduler, keyed by name.
type Catalog struct {
	byName map[string]Resource
	order  []string // insertion order, for deterministic iteration
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]Resource)}
}

// Add registers a resource. Returns an error if the name is already taken.
func (c *Catalog) Add(r Resource) error {
	if _, exists := c.byName[r.Name]; exists {
		return fmt.Errorf("resources: duplicate resource name %q", r.Name)
	}
	c.byName[r.Name] = r
	c.order = append(c.order, r.Name)
	return nil
}

// Get looks up a resource by name.
func (c *Catalog) Get(name string) (Resource, bool) {
	r, ok := c.byName[name]
	return r, ok
}

// All returns every resource, in the order they were added.
func (c *Catalog) All() []Resource {
	out := make([]Resource, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

// Schedulable returns every resource with Schedulable == true, in insertion
// order.
func (c *Catalog) Schedulable() []Resource {
	var out []Resource
	for _, name := range c.order {
		if r := c.byName[name]; r.Schedulable {
			out = append(out, r)
		}
	}
	return out
}

// NetworkGraphFromClasses builds the default NetworkGraph described in §6
// and recovered in SPEC_FULL §12.3: every pair of nodes is connected
// bidirectionally at 1000 Mbps when both share a node class (EC2<->EC2 or
// Fog<->Fog) and 50 Mbps otherwise. classes maps resource name -> NodeClass
// for every resource in the catalog.
func (c *Catalog) NetworkGraphFromClasses(classes map[string]NodeClass) *NetworkGraph {
	g := NewNetworkGraph()
	names := c.order
	for i, a := range names {
		for _, b := range names[i+1:] {
			mbps := 50.0
			if classes[a] == classes[b] {
				mbps = 1000.0
			}
			g.Connect(a, b, mbps)
		}
	}
	return g
}
