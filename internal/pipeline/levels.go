package pipeline

import "sort"

// Levels decomposes the pipeline into execution levels using the modified
// breadth-first traversal described in §4.1: asynchronous dependencies are
// treated as intra-level (the producer and its async consumer are
// co-located, streaming), synchronous and simultaneous dependencies are
// inter-level barriers. The result is a list of sets of step names, in
// execution order; each set's members are sorted for deterministic output.
func (p *Pipeline) Levels() [][]string {
	type queued struct {
		step  string
		level int
	}

	var levels []map[string]bool
	visited := make(map[string]bool)
	var queue []queued

	ensureLevel := func(l int) {
		for len(levels) <= l {
			levels = append(levels, make(map[string]bool))
		}
	}

	// addPrerequisites recursively co-locates, at level, every prerequisite
	// of step that hasn't been placed yet, then looks for any dependent of
	// an already-placed step to promote to the next level. This mirrors
	// the two-branch scan in the original split_into_levels.
	var addPrerequisites func(step string, level int)
	addPrerequisites = func(step string, level int) {
		ensureLevel(level)
		for i := range p.deps {
			d := p.deps[i]
			switch {
			case d.Dependent == step && !visited[d.Prerequisite]:
				visited[d.Prerequisite] = true
				levels[level][d.Prerequisite] = true
				addPrerequisites(d.Prerequisite, level)
			case !visited[d.Dependent] && levels[level][d.Prerequisite]:
				queue = append(queue, queued{d.Dependent, level + 1})
			}
		}
	}

	hasIncoming := make(map[string]bool)
	for i := range p.deps {
		hasIncoming[p.deps[i].Dependent] = true
	}
	var seeds []string
	for name := range p.steps {
		if !hasIncoming[name] {
			seeds = append(seeds, name)
		}
	}
	sort.Strings(seeds)
	for _, s := range seeds {
		queue = append(queue, queued{s, 0})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		ensureLevel(cur.level)

		if !visited[cur.step] {
			levels[cur.level][cur.step] = true
			visited[cur.step] = true

			for i := range p.deps {
				d := p.deps[i]
				if d.Kind == Asynchronous && d.Prerequisite == cur.step {
					levels[cur.level][d.Dependent] = true
					visited[d.Dependent] = true
					addPrerequisites(d.Dependent, cur.level)
				}
			}
		}

		for i := range p.deps {
			d := p.deps[i]
			if d.Kind != Asynchronous && d.Prerequisite == cur.step && !visited[d.Dependent] {
				queue = append(queue, queued{d.Dependent, cur.level + 1})
			}
		}
	}

	result := make([][]string, 0, len(levels))
	for _, set := range levels {
		if len(set) == 0 {
			continue
		}
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		sort.Strings(names)
		result = append(result, names)
	}
	return result
}
