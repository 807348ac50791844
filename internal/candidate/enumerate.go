package candidate

// permutations returns every ordering of items. Beyond maxPermutedReadySteps
// items, only the given (already sorted) order is returned, to bound the
// factorial blow-up (§4.4 note, "defenses against combinatorial
// explosion").
func permutations(items []string) [][]string {
	if len(items) == 0 {
		return [][]string{{}}
	}
	if len(items) > maxPermutedReadySteps {
		return [][]string{append([]string(nil), items...)}
	}

	var out [][]string
	var helper func(prefix, rest []string)
	helper = func(prefix, rest []string) {
		if len(rest) == 0 {
			out = append(out, append([]string(nil), prefix...))
			return
		}
		for i := range rest {
			next := make([]string, 0, len(rest)-1)
			next = append(next, rest[:i]...)
			next = append(next, rest[i+1:]...)
			helper(append(prefix, rest[i]), next)
		}
	}
	helper(nil, items)
	return out
}

// cartesianAssignments returns every map[step]resource assignment of
// resources over steps: |resources|^|steps| combinations, bounded the same
// way as permutations when steps is wide.
func cartesianAssignments(steps, resourceNames []string) []map[string]string {
	if len(steps) == 0 {
		return []map[string]string{{}}
	}
	if len(steps) > maxPermutedReadySteps {
		// One assignment: every step on the first eligible resource. A wide
		// ready set this size falls back to the permutation bound above
		// anyway, so this keeps both bounds consistent.
		single := map[string]string{}
		for _, s := range steps {
			single[s] = resourceNames[0]
		}
		return []map[string]string{single}
	}

	out := []map[string]string{{}}
	for _, step := range steps {
		var next []map[string]string
		for _, partial := range out {
			for _, res := range resourceNames {
				copied := make(map[string]string, len(partial)+1)
				for k, v := range partial {
					copied[k] = v
				}
				copied[step] = res
				next = append(next, copied)
			}
		}
		out = next
	}
	return out
}
