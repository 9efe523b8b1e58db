package formlogic

import (
	"sort"
)

// depIndex maps question identifiers to the bindings that read them.
// It is built once per session from the bindings' reference sets and
// used only for recompute scheduling.
type depIndex struct {
	// byRef holds, per referenced question, the bindings reading it,
	// in definition order.
	byRef map[string][]*binding
	all   []*binding
}

// newDepIndex builds the dependency index. bindings must already be in
// definition order.
func newDepIndex(bindings []*binding) *depIndex {
	idx := &depIndex{byRef: make(map[string][]*binding), all: bindings}
	for _, b := range bindings {
		for _, r := range b.refs {
			idx.byRef[r] = append(idx.byRef[r], b)
		}
	}
	return idx
}

// affected returns every enabled binding whose reference set contains
// any of the changed names, deduplicated and ordered by definition
// order to keep recompute deterministic.
func (d *depIndex) affected(changed map[string]struct{}) []*binding {
	seen := make(map[*binding]struct{})
	var out []*binding
	for name := range changed {
		for _, b := range d.byRef[name] {
			if b.disabled {
				continue
			}
			if _, dup := seen[b]; dup {
				continue
			}
			seen[b] = struct{}{}
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// detectSetValueCycles finds setValue bindings whose output can feed
// back, transitively through other setValue bindings, into their own
// inputs. The check is a static reachability walk over the reference
// graph restricted to setValue bindings, run before any evaluation.
// Returns the offending bindings.
func detectSetValueCycles(bindings []*binding) []*binding {
	// writtenBy: question name -> setValue bindings writing it.
	// Edge: ref -> owner for every setValue binding.
	edges := make(map[string][]string)
	for _, b := range bindings {
		if b.prop != propSetValue || b.disabled {
			continue
		}
		for _, r := range b.refs {
			edges[r] = append(edges[r], b.owner)
		}
	}

	reachable := func(from, target string) bool {
		seen := map[string]struct{}{}
		stack := []string{from}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range edges[cur] {
				if next == target {
					return true
				}
				if _, ok := seen[next]; ok {
					continue
				}
				seen[next] = struct{}{}
				stack = append(stack, next)
			}
		}
		return false
	}

	var cyclic []*binding
	for _, b := range bindings {
		if b.prop != propSetValue || b.disabled {
			continue
		}
		if reachable(b.owner, b.owner) {
			cyclic = append(cyclic, b)
		}
	}
	return cyclic
}
