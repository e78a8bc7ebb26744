package schema

import "github.com/krypticmouse/dsgo/typeir"

// recursiveClasses discovers classes that participate in reference cycles
// using Tarjan's strongly-connected-components algorithm on the
// class-to-class dependency graph. Classes in a non-trivial SCC, or with a
// self-edge, are recursive. Aliases are expanded when computing edges so a
// cycle routed through an alias is still detected.
func recursiveClasses(r *Registry) map[string]bool {
	edges := make(map[string]map[string]bool)

	for key, c := range r.classes {
		deps := edges[key.name]
		if deps == nil {
			deps = make(map[string]bool)
			edges[key.name] = deps
		}

		for _, f := range c.Fields {
			collectClassDeps(r, f.Type, deps, make(map[string]bool))
		}
	}

	t := &tarjan{
		edges:   edges,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}

	for name := range edges {
		if _, visited := t.index[name]; !visited {
			t.strongConnect(name)
		}
	}

	recursive := make(map[string]bool)

	for _, scc := range t.sccs {
		if len(scc) > 1 {
			for _, name := range scc {
				recursive[name] = true
			}

			continue
		}

		// Singleton SCC: recursive only with a self-edge.
		name := scc[0]
		if edges[name][name] {
			recursive[name] = true
		}
	}

	return recursive
}

// collectClassDeps records every class name reachable from t, expanding
// aliases. seenAliases guards against alias cycles.
func collectClassDeps(r *Registry, t *typeir.Type, deps, seenAliases map[string]bool) {
	walkTypes(t, func(n *typeir.Type) {
		switch n.Kind {
		case typeir.KindClass:
			deps[n.Name] = true
		case typeir.KindAlias:
			if seenAliases[n.Name] {
				return
			}

			seenAliases[n.Name] = true

			if target, ok := r.Alias(n.Name); ok {
				collectClassDeps(r, target, deps, seenAliases)
			}
		}
	})
}

type tarjan struct {
	edges   map[string]map[string]bool
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	counter int
	sccs    [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for w := range t.edges[v] {
		if _, visited := t.index[w]; !visited {
			// Edges may point at classes with no definition of their own;
			// skip unknown nodes, validation rejects them separately.
			if _, known := t.edges[w]; !known {
				continue
			}

			t.strongConnect(w)

			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}

	var scc []string

	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)

		if w == v {
			break
		}
	}

	t.sccs = append(t.sccs, scc)
}
