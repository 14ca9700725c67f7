package graph

import "github.com/anicholas99/claimgraph/internal/model"

// Depths computes every claim's dependency depth: 0 for independent claims,
// one more than the deepest referenced parent otherwise. References to
// claims outside the set contribute depth 0, so a dependent claim whose only
// parent is missing still lands at depth 1.
//
// The walk keeps a per-call path set so a reference cycle cannot recurse
// forever: a claim revisited while still on the current path contributes its
// best-known value instead of being expanded again.
func Depths(g *model.DependencyGraph) map[int]int {
	w := &depthWalker{
		refs:   g.References,
		memo:   make(map[int]int, len(g.References)),
		onPath: map[int]bool{},
	}
	for _, n := range g.Numbers() {
		w.depth(n)
	}
	return w.memo
}

// MaxDepth returns the largest depth in the map, the headline statistic for
// a claim set.
func MaxDepth(depths map[int]int) int {
	max := 0
	for _, d := range depths {
		if d > max {
			max = d
		}
	}
	return max
}

type depthWalker struct {
	refs   map[int][]int
	memo   map[int]int
	onPath map[int]bool
}

func (w *depthWalker) depth(n int) int {
	if d, ok := w.memo[n]; ok {
		return d
	}
	if w.onPath[n] {
		return 0
	}
	w.onPath[n] = true
	defer delete(w.onPath, n)

	d := 0
	for _, ref := range w.refs[n] {
		if _, exists := w.refs[ref]; !exists {
			continue
		}
		if pd := w.depth(ref) + 1; pd > d {
			d = pd
		}
	}
	if len(w.refs[n]) > 0 && d == 0 {
		d = 1
	}
	w.memo[n] = d
	return d
}
