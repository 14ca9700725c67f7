package model

import "sort"

// DependencyGraph is the derived dependency structure of one claim set.
// It is recomputed on every analysis and never stored. References maps a
// claim number to the numbers it depends on; in a well-formed set every
// referenced number is lower than the referencing one.
type DependencyGraph struct {
	References  map[int][]int `json:"references"`        // claim number to its referenced numbers, ascending
	Independent []int         `json:"independent"`       // claim numbers with no references, ascending
	Dependent   []int         `json:"dependent"`         // all other claim numbers, ascending
	Missing     []int         `json:"missing,omitempty"` // referenced numbers absent from the set, ascending
}

// Numbers returns every claim number in the graph, ascending.
func (g DependencyGraph) Numbers() []int {
	out := make([]int, 0, len(g.Independent)+len(g.Dependent))
	out = append(out, g.Independent...)
	out = append(out, g.Dependent...)
	sort.Ints(out)
	return out
}
