package stats

import "github.com/ripopov/surfer-sub001/pkg/waveform"

// Edge is one directed transition edge, labelled with its observed count.
type Edge struct {
	From, To int // indices into Graph.Nodes
	Count    int
}

// Graph is the transition graph: nodes are observed states, edges are
// transitions between them. Stored as two vectors plus two index maps
// (spec.md §9 "arena + index for merged graphs" design note) rather than a
// pointer-to-pointer structure.
type Graph struct {
	Nodes    []waveform.VariableValue
	nodeIdx  map[string]int
	Edges    []Edge
	edgeIdx  map[[2]int]int
}

// BuildGraph constructs a Graph from a Compute result. Nodes are the keys
// of the dwell map; edges are the observed transitions.
func BuildGraph(result Result) *Graph {
	g := &Graph{
		nodeIdx: make(map[string]int),
		edgeIdx: make(map[[2]int]int),
	}
	nodeIndexFor := func(key string) int {
		if idx, ok := g.nodeIdx[key]; ok {
			return idx
		}
		idx := len(g.Nodes)
		g.Nodes = append(g.Nodes, result.Values[key])
		g.nodeIdx[key] = idx
		return idx
	}
	for key := range result.Dwell {
		nodeIndexFor(key)
	}
	for tk, count := range result.Transitions {
		from := nodeIndexFor(tk.From)
		to := nodeIndexFor(tk.To)
		edgeKey := [2]int{from, to}
		if idx, ok := g.edgeIdx[edgeKey]; ok {
			g.Edges[idx].Count += count
			continue
		}
		g.edgeIdx[edgeKey] = len(g.Edges)
		g.Edges = append(g.Edges, Edge{From: from, To: to, Count: count})
	}
	return g
}

// NodeIndex returns the node index for a value's key, if present.
func (g *Graph) NodeIndex(key string) (int, bool) {
	idx, ok := g.nodeIdx[key]
	return idx, ok
}
