package pta

import (
	"io"
	"strconv"

	"github.com/yourbasic/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"golang.org/x/exp/slices"

	"github.com/BarrensZeppelin/pta/ir"
)

// edgeSet records call edges while the analysis runs. Nodes are numbered
// in the order they are first seen.
type edgeSet struct {
	nodes []*ir.Method
	index map[*ir.Method]int
	seen  map[[2]int]bool
	edges [][2]int
}

func newEdgeSet() *edgeSet {
	return &edgeSet{
		index: make(map[*ir.Method]int),
		seen:  make(map[[2]int]bool),
	}
}

func (es *edgeSet) node(m *ir.Method) int {
	if i, ok := es.index[m]; ok {
		return i
	}
	i := len(es.nodes)
	es.nodes = append(es.nodes, m)
	es.index[m] = i
	return i
}

func (es *edgeSet) add(caller, callee *ir.Method) {
	e := [2]int{es.node(caller), es.node(callee)}
	if !es.seen[e] {
		es.seen[e] = true
		es.edges = append(es.edges, e)
	}
}

// CallGraph is the call graph discovered by the analysis. It contains an
// edge for every resolved target of every evaluated call.
type CallGraph struct {
	nodes []*ir.Method
	index map[*ir.Method]int
	edges [][2]int
	g     *graph.Mutable
}

func (es *edgeSet) callGraph() *CallGraph {
	g := graph.New(len(es.nodes))
	for _, e := range es.edges {
		g.Add(e[0], e[1])
	}
	return &CallGraph{
		nodes: es.nodes,
		index: es.index,
		edges: es.edges,
		g:     g,
	}
}

// Nodes returns every method that occurs in a call edge.
func (cg *CallGraph) Nodes() []*ir.Method { return cg.nodes }

func (cg *CallGraph) sorted(ids []int) []*ir.Method {
	slices.Sort(ids)
	res := make([]*ir.Method, len(ids))
	for i, id := range ids {
		res[i] = cg.nodes[id]
	}
	return res
}

// Callees returns the methods m may call.
func (cg *CallGraph) Callees(m *ir.Method) []*ir.Method {
	v, ok := cg.index[m]
	if !ok {
		return nil
	}
	var ids []int
	cg.g.Visit(v, func(w int, _ int64) bool {
		ids = append(ids, w)
		return false
	})
	return cg.sorted(ids)
}

// Callers returns the methods that may call m.
func (cg *CallGraph) Callers(m *ir.Method) []*ir.Method {
	w, ok := cg.index[m]
	if !ok {
		return nil
	}
	var ids []int
	for v := range cg.nodes {
		if cg.g.Edge(v, w) {
			ids = append(ids, v)
		}
	}
	return cg.sorted(ids)
}

// RecursiveGroups returns the sets of mutually recursive methods: the
// strongly connected components that contain a cycle.
func (cg *CallGraph) RecursiveGroups() [][]*ir.Method {
	var groups [][]*ir.Method
	for _, comp := range graph.StrongComponents(cg.g) {
		if len(comp) == 1 && !cg.g.Edge(comp[0], comp[0]) {
			continue
		}
		groups = append(groups, cg.sorted(comp))
	}
	slices.SortFunc(groups, func(a, b []*ir.Method) bool {
		return cg.index[a[0]] < cg.index[b[0]]
	})
	return groups
}

type dotNode struct {
	id        int64
	method    *ir.Method
	recursive bool
}

func (n dotNode) ID() int64 { return n.id }

func (n dotNode) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{{Key: "label", Value: strconv.Quote(n.method.String())}}
	if n.recursive {
		attrs = append(attrs, encoding.Attribute{Key: "peripheries", Value: "2"})
	}
	return attrs
}

// WriteDOT writes the call graph to w in Graphviz format. Self-recursive
// methods are drawn with a double border instead of a loop.
func (cg *CallGraph) WriteDOT(w io.Writer) error {
	g := simple.NewDirectedGraph()
	for i, m := range cg.nodes {
		g.AddNode(dotNode{id: int64(i), method: m, recursive: cg.g.Edge(i, i)})
	}
	for _, e := range cg.edges {
		if e[0] != e[1] {
			g.SetEdge(g.NewEdge(g.Node(int64(e[0])), g.Node(int64(e[1]))))
		}
	}

	b, err := dot.Marshal(g, "callgraph", "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
