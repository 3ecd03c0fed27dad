package pta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/BarrensZeppelin/pta/internal/maps"
	"github.com/BarrensZeppelin/pta/ir"
)

type Result struct {
	// Queries maps each query id to the positive object ids its variable
	// may point to, in ascending order.
	Queries map[int][]int

	// Reachable contains the methods that were analysed.
	Reachable map[*ir.Method]bool

	// Sweeps is the number of passes made over the reachable methods.
	Sweeps int
	// Converged is true when the final sweep changed nothing and no limit
	// was reached during the analysis.
	Converged bool
	// CappedMethods counts the method visits cut short by the step limit.
	CappedMethods int

	pts       *PointsToStore
	fields    *FieldStore
	callGraph *CallGraph
}

func (ctx *aContext) result() *Result {
	queries := make(map[int][]int, len(ctx.objects.Queries))
	for id, v := range ctx.objects.Queries {
		queries[id] = ctx.pts.Get(v).Observable()
	}

	return &Result{
		Queries:       queries,
		Reachable:     ctx.visited,
		Sweeps:        ctx.sweeps,
		Converged:     ctx.converged,
		CappedMethods: ctx.capped,

		pts:       ctx.pts,
		fields:    ctx.fields,
		callGraph: ctx.edges.callGraph(),
	}
}

// QueryIDs returns the query ids in ascending order.
func (r *Result) QueryIDs() []int { return maps.SortedKeys(r.Queries) }

// PointsTo returns every object v may point to, synthetic objects
// included.
func (r *Result) PointsTo(v *ir.Var) []int { return r.pts.Get(v).IDs() }

// FieldPointsTo returns the objects stored in slot key of obj.
func (r *Result) FieldPointsTo(obj int, key FieldKey) []int {
	return r.fields.Get(obj, key).IDs()
}

// CallGraph returns the call graph computed alongside the points-to sets.
func (r *Result) CallGraph() *CallGraph { return r.callGraph }

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, " ")
}

// WriteTo writes one line per query, "id : o1 o2 ...", in ascending query
// order.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, id := range r.QueryIDs() {
		k, err := fmt.Fprintf(bw, "%d : %s\n", id, joinIDs(r.Queries[id]))
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Dump writes the non-empty points-to sets of every reachable variable and
// every written field slot to w.
func (r *Result) Dump(w io.Writer) {
	var lines []string
	for _, v := range r.pts.Vars() {
		lines = append(lines, fmt.Sprintf("%v/%v -> %v", v.Method, v, r.pts.Get(v)))
	}
	slices.Sort(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}

	for _, obj := range r.fields.Objects() {
		for _, key := range r.fields.Keys(obj) {
			fmt.Fprintf(w, "%d.%v -> %v\n", obj, key, r.fields.Get(obj, key))
		}
	}
}
