// Package pta implements a whole-program, flow-insensitive, field-sensitive
// points-to analysis over the statement language of package ir.
//
// The analysis computes, for every variable, the set of abstract objects it
// may point to. Objects are identified by the integers assigned to
// allocation sites by package preprocess. Calls are resolved on the fly
// using the points-to sets of their receivers, so the call graph and the
// points-to sets are computed together by a single monotone fixed point.
package pta

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/BarrensZeppelin/pta/internal/queue"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/BarrensZeppelin/pta/preprocess"
)

const (
	DefaultMaxSweeps      = 5000
	DefaultMaxMethodSteps = 5000
)

var ErrInvalidConfig = errors.New("invalid analysis configuration")

type AnalysisConfig struct {
	Program *ir.Program

	// Hierarchy answers class lookups during call resolution. It defaults
	// to Program.
	Hierarchy ir.Hierarchy

	// Objects holds the object identifiers of allocation sites and the
	// query points, as computed by preprocess.Run.
	Objects *preprocess.Result

	// Entries restricts the analysis to methods reachable from the given
	// methods. When empty every method with a body is analysed.
	Entries []*ir.Method

	// MaxSweeps bounds the number of passes over all methods and
	// MaxMethodSteps bounds the number of statements processed in a single
	// visit to a method. Zero selects the defaults.
	MaxSweeps      int
	MaxMethodSteps int

	// Log receives progress messages. It defaults to logrus.StandardLogger().
	Log *logrus.Logger
}

type aContext struct {
	config AnalysisConfig
	log    *logrus.Entry

	objects  *preprocess.Result
	pts      *PointsToStore
	fields   *FieldStore
	resolver *Resolver

	// Methods visited by every sweep, in discovery order.
	methods []*ir.Method
	// Methods discovered since the start of the current sweep.
	queue   queue.Queue[*ir.Method]
	visited map[*ir.Method]bool

	returns map[*ir.Method]*returnInfo
	edges   *edgeSet

	sweeps, capped int
	converged      bool
}

func (ctx *aContext) discoverMethod(m *ir.Method) {
	if !ctx.visited[m] {
		ctx.visited[m] = true
		ctx.queue.Push(m)
	}
}

func (ctx *aContext) addEdge(caller, callee *ir.Method) {
	ctx.edges.add(caller, callee)
	if len(ctx.config.Entries) > 0 && callee.HasBody() {
		ctx.discoverMethod(callee)
	}
}

func validate(config *AnalysisConfig) error {
	if config.Program == nil {
		return fmt.Errorf("%w: no program", ErrInvalidConfig)
	}
	if config.Objects == nil {
		return fmt.Errorf("%w: no preprocessing result", ErrInvalidConfig)
	}
	if config.MaxSweeps < 0 || config.MaxMethodSteps < 0 {
		return fmt.Errorf("%w: negative limit (sweeps %d, method steps %d)",
			ErrInvalidConfig, config.MaxSweeps, config.MaxMethodSteps)
	}
	for _, m := range config.Entries {
		if m == nil {
			return fmt.Errorf("%w: nil entry method", ErrInvalidConfig)
		}
	}

	if config.Hierarchy == nil {
		config.Hierarchy = config.Program
	}
	if config.MaxSweeps == 0 {
		config.MaxSweeps = DefaultMaxSweeps
	}
	if config.MaxMethodSteps == 0 {
		config.MaxMethodSteps = DefaultMaxMethodSteps
	}
	if config.Log == nil {
		config.Log = logrus.StandardLogger()
	}
	return nil
}

// Analyze runs the analysis to a fixed point, or until one of the limits in
// config is reached.
func Analyze(config AnalysisConfig) (*Result, error) {
	if err := validate(&config); err != nil {
		return nil, err
	}

	pts := NewPointsToStore()
	ctx := &aContext{
		config:   config,
		log:      config.Log.WithField("component", "pta"),
		objects:  config.Objects,
		pts:      pts,
		fields:   NewFieldStore(),
		resolver: NewResolver(config.Hierarchy, config.Objects, pts),
		visited:  make(map[*ir.Method]bool),
		returns:  make(map[*ir.Method]*returnInfo),
		edges:    newEdgeSet(),
	}

	if len(config.Entries) > 0 {
		for _, m := range config.Entries {
			ctx.discoverMethod(m)
		}
	} else {
		for _, m := range config.Program.Methods() {
			if m.HasBody() {
				ctx.discoverMethod(m)
			}
		}
	}

	ctx.solve()
	return ctx.result(), nil
}

// solve runs sweeps over all discovered methods until a sweep changes
// nothing.
func (ctx *aContext) solve() {
	for ctx.sweeps < ctx.config.MaxSweeps {
		ctx.sweeps++

		// Methods discovered from the entries count as a change.
		changed := len(ctx.config.Entries) > 0 && !ctx.queue.Empty()
		for !ctx.queue.Empty() {
			ctx.methods = append(ctx.methods, ctx.queue.Pop())
		}

		for _, m := range ctx.methods {
			changed = ctx.solveMethod(m) || changed
		}

		ctx.log.Debugf("Sweep %d over %d methods: changed=%v", ctx.sweeps, len(ctx.methods), changed)

		// Capped methods do not keep the run going.
		if !changed && ctx.queue.Empty() {
			ctx.converged = ctx.capped == 0
			return
		}
	}

	ctx.log.Warnf("Stopped after %d sweeps without reaching a fixed point", ctx.sweeps)
}

// solveMethod runs the per-method worklist. Any change re-enqueues every
// statement of the method.
func (ctx *aContext) solveMethod(m *ir.Method) (changed bool) {
	if !m.HasBody() {
		return false
	}

	f := newFrame(m)
	var worklist queue.Queue[ir.Stmt]
	worklist.PushAll(m.Stmts...)

	for steps := 0; !worklist.Empty(); steps++ {
		if steps >= ctx.config.MaxMethodSteps {
			ctx.capped++
			ctx.log.Warnf("Step limit reached in %v; continuing with the next method", m)
			return changed
		}

		s := worklist.Pop()
		if ctx.transfer(f, s) {
			ctx.log.Tracef("%v: %v", m, s)
			changed = true
			worklist.PushAll(m.Stmts...)
		}
	}
	return changed
}
