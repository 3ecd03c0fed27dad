package pta_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/BarrensZeppelin/pta"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/BarrensZeppelin/pta/preprocess"
)

const object = "java.lang.Object"

var (
	allocRef  = ir.MethodRef{Class: "Benchmark", Subsignature: "alloc(int)"}
	testRef   = ir.MethodRef{Class: "Benchmark", Subsignature: "test(int,java.lang.Object)"}
	objInit   = ir.MethodRef{Class: object, Subsignature: "<init>()"}
	hashCode  = ir.MethodRef{Class: object, Subsignature: "hashCode()"}
	idHash    = ir.MethodRef{Class: "java.lang.System", Subsignature: "identityHashCode(java.lang.Object)"}
	quietLogs = func() *logrus.Logger {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}()
)

// newProgram returns a program with a root class, the marker class and the
// commonly used classes A and B.
func newProgram() (*ir.Program, *ir.Class) {
	prog := ir.NewProgram()
	root := prog.NewClass(object, nil)
	root.NewMethod("<init>", 0)
	root.NewMethod("hashCode", ir.Native)

	bench := prog.NewClass("Benchmark", root)
	bench.NewMethod("alloc", ir.Static|ir.Native, "int")
	bench.NewMethod("test", ir.Static|ir.Native, "int", object)

	system := prog.NewClass("java.lang.System", root)
	system.NewMethod("identityHashCode", ir.Static|ir.Native, object)

	prog.NewClass("A", root)
	prog.NewClass("B", root)
	return prog, root
}

// alloc emits a labeled allocation of typ into v.
func alloc(m *ir.Method, id int64, v *ir.Var, typ string) *ir.New {
	m.InvokeStatic(nil, allocRef, m.Const(id))
	return m.New(v, typ)
}

func query(m *ir.Method, id int64, v *ir.Var) {
	m.InvokeStatic(nil, testRef, m.Const(id), v)
}

// construct emits an allocation followed by a constructor call.
func construct(m *ir.Method, v *ir.Var, typ string, args ...*ir.Var) {
	m.New(v, typ)
	sig := "<init>("
	for i, a := range args {
		if i > 0 {
			sig += ","
		}
		sig += a.Type
	}
	m.Invoke(nil, ir.CallSpecial, ir.MethodRef{Class: typ, Subsignature: sig + ")"}, v, args...)
}

type option func(*pta.AnalysisConfig)

func withEntries(ms ...*ir.Method) option {
	return func(c *pta.AnalysisConfig) { c.Entries = ms }
}

func withLimits(sweeps, steps int) option {
	return func(c *pta.AnalysisConfig) {
		c.MaxSweeps = sweeps
		c.MaxMethodSteps = steps
	}
}

func analyze(t *testing.T, prog *ir.Program, opts ...option) *pta.Result {
	t.Helper()
	config := pta.AnalysisConfig{
		Program: prog,
		Objects: preprocess.Run(prog, preprocess.Markers{}),
		Log:     quietLogs,
	}
	for _, opt := range opts {
		opt(&config)
	}

	res, err := pta.Analyze(config)
	require.NoError(t, err)
	return res
}
