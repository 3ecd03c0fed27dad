package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/go/packages"

	"github.com/BarrensZeppelin/pta"
	"github.com/BarrensZeppelin/pta/config"
	"github.com/BarrensZeppelin/pta/frontend"
	"github.com/BarrensZeppelin/pta/internal/formatutil"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/BarrensZeppelin/pta/pkgutil"
	"github.com/BarrensZeppelin/pta/preprocess"
)

var configFile = flag.String("config", "", "read analysis options from yaml `file`")
var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var dir = flag.String("dir", "", "alternative directory to run the go build tool in")
var dotFile = flag.String("dot", "", "write the call graph in DOT format to `file`")
var printCallGraph = flag.Bool("callgraph", false, "print the call graph edges")
var printIR = flag.Bool("ir", false, "print the lowered program")

func main() {
	flag.Parse()

	cfg := config.NewDefault()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	logger := cfg.NewLogger()

	if flag.NArg() == 0 {
		logger.Fatal("Specify a package query on the command line")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			logger.Fatal("could not create CPU profile: ", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Fatal("Failed to close", f)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	pkgs, err := pkgutil.LoadPackagesWithConfig(&packages.Config{
		Mode:  pkgutil.LoadMode,
		Tests: false,
		Dir:   *dir,
	}, flag.Args()...)
	if err != nil {
		logger.Fatalf("Loading packages failed: %v", err)
	}

	logger.Infof("Loaded %d packages", len(pkgs))

	prog, spkgs := pkgutil.BuildSSA(pkgs)

	logger.Info("Built packages")

	lowered, err := frontend.Lower(prog, spkgs, frontend.Options{Markers: cfg.Markers})
	if err != nil {
		logger.Fatalf("Lowering failed: %v", err)
	}
	if *printIR {
		ir.WriteProgram(os.Stdout, lowered.Program)
	}

	objects := preprocess.Run(lowered.Program, cfg.Markers)
	logger.Infof("%d allocation sites, %d queries", len(objects.Objects()), len(objects.Queries))

	analysis := pta.AnalysisConfig{
		Program:        lowered.Program,
		Objects:        objects,
		MaxSweeps:      cfg.MaxSweeps,
		MaxMethodSteps: cfg.MaxMethodSteps,
		Log:            logger,
	}
	if cfg.EntryOnly {
		analysis.Entries = lowered.Entries
	}

	res, err := pta.Analyze(analysis)
	if err != nil {
		logger.Fatal(err)
	}

	for _, id := range res.QueryIDs() {
		objs := make([]string, len(res.Queries[id]))
		for i, obj := range res.Queries[id] {
			objs[i] = fmt.Sprint(obj)
		}
		fmt.Printf("%s : %s\n", formatutil.Bold(id), strings.Join(objs, " "))
	}

	status := "converged"
	if !res.Converged {
		status = "not converged"
	}
	logger.Infof("%d reachable methods, %d sweeps, %s",
		len(res.Reachable), res.Sweeps, formatutil.Status(res.Converged, status))
	if res.CappedMethods > 0 {
		logger.Warnf("%d method visits hit the step limit", res.CappedMethods)
	}

	if cfg.Verbose() {
		res.Dump(os.Stderr)
	}

	cg := res.CallGraph()
	if *printCallGraph {
		for _, caller := range cg.Nodes() {
			for _, callee := range cg.Callees(caller) {
				fmt.Printf("%v -> %v\n", caller, callee)
			}
		}
		for _, group := range cg.RecursiveGroups() {
			fmt.Println(formatutil.Faint("recursive:"), group)
		}
	}

	if *dotFile != "" {
		f, err := os.Create(*dotFile)
		if err != nil {
			logger.Fatalf("could not create DOT file: %v", err)
		}
		defer f.Close()
		if err := cg.WriteDOT(f); err != nil {
			logger.Fatalf("writing call graph: %v", err)
		}
	}
}
