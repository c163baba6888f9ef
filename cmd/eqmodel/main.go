package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	eqmodel "github.com/vanderheijden86/eqmodel"
	"github.com/vanderheijden86/eqmodel/pkg/config"
	"github.com/vanderheijden86/eqmodel/pkg/dataset"
	"github.com/vanderheijden86/eqmodel/pkg/driver"
	"github.com/vanderheijden86/eqmodel/pkg/export"
	"github.com/vanderheijden86/eqmodel/pkg/loader"
	"github.com/vanderheijden86/eqmodel/pkg/model"
	"github.com/vanderheijden86/eqmodel/pkg/version"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	modelPath := flag.String("model", "", "Path to the equation-definition YAML file (required)")
	panelPath := flag.String("panel", "", "Path to the panel data CSV file (required)")
	sqliteOut := flag.String("sqlite-out", "", "Directory to export the solved panel as a SQLite database")
	rootTolerance := flag.Float64("root-tolerance", 0, "Override the Newton-Raphson root tolerance")
	maxIterations := flag.Int("max-iterations", 0, "Override the Newton-Raphson iteration cap per block")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: eqmodel --model model.yaml --panel panel.csv [options]")
		fmt.Println("\nSolves a simultaneous equation system with lagged terms over a panel dataset.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("eqmodel %s\n", version.Version)
		os.Exit(0)
	}

	if *modelPath == "" || *panelPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --model and --panel are both required")
		flag.PrintDefaults()
		os.Exit(2)
	}

	appCfg, cfgErr := config.Load()
	if cfgErr != nil {
		appCfg = config.DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, *modelPath, *panelPath, *sqliteOut, appCfg, *rootTolerance, *maxIterations); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, modelPath, panelPath, sqliteOut string, appCfg config.Config, rootTolerance float64, maxIterations int) error {
	bundle, err := loader.LoadAll(ctx, modelPath, panelPath)
	if err != nil {
		return fmt.Errorf("loading inputs: %w", err)
	}

	opts := []eqmodel.Option{
		eqmodel.WithRootTolerance(pick(rootTolerance, appCfg.RootTolerance)),
		eqmodel.WithMaxIterations(pickInt(maxIterations, appCfg.MaxIterations)),
	}
	m, err := eqmodel.BuildModel(bundle.Model.Equations, bundle.Model.Endogenous, opts...)
	if err != nil {
		return fmt.Errorf("building model: %w", err)
	}

	solved, err := m.Solve(ctx, bundle.Data)
	if err != nil {
		var me *model.Error
		if errors.As(err, &me) {
			return fmt.Errorf("solving: %s", me.Error())
		}
		return fmt.Errorf("solving: %w", err)
	}

	report := m.LastReport()
	if !report.Converged() && !appCfg.ContinueOnNonConvergence {
		return fmt.Errorf("one or more blocks did not converge and continue_on_nonconvergence is false")
	}

	appCfg.PushRecent(modelPath, panelPath)
	_ = config.Save(appCfg) // non-fatal: recent-file history is a convenience only

	if sqliteOut != "" {
		exp := export.NewExporter(solved, report, bundle.Model.Endogenous)
		if err := exp.Export(sqliteOut); err != nil {
			return fmt.Errorf("exporting to SQLite: %w", err)
		}
		fmt.Printf("Exported solved panel to %s\n", sqliteOut)
		return nil
	}

	printSolved(solved, report)
	return nil
}

func printSolved(data dataset.Dataset, report *driver.Report) {
	variables := data.Variables()
	fmt.Print("period")
	for _, v := range variables {
		fmt.Printf("\t%s", v)
	}
	fmt.Println()

	for p := 0; p < data.Periods(); p++ {
		fmt.Printf("%d", p)
		for _, v := range variables {
			value, _ := data.Get(p, v)
			fmt.Printf("\t%g", value)
		}
		fmt.Println()
	}

	for _, d := range report.Diagnostics {
		if d.Status != driver.StatusConverged {
			fmt.Fprintf(os.Stderr, "period %d block %d: %s after %d iterations\n", d.Period, d.BlockIndex, d.Status, d.Iterations)
		}
	}
}

func pick(override, fallback float64) float64 {
	if override != 0 {
		return override
	}
	return fallback
}

func pickInt(override, fallback int) int {
	if override != 0 {
		return override
	}
	return fallback
}
