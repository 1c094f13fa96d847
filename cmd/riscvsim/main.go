// Package main provides the entry point for the RISC-V pipeline simulator.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/xpivx-reader/RISC-V-CPU-SIM/config"
	"github.com/xpivx-reader/RISC-V-CPU-SIM/loader"
	"github.com/xpivx-reader/RISC-V-CPU-SIM/pipeline"
)

var (
	cycles     = flag.Uint64("cycles", 0, "Cycle budget; overrides -config and the default if nonzero")
	configPath = flag.String("config", "", "Path to simulator configuration JSON file")
	verbose    = flag.Bool("v", false, "Verbose run summary")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: riscvsim [options] <program.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadSimConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Words: %d\n", len(prog.Words))
		fmt.Printf("Cycle budget: %d\n", cfg.CycleBudget)
	}

	os.Exit(run(prog.Words, cfg, programPath))
}

// loadSimConfig resolves the effective configuration: -config if given,
// otherwise the built-in defaults, with -cycles overriding either when set.
func loadSimConfig() (*config.SimConfig, error) {
	var cfg *config.SimConfig
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultSimConfig()
	}

	if *cycles != 0 {
		cfg.CycleBudget = *cycles
	}
	if *verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// run drives the simulator to completion and, when verbose, prints the final
// PC and the run statistics. It returns the process exit code.
func run(words []uint32, cfg *config.SimConfig, programPath string) int {
	sim := pipeline.NewSimulator(words)

	var runErr error
	if cfg.CycleBudget == 0 {
		runErr = sim.Run()
	} else {
		runErr = sim.RunWithBudget(cfg.CycleBudget)
	}

	stats := sim.Stats()

	if cfg.Verbose {
		fmt.Printf("\nProgram: %s\n", programPath)
		fmt.Printf("Final PC: 0x%08X\n", sim.PC())
		fmt.Printf("Instructions retired: %d\n", stats.Instructions)
		fmt.Printf("Cycles: %d\n", stats.Cycles)
		fmt.Printf("CPI: %.2f\n", stats.CPI())
		fmt.Printf("Stalls: %d\n", stats.Stalls)
		fmt.Printf("Flushes: %d\n", stats.Flushes)
		fmt.Printf("Forwarded hazards: %d\n", stats.ForwardedHazards)
	}

	switch {
	case errors.Is(runErr, pipeline.ErrCycleBudgetExceeded):
		fmt.Fprintf(os.Stderr, "Simulation did not halt within %d cycles\n", cfg.CycleBudget)
		return 2
	case errors.Is(runErr, pipeline.ErrIllegalInstruction):
		fmt.Fprintf(os.Stderr, "Simulation halted: %v\n", runErr)
		return 1
	case runErr != nil:
		fmt.Fprintf(os.Stderr, "Simulation error: %v\n", runErr)
		return 1
	}

	return 0
}
