// Package main provides a profiling wrapper for gbsim to identify performance bottlenecks.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/gbsim/cache"
	"github.com/sarchlab/gbsim/emu"
	"github.com/sarchlab/gbsim/loader"
)

var (
	useCache    = flag.Bool("cache", false, "Put the default cache model in front of memory")
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	instruction = flag.Uint64("max-instr", 1000000, "max instructions to execute (0 = unlimited)")
	origin      = flag.Uint("origin", 0, "load address of the image")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.gb>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *origin > 0xFFFF {
		fmt.Fprintf(os.Stderr, "-origin 0x%X is outside the 16-bit address space\n", *origin)
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath, uint16(*origin))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s\n", programPath)
	fmt.Printf("Entry point: 0x%04X\n", prog.EntryPoint)

	start := time.Now()

	// Set timeout
	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		os.Exit(2)
	}()

	result, instrCount, err := runProfile(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Halted: %v\n", result.Halted)
	fmt.Printf("Instructions executed: %d\n", instrCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
}

// runProfile runs the program in functional emulation mode.
func runProfile(prog *loader.Program) (emu.StepResult, uint64, error) {
	memory := emu.NewMemory()
	prog.LoadIntoMemory(memory)

	var bus emu.Bus = memory
	if *useCache {
		c, err := cache.New(cache.DefaultConfig(), memory)
		if err != nil {
			return emu.StepResult{}, 0, err
		}
		bus = c
	}

	opts := []emu.EmulatorOption{
		emu.WithBus(bus),
		emu.WithStackPointer(0xFFFE),
	}
	if *instruction > 0 {
		opts = append(opts, emu.WithMaxInstructions(*instruction))
	}

	emulator := emu.NewEmulator(opts...)
	emulator.SetPC(prog.EntryPoint)

	result := emulator.Run()

	return result, emulator.InstructionCount(), nil
}
