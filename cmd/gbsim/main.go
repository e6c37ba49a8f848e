// Package main provides the command-line runner for gbsim.
// gbsim executes SM83 (Game Boy CPU) program images instruction by
// instruction.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/gbsim/cache"
	"github.com/sarchlab/gbsim/config"
	"github.com/sarchlab/gbsim/digest"
	"github.com/sarchlab/gbsim/emu"
	"github.com/sarchlab/gbsim/loader"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	configPath string
	origin     uint
	entry      uint
	sp         uint
	max        uint64
	trace      bool
	useCache   bool
	verbose    bool

	// set records which flags were given explicitly.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	fs := flag.NewFlagSet("gbsim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{set: map[string]bool{}}
	fs.StringVar(&opts.configPath, "config", "", "Path to run configuration JSON file")
	fs.UintVar(&opts.origin, "origin", 0, "Load address of the image")
	fs.UintVar(&opts.entry, "entry", 0x0100, "Initial program counter")
	fs.UintVar(&opts.sp, "sp", 0xFFFE, "Initial stack pointer")
	fs.Uint64Var(&opts.max, "max", 1_000_000, "Maximum instructions to execute (0 = no limit)")
	fs.BoolVar(&opts.trace, "trace", false, "Print each executed instruction")
	fs.BoolVar(&opts.useCache, "cache", false, "Put the default cache model in front of memory")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: gbsim [options] <program.gb>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	return opts, fs.Args(), nil
}

// runConfig merges the config file, if any, with explicitly set flags.
func (o *options) runConfig() (*config.RunConfig, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
	}

	for _, addr := range []struct {
		name  string
		value uint
	}{{"origin", o.origin}, {"entry", o.entry}, {"sp", o.sp}} {
		if o.set[addr.name] && addr.value > 0xFFFF {
			return nil, fmt.Errorf("-%s 0x%X is outside the 16-bit address space", addr.name, addr.value)
		}
	}

	if o.set["origin"] {
		cfg.Origin = uint16(o.origin)
	}
	if o.set["entry"] {
		cfg.EntryPoint = uint16(o.entry)
	}
	if o.set["sp"] {
		cfg.StackPointer = uint16(o.sp)
	}
	if o.set["max"] {
		cfg.MaxInstructions = o.max
	}
	if o.set["trace"] {
		cfg.Trace = o.trace
	}
	if o.useCache && cfg.Cache == nil {
		cacheConfig := cache.DefaultConfig()
		cfg.Cache = &cacheConfig
	}

	return cfg, cfg.Validate()
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	if len(rest) < 1 {
		fmt.Fprintf(stderr, "Usage: gbsim [options] <program.gb>\n")
		return 2
	}
	programPath := rest[0]

	cfg, err := opts.runConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	prog, err := loader.Load(programPath, cfg.Origin)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	if opts.verbose {
		fmt.Fprintf(stdout, "Loaded: %s\n", programPath)
		fmt.Fprintf(stdout, "Image: 0x%04X-0x%04X (%d bytes)\n",
			prog.Origin, prog.End()-1, len(prog.Data))
		if h, err := prog.Header(); err == nil {
			fmt.Fprintf(stdout, "Title: %s\n", h.Title)
			if !h.ChecksumValid() {
				fmt.Fprintf(stdout, "Warning: header checksum mismatch\n")
			}
		}
		fmt.Fprintf(stdout, "Entry point: 0x%04X\n", cfg.EntryPoint)
	}

	return runEmulation(cfg, prog, programPath, opts.verbose, stdout, stderr)
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(
	cfg *config.RunConfig,
	prog *loader.Program,
	programPath string,
	verbose bool,
	stdout, stderr io.Writer,
) int {
	memory := emu.NewMemory()
	prog.LoadIntoMemory(memory)

	var bus emu.Bus = memory
	var c *cache.Cache
	if cfg.Cache != nil {
		var err error
		c, err = cache.New(*cfg.Cache, memory)
		if err != nil {
			fmt.Fprintf(stderr, "Error creating cache: %v\n", err)
			return 1
		}
		bus = c
	}

	emuOpts := []emu.EmulatorOption{
		emu.WithBus(bus),
		emu.WithStackPointer(cfg.StackPointer),
		emu.WithMaxInstructions(cfg.MaxInstructions),
		emu.WithStderr(stderr),
	}
	if cfg.Trace {
		emuOpts = append(emuOpts, emu.WithTrace(stdout))
	}

	emulator := emu.NewEmulator(emuOpts...)
	emulator.SetPC(cfg.EntryPoint)

	result := emulator.Run()

	regs := emulator.RegFile()
	fmt.Fprintf(stdout, "\nProgram: %s\n", programPath)
	if result.Halted {
		fmt.Fprintf(stdout, "Halted at PC=0x%04X\n", emulator.PC())
	} else {
		fmt.Fprintf(stdout, "Stopped at PC=0x%04X\n", emulator.PC())
	}
	fmt.Fprintf(stdout, "Instructions executed: %d\n", emulator.InstructionCount())
	fmt.Fprintf(stdout, "AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X\n",
		regs.AF(), regs.BC(), regs.DE(), regs.HL(), regs.SP)

	if c != nil {
		stats := c.Stats()
		fmt.Fprintf(stdout, "\nCache:\n")
		fmt.Fprintf(stdout, "  Reads:      %d\n", stats.Reads)
		fmt.Fprintf(stdout, "  Writes:     %d\n", stats.Writes)
		fmt.Fprintf(stdout, "  Hits:       %d\n", stats.Hits)
		fmt.Fprintf(stdout, "  Misses:     %d\n", stats.Misses)
		fmt.Fprintf(stdout, "  Hit rate:   %.1f%%\n", 100*stats.HitRate())
		if verbose {
			fmt.Fprintf(stdout, "  Evictions:  %d\n", stats.Evictions)
			fmt.Fprintf(stdout, "  Writebacks: %d\n", stats.Writebacks)
		}
		c.Flush()
	}

	fmt.Fprintf(stdout, "State digest: %s\n", digest.State(regs, emulator.PC(), memory))

	if result.Err != nil {
		return 1
	}
	return 0
}
