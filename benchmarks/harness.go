// Package benchmarks provides a benchmark harness for gbsim: a fixed set of
// SM83 microbenchmarks run through the emulator, optionally with the cache
// model in front of memory.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/gbsim/cache"
	"github.com/sarchlab/gbsim/digest"
	"github.com/sarchlab/gbsim/emu"
)

// ProgramOrigin is where every benchmark program is loaded and started.
const ProgramOrigin = 0x0100

// maxInstructions bounds a benchmark that never halts.
const maxInstructions = 10_000_000

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Instructions is the number of executed instructions, HALT included
	Instructions uint64 `json:"instructions"`

	// Halted is false when the run stopped on an error
	Halted bool `json:"halted"`

	// Error is the error that stopped the run, if any
	Error string `json:"error,omitempty"`

	// Cache stats (if cache enabled)
	CacheReads     uint64  `json:"cache_reads,omitempty"`
	CacheWrites    uint64  `json:"cache_writes,omitempty"`
	CacheHits      uint64  `json:"cache_hits,omitempty"`
	CacheMisses    uint64  `json:"cache_misses,omitempty"`
	CacheEvictions uint64  `json:"cache_evictions,omitempty"`
	CacheHitRate   float64 `json:"cache_hit_rate,omitempty"`

	// Digest fingerprints the final machine state
	Digest string `json:"digest"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the emulator state (e.g., initialize registers, memory)
	Setup func(e *emu.Emulator)

	// Program is the SM83 machine code to execute
	Program []byte

	// ExpectedInstructions is the instruction count of a correct run
	ExpectedInstructions uint64
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableCache puts the cache model in front of memory
	EnableCache bool

	// Cache is the cache geometry used when EnableCache is set
	Cache cache.Config

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableCache: true,
		Cache:       cache.DefaultConfig(),
		Output:      os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result, err := h.runBenchmark(bench)
		if err != nil {
			return nil, fmt.Errorf("benchmark %s: %w", bench.Name, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// runBenchmark executes a single benchmark on fresh state.
func (h *Harness) runBenchmark(bench Benchmark) (BenchmarkResult, error) {
	memory := emu.NewMemory()

	var bus emu.Bus = memory
	var c *cache.Cache
	if h.config.EnableCache {
		var err error
		c, err = cache.New(h.config.Cache, memory)
		if err != nil {
			return BenchmarkResult{}, err
		}
		bus = c
	}

	e := emu.NewEmulator(
		emu.WithBus(bus),
		emu.WithStackPointer(0xFFFE),
		emu.WithMaxInstructions(maxInstructions),
		emu.WithStderr(io.Discard),
	)

	// Load before setup so that setup can patch program bytes.
	e.LoadProgram(ProgramOrigin, bench.Program)
	if bench.Setup != nil {
		bench.Setup(e)
	}

	start := time.Now()
	stepResult := e.Run()
	wallTime := time.Since(start)

	result := BenchmarkResult{
		Name:         bench.Name,
		Description:  bench.Description,
		Instructions: e.InstructionCount(),
		Halted:       stepResult.Halted,
		WallTime:     wallTime,
	}
	if stepResult.Err != nil {
		result.Error = stepResult.Err.Error()
	}

	if c != nil {
		stats := c.Stats()
		result.CacheReads = stats.Reads
		result.CacheWrites = stats.Writes
		result.CacheHits = stats.Hits
		result.CacheMisses = stats.Misses
		result.CacheEvictions = stats.Evictions
		result.CacheHitRate = stats.HitRate()
		c.Flush()
	}

	result.Digest = digest.State(e.RegFile(), e.PC(), memory).String()

	return result, nil
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== gbsim Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions: %d\n", r.Instructions)
		if !r.Halted {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}

		if r.CacheReads > 0 || r.CacheWrites > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:     %d\n", r.CacheHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses:   %d\n", r.CacheMisses)
			_, _ = fmt.Fprintf(h.config.Output, "  Hit rate: %.1f%%\n", 100*r.CacheHitRate)
			if h.config.Verbose {
				_, _ = fmt.Fprintf(h.config.Output, "  Evictions: %d\n", r.CacheEvictions)
			}
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Digest: %s\n", r.Digest)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,instructions,halted,cache_hits,cache_misses,cache_evictions,digest")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%t,%d,%d,%d,%s\n",
			r.Name,
			r.Instructions,
			r.Halted,
			r.CacheHits,
			r.CacheMisses,
			r.CacheEvictions,
			r.Digest,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Cache is the cache geometry, absent when the cache was disabled
	Cache *cache.Config `json:"cache,omitempty"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// TotalInstructions is the sum of all executed instructions
	TotalInstructions uint64 `json:"total_instructions"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	var totalInstructions uint64
	var totalWallTime time.Duration
	for _, r := range results {
		totalInstructions += r.Instructions
		totalWallTime += r.WallTime
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		Results: results,
		Summary: ReportSummary{
			TotalBenchmarks:   len(results),
			TotalInstructions: totalInstructions,
			TotalWallTime:     totalWallTime,
		},
	}
	if h.config.EnableCache {
		cacheConfig := h.config.Cache
		report.Metadata.Cache = &cacheConfig
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
