// Command benchmark runs the gbsim microbenchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv       Output results in CSV format (default: human-readable)
//	-json      Output results as a JSON report
//	-no-cache  Run straight against memory, without the cache model
//	-v         Include eviction counts in human-readable output
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
//
// Every result carries a state digest, so two builds can be compared for
// behavioral drift as well as speed.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/gbsim/benchmarks"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	noCache := flag.Bool("no-cache", false, "Disable cache simulation")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.EnableCache = !*noCache
	config.Verbose = *verbose
	config.Output = os.Stdout

	harness := benchmarks.NewHarness(config)
	harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

	human := !*csvOutput && !*jsonOutput
	if human {
		fmt.Println("gbsim Benchmark Harness")
		fmt.Println("=======================")
		fmt.Printf("Cache: %v\n", config.EnableCache)
		if config.EnableCache {
			fmt.Printf("  %d bytes, %d-way, %d-byte lines\n",
				config.Cache.Size, config.Cache.Associativity, config.Cache.BlockSize)
		}
		fmt.Println("")
	}

	results, err := harness.RunAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Halted {
			os.Exit(1)
		}
	}
}
