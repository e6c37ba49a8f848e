// Validate decoder coverage and measure decode throughput and allocations
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sarchlab/gbsim/insts"
)

func main() {
	decoder := insts.NewDecoder()

	// Coverage: every byte in both tables.
	var plain, prefixed int
	var unmapped []string
	for i := 0; i < 256; i++ {
		op := byte(i)
		if _, err := decoder.Decode(op, false); err == nil {
			plain++
		} else {
			unmapped = append(unmapped, fmt.Sprintf("%02X", op))
		}
		if _, err := decoder.Decode(op, true); err == nil {
			prefixed++
		} else {
			unmapped = append(unmapped, fmt.Sprintf("CB %02X", op))
		}
	}

	fmt.Printf("Decoder Coverage:\n")
	fmt.Printf("=================\n")
	fmt.Printf("Plain opcodes mapped:    %d/256\n", plain)
	fmt.Printf("Prefixed opcodes mapped: %d/256\n", prefixed)
	if len(unmapped) > 0 && len(os.Args) > 1 && os.Args[1] == "-v" {
		fmt.Printf("Unmapped: %v\n", unmapped)
	}

	// Warm up
	for i := 0; i < 1000; i++ {
		_, _ = decoder.Decode(0x80, false)
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	for i := 0; i < iterations; i++ {
		_, _ = decoder.Decode(0x80, false) // ADD A,B
		_, _ = decoder.Decode(0x7E, false) // LD A,(HL)
		_, _ = decoder.Decode(0x20, false) // JR NZ,e
		_, _ = decoder.Decode(0x47, true)  // BIT 0,A
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * 4
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("\nDecoder Throughput:\n")
	fmt.Printf("===================\n")
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocated bytes: %d\n", allocatedBytes)
	fmt.Printf("Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))
	fmt.Printf("Bytes per decode: %.1f\n", float64(allocatedBytes)/float64(totalDecodes))
}
