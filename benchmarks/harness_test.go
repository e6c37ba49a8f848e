package benchmarks_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gbsim/benchmarks"
	"github.com/sarchlab/gbsim/emu"
)

func runDirect(b benchmarks.Benchmark) *emu.Emulator {
	e := emu.NewEmulator(emu.WithMaxInstructions(100_000))
	e.LoadProgram(benchmarks.ProgramOrigin, b.Program)
	if b.Setup != nil {
		b.Setup(e)
	}
	result := e.Run()
	Expect(result.Err).NotTo(HaveOccurred())
	Expect(result.Halted).To(BeTrue())
	return e
}

func findBenchmark(name string) benchmarks.Benchmark {
	for _, b := range benchmarks.GetMicrobenchmarks() {
		if b.Name == name {
			return b
		}
	}
	Fail("no benchmark named " + name)
	return benchmarks.Benchmark{}
}

var _ = Describe("Microbenchmarks", func() {
	It("should have unique names", func() {
		seen := map[string]bool{}
		for _, b := range benchmarks.GetMicrobenchmarks() {
			Expect(seen).NotTo(HaveKey(b.Name))
			seen[b.Name] = true
		}
		Expect(seen).To(HaveLen(6))
	})

	It("should halt after the expected instruction count", func() {
		for _, b := range benchmarks.GetMicrobenchmarks() {
			e := runDirect(b)
			Expect(e.InstructionCount()).To(Equal(b.ExpectedInstructions), b.Name)
			Expect(e.PC()).To(Equal(
				uint16(benchmarks.ProgramOrigin+len(b.Program))), b.Name)
		}
	})

	It("should sum the counter in arithmetic_loop", func() {
		regs := runDirect(findBenchmark("arithmetic_loop")).RegFile()

		// 1+2+...+200 = 20100 = 0x4E84
		Expect(regs.A).To(Equal(byte(0x84)))
		Expect(regs.B).To(Equal(byte(0)))
		Expect(regs.C).To(Equal(byte(200)))
	})

	It("should fill a page in memory_sequential", func() {
		e := runDirect(findBenchmark("memory_sequential"))

		Expect(e.RegFile().HL()).To(Equal(uint16(0xC100)))
		Expect(e.Bus().Read8(0xC000)).To(Equal(byte(0x00)))
		Expect(e.Bus().Read8(0xC001)).To(Equal(byte(0xFF)))
		Expect(e.Bus().Read8(0xC0FF)).To(Equal(byte(0x01)))
	})

	It("should walk 64 pages in memory_strided", func() {
		e := runDirect(findBenchmark("memory_strided"))

		Expect(e.RegFile().HL()).To(Equal(uint16(0xC000)))
		Expect(e.RegFile().D).To(Equal(byte(0)))
	})

	It("should rewrite the seeded block in checksum_block", func() {
		b := findBenchmark("checksum_block")
		e := runDirect(b)

		Expect(e.RegFile().HL()).To(Equal(uint16(0xC040)))
		// First iteration: 0x03 + 64 with no carry in.
		Expect(e.Bus().Read8(0xC000)).To(Equal(byte(0x43)))
	})
})

var _ = Describe("Harness", func() {
	var (
		out    *bytes.Buffer
		config benchmarks.HarnessConfig
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		config = benchmarks.DefaultConfig()
		config.Output = out
	})

	It("should run every benchmark to HALT", func() {
		h := benchmarks.NewHarness(config)
		h.AddBenchmarks(benchmarks.GetMicrobenchmarks())

		results, err := h.RunAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(6))

		for i, r := range results {
			b := benchmarks.GetMicrobenchmarks()[i]
			Expect(r.Name).To(Equal(b.Name))
			Expect(r.Halted).To(BeTrue(), r.Name)
			Expect(r.Error).To(BeEmpty())
			Expect(r.Instructions).To(Equal(b.ExpectedInstructions))
			Expect(r.CacheHits + r.CacheMisses).To(Equal(r.CacheReads + r.CacheWrites))
			Expect(r.CacheHits).To(BeNumerically(">", 0))
			Expect(r.Digest).To(HaveLen(16))
		}
	})

	It("should produce the same digest with and without the cache", func() {
		withCache := benchmarks.NewHarness(config)
		withCache.AddBenchmarks(benchmarks.GetMicrobenchmarks())
		cached, err := withCache.RunAll()
		Expect(err).NotTo(HaveOccurred())

		config.EnableCache = false
		direct := benchmarks.NewHarness(config)
		direct.AddBenchmarks(benchmarks.GetMicrobenchmarks())
		uncached, err := direct.RunAll()
		Expect(err).NotTo(HaveOccurred())

		for i := range cached {
			Expect(cached[i].Digest).To(Equal(uncached[i].Digest), cached[i].Name)
			Expect(uncached[i].CacheReads).To(BeZero())
		}
	})

	It("should report a run that does not halt", func() {
		h := benchmarks.NewHarness(config)
		h.AddBenchmark(benchmarks.Benchmark{
			Name: "spin",
			// JR -2
			Program: []byte{0x18, 0xFE},
		})

		results, err := h.RunAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Halted).To(BeFalse())
		Expect(results[0].Error).To(ContainSubstring("max instructions"))
	})

	It("should fail on an invalid cache geometry", func() {
		config.Cache.Associativity = 0
		h := benchmarks.NewHarness(config)
		h.AddBenchmarks(benchmarks.GetMicrobenchmarks())

		_, err := h.RunAll()
		Expect(err).To(MatchError(ContainSubstring("benchmark arithmetic_loop")))
	})

	Describe("Output", func() {
		var results []benchmarks.BenchmarkResult

		BeforeEach(func() {
			h := benchmarks.NewHarness(config)
			h.AddBenchmark(findBenchmark("arithmetic_loop"))
			var err error
			results, err = h.RunAll()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should print human-readable results", func() {
			benchmarks.NewHarness(config).PrintResults(results)

			Expect(out.String()).To(ContainSubstring("Benchmark: arithmetic_loop"))
			Expect(out.String()).To(ContainSubstring("Instructions: 802"))
			Expect(out.String()).To(ContainSubstring("Hit rate:"))
		})

		It("should print one CSV row per result", func() {
			benchmarks.NewHarness(config).PrintCSV(results)

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(HavePrefix("name,instructions,halted"))
			Expect(lines[1]).To(HavePrefix("arithmetic_loop,802,true,"))
		})

		It("should print a JSON report", func() {
			Expect(benchmarks.NewHarness(config).PrintJSON(results)).To(Succeed())

			var report benchmarks.BenchmarkReport
			Expect(json.Unmarshal(out.Bytes(), &report)).To(Succeed())
			Expect(report.Summary.TotalBenchmarks).To(Equal(1))
			Expect(report.Summary.TotalInstructions).To(Equal(uint64(802)))
			Expect(report.Metadata.Cache).NotTo(BeNil())
			Expect(report.Results[0].Digest).To(Equal(results[0].Digest))
		})
	})
})
