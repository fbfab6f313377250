package benchmarks

import (
	"fmt"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/timing/core"
	"github.com/sarchlab/rv32sim/timing/latency"
	"github.com/sarchlab/rv32sim/timing/mem"
)

// harnessMaxCycles bounds every benchmark run so a timing bug cannot
// hang the suite.
const harnessMaxCycles = 10_000_000

// BenchmarkResult holds the outcome of one benchmark run on the
// cycle-accurate machine.
type BenchmarkResult struct {
	Name         string
	ExitCode     int32
	Cycles       uint64
	Instructions uint64
	StallCycles  uint64
	CPI          float64

	// RegFile is the architectural register state at the halt point.
	RegFile *emu.RegFile
}

// Harness runs benchmarks on the cycle-accurate machine under one
// timing configuration.
type Harness struct {
	config     *latency.TimingConfig
	benchmarks []Benchmark
}

// NewHarness creates a harness with the given timing configuration.
func NewHarness(config *latency.TimingConfig) *Harness {
	return &Harness{config: config}
}

// AddBenchmark queues a benchmark.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// RunAll runs every queued benchmark and returns their results.
func (h *Harness) RunAll() ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))
	for _, b := range h.benchmarks {
		result, err := h.Run(b)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Run executes one benchmark on the cycle-accurate machine.
func (h *Harness) Run(b Benchmark) (BenchmarkResult, error) {
	memory := emu.NewMemory()
	memory.LoadProgram(h.config.ResetAddr, b.Program)

	regFile := &emu.RegFile{}
	if b.Setup != nil {
		b.Setup(regFile, memory)
	}

	ioPred := h.config.IOPredicate()

	var dev core.BusDevice
	if h.config.CacheEnable {
		dev = mem.NewCachedRAM(mem.CacheConfig{
			Size:          h.config.CacheSize,
			Associativity: h.config.CacheAssociativity,
			BlockSize:     h.config.CacheBlockSize,
			HitWait:       h.config.CacheHitWait,
			MissWait:      h.config.CacheMissWait,
		}, memory)
	} else {
		dev = mem.NewRAM(memory, h.config.RAMReadWait, h.config.RAMWriteWait)
	}

	c := core.NewCore(core.Config{
		ResetAddr:    h.config.ResetAddr,
		AddrWidth:    h.config.AddrWidth,
		CounterWidth: h.config.CounterWidth,
		IOAddr:       ioPred,
		FastShift:    h.config.FastShift,
	}, regFile)

	machine := core.NewMachine(c, dev)
	if !machine.Run(harnessMaxCycles) {
		return BenchmarkResult{}, fmt.Errorf(
			"benchmark %s did not halt within %d cycles", b.Name, harnessMaxCycles)
	}

	stats := machine.Stats()
	return BenchmarkResult{
		Name:         b.Name,
		ExitCode:     machine.ExitCode(),
		Cycles:       stats.Cycles,
		Instructions: stats.Instructions,
		StallCycles:  stats.Stalls,
		CPI:          stats.CPI(),
		RegFile:      regFile,
	}, nil
}

// RunFunctional executes one benchmark on the functional golden model
// and returns its exit code and final emulator state.
func RunFunctional(b Benchmark) (int32, *emu.Emulator) {
	memory := emu.NewMemory()
	memory.LoadProgram(0, b.Program)

	emulator := emu.NewEmulator(
		emu.WithMemory(memory),
		emu.WithMaxInstructions(harnessMaxCycles),
	)
	if b.Setup != nil {
		b.Setup(emulator.RegFile(), emulator.Memory())
	}
	emulator.LoadProgram(0, nil)

	return emulator.Run(), emulator
}

// findResult finds a benchmark result by name.
func findResult(results []BenchmarkResult, name string) *BenchmarkResult {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
