// Package main provides the entry point for RV32Sim.
// RV32Sim is a cycle-accurate simulator of a minimal RV32I softcore.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/loader"
	"github.com/sarchlab/rv32sim/timing/core"
	"github.com/sarchlab/rv32sim/timing/latency"
	"github.com/sarchlab/rv32sim/timing/mem"
)

var (
	timing     = flag.Bool("timing", false, "Enable cycle-accurate timing simulation mode")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	base       = flag.Uint("base", 0, "Load/entry address for raw binary images")
	maxCycles  = flag.Uint64("max-cycles", 0, "Stop after this many cycles (0 = no limit)")
	maxInsts   = flag.Uint64("max-insts", 0, "Stop after this many instructions (0 = no limit)")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rv32sim [options] <program.elf | image.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	config := latency.DefaultTimingConfig()
	if *configPath != "" {
		var err error
		config, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	prog, err := loadProgram(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	if *timing {
		os.Exit(int(runTiming(prog, config)))
	}
	os.Exit(int(runEmulation(prog)))
}

// loadProgram reads an ELF binary, or a raw image when the file does
// not start with the ELF magic.
func loadProgram(path string) (*loader.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	magic := make([]byte, 4)
	n, _ := f.Read(magic)
	_ = f.Close()

	if n == 4 && string(magic) == "\x7fELF" {
		return loader.Load(path)
	}
	return loader.LoadImage(path, uint32(*base))
}

// fillMemory copies all program segments into memory, zero-filling BSS
// tails.
func fillMemory(memory *emu.Memory, prog *loader.Program) {
	for _, seg := range prog.Segments {
		memory.LoadProgram(seg.VirtAddr, seg.Data)
		for i := uint32(len(seg.Data)); i < seg.MemSize; i++ {
			memory.Write8(seg.VirtAddr+i, 0)
		}
	}
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(prog *loader.Program) int32 {
	memory := emu.NewMemory()
	fillMemory(memory, prog)

	emulator := emu.NewEmulator(
		emu.WithMemory(memory),
		emu.WithMaxInstructions(*maxInsts),
	)
	emulator.LoadProgram(prog.EntryPoint, nil)

	exitCode := emulator.Run()

	if *verbose {
		fmt.Printf("\nExit code: %d\n", exitCode)
		fmt.Printf("Instructions executed: %d\n", emulator.InstructionCount())
	}

	return exitCode
}

// runTiming runs the program on the cycle-accurate core.
func runTiming(prog *loader.Program, config *latency.TimingConfig) int32 {
	memory := emu.NewMemory()
	fillMemory(memory, prog)

	ioPred := config.IOPredicate()
	console := mem.NewConsole(os.Stdout)
	console.WriteWait = config.IOWriteWait

	var dev core.BusDevice
	if config.CacheEnable {
		cached := mem.NewCachedRAM(mem.CacheConfig{
			Size:          config.CacheSize,
			Associativity: config.CacheAssociativity,
			BlockSize:     config.CacheBlockSize,
			HitWait:       config.CacheHitWait,
			MissWait:      config.CacheMissWait,
		}, memory)
		if ioPred != nil {
			cached.SetIO(ioPred, console)
		}
		dev = cached
	} else {
		ram := mem.NewRAM(memory, config.RAMReadWait, config.RAMWriteWait)
		if ioPred != nil {
			ram.SetIO(ioPred, console)
		}
		dev = ram
	}

	regFile := &emu.RegFile{}
	c := core.NewCore(core.Config{
		ResetAddr:    prog.EntryPoint,
		AddrWidth:    config.AddrWidth,
		CounterWidth: config.CounterWidth,
		IOAddr:       ioPred,
		FastShift:    config.FastShift,
	}, regFile)

	machine := core.NewMachine(c, dev)
	halted := machine.Run(*maxCycles)

	stats := machine.Stats()
	if *verbose {
		fmt.Printf("\nCycles: %d\n", stats.Cycles)
		fmt.Printf("Instructions retired: %d\n", stats.Instructions)
		fmt.Printf("Stall cycles: %d\n", stats.Stalls)
		fmt.Printf("CPI: %.2f\n", stats.CPI())
		if !halted {
			fmt.Printf("Stopped at cycle limit without halting\n")
		}
	}

	if !halted {
		return -1
	}
	return machine.ExitCode()
}
