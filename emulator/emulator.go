// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/bcpu/cpu"
	"github.com/ezrec/bcpu/internal"
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", cpu.MEMORY_SIZE),
	"WORD_SIZE":   fmt.Sprintf("%v", cpu.WORD_SIZE),
	"DWORD_SIZE":  fmt.Sprintf("%v", cpu.DWORD_SIZE),
}

// Emulator state. CPU + assembled program.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.
	MaxTicks int          // If non-zero, the tick limit of Run.

	Define map[string]string // Additional assembler defines.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		Define:  map[string]string{},
	}

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		maps.All(emu.Define),
	)
}

// Assemble a program from an input stream, and load it.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	if emu.Verbose {
		log.Printf("emu: defines %v", slices.Sorted(internal.IterSeq2Keys(emu.Defines())))
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Load(prog)

	return
}

// Load a program into memory, and reset the CPU.
func (emu *Emulator) Load(prog *cpu.Program) {
	emu.Program = prog
	emu.Cpu.LoadProgram(prog.Code)
	emu.Reset()
}

// Reset the CPU state, keeping memory.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the current line number for the executing statement.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// Returns done once the program has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks && !emu.Cpu.Halted {
		err = ErrTickLimit
		return
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
	}

	return
}

// Run the program until it halts.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emu: halted after %v ticks", emu.Cpu.Ticks)
	}

	return
}

// Label returns the address of a code or data label.
func (emu *Emulator) Label(name string) (addr uint32, err error) {
	addr, ok := emu.Program.Label(name)
	if !ok {
		err = cpu.ErrLabelMissing(name)
	}

	return
}

// Peek reads the value stored at a label: a word, or a double word if
// wide is set.
func (emu *Emulator) Peek(name string, wide bool) (value uint32, err error) {
	addr, err := emu.Label(name)
	if err != nil {
		return
	}

	return emu.Cpu.Memory.Read(addr, wide)
}
