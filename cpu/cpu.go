// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
)

// Cpu is the simulation context for the byte-oriented CPU.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       uint32                 // Program counter.
	Zero     bool                   // Zero flag, set by arithmetic and compare.
	Register [REGISTER_COUNT]uint32 // Register bank.
	Memory   Memory                 // Code and data memory.

	Ticks  int  // Executed instruction counter.
	Halted bool // Set once HLT has executed.
}

// NewCpu creates a new CPU with cleared memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Reset the CPU state.
// - Clears the registers and zero flag.
// - Zeros the tick counter.
// - Sets the program counter to 0.
//
// Memory is left as is.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Pc = 0
	cpu.Zero = false
	cpu.Ticks = 0
	cpu.Halted = false
}

// LoadProgram copies machine code to address 0, and resets the CPU so
// the next Run starts from address 0. Memory past the program is
// cleared, and a program larger than memory is truncated.
func (cpu *Cpu) LoadProgram(code []byte) (n int) {
	n = cpu.Memory.Load(code)

	if cpu.Verbose {
		log.Printf("cpu: loaded %v of %v bytes", n, len(code))
	}

	cpu.Reset()

	return
}

// ReadInt reads a 32-bit value from memory.
func (cpu *Cpu) ReadInt(addr uint32) (value uint32, err error) {
	return cpu.Memory.ReadDword(addr)
}

// ReadWord reads a 16-bit value from memory.
func (cpu *Cpu) ReadWord(addr uint32) (value uint32, err error) {
	return cpu.Memory.ReadWord(addr)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "zero", "eax", "ebx", "ecx", "edx"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04X", cpu.Pc)
		case "zero":
			strval = "false"
			if cpu.Zero {
				strval = "true"
			}
		default:
			val := cpu.Register[reg[1]-'a']
			strval = fmt.Sprintf("%04X_%04X", val>>16, val&0xffff)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Run executes from the current program counter until HLT, or an error.
func (cpu *Cpu) Run() (err error) {
	for {
		err = cpu.Tick()
		if errors.Is(err, ErrHalted) {
			return nil
		}
		if err != nil {
			return
		}
	}
}

// Tick fetches, decodes and executes a single instruction.
// Returns ErrHalted once HLT has been executed.
//
// Faults of a decoded instruction are returned as *ErrExecute; an
// unknown opcode as ErrOpcodeUnknown.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		return ErrHalted
	}

	pc := cpu.Pc
	code, err := cpu.Memory.Byte(pc)
	if err != nil {
		return
	}

	op := Opcode(code)
	if op.Class() == CLASS_INVALID {
		err = ErrOpcodeUnknown{Addr: pc, Code: code}
		return
	}

	defer func() {
		if err != nil && !errors.Is(err, ErrHalted) {
			err = &ErrExecute{Addr: pc, Op: op, Err: err}
		}
	}()

	switch op.Class() {
	case CLASS_NONE:
		if cpu.Verbose {
			log.Printf("cpu: %04x: %v", pc, op)
		}
		cpu.Ticks++
		if op == OP_HLT {
			cpu.Halted = true
			err = ErrHalted
			return
		}
		cpu.Pc = pc + SIZE_NONE
	case CLASS_ALU:
		var ins AluInstruction
		ins, err = DecodeAlu(&cpu.Memory, pc)
		if err != nil {
			return
		}
		if cpu.Verbose {
			log.Printf("cpu: %04x: %v", pc, ins)
		}
		cpu.Ticks++
		cpu.Pc = pc + uint32(ins.Size())
		err = cpu.executeAlu(ins)
		if err != nil {
			return
		}
		if cpu.Verbose {
			log.Printf("cpu: eax=%08x ebx=%08x ecx=%08x edx=%08x zero=%v",
				cpu.Register[REG_EAX], cpu.Register[REG_EBX],
				cpu.Register[REG_ECX], cpu.Register[REG_EDX], cpu.Zero)
		}
	case CLASS_JUMP:
		var ins JumpInstruction
		ins, err = DecodeJump(&cpu.Memory, pc)
		if err != nil {
			return
		}
		if cpu.Verbose {
			log.Printf("cpu: %04x: %v", pc, ins)
		}
		cpu.Ticks++
		cpu.Pc = pc + SIZE_JUMP
		cpu.executeJump(ins)
	}

	return
}

// executeAlu performs a two-operand instruction.
func (cpu *Cpu) executeAlu(ins AluInstruction) (err error) {
	dst, err := cpu.load(ins.Dst)
	if err != nil {
		return
	}
	src, err := cpu.load(ins.Src)
	if err != nil {
		return
	}

	var result uint32

	switch ins.Op {
	case OP_MOV:
		return cpu.store(ins.Dst, src)
	case OP_ADD:
		result = dst + src
	case OP_SUB:
		result = dst - src
	case OP_MUL:
		result = dst * src
	case OP_DIV:
		if src == 0 {
			return ErrDivideByZero
		}
		result = uint32(int32(dst) / int32(src))
	case OP_CMP:
		cpu.Zero = dst-src == 0
		return
	default:
		panic("unknown alu op")
	}

	err = cpu.store(ins.Dst, result)
	if err != nil {
		return
	}

	cpu.Zero = result == 0
	return
}

// executeJump performs a control transfer. The program counter already
// holds the fall through address.
func (cpu *Cpu) executeJump(ins JumpInstruction) {
	switch ins.Op {
	case OP_JMP:
		cpu.Pc = ins.Target
	case OP_JE:
		if cpu.Zero {
			cpu.Pc = ins.Target
		}
	case OP_JNE:
		if !cpu.Zero {
			cpu.Pc = ins.Target
		}
	}
}

// load returns the value of an operand.
func (cpu *Cpu) load(op Operand) (value uint32, err error) {
	switch op.Kind {
	case OPERAND_REGISTER:
		reg, wide, ok := LookupRegister(op.Name)
		if !ok {
			err = errors.Join(ErrRegisterInvalid, ErrOperandUnknown(op.Name))
			return
		}
		value = cpu.Register[reg]
		if !wide {
			value &= 0xffff
		}
	case OPERAND_MEMORY:
		value, err = cpu.Memory.Read(op.Value, op.Wide)
	case OPERAND_IMMEDIATE:
		value = op.Value
	default:
		err = ErrOperandDecode
	}

	return
}

// store writes the value of an operand. A 16-bit register only has its
// low half replaced.
func (cpu *Cpu) store(op Operand, value uint32) (err error) {
	switch op.Kind {
	case OPERAND_REGISTER:
		reg, wide, ok := LookupRegister(op.Name)
		if !ok {
			err = errors.Join(ErrRegisterInvalid, ErrOperandUnknown(op.Name))
			return
		}
		if wide {
			cpu.Register[reg] = value
		} else {
			cpu.Register[reg] = (cpu.Register[reg] & 0xffff0000) | (value & 0xffff)
		}
	case OPERAND_MEMORY:
		err = cpu.Memory.Write(op.Value, op.Wide, value)
	case OPERAND_IMMEDIATE:
		err = ErrImmediateWrite
	default:
		err = ErrOperandDecode
	}

	return
}
