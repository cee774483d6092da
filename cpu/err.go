package cpu

import (
	"errors"

	"github.com/ezrec/bcpu/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted          = errors.New(f("halted"))
	ErrMemoryBounds    = errors.New(f("memory out of bounds"))
	ErrDivideByZero    = errors.New(f("divide by zero"))
	ErrImmediateWrite  = errors.New(f("immediate is not writable"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrOperandDecode   = errors.New(f("operand decode"))

	// Assembler errors
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrTargetMissing   = errors.New(f("target missing"))
	ErrValueMissing    = errors.New(f("value missing"))
	ErrCharacterQuote  = errors.New(f("unterminated character quote"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrInstructionUnknown string

func (err ErrInstructionUnknown) Error() string {
	return f("unknown instruction %v", string(err))
}

type ErrDirectiveUnknown string

func (err ErrDirectiveUnknown) Error() string {
	return f("unknown data directive %v", string(err))
}

type ErrOperandUnknown string

func (err ErrOperandUnknown) Error() string {
	return f("unknown operand '%v'", string(err))
}

// ErrOperandCount is returned when a two-operand instruction does not
// have exactly two operands.
type ErrOperandCount struct {
	Mnemonic string
	Count    int
}

func (err ErrOperandCount) Error() string {
	return f("%v takes 2 operands, not %v", err.Mnemonic, err.Count)
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrAccess is a memory access outside of the CPU memory.
type ErrAccess struct {
	Addr uint32
	Size int
}

func (err ErrAccess) Error() string {
	return f("%v byte access at %v: %v", err.Size, err.Addr, ErrMemoryBounds)
}

func (err ErrAccess) Unwrap() error {
	return ErrMemoryBounds
}

// ErrOpcodeUnknown is an unrecognized opcode byte at the program counter.
type ErrOpcodeUnknown struct {
	Addr uint32
	Code byte
}

func (err ErrOpcodeUnknown) Error() string {
	return f("bad opcode %#02x at %v", err.Code, err.Addr)
}

// ErrExecute wraps a fault raised while executing the instruction at Addr.
type ErrExecute struct {
	Addr uint32
	Op   Opcode
	Err  error
}

func (err *ErrExecute) Error() string {
	return f("%v at %v: %v", err.Op, err.Addr, err.Err)
}

func (err *ErrExecute) Unwrap() error {
	return err.Err
}
