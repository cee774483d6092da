package cpu

import (
	"encoding/binary"
	"fmt"
)

// OperandKind is the encoded operand type byte.
type OperandKind uint8

const (
	OPERAND_REGISTER  = OperandKind(0) // register
	OPERAND_MEMORY    = OperandKind(1) // memory
	OPERAND_IMMEDIATE = OperandKind(2) // immediate
)

// Operand is a register, memory address, or immediate value.
type Operand struct {
	Kind  OperandKind
	Name  string // Register name, empty for other kinds.
	Value uint32 // Memory address or immediate value, 0 for registers.
	Wide  bool   // 32-bit access if set, 16-bit otherwise.
}

// RegisterOperand returns the operand for a register name.
func RegisterOperand(name string) (op Operand, err error) {
	_, wide, ok := LookupRegister(name)
	if !ok {
		err = ErrRegisterInvalid
		return
	}

	op = Operand{Kind: OPERAND_REGISTER, Name: name, Wide: wide}
	return
}

// MemoryOperand returns the operand for a 16-bit memory access at addr.
func MemoryOperand(addr uint32) Operand {
	return Operand{Kind: OPERAND_MEMORY, Value: addr}
}

// ImmediateOperand returns the operand for a constant value.
func ImmediateOperand(value uint32) Operand {
	return Operand{Kind: OPERAND_IMMEDIATE, Value: value}
}

// Size returns the number of encoded bytes.
func (op Operand) Size() int {
	return 1 + 1 + len(op.Name) + DWORD_SIZE
}

// Encode appends the kind, name length, name and 32-bit little-endian value.
func (op Operand) Encode(buf []byte) []byte {
	buf = append(buf, byte(op.Kind), byte(len(op.Name)))
	buf = append(buf, op.Name...)
	return binary.LittleEndian.AppendUint32(buf, op.Value)
}

// DecodeOperand decodes an operand at addr, returning its encoded size.
func DecodeOperand(mem *Memory, addr uint32) (op Operand, size int, err error) {
	kind, err := mem.Byte(addr)
	if err != nil {
		return
	}
	if OperandKind(kind) > OPERAND_IMMEDIATE {
		err = ErrOperandDecode
		return
	}

	length, err := mem.Byte(addr + 1)
	if err != nil {
		return
	}

	name, err := mem.Bytes(addr+2, int(length))
	if err != nil {
		return
	}

	value, err := mem.ReadDword(addr + 2 + uint32(length))
	if err != nil {
		return
	}

	op = Operand{Kind: OperandKind(kind), Name: string(name), Value: value}
	if op.Kind == OPERAND_REGISTER {
		_, op.Wide, _ = LookupRegister(op.Name)
	}
	size = op.Size()

	return
}

// String returns the assembly text of the operand.
func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_REGISTER:
		return op.Name
	case OPERAND_MEMORY:
		return fmt.Sprintf("[%d]", op.Value)
	default:
		return fmt.Sprintf("%d", op.Value)
	}
}
