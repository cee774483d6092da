package cpu

import (
	"encoding/binary"
	"fmt"
)

// AluInstruction is a decoded two-operand instruction.
type AluInstruction struct {
	Op  Opcode
	Dst Operand
	Src Operand
}

// Size returns the encoded size: opcode byte plus both operands.
func (ins AluInstruction) Size() int {
	return SIZE_ALU_BASE + len(ins.Dst.Name) + len(ins.Src.Name)
}

// Encode appends the instruction encoding to buf.
func (ins AluInstruction) Encode(buf []byte) []byte {
	buf = append(buf, byte(ins.Op))
	buf = ins.Dst.Encode(buf)
	return ins.Src.Encode(buf)
}

func (ins AluInstruction) String() string {
	return fmt.Sprintf("%v %v, %v", ins.Op, ins.Dst, ins.Src)
}

// DecodeAlu decodes the two-operand instruction at pc.
func DecodeAlu(mem *Memory, pc uint32) (ins AluInstruction, err error) {
	code, err := mem.Byte(pc)
	if err != nil {
		return
	}

	dst, dst_size, err := DecodeOperand(mem, pc+1)
	if err != nil {
		return
	}

	src, _, err := DecodeOperand(mem, pc+1+uint32(dst_size))
	if err != nil {
		return
	}

	ins = AluInstruction{Op: Opcode(code), Dst: dst, Src: src}
	return
}

// JumpInstruction is a decoded control transfer to an absolute address.
type JumpInstruction struct {
	Op     Opcode
	Target uint32
}

// Size returns the encoded size.
func (ins JumpInstruction) Size() int {
	return SIZE_JUMP
}

// Encode appends the instruction encoding to buf.
func (ins JumpInstruction) Encode(buf []byte) []byte {
	buf = append(buf, byte(ins.Op))
	return binary.LittleEndian.AppendUint32(buf, ins.Target)
}

func (ins JumpInstruction) String() string {
	return fmt.Sprintf("%v %d", ins.Op, ins.Target)
}

// DecodeJump decodes the jump instruction at pc.
func DecodeJump(mem *Memory, pc uint32) (ins JumpInstruction, err error) {
	code, err := mem.Byte(pc)
	if err != nil {
		return
	}

	target, err := mem.ReadDword(pc + 1)
	if err != nil {
		return
	}

	ins = JumpInstruction{Op: Opcode(code), Target: target}
	return
}
