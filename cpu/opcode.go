package cpu

// Opcode is a one-byte instruction code.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode,OpClass,OperandKind,Register
const (
	OP_NOP = Opcode(0x00) // NOP
	OP_MOV = Opcode(0x01) // MOV
	OP_ADD = Opcode(0x02) // ADD
	OP_SUB = Opcode(0x03) // SUB
	OP_MUL = Opcode(0x04) // MUL
	OP_DIV = Opcode(0x05) // DIV
	OP_JMP = Opcode(0x06) // JMP
	OP_CMP = Opcode(0x07) // CMP
	OP_JE  = Opcode(0x08) // JE
	OP_JNE = Opcode(0x09) // JNE
	OP_HLT = Opcode(0xff) // HLT
)

// OpClass groups opcodes by their encoding.
type OpClass int

const (
	CLASS_INVALID = OpClass(0) // invalid
	CLASS_NONE    = OpClass(1) // none
	CLASS_JUMP    = OpClass(2) // jump
	CLASS_ALU     = OpClass(3) // alu
)

const (
	SIZE_NONE     = 1  // Opcode byte only.
	SIZE_JUMP     = 5  // Opcode byte and 32-bit target.
	SIZE_ALU_BASE = 13 // Opcode byte and two operands, excluding name bytes.
)

// Class returns the encoding class of the opcode.
func (op Opcode) Class() OpClass {
	switch op {
	case OP_NOP, OP_HLT:
		return CLASS_NONE
	case OP_JMP, OP_JE, OP_JNE:
		return CLASS_JUMP
	case OP_MOV, OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_CMP:
		return CLASS_ALU
	}

	return CLASS_INVALID
}

// mnemonicMap maps upper-case mnemonics to opcodes.
var mnemonicMap = map[string]Opcode{
	"NOP": OP_NOP,
	"MOV": OP_MOV,
	"ADD": OP_ADD,
	"SUB": OP_SUB,
	"MUL": OP_MUL,
	"DIV": OP_DIV,
	"JMP": OP_JMP,
	"CMP": OP_CMP,
	"JE":  OP_JE,
	"JNE": OP_JNE,
	"HLT": OP_HLT,
}

// LookupMnemonic returns the opcode for an upper-case mnemonic.
func LookupMnemonic(word string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[word]
	return
}
