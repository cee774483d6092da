// Package cpu implements the byte-oriented CPU and its assembler.
//
// The CPU consists of a program counter, a zero flag, four 32-bit
// general-purpose registers (EAX-EDX, whose low halves are addressable as
// AX-DX), and 1024 bytes of memory shared by code and data.
//
// Instructions are variable length. NOP and HLT are a single opcode byte,
// jumps are an opcode byte and a 32-bit absolute address, and the two
// operand instructions encode each operand as a kind byte, a name length
// byte, the register name, and a 32-bit value. Multi-byte values are
// little-endian throughout.
//
// The assembler is two pass: the first pass assigns addresses to labels in
// the code and data segments, the second pass encodes the instructions and
// appends the data segment after the code.
package cpu
