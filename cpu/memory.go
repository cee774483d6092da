package cpu

import (
	"encoding/binary"
	"slices"
)

const (
	MEMORY_SIZE = 1024 // Bytes of CPU memory, shared by code and data.
	WORD_SIZE   = 2    // Bytes in a word.
	DWORD_SIZE  = 4    // Bytes in a double word.
)

// Memory is the flat byte address space of the CPU.
type Memory [MEMORY_SIZE]byte

// check validates that [addr, addr+size) lies inside memory.
func (mem *Memory) check(addr uint32, size int) (err error) {
	if uint64(addr)+uint64(size) > uint64(len(mem)) {
		err = ErrAccess{Addr: addr, Size: size}
	}
	return
}

// Load clears memory and copies code to address 0, truncating anything
// that does not fit. Returns the number of bytes copied.
func (mem *Memory) Load(code []byte) (n int) {
	clear(mem[:])
	n = copy(mem[:], code)
	return
}

// Byte reads a single byte.
func (mem *Memory) Byte(addr uint32) (value byte, err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	value = mem[addr]
	return
}

// Bytes returns a copy of size bytes starting at addr.
func (mem *Memory) Bytes(addr uint32, size int) (data []byte, err error) {
	err = mem.check(addr, size)
	if err != nil {
		return
	}

	data = slices.Clone(mem[addr : int(addr)+size])
	return
}

// ReadWord reads a little-endian 16-bit value.
func (mem *Memory) ReadWord(addr uint32) (value uint32, err error) {
	err = mem.check(addr, WORD_SIZE)
	if err != nil {
		return
	}

	value = uint32(binary.LittleEndian.Uint16(mem[addr:]))
	return
}

// ReadDword reads a little-endian 32-bit value.
func (mem *Memory) ReadDword(addr uint32) (value uint32, err error) {
	err = mem.check(addr, DWORD_SIZE)
	if err != nil {
		return
	}

	value = binary.LittleEndian.Uint32(mem[addr:])
	return
}

// WriteWord writes the low 16 bits of value, little-endian.
func (mem *Memory) WriteWord(addr uint32, value uint32) (err error) {
	err = mem.check(addr, WORD_SIZE)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint16(mem[addr:], uint16(value))
	return
}

// WriteDword writes a little-endian 32-bit value.
func (mem *Memory) WriteDword(addr uint32, value uint32) (err error) {
	err = mem.check(addr, DWORD_SIZE)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint32(mem[addr:], value)
	return
}

// Read reads a double word if wide is set, otherwise a word.
func (mem *Memory) Read(addr uint32, wide bool) (value uint32, err error) {
	if wide {
		return mem.ReadDword(addr)
	}
	return mem.ReadWord(addr)
}

// Write writes a double word if wide is set, otherwise a word.
func (mem *Memory) Write(addr uint32, wide bool, value uint32) (err error) {
	if wide {
		return mem.WriteDword(addr, value)
	}
	return mem.WriteWord(addr, value)
}
