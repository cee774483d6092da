package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Code))
	assert.Equal(uint32(0), prog.CodeSize)
	assert.Equal(0, len(prog.Statements))
}

func TestAssemblerEncoding(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		line string
		code []byte
	}){
		{"nop", "NOP", []byte{0x00}},
		{"hlt", "HLT", []byte{0xff}},
		{"lower", "hlt", []byte{0xff}},
		{"jmp", "JMP 258", []byte{0x06, 0x02, 0x01, 0x00, 0x00}},
		{"je", "JE 7", []byte{0x08, 0x07, 0x00, 0x00, 0x00}},
		{"jne", "JNE 0", []byte{0x09, 0x00, 0x00, 0x00, 0x00}},
		{"mov_reg_imm", "MOV AX, 1", []byte{
			0x01,
			0x00, 0x02, 'A', 'X', 0x00, 0x00, 0x00, 0x00,
			0x02, 0x00, 0x01, 0x00, 0x00, 0x00,
		}},
		{"add_wide", "ADD EAX,EBX", []byte{
			0x02,
			0x00, 0x03, 'E', 'A', 'X', 0x00, 0x00, 0x00, 0x00,
			0x00, 0x03, 'E', 'B', 'X', 0x00, 0x00, 0x00, 0x00,
		}},
		{"mov_mem", "MOV [300], DX", []byte{
			0x01,
			0x01, 0x00, 0x2c, 0x01, 0x00, 0x00,
			0x00, 0x02, 'D', 'X', 0x00, 0x00, 0x00, 0x00,
		}},
		{"cmp_neg", "CMP CX, -1", []byte{
			0x07,
			0x00, 0x02, 'C', 'X', 0x00, 0x00, 0x00, 0x00,
			0x02, 0x00, 0xff, 0xff, 0xff, 0xff,
		}},
		{"expr", "SUB BX, $(6 * 7)", []byte{
			0x03,
			0x00, 0x02, 'B', 'X', 0x00, 0x00, 0x00, 0x00,
			0x02, 0x00, 42, 0x00, 0x00, 0x00,
		}},
		{"comment", "  MUL AX, 2   // double it", []byte{
			0x04,
			0x00, 0x02, 'A', 'X', 0x00, 0x00, 0x00, 0x00,
			0x02, 0x00, 0x02, 0x00, 0x00, 0x00,
		}},
	}

	for _, entry := range table {
		prog, err := Assemble([]string{entry.line})
		if !assert.NoError(err, entry.name) {
			continue
		}
		assert.Equal(entry.code, prog.Code, entry.name)
		assert.Equal(uint32(len(entry.code)), prog.CodeSize, entry.name)
	}
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		line string
		data []byte
	}){
		{"db_numbers", "DB 1, 2, 255, 256, -1", []byte{1, 2, 255, 0, 255}},
		{"db_string", "DB 'Hi', 0", []byte{'H', 'i', 0}},
		{"db_quoted_comma", "DB 'a,b'", []byte{'a', ',', 'b'}},
		{"dw", "DW 1, 258", []byte{1, 0, 2, 1}},
		{"dd", "DD 16909060", []byte{4, 3, 2, 1}},
		{"dd_neg", "dd -2", []byte{0xfe, 0xff, 0xff, 0xff}},
	}

	for _, entry := range table {
		prog, err := Assemble([]string{"HLT", "x: " + entry.line})
		if !assert.NoError(err, entry.name) {
			continue
		}
		assert.Equal(append([]byte{0xff}, entry.data...), prog.Code, entry.name)
		addr, ok := prog.Label("x")
		assert.True(ok, entry.name)
		assert.Equal(uint32(1), addr, entry.name)
	}
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"        JMP start     // forward reference",
		"first:  DW 10",
		"second: DD 20, 30",
		"start:",
		"        MOV AX, [first]",
		"        MOV EBX, second",
		"back:   JNE back",
		"third:  DB 'abc'",
		"        HLT",
	}

	prog, err := Assemble(program)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	// JMP(5) + MOV AX,[first](15) + MOV EBX,second(16) + JNE(5) + HLT(1)
	codeSize := uint32(5 + 15 + 16 + 5 + 1)
	assert.Equal(codeSize, prog.CodeSize)
	assert.Equal(int(codeSize)+2+8+3, len(prog.Code))

	assert.Equal(map[string]uint32{"start": 5, "back": 36}, prog.CodeLabel)
	assert.Equal(map[string]uint32{
		"first":  codeSize + 0,
		"second": codeSize + 2,
		"third":  codeSize + 10,
	}, prog.DataLabel)

	// JMP start
	assert.Equal([]byte{0x06, 5, 0, 0, 0}, prog.Code[0:5])
	// [first] is a memory operand holding the data address
	assert.Equal(byte(OPERAND_MEMORY), prog.Code[5+1+8])
	assert.Equal(byte(codeSize), prog.Code[5+1+8+2])
	// second is an immediate holding the data address
	assert.Equal(byte(OPERAND_IMMEDIATE), prog.Code[20+1+9])
	assert.Equal(byte(codeSize+2), prog.Code[20+1+9+2])
	// JNE back
	assert.Equal([]byte{0x09, 36, 0, 0, 0}, prog.Code[36:41])

	// data follows the code
	assert.Equal([]byte{10, 0, 20, 0, 0, 0, 30, 0, 0, 0, 'a', 'b', 'c'}, prog.Code[codeSize:])

	var names []string
	for name := range prog.Labels() {
		names = append(names, name)
	}
	assert.Equal([]string{"back", "start", "first", "second", "third"}, names)
}

func TestAssemblerSizes(t *testing.T) {
	assert := assert.New(t)

	// Pass 1 sizes must match the pass 2 encoding, including memory
	// operands and labels placed after them.
	program := []string{
		"MOV [result], AX",
		"MOV [100], EDX",
		"ADD ECX, [result]",
		"CMP AX, result",
		"JE done",
		"NOP",
		"done: HLT",
		"result: DW 0",
	}

	prog, err := Assemble(program)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	var addr uint32
	for _, st := range prog.Statements {
		assert.Equal(addr, st.Addr, st.Text)
		addr += uint32(len(st.Bytes))
	}
	assert.Equal(uint32(len(prog.Code)), addr)

	done, _ := prog.Label("done")
	assert.Equal(byte(OP_HLT), prog.Code[done])

	result, _ := prog.Label("result")
	assert.Equal(prog.CodeSize, result)
	assert.Equal(uint32(15+16+16+15+5+1+1), prog.CodeSize)
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x100")
	asm.Predefine("NAME", "not-a-number")

	prog, err := asm.Assemble([]string{
		"MOV AX, [$(BASE + 2)]",
		"DW $(BASE), $(LINENO)",
	})
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	// [258] as a memory operand
	assert.Equal([]byte{0x01, 0x00, 0x02, 0x01, 0x00, 0x00}, prog.Code[9:15])
	// DW 256, 2
	assert.Equal([]byte{0x00, 0x01, 0x02, 0x00}, prog.Code[15:])
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		line string
		data []byte
	}){
		{"quoted_paren", "DB $(1), ')'", []byte{1, ')'}},
		{"nested", "DB $((1 + 2) * 3), $(LINENO)", []byte{9, 1}},
		{"adjacent", "DB $(2)$(3)", []byte{23}},
		{"inner_call", "DB $(max(4, (5)))", []byte{5}},
	}

	for _, entry := range table {
		prog, err := Assemble([]string{entry.line})
		if !assert.NoError(err, entry.name) {
			continue
		}
		assert.Equal(entry.data, prog.Code, entry.name)
	}
}

func TestAssemblerIndependent(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	first, err := asm.Assemble([]string{"a: NOP", "JMP a"})
	assert.NoError(err)

	// A second run must not see the labels of the first.
	_, err = asm.Assemble([]string{"JMP a"})
	var missing ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(ErrLabelMissing("a"), missing)

	assert.Equal(map[string]uint32{"a": 0}, first.CodeLabel)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	// Various syntax errors
	table := [](struct {
		prog string
		line int
		err  error
	}){
		{"FOO 1,2", 1, ErrInstructionUnknown("FOO")},
		{"NOP\nDBX 1", 2, ErrDirectiveUnknown("DBX")},
		{"MOV AX", 1, ErrOperandCount{Mnemonic: "MOV", Count: 1}},
		{"ADD AX, BX, CX", 1, ErrOperandCount{Mnemonic: "ADD", Count: 3}},
		{"CMP", 1, ErrOperandCount{Mnemonic: "CMP", Count: 0}},
		{"MOV AX, @x", 1, ErrOperandUnknown("@x")},
		{"MOV AX, nowhere", 1, ErrOperandUnknown("nowhere")},
		{"MOV AX, [nowhere]", 1, ErrLabelMissing("nowhere")},
		{"NOP\n\nJMP nowhere", 3, ErrLabelMissing("nowhere")},
		{"JMP", 1, ErrTargetMissing},
		{"HLT now", 1, ErrOpcodeExtraArgs},
		{"a: NOP\na: NOP", 2, ErrLabelDuplicate},
		{"a: NOP\na: DB 1", 2, ErrLabelDuplicate},
		{"DB", 1, ErrValueMissing},
		{"DW 'ab'", 1, ErrParseNumber("'ab'")},
		{"DB 'ab", 1, ErrCharacterQuote},
		{"DD 1,,2", 1, ErrParseNumber("")},
		{"DD 99999999999", 1, ErrParseNumber("99999999999")},
		{"MOV AX, 4294967296", 1, ErrParseNumber("4294967296")},
		{"MOV AX, $(1 +)", 1, ErrParseExpression("1 +")},
		{"MOV AX, $(\"str\")", 1, ErrParseExpression("\"str\"")},
		{"NOP\nDB $(1", 2, ErrParseExpression("1")},
		{"DB $((1)", 1, ErrParseExpression("(1)")},
	}

	for _, entry := range table {
		_, err := Assemble(strings.Split(entry.prog, "\n"))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
			assert.ErrorIs(err, entry.err, entry.prog)
		}
	}
}

func TestAssemblerUnknownInstruction(t *testing.T) {
	assert := assert.New(t)

	_, err := Assemble([]string{"FOO 1,2"})

	var unknown ErrInstructionUnknown
	assert.True(errors.As(err, &unknown))
	assert.Equal("FOO", string(unknown))
	assert.Contains(err.Error(), "FOO")
}
