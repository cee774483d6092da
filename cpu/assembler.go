// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const COMMENT = "//" // Starts a comment that runs to the end of the line.

var (
	labelPattern    = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)\s*:(.*)$`)
	registerPattern = regexp.MustCompile(`^E?[ABCD]X$`)
	memoryPattern   = regexp.MustCompile(`^\[(.*)\]$`)
	numberPattern   = regexp.MustCompile(`^-?\d+$`)
	symbolPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

// Assembler is a two pass assembler. It only holds configuration; every
// call to Assemble or Parse works on its own state.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string // Values for $() expressions.
}

// Predefine defines a new value, or redefines an existing value, for use
// in $() expressions.
func (asm *Assembler) Predefine(name string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// pending is an instruction buffered by pass 1, to be encoded in pass 2.
type pending struct {
	lineNo int
	line   string
	text   string
	addr   uint32
	size   int
	op     Opcode
	args   []string
}

// assembly is the state of a single assembler invocation.
type assembly struct {
	verbose bool

	predeclared starlark.StringDict

	codeAddr  uint32
	dataAddr  uint32
	codeLabel map[string]uint32
	dataLabel map[string]uint32

	pending []pending
	data    []byte
	dataSt  []Statement
}

// Assemble assembles source lines with a default assembler.
func Assemble(lines []string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Assemble(lines)
}

// Parse assembles the lines of an input stream.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var lines []string

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	return asm.Assemble(lines)
}

// Assemble translates source lines into a Program.
func (asm *Assembler) Assemble(lines []string) (prog *Program, err error) {
	as := &assembly{
		verbose:     asm.Verbose,
		predeclared: starlark.StringDict{},
		codeLabel:   map[string]uint32{},
		dataLabel:   map[string]uint32{},
	}

	for name, str := range asm.predefine {
		value, err := strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Only integer values are usable in expressions.
			continue
		}
		as.predeclared[name] = starlark.MakeInt64(value)
	}

	for n, text := range lines {
		err = as.firstPass(n+1, text)
		if err != nil {
			return
		}
	}

	return as.secondPass()
}

// firstPass assigns addresses to a line, and records its labels.
func (as *assembly) firstPass(lineno int, text string) (err error) {
	line, _, _ := strings.Cut(text, COMMENT)
	line = strings.TrimSpace(line)

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if len(line) == 0 {
		return
	}

	if as.verbose {
		log.Printf("asm: %v: %v", lineno, line)
	}

	stmt, err := as.expand(line, lineno)
	if err != nil {
		return
	}

	var label string
	match := labelPattern.FindStringSubmatch(stmt)
	if match != nil {
		label = match[1]
		stmt = strings.TrimSpace(match[2])
	}

	word, args := splitWord(stmt)
	word = strings.ToUpper(word)
	directive := isDirective(word)

	if len(label) != 0 {
		_, in_code := as.codeLabel[label]
		_, in_data := as.dataLabel[label]
		if in_code || in_data {
			err = ErrLabelDuplicate
			return
		}
		if directive {
			as.dataLabel[label] = as.dataAddr
		} else {
			as.codeLabel[label] = as.codeAddr
		}
	}

	if len(word) == 0 {
		return
	}

	if directive {
		var data []byte
		data, err = encodeData(word, args)
		if err != nil {
			return
		}
		as.dataSt = append(as.dataSt, Statement{
			LineNo: lineno,
			Addr:   as.dataAddr,
			Text:   stmt,
			Bytes:  data,
			Data:   true,
		})
		as.data = append(as.data, data...)
		as.dataAddr += uint32(len(data))
		return
	}

	op, ok := LookupMnemonic(word)
	if !ok {
		err = ErrInstructionUnknown(word)
		return
	}

	ins := pending{
		lineNo: lineno,
		line:   line,
		text:   stmt,
		addr:   as.codeAddr,
		op:     op,
	}

	switch op.Class() {
	case CLASS_NONE:
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		ins.size = SIZE_NONE
	case CLASS_JUMP:
		if len(args) == 0 {
			err = ErrTargetMissing
			return
		}
		ins.args = []string{args}
		ins.size = SIZE_JUMP
	case CLASS_ALU:
		ins.args = splitOperands(args)
		if len(ins.args) != 2 {
			err = ErrOperandCount{Mnemonic: word, Count: len(ins.args)}
			return
		}
		ins.size = SIZE_ALU_BASE
		for _, arg := range ins.args {
			var size int
			size, err = operandNameSize(arg)
			if err != nil {
				return
			}
			ins.size += size
		}
	}

	if as.verbose {
		log.Printf("asm: %v (%v bytes)", &ins, ins.size)
	}

	as.pending = append(as.pending, ins)
	as.codeAddr += uint32(ins.size)

	return
}

// secondPass encodes the buffered instructions, and appends the data.
func (as *assembly) secondPass() (prog *Program, err error) {
	codeSize := as.codeAddr

	dataLabel := make(map[string]uint32, len(as.dataLabel))
	for name, offset := range as.dataLabel {
		dataLabel[name] = offset + codeSize
	}

	labels := maps.Clone(as.codeLabel)
	maps.Copy(labels, dataLabel)

	prog = &Program{
		CodeSize:  codeSize,
		CodeLabel: maps.Clone(as.codeLabel),
		DataLabel: dataLabel,
	}

	for _, ins := range as.pending {
		var code []byte
		code, err = ins.encode(labels)
		if err != nil {
			err = &ErrSyntax{LineNo: ins.lineNo, Line: ins.line, Err: err}
			prog = nil
			return
		}
		prog.Code = append(prog.Code, code...)
		prog.Statements = append(prog.Statements, Statement{
			LineNo: ins.lineNo,
			Addr:   ins.addr,
			Text:   ins.text,
			Bytes:  code,
		})
	}

	prog.Code = append(prog.Code, as.data...)
	for _, st := range as.dataSt {
		st.Addr += codeSize
		prog.Statements = append(prog.Statements, st)
	}

	if as.verbose {
		log.Printf("asm: %v code bytes, %v data bytes", codeSize, len(as.data))
	}

	return
}

// encode generates the machine code of a pending instruction.
func (ins *pending) encode(labels map[string]uint32) (code []byte, err error) {
	switch ins.op.Class() {
	case CLASS_NONE:
		code = []byte{byte(ins.op)}
	case CLASS_JUMP:
		var target uint32
		target, err = resolveValue(ins.args[0], labels)
		if err != nil {
			return
		}
		code = JumpInstruction{Op: ins.op, Target: target}.Encode(nil)
	case CLASS_ALU:
		alu := AluInstruction{Op: ins.op}
		alu.Dst, err = parseOperand(ins.args[0], labels)
		if err != nil {
			return
		}
		alu.Src, err = parseOperand(ins.args[1], labels)
		if err != nil {
			return
		}
		code = alu.Encode(make([]byte, 0, alu.Size()))
	default:
		err = ErrInstructionUnknown(ins.op.String())
	}

	return
}

const exprOpen = "$(" // Starts a compile-time expression.

// expand replaces $(...) expressions with their decimal value.
func (as *assembly) expand(line string, lineno int) (out string, err error) {
	var sb strings.Builder

	for {
		start := strings.Index(line, exprOpen)
		if start < 0 {
			break
		}

		end := closeParen(line, start+1)
		if end < 0 {
			err = ErrParseExpression(line[start+len(exprOpen):])
			return
		}

		var value int64
		value, err = as.parenEval(line[start+len(exprOpen):end], lineno)
		if err != nil {
			return
		}

		sb.WriteString(line[:start])
		sb.WriteString(strconv.FormatInt(value, 10))
		line = line[end+1:]
	}

	sb.WriteString(line)
	out = sb.String()
	return
}

// closeParen returns the index of the ')' balancing the '(' at open,
// or -1 if there is none.
func closeParen(line string, open int) int {
	depth := 0
	for n := open; n < len(line); n++ {
		switch line[n] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return n
			}
		}
	}

	return -1
}

// parenEval does compile-time $(...) evaluations.
func (as *assembly) parenEval(expr string, lineno int) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := maps.Clone(as.predeclared)
	pred["LINENO"] = starlark.MakeInt(lineno)

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}

// splitWord splits a statement into its first word and the trimmed remainder.
func splitWord(stmt string) (word string, rest string) {
	n := strings.IndexFunc(stmt, unicode.IsSpace)
	if n < 0 {
		return stmt, ""
	}

	return stmt[:n], strings.TrimSpace(stmt[n:])
}

// isDirective returns true if the word names a data directive.
func isDirective(word string) bool {
	return strings.HasPrefix(word, "DB") || strings.HasPrefix(word, "DW") || strings.HasPrefix(word, "DD")
}

// splitOperands splits a comma separated operand list.
func splitOperands(args string) (operands []string) {
	if len(args) == 0 {
		return
	}

	for _, arg := range strings.Split(args, ",") {
		operands = append(operands, strings.TrimSpace(arg))
	}

	return
}

// splitItems splits a comma separated data list, keeping quoted commas.
func splitItems(args string) (items []string) {
	quoted := false
	start := 0
	for n, c := range args {
		switch {
		case c == '\'':
			quoted = !quoted
		case c == ',' && !quoted:
			items = append(items, strings.TrimSpace(args[start:n]))
			start = n + 1
		}
	}

	return append(items, strings.TrimSpace(args[start:]))
}

// valueOf parses a decimal 32-bit value, signed or unsigned.
func valueOf(word string) (value uint32, err error) {
	v64, err := strconv.ParseInt(word, 10, 64)
	if err != nil || v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)
	return
}

// resolveValue resolves a decimal literal or a label to a value.
func resolveValue(word string, labels map[string]uint32) (value uint32, err error) {
	if len(word) == 0 {
		err = ErrValueMissing
		return
	}

	if numberPattern.MatchString(word) {
		return valueOf(word)
	}

	value, ok := labels[word]
	if !ok {
		err = ErrLabelMissing(word)
	}

	return
}

// operandNameSize returns the number of name bytes an operand encodes
// to, without needing the label table.
func operandNameSize(word string) (size int, err error) {
	switch {
	case registerPattern.MatchString(word):
		size = len(word)
	case memoryPattern.MatchString(word),
		numberPattern.MatchString(word),
		symbolPattern.MatchString(word):
		size = 0
	default:
		err = ErrOperandUnknown(word)
	}

	return
}

// parseOperand parses the text of an operand.
func parseOperand(word string, labels map[string]uint32) (op Operand, err error) {
	if registerPattern.MatchString(word) {
		return RegisterOperand(word)
	}

	if match := memoryPattern.FindStringSubmatch(word); match != nil {
		var addr uint32
		addr, err = resolveValue(strings.TrimSpace(match[1]), labels)
		if err != nil {
			return
		}
		op = MemoryOperand(addr)
		return
	}

	if numberPattern.MatchString(word) {
		var value uint32
		value, err = valueOf(word)
		if err != nil {
			return
		}
		op = ImmediateOperand(value)
		return
	}

	addr, ok := labels[word]
	if !ok {
		err = ErrOperandUnknown(word)
		return
	}

	op = ImmediateOperand(addr)
	return
}

// encodeData encodes the items of a DB, DW or DD directive.
func encodeData(directive string, args string) (data []byte, err error) {
	switch directive {
	case "DB", "DW", "DD":
	default:
		err = ErrDirectiveUnknown(directive)
		return
	}

	if len(args) == 0 {
		err = ErrValueMissing
		return
	}

	for _, item := range splitItems(args) {
		if directive == "DB" && strings.HasPrefix(item, "'") {
			if len(item) < 2 || !strings.HasSuffix(item, "'") {
				err = ErrCharacterQuote
				return
			}
			data = append(data, item[1:len(item)-1]...)
			continue
		}

		var value uint32
		value, err = valueOf(item)
		if err != nil {
			return
		}

		switch directive {
		case "DB":
			data = append(data, byte(value))
		case "DW":
			data = binary.LittleEndian.AppendUint16(data, uint16(value))
		case "DD":
			data = binary.LittleEndian.AppendUint32(data, value)
		}
	}

	return
}

// String returns a short description of a pending instruction.
func (ins *pending) String() string {
	return fmt.Sprintf("%04x: %v", ins.addr, ins.text)
}
