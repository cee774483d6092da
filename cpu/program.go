package cpu

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"

	"github.com/ezrec/bcpu/internal"
)

// Statement is an assembled source line, with its address and encoding.
type Statement struct {
	LineNo int    // Source line number.
	Addr   uint32 // Address of the first byte.
	Text   string // Source text, without label or comment.
	Bytes  []byte // Encoded bytes.
	Data   bool   // Set for data directives.
}

// Program is the result of an assembly: the memory image and label table.
type Program struct {
	Code       []byte            // Code segment, followed by the data segment.
	CodeSize   uint32            // Size of the code segment.
	CodeLabel  map[string]uint32 // Labels in the code segment.
	DataLabel  map[string]uint32 // Labels in the data segment.
	Statements []Statement       // Listing, in address order.
}

// Debug locates an address within the program listing.
type Debug struct {
	*Statement
	Index int
}

// Debug returns the statement covering addr, and the offset of addr in it.
func (prog *Program) Debug(addr uint32) (dbg Debug) {
	for n, st := range prog.Statements {
		if addr >= st.Addr && addr < st.Addr+uint32(len(st.Bytes)) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(addr - st.Addr),
			}
			break
		}
	}

	return
}

// Label returns the address of a code or data label.
func (prog *Program) Label(name string) (addr uint32, ok bool) {
	addr, ok = prog.CodeLabel[name]
	if ok {
		return
	}

	addr, ok = prog.DataLabel[name]
	return
}

func sortedLabels(labels map[string]uint32) iter.Seq2[string, uint32] {
	return func(yield func(name string, addr uint32) bool) {
		for _, name := range slices.Sorted(maps.Keys(labels)) {
			if !yield(name, labels[name]) {
				return
			}
		}
	}
}

// Labels iterates over the code labels, then the data labels, each by name.
func (prog *Program) Labels() iter.Seq2[string, uint32] {
	return internal.IterSeq2Concat(sortedLabels(prog.CodeLabel), sortedLabels(prog.DataLabel))
}

const listingBytes = 8 // Bytes per listing row.

// Listing writes an address, bytes and source listing of the program.
// Labels with no statement at their address follow the last statement.
func (prog *Program) Listing(w io.Writer) (err error) {
	labels := map[uint32][]string{}
	for name, addr := range prog.Labels() {
		labels[addr] = append(labels[addr], name)
	}

	listed := map[uint32]bool{}
	for _, st := range prog.Statements {
		if !listed[st.Addr] {
			for _, name := range labels[st.Addr] {
				err = listLabel(w, st.Addr, name)
				if err != nil {
					return
				}
			}
			listed[st.Addr] = true
		}
		for n := 0; n < len(st.Bytes) || n == 0; n += listingBytes {
			chunk := st.Bytes[n:min(n+listingBytes, len(st.Bytes))]
			text := ""
			if n == 0 {
				text = fmt.Sprintf("%5d  %v", st.LineNo, st.Text)
			}
			_, err = fmt.Fprintf(w, "%04X %-*s %v\n", st.Addr+uint32(n), 3*listingBytes, fmt.Sprintf("% X", chunk), text)
			if err != nil {
				return
			}
		}
	}

	for name, addr := range prog.Labels() {
		if listed[addr] {
			continue
		}
		err = listLabel(w, addr, name)
		if err != nil {
			return
		}
	}

	return
}

func listLabel(w io.Writer, addr uint32, name string) (err error) {
	_, err = fmt.Fprintf(w, "%04X %*s %v:\n", addr, 3*listingBytes, "", name)
	return
}
