package main

import (
	"bytes"
	"fmt"
	"io"
	"slices"
)

const (
	hexdumpMinRow = 8  // Fewest bytes per hexdump row.
	hexdumpMaxRow = 32 // Most bytes per hexdump row.
)

// hexdumpRow returns the bytes per row that fit in width columns, as a
// power of two. A row of n bytes is 4n+6 columns wide.
func hexdumpRow(width int) (row int) {
	row = hexdumpMinRow
	for row < hexdumpMaxRow && 4*(row*2)+6 <= width {
		row *= 2
	}
	return
}

// Hexdump writes data as rows of address, hex bytes and printable text,
// fitted to width columns. Runs of all-zero rows are shown as '*'.
func Hexdump(w io.Writer, data []byte, width int) (err error) {
	row := hexdumpRow(width)

	elided := false
	for addr := 0; addr < len(data); addr += row {
		chunk := data[addr:min(addr+row, len(data))]
		if bytes.Count(chunk, []byte{0}) == len(chunk) {
			if !elided {
				_, err = fmt.Fprintln(w, "*")
				if err != nil {
					return
				}
			}
			elided = true
			continue
		}
		elided = false

		text := slices.Clone(chunk)
		for n, c := range text {
			if c < 0x20 || c > 0x7e {
				text[n] = '.'
			}
		}

		_, err = fmt.Fprintf(w, "%04X %-*s  %s\n", addr, 3*row-1, fmt.Sprintf("% X", chunk), text)
		if err != nil {
			return
		}
	}

	return
}
