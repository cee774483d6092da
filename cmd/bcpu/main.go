// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ezrec/bcpu/emulator"
	"github.com/ezrec/bcpu/translate"
)

// defines collects repeated -D NAME=VALUE flags.
type defines map[string]string

func (d defines) String() string {
	var text []string
	for name, value := range d {
		text = append(text, name+"="+value)
	}
	return strings.Join(text, ",")
}

func (d defines) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok {
		value = "1"
	}
	if len(name) == 0 {
		return fmt.Errorf("define '%v' has no name", text)
	}
	d[name] = value
	return nil
}

type options struct {
	verbose bool
	listing bool
	wide    bool
	hexdump bool
	ticks   int
	peek    []string
	define  defines
	width   int
}

func main() {
	var verbose bool
	var listing bool
	var ticks int
	var peek string
	var wide bool
	var hexdump bool
	var lang string
	define := defines{}

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&listing, "l", false, "Print the assembly listing")
	flag.IntVar(&ticks, "t", 0, "Tick limit, 0 for none")
	flag.StringVar(&peek, "p", "", "Comma separated labels to print after the run")
	flag.BoolVar(&wide, "w", false, "Print labels as 32-bit values")
	flag.BoolVar(&hexdump, "x", false, "Hexdump memory after the run")
	flag.StringVar(&lang, "lang", "", "Message language (BCP 47)")
	flag.Var(define, "D", "Assembler define NAME=VALUE (repeatable)")

	flag.Parse()

	if len(lang) != 0 {
		translate.SetLanguage(lang)
	}

	if flag.NArg() == 0 {
		log.Fatalf("%v: no input files", os.Args[0])
	}

	opt := &options{
		verbose: verbose,
		listing: listing,
		wide:    wide,
		hexdump: hexdump,
		ticks:   ticks,
		define:  define,
		width:   terminalWidth(),
	}
	for _, name := range strings.Split(peek, ",") {
		name = strings.TrimSpace(name)
		if len(name) != 0 {
			opt.peek = append(opt.peek, name)
		}
	}

	files := flag.Args()
	outputs := make([]bytes.Buffer, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for n, path := range files {
		g.Go(func() error {
			return runFile(path, &outputs[n], opt)
		})
	}
	err := g.Wait()

	for n := range outputs {
		_, _ = os.Stdout.Write(outputs[n].Bytes())
	}

	if err != nil {
		log.Fatal(err)
	}
}

// terminalWidth returns the width of stdout, or 80 if not a terminal.
func terminalWidth() (width int) {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return
}

// runFile assembles and runs a single source file, writing its report to w.
func runFile(path string, w io.Writer, opt *options) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%v: %w", path, err)
		}
	}()

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = opt.verbose
	emu.MaxTicks = opt.ticks
	maps.Copy(emu.Define, opt.define)

	err = emu.Assemble(inf)
	if err != nil {
		return
	}

	if opt.listing {
		err = emu.Program.Listing(w)
		if err != nil {
			return
		}
	}

	err = emu.Run()
	if err != nil {
		return
	}

	return report(w, path, emu, opt)
}

// report writes the final CPU state, requested labels, and memory.
func report(w io.Writer, path string, emu *emulator.Emulator, opt *options) (err error) {
	_, err = fmt.Fprintf(w, "%v: halted after %v ticks\n%v", path, emu.Ticks(), emu.Cpu.String())
	if err != nil {
		return
	}

	for _, name := range opt.peek {
		var value uint32
		value, err = emu.Peek(name, opt.wide)
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%v: %v\n", name, value)
		if err != nil {
			return
		}
	}

	if opt.hexdump {
		err = Hexdump(w, emu.Cpu.Memory[:], opt.width)
	}

	return
}
