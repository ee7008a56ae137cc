package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/guitardave/dcpu16/cpu"
)

// defines accumulates repeated -D name=value flags.
type defines map[string]string

func (d defines) String() string {
	pairs := make([]string, 0, len(d))
	for equ, value := range d {
		pairs = append(pairs, equ+"="+value)
	}
	return strings.Join(pairs, ",")
}

func (d defines) Set(arg string) error {
	equ, value, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", arg)
	}
	d[equ] = value
	return nil
}

func main() {
	var output string
	var listing bool
	var verbose bool
	predefine := defines{}

	flag.StringVar(&output, "o", "-", "Binary image output")
	flag.BoolVar(&listing, "l", false, "Print an assembly listing")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(predefine, "D", "Predefine an equate (name=value)")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected exactly one input file", os.Args[0])
	}
	input := flag.Arg(0)

	inf := os.Stdin
	if input != "-" {
		var err error
		inf, err = os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
	}

	asm := &cpu.Assembler{Verbose: verbose}
	for equ, value := range predefine {
		asm.Predefine(equ, value)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	if listing {
		for offset, code := range prog.Codes() {
			words := fmt.Sprintf("%04x", code.Word)
			for _, extra := range code.Extra {
				words += fmt.Sprintf(" %04x", extra)
			}
			fmt.Fprintf(os.Stderr, "%04x: %-16s %v\n", offset, words, code)
		}
	}

	ouf := os.Stdout
	if output != "-" {
		ouf, err = os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
	}

	if _, err = ouf.Write(prog.Binary()); err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}
